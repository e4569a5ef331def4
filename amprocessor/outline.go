// Copyright 2018 Vasily Turchenko <turchenkov@gmail.com>. All rights reserved.
// Use of this source code is free

package amprocessor

import (
	"fmt"
	"math"

	"github.com/akavel/polyclip-go"
	"github.com/go-gl/mathgl/mgl64"
)

// Circle approximations have between minCircleSegments and
// maxCircleSegments vertices whatever the chord.
const (
	minCircleSegments = 8
	maxCircleSegments = 1 << 14
)

// Outline evaluates the macro with params and merges its primitives into
// one polygon. Exposure on adds the primitive, exposure off cuts it out.
// Circles are approximated by segments of at most chord length; chord <= 0
// means radius/20. The vertex count of a circle is capped at
// maxCircleSegments, so a tiny chord only coarsens large circles.
func (am *ApertureMacro) Outline(params []float64, chord float64) (polyclip.Polygon, error) {
	prims, err := am.Evaluate(params)
	if err != nil {
		return nil, err
	}
	retVal := polyclip.Polygon{}
	for i, p := range prims {
		if p.Type == AMPrimitive_Comment {
			continue
		}
		contour, err := p.Contour(chord)
		if err != nil {
			return nil, fmt.Errorf("macro %s: primitive %d: %w", am.Name, i, err)
		}
		if len(contour) == 0 {
			continue
		}
		op := polyclip.UNION
		if !p.Exposure() {
			op = polyclip.DIFFERENCE
		}
		retVal = retVal.Construct(op, polyclip.Polygon{contour})
	}
	return retVal, nil
}

// Exposure reports whether the primitive adds material.
func (p Primitive) Exposure() bool {
	if len(p.Modifiers) == 0 {
		return true
	}
	return p.Modifiers[0] != 0
}

// Contour converts the primitive to a closed contour, rotated about the
// macro origin.
func (p Primitive) Contour(chord float64) (polyclip.Contour, error) {
	m := p.Modifiers
	var (
		contour  polyclip.Contour
		rotation float64
	)
	switch p.Type {
	case AMPrimitive_Circle:
		contour = circleContour(m[2], m[3], m[1]/2, chord)
		if len(m) > 4 {
			rotation = m[4]
		}
	case AMPrimitive_VectLine, AMPrimitive_VectLine2:
		contour = vectLineContour(m[1], m[2], m[3], m[4], m[5])
		rotation = m[6]
	case AMPrimitive_CenterLine:
		w, h, cx, cy := m[1]/2, m[2]/2, m[3], m[4]
		contour = polyclip.Contour{{X: cx - w, Y: cy - h}, {X: cx + w, Y: cy - h}, {X: cx + w, Y: cy + h}, {X: cx - w, Y: cy + h}}
		rotation = m[5]
	case AMPRimitive_OutLine:
		n := int(m[1])
		if n < 1 || len(m) < 5+2*n {
			return nil, fmt.Errorf("%w: outline with %d vertices has %d modifiers", ErrBadPrimitive, n, len(m))
		}
		for k := 0; k < n; k++ {
			contour = append(contour, polyclip.Point{X: m[2+2*k], Y: m[3+2*k]})
		}
		// the last point repeats the first one
		rotation = m[4+2*n]
	case AMPrimitive_Polygon:
		n := int(m[1])
		if n < 3 || n > 12 {
			return nil, fmt.Errorf("%w: polygon with %d vertices", ErrBadPrimitive, n)
		}
		r := m[4] / 2
		for k := 0; k < n; k++ {
			a := 2 * math.Pi * float64(k) / float64(n)
			contour = append(contour, polyclip.Point{X: m[2] + r*math.Cos(a), Y: m[3] + r*math.Sin(a)})
		}
		rotation = m[5]
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, p.Type)
	}
	return rotate(contour, rotation), nil
}

// rotate turns the contour counterclockwise by deg degrees about (0,0).
func rotate(c polyclip.Contour, deg float64) polyclip.Contour {
	if deg == 0 {
		return c
	}
	rot := mgl64.Rotate2D(mgl64.DegToRad(deg))
	for i := range c {
		v := rot.Mul2x1(mgl64.Vec2{c[i].X, c[i].Y})
		c[i] = polyclip.Point{X: v[0], Y: v[1]}
	}
	return c
}

func circleContour(cx, cy, radius, chord float64) polyclip.Contour {
	if radius <= 0 {
		return nil
	}
	if !(chord > 0) {
		chord = radius / 20.0
	}
	n := math.Ceil(2 * math.Pi * radius / chord)
	switch {
	case !(n >= minCircleSegments):
		n = minCircleSegments
	case n > maxCircleSegments:
		n = maxCircleSegments
	}
	segments := int(n)
	retVal := make(polyclip.Contour, 0, segments)
	for k := 0; k < segments; k++ {
		a := 2 * math.Pi * float64(k) / float64(segments)
		retVal = append(retVal, polyclip.Point{X: cx + radius*math.Cos(a), Y: cy + radius*math.Sin(a)})
	}
	return retVal
}

// vectLineContour is the rectangle of width w around the segment (x0,y0)-(x1,y1).
func vectLineContour(w, x0, y0, x1, y1 float64) polyclip.Contour {
	d := mgl64.Vec2{x1 - x0, y1 - y0}
	if d.Len() == 0 {
		return nil
	}
	n := mgl64.Vec2{-d[1], d[0]}.Normalize().Mul(w / 2)
	return polyclip.Contour{
		{X: x0 + n[0], Y: y0 + n[1]},
		{X: x0 - n[0], Y: y0 - n[1]},
		{X: x1 - n[0], Y: y1 - n[1]},
		{X: x1 + n[0], Y: y1 + n[1]},
	}
}
