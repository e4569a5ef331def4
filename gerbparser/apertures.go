// Copyright 2018 Vasily Turchenko <turchenkov@gmail.com>. All rights reserved.
// Use of this source code is free

package gerbparser

import (
	"math"
	"strconv"
	"strings"

	"github.com/piperpilot/DRCBotV2/diag"
	. "github.com/piperpilot/DRCBotV2/gerberbasetypes"
	"github.com/piperpilot/DRCBotV2/gerberlexer"
	"github.com/piperpilot/DRCBotV2/xy"
)

// minimal number of arguments of the standard apertures
var minApertureArgs = map[byte]int{
	'C': 1,
	'R': 2,
	'O': 2,
	'P': 2,
}

// handleAD interprets an aperture definition, e.g. "ADD10C,0.5" or
// "ADD11THERMAL,0.8X0.5".
func (p *parser) handleAD(b gerberlexer.Block) error {
	src := b.Text
	if len(src) < 3 || src[2] != 'D' {
		diag.Warn(p.rep, diag.BadApertureDefine, b.Offset, "aperture define without D code ignored: "+strconv.Quote(src))
		return nil
	}
	code, n := xy.ParseInt(src[3:])
	if n == 0 {
		return diag.NewError(diag.BadApertureCode, b.Offset, "zero length D code in "+strconv.Quote(src))
	}
	if err := p.model.Apertures.check(code, b.Offset); err != nil {
		return err
	}

	typeToken, argString, hasArgs := strings.Cut(src[3+n:], ",")
	var args []string
	if hasArgs {
		args = strings.Split(argString, "X")
	}

	apert := &Aperture{Code: code, SourceString: src, Offset: b.Offset}
	if len(typeToken) == 1 && strings.Contains("CROPT", typeToken) {
		if err := p.standardAperture(apert, typeToken[0], args, b.Offset); err != nil {
			return err
		}
	} else {
		params, err := parseApertureArgs(args, b.Offset)
		if err != nil {
			return err
		}
		apert.Type = AptypeMacro
		apert.MacroName = typeToken
		apert.MacroParams = params
		if m, ok := p.model.Macros.Lookup(typeToken); ok {
			apert.Macro = m
		} else {
			diag.Warn(p.rep, diag.MacroUnresolved, b.Offset,
				"aperture D"+strconv.Itoa(code)+" refers to macro "+strconv.Quote(typeToken)+" before its definition")
		}
	}
	if err := p.model.Apertures.Define(apert); err != nil {
		return err
	}
	Logger().Debug("aperture defined", "code", code, "type", apert.Type.String())
	return nil
}

func (p *parser) standardAperture(apert *Aperture, kind byte, args []string, offset int) error {
	if kind == 'T' {
		return diag.NewError(diag.ApertureUnsupported, offset, "thermal (T) standard aperture is not supported")
	}
	vals, err := parseApertureArgs(args, offset)
	if err != nil {
		return err
	}
	if len(vals) < minApertureArgs[kind] {
		return diag.Errorf(diag.ApertureArgs, offset, "%c aperture needs at least %d arguments, got %d",
			kind, minApertureArgs[kind], len(vals))
	}
	// optional arguments are zero when absent
	opt := func(i int) float64 {
		if i < len(vals) {
			return vals[i]
		}
		return 0
	}
	switch kind {
	case 'C':
		apert.Type = AptypeCircle
		apert.Diameter = vals[0]
		apert.HoleX, apert.HoleY = opt(1), opt(2)
	case 'R', 'O':
		apert.Type = AptypeRectangle
		if kind == 'O' {
			apert.Type = AptypeObround
		}
		apert.XSize, apert.YSize = vals[0], vals[1]
		apert.HoleX, apert.HoleY = opt(2), opt(3)
	case 'P':
		apert.Type = AptypePoly
		apert.Diameter = vals[0]
		apert.Vertices = int(vals[1])
		apert.RotAngle = opt(2)
		apert.HoleX, apert.HoleY = opt(3), opt(4)
	}
	return nil
}

// parseApertureArgs converts the 'X' separated arguments, they are plain
// finite decimal numbers.
func parseApertureArgs(args []string, offset int) ([]float64, error) {
	vals := make([]float64, 0, len(args))
	for i, a := range args {
		s := strings.TrimSpace(a)
		if strings.ContainsAny(s, "xXpP_") {
			return nil, diag.Errorf(diag.ApertureArgs, offset, "aperture argument %d %q is not a decimal number", i+1, a)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, diag.Errorf(diag.ApertureArgs, offset, "aperture argument %d %q is not a number", i+1, a)
		}
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, diag.Errorf(diag.ApertureArgs, offset, "aperture argument %d %q is not finite", i+1, a)
		}
		vals = append(vals, v)
	}
	return vals, nil
}
