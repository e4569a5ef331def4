// Copyright 2018 Vasily Turchenko <turchenkov@gmail.com>. All rights reserved.
// Use of this source code is free

// Base types for Gerber parsing and processing
package gerberbasetypes

// Aperture codes below MinApertureCode are reserved for D01..D03 and friends.
const (
	MinApertureCode     = 10
	DefaultMaxApertures = 1000
)

type ApertureType int

const (
	AptypeCircle ApertureType = iota + 1
	AptypeRectangle
	AptypeObround
	AptypePoly
	AptypeMacro
)

func (at ApertureType) String() string {
	switch at {
	case AptypeCircle:
		return "circle aperture"
	case AptypeRectangle:
		return "rectangle aperture"
	case AptypeObround:
		return "obround (oval) aperture"
	case AptypePoly:
		return "polygon aperture"
	case AptypeMacro:
		return "macro aperture"
	default:
	}
	return "Unknown aperture type"
}

// ZeroSuppression tells which zeroes are omitted from coordinate numerals.
type ZeroSuppression int

const (
	OmitLeading ZeroSuppression = iota + 1
	OmitTrailing
)

func (z ZeroSuppression) String() string {
	switch z {
	case OmitLeading:
		return "omit leading zeroes"
	case OmitTrailing:
		return "omit trailing zeroes"
	default:
	}
	return "Unknown zero suppression"
}

type CoordMode int

const (
	CoordAbsolute CoordMode = iota + 1
	CoordIncremental
)

func (c CoordMode) String() string {
	switch c {
	case CoordAbsolute:
		return "absolute"
	case CoordIncremental:
		return "incremental"
	default:
	}
	return "Unknown coordinate mode"
}

type UnitMode int

const (
	UnitMM UnitMode = iota + 1
	UnitInch
)

func (u UnitMode) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitInch:
		return "inch"
	default:
	}
	return "Unknown unit"
}

// Op tags a node of the command stream.
type Op int

const (
	OpG Op = iota + 1
	OpD
	OpM
	OpX
	OpY
	OpI
	OpJ
	OpUnitMode
	OpEndOfBlock
)

func (op Op) String() string {
	switch op {
	case OpG:
		return "G"
	case OpD:
		return "D"
	case OpM:
		return "M"
	case OpX:
		return "X"
	case OpY:
		return "Y"
	case OpI:
		return "I"
	case OpJ:
		return "J"
	case OpUnitMode:
		return "MO"
	case OpEndOfBlock:
		return "EOB"
	default:
	}
	return "Unknown op"
}

// IsCoord reports whether the op carries a coordinate value.
func (op Op) IsCoord() bool {
	return op == OpX || op == OpY || op == OpI || op == OpJ
}

// IsCode reports whether the op carries an integer G, D or M code.
func (op Op) IsCode() bool {
	return op == OpG || op == OpD || op == OpM
}

type PolType int

const (
	PolTypeDark PolType = iota + 1
	PolTypeClear
)

func (p PolType) String() string {
	switch p {
	case PolTypeDark:
		return "Polarity: dark"
	case PolTypeClear:
		return "Polarity: clear"
	default:
	}
	return "Unknown polarity"
}
