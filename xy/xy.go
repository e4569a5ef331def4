// Copyright 2018 Vasily Turchenko <turchenkov@gmail.com>. All rights reserved.
// Use of this source code is free

/*
Package xy holds the numeric format of a Gerber file and decodes the
fixed-width coordinate numerals of command blocks.
*/
package xy

import (
	"math"
	"strconv"

	"github.com/piperpilot/DRCBotV2/diag"
	. "github.com/piperpilot/DRCBotV2/gerberbasetypes"
)

/*
############################ format specification #####################
*/

// Axis selects which lead/trail pair a numeral is decoded with.
type Axis byte

const (
	AxisX Axis = 'X'
	AxisY Axis = 'Y'
)

// FormatSpec is the parse configuration set by the %FS% directive.
type FormatSpec struct {
	Suppression ZeroSuppression
	Mode        CoordMode
	NWidth      int
	GWidth      int
	DWidth      int
	MWidth      int
	XLead       int // digits in the integer part
	XTrail      int // digits in the fractional part
	YLead       int
	YTrail      int
	// Configured is set once a FS directive was parsed successfully.
	Configured bool
}

// NewFormatSpec returns the format the standard assumes before any FS.
func NewFormatSpec() *FormatSpec {
	return &FormatSpec{
		Suppression: OmitLeading,
		Mode:        CoordAbsolute,
		NWidth:      2,
		GWidth:      2,
		DWidth:      3,
		MWidth:      2,
		XLead:       2,
		XTrail:      3,
		YLead:       2,
		YTrail:      3,
	}
}

// Digits returns lead and trail digit counts of the axis.
func (fs *FormatSpec) Digits(axis Axis) (lead, trail int) {
	if axis == AxisY {
		return fs.YLead, fs.YTrail
	}
	return fs.XLead, fs.XTrail
}

func (fs *FormatSpec) String() string {
	return "FS " + fs.Suppression.String() + ", " + fs.Mode.String() +
		", X" + strconv.Itoa(fs.XLead) + strconv.Itoa(fs.XTrail) +
		" Y" + strconv.Itoa(fs.YLead) + strconv.Itoa(fs.YTrail)
}

// Init applies one FS parameter block, e.g. "FSLAX25Y25".
// The block is consumed left to right:
//
//	FS <L|T> <A|I> [N<int>] [G<int>] [X<lead><trail>] [Y<lead><trail>] [D<int>] [M<int>]
//
// An unknown A/I selector is reported to r and parsing goes on; every other
// problem is a hard error and leaves Configured untouched.
func (fs *FormatSpec) Init(block string, offset int, r diag.Reporter) error {
	if len(block) < 2 || block[:2] != "FS" {
		return diag.NewError(diag.BadZeroSuppression, offset, "not a FS block: "+strconv.Quote(block))
	}
	i := 2
	switch at(block, i) {
	case 'L':
		fs.Suppression = OmitLeading
	case 'T':
		fs.Suppression = OmitTrailing
	default:
		return diag.Errorf(diag.BadZeroSuppression, offset+i, "unrecognized lead/trail selector %q in FS", at(block, i))
	}
	i++

	switch at(block, i) {
	case 'A':
		fs.Mode = CoordAbsolute
	case 'I':
		fs.Mode = CoordIncremental
	default:
		diag.Warn(r, diag.BadCoordMode, offset+i, "unrecognized ABS/INC selector "+strconv.QuoteRune(rune(at(block, i)))+" in FS")
	}
	i++

	var err error
	if i, err = fs.width(block, i, 'N', &fs.NWidth, offset); err != nil {
		return err
	}
	if i, err = fs.width(block, i, 'G', &fs.GWidth, offset); err != nil {
		return err
	}
	if i, err = digitPair(block, i, 'X', &fs.XLead, &fs.XTrail, offset); err != nil {
		return err
	}
	if i, err = digitPair(block, i, 'Y', &fs.YLead, &fs.YTrail, offset); err != nil {
		return err
	}
	if i, err = fs.width(block, i, 'D', &fs.DWidth, offset); err != nil {
		return err
	}
	if _, err = fs.width(block, i, 'M', &fs.MWidth, offset); err != nil {
		return err
	}

	fs.Configured = true
	return nil
}

// width parses an optional <letter><int> specifier.
func (fs *FormatSpec) width(block string, i int, letter byte, dst *int, offset int) (int, error) {
	if at(block, i) != letter {
		return i, nil
	}
	i++
	val, n := ParseInt(block[i:])
	if n == 0 {
		return i, diag.Errorf(diag.BadFormatWidth, offset+i, "could not parse %c width in FS", letter)
	}
	*dst = val
	return i + n, nil
}

// digitPair parses an optional <letter><lead digit><trail digit> specifier.
func digitPair(block string, i int, letter byte, lead, trail *int, offset int) (int, error) {
	if at(block, i) != letter {
		return i, nil
	}
	i++
	for k, dst := range []*int{lead, trail} {
		c := at(block, i)
		if c < '0' || c > '6' {
			part := "lead"
			if k == 1 {
				part = "trail"
			}
			return i, diag.Errorf(diag.BadFormatDigits, offset+i, "invalid %c %s specifier %q in FS", letter, part, c)
		}
		*dst = int(c - '0')
		i++
	}
	return i, nil
}

// at returns the byte at i or 0 past the end of s.
func at(s string, i int) byte {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

// ParseInt reads a base-10 integer from the start of s the way strtol does:
// leading blanks, an optional sign, then digits. n is the number of bytes
// consumed, 0 when no digit was found.
func ParseInt(s string) (val int, n int) {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digits {
		return 0, 0
	}
	v, err := strconv.Atoi(s[start:i])
	if err != nil {
		// out of range: saturate like strtol
		if s[start] == '-' {
			return math.MinInt, i
		}
		return math.MaxInt, i
	}
	return v, i
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

/*
######################### coordinates #########################################
*/

// Coord is a decoded coordinate numeral.
type Coord struct {
	Value float64
	// Digits counts the digits read, callers reject numerals with none.
	Digits int
}

// Decode reads a signed coordinate numeral from the start of src using the
// lead/trail digits of axis. It returns the value and the number of bytes
// consumed (sign, digits and embedded blanks). A sign after the first digit
// is an error.
func (fs *FormatSpec) Decode(src []byte, axis Axis) (Coord, int, error) {
	lead, trail := fs.Digits(axis)

	var (
		neg      bool
		mag      float64
		digits   int
		consumed int
	)
L1:
	for consumed < len(src) {
		c := src[consumed]
		switch {
		case isSpace(c):
		case c >= '0' && c <= '9':
			mag = mag*10 + float64(c-'0')
			digits++
		case c == '+' || c == '-':
			if digits > 0 {
				return Coord{}, consumed, diag.NewError(diag.BadCoordinate, consumed, "sign constant in middle of numeric constant")
			}
			neg = c == '-'
		default:
			break L1
		}
		consumed++
	}

	if fs.Suppression == OmitTrailing {
		// reconstruct the omitted trailing zeroes
		for d := digits; d < lead+trail; d++ {
			mag *= 10
		}
	}
	if neg {
		mag = -mag
	}
	return Coord{Value: mag / math.Pow10(trail), Digits: digits}, consumed, nil
}
