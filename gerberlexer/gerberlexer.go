// Copyright 2018 Vasily Turchenko <turchenkov@gmail.com>. All rights reserved.
// Use of this source code is free

/*
Package gerberlexer splits a Gerber RS-274X byte stream into blocks.

	FS Format specification. Sets the coordinate format, e.g. the number of decimals.
	MO Mode. Sets the unit to inch or mm.
	AD Aperture define. Defines a template based aperture and assigns a D code to it.
	AM Aperture macro. Defines a macro aperture template.
	LP Load polarity.
	IJ IN IO IP IR PF Image parameters. Recorded, never interpreted.

Everything else is a command word block terminated by '*'.
*/
package gerberlexer

import (
	"bytes"
	"strings"
)

type Delim byte

const (
	DataBlockTrailer Delim = '*'
	ExtCmdDelimiter  Delim = '%'
)

func (d Delim) String() string {
	switch d {
	case DataBlockTrailer:
		return "DBEND"
	case ExtCmdDelimiter:
		return "EXTCMD"
	default:
		return string(d)
	}
}

/*
############################ extended parameters #####################
*/

// ParamKey is the two letter key of an extended parameter block.
type ParamKey byte

const (
	ParamUnknown ParamKey = iota
	ParamIJ
	ParamIN
	ParamIO
	ParamIP
	ParamIR
	ParamPF
	ParamFS
	ParamMO
	ParamAD
	ParamAM
	ParamLP
)

var paramNames = [...]string{
	ParamUnknown: "??",
	ParamIJ:      "IJ",
	ParamIN:      "IN",
	ParamIO:      "IO",
	ParamIP:      "IP",
	ParamIR:      "IR",
	ParamPF:      "PF",
	ParamFS:      "FS",
	ParamMO:      "MO",
	ParamAD:      "AD",
	ParamAM:      "AM",
	ParamLP:      "LP",
}

func (k ParamKey) String() string {
	if int(k) < len(paramNames) {
		return paramNames[k]
	}
	return paramNames[ParamUnknown]
}

// IsImageParam reports whether k is one of the image parameters
// that are recorded without interpretation.
func (k ParamKey) IsImageParam() bool {
	return k >= ParamIJ && k <= ParamPF
}

// LookupParam returns the key the block starts with, ParamUnknown if the
// block is shorter than two characters or the key is not supported.
func LookupParam(block string) ParamKey {
	if len(block) < 2 {
		return ParamUnknown
	}
	key := block[:2]
	for k := ParamIJ; int(k) < len(paramNames); k++ {
		if paramNames[k] == key {
			return k
		}
	}
	return ParamUnknown
}

// FindParamRegion looks for the '%' closing the region opened at buf[start].
// It returns the index of the closing delimiter.
func FindParamRegion(buf []byte, start int) (int, bool) {
	if start < 0 || start >= len(buf) || buf[start] != byte(ExtCmdDelimiter) {
		return start, false
	}
	end := bytes.IndexByte(buf[start+1:], byte(ExtCmdDelimiter))
	if end < 0 {
		return len(buf), false
	}
	return start + 1 + end, true
}

// Block is a piece of the source together with the offset of its first byte.
type Block struct {
	Offset int
	Text   string
}

// SplitParamBlocks splits the body of a parameter region (the text between
// the two '%') on '*'. base is the offset of region[0] in the file.
//
// Whitespace before the first sub-block and after every '*' is skipped.
// A region without '*' is a single sub-block, a non-blank remainder after
// the last '*' is one more. Blank sub-blocks ("**") are kept in place.
func SplitParamBlocks(region string, base int) []Block {
	retVal := make([]Block, 0, strings.Count(region, string(DataBlockTrailer))+1)
	a := skipSpace(region, 0)
	if strings.IndexByte(region, byte(DataBlockTrailer)) < 0 {
		return append(retVal, Block{base + a, strings.TrimRight(region[a:], spaces)})
	}
	for a < len(region) {
		end := strings.IndexByte(region[a:], byte(DataBlockTrailer))
		if end < 0 {
			rest := strings.TrimRight(region[a:], spaces)
			if len(rest) > 0 {
				retVal = append(retVal, Block{base + a, rest})
			}
			break
		}
		retVal = append(retVal, Block{base + a, region[a : a+end]})
		a = skipSpace(region, a+end+1)
	}
	return retVal
}

// SplitParams is SplitParamBlocks without offsets.
func SplitParams(region string) []string {
	blocks := SplitParamBlocks(region, 0)
	retVal := make([]string, len(blocks))
	for i := range blocks {
		retVal[i] = blocks[i].Text
	}
	return retVal
}

const spaces = " \t\r\n\v\f"

func skipSpace(s string, i int) int {
	for i < len(s) && strings.IndexByte(spaces, s[i]) >= 0 {
		i++
	}
	return i
}

/*
############################ whole file #####################
*/

// SplitFile cuts buf into '%...%' regions and '*' terminated command blocks:
//
//  1. if we met '%', all the bytes until next '%' stay unchanged,
//     leading and trailing '%' are included in the block
//  2. whitespace between blocks is dropped
//  3. each stream of bytes with trailing '*' is a separate block
//
// CR and LF are removed from the block text. An unterminated tail is
// returned as is.
func SplitFile(buf []byte) []Block {
	retVal := make([]Block, 0, bytes.Count(buf, []byte{byte(DataBlockTrailer)}))
	a := 0
	b := len(buf)
	for a < b {
		var trailer byte
		switch c := buf[a]; {
		case c == byte(ExtCmdDelimiter):
			trailer = byte(ExtCmdDelimiter)
		case isSpace(c):
			a++
			continue
		case c == byte(DataBlockTrailer):
			// stray trailer
			a++
			continue
		default:
			trailer = byte(DataBlockTrailer)
		}
		start := a
		end := bytes.IndexByte(buf[a+1:], trailer)
		if end < 0 {
			a = b
		} else {
			a = a + 1 + end + 1
		}
		retVal = append(retVal, Block{start, FilterNewLines(string(buf[start:a]))})
	}
	return retVal
}

func isSpace(c byte) bool {
	return strings.IndexByte(spaces, c) >= 0
}

// FilterNewLines filters \n \r symbols from the string
func FilterNewLines(inString string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(inString)
}
