// Copyright 2018 Vasily Turchenko <turchenkov@gmail.com>. All rights reserved.
// Use of this source code is free

package gerbparser

import (
	"bytes"
	"errors"
	"strconv"

	"fortio.org/safecast"

	"github.com/piperpilot/DRCBotV2/diag"
	. "github.com/piperpilot/DRCBotV2/gerberbasetypes"
	"github.com/piperpilot/DRCBotV2/gerberlexer"
	"github.com/piperpilot/DRCBotV2/xy"
)

// G codes accepted in command words. G04 and G55 are handled separately.
var validGCodes = map[int]bool{
	0:  true, // move
	1:  true, // linear interpolation
	2:  true, // clockwise circular interpolation
	3:  true, // counterclockwise circular interpolation
	10: true, // linear interpolation 10X
	11: true, // linear interpolation 0.1X
	12: true, // linear interpolation 0.01X
	36: true, // region fill on
	37: true, // region fill off
	54: true, // tool prepare
	70: true, // inches
	71: true, // mm
	74: true, // single quadrant
	75: true, // multi quadrant
	90: true, // absolute
	91: true, // incremental
}

const (
	gComment        = 4
	gPrepareToFlash = 55
)

// parseCommandWord decodes the '*' terminated block at p.pos and moves
// the cursor past the '*'.
func (p *parser) parseCommandWord() error {
	start := p.pos
	end := bytes.IndexByte(p.buf[start:], byte(gerberlexer.DataBlockTrailer))
	if end < 0 {
		return diag.NewError(diag.UnterminatedBlock, start, "command block without trailing '*'")
	}
	if err := p.decodeBlock(p.buf[start:start+end], start); err != nil {
		return err
	}
	p.pos = start + end + 1
	return nil
}

// decodeBlock appends the nodes of one command block. base is the offset
// of block[0].
func (p *parser) decodeBlock(block []byte, base int) error {
	ignored := false
	// every step consumes at least one byte
	guard := len(block) + 1
	i := 0
	for i < len(block) && !ignored {
		if guard == 0 {
			return diag.NewError(diag.ParseHang, base+i, "command block decoding does not advance")
		}
		guard--

		c := block[i]
		switch c {
		case ' ', '\t', '\n', '\r':
			i++
		case 'G', 'D', 'M':
			val, n := xy.ParseInt(string(block[i+1:]))
			if n == 0 {
				return diag.Errorf(diag.MissingCodeValue, base+i, "%c without a code", c)
			}
			code, err := safecast.Conv[int32](val)
			if err != nil {
				return diag.Errorf(diag.CodeOverflow, base+i, "%c code %d out of range", c, val)
			}
			node := CommandNode{Code: code, Offset: base + i}
			i += 1 + n
			switch c {
			case 'G':
				if val == gComment {
					ignored = true
					continue
				}
				if val == gPrepareToFlash {
					continue
				}
				if !validGCodes[val] {
					return diag.Errorf(diag.BadGCode, node.Offset, "G%d is not a valid command", val)
				}
				node.Op = OpG
			case 'D':
				node.Op = OpD
			case 'M':
				node.Op = OpM
			}
			p.model.Commands.Append(node)
		case 'X', 'Y', 'I', 'J':
			axis := xy.AxisX
			op := OpX
			switch c {
			case 'Y':
				axis, op = xy.AxisY, OpY
			case 'I':
				op = OpI
			case 'J':
				axis, op = xy.AxisY, OpJ
			}
			coord, n, err := p.model.Format.Decode(block[i+1:], axis)
			if err != nil {
				var d diag.Diagnostic
				if errors.As(err, &d) {
					return d.At(base + i + 1 + d.Offset)
				}
				return err
			}
			if coord.Digits == 0 {
				return diag.Errorf(diag.BadCoordinate, base+i, "%c without digits", c)
			}
			p.model.Commands.Append(CommandNode{Op: op, Value: coord.Value, Offset: base + i})
			i += 1 + n
		default:
			return diag.NewError(diag.BadCommandChar, base+i,
				"unparseable character "+strconv.QuoteRune(rune(c))+" in command block")
		}
	}
	if !ignored {
		p.model.Commands.Append(CommandNode{Op: OpEndOfBlock, Offset: base + len(block)})
	}
	return nil
}
