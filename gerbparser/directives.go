// Copyright 2018 Vasily Turchenko <turchenkov@gmail.com>. All rights reserved.
// Use of this source code is free

package gerbparser

import (
	"fmt"
	"strconv"

	"github.com/piperpilot/DRCBotV2/diag"
	. "github.com/piperpilot/DRCBotV2/gerberbasetypes"
	"github.com/piperpilot/DRCBotV2/gerberlexer"
)

// handleMO selects the unit, "MOMM" or "MOIN", and records it in the
// command stream.
func (p *parser) handleMO(b gerberlexer.Block) error {
	var unit UnitMode
	mode := ""
	if len(b.Text) >= 4 {
		mode = b.Text[2:4]
	}
	switch mode {
	case "MM":
		unit = UnitMM
	case "IN":
		unit = UnitInch
	default:
		return diag.NewError(diag.BadUnitMode, b.Offset, "invalid unit mode "+strconv.Quote(b.Text))
	}
	p.model.Commands.Append(CommandNode{Op: OpUnitMode, Unit: unit, Offset: b.Offset})
	p.model.Unit = unit
	p.model.UnitSet = true
	return nil
}

// handleLP records the layer polarity. Clear polarity is accepted but has
// no effect on the command stream. A block without polarity leaves it as is.
func (p *parser) handleLP(b gerberlexer.Block) {
	switch b.Text[2:] {
	case "":
		diag.Warn(p.rep, diag.MissingPolarity, b.Offset, "layer polarity block without polarity")
		return
	case "D":
		p.model.Polarity = PolTypeDark
		return
	case "C":
		p.model.Polarity = PolTypeClear
	}
	diag.Info(p.rep, diag.ClearPolarity, b.Offset, "layer polarity "+strconv.Quote(b.Text[2:])+" has no effect")
}

// handleAM compiles the macro whose name is in blocks[0]; every following
// block of the region is one statement.
func (p *parser) handleAM(blocks []gerberlexer.Block) error {
	head := blocks[0]
	name := head.Text[2:]
	if len(name) == 0 {
		return diag.NewError(diag.MacroCompile, head.Offset, "aperture macro without a name")
	}
	lines := make([]string, 0, len(blocks)-1)
	for _, b := range blocks[1:] {
		lines = append(lines, b.Text)
	}
	m, err := p.opts.compiler.Compile(name, lines)
	if err != nil {
		return fmt.Errorf("%w: %w", diag.Errorf(diag.MacroCompile, head.Offset, "aperture macro %q", name), err)
	}
	if p.model.Macros.Store(name, m) {
		diag.Warn(p.rep, diag.MacroRedefined, head.Offset, "aperture macro "+strconv.Quote(name)+" redefined")
	}
	Logger().Debug("aperture macro stored", "name", name, "statements", len(lines))
	return nil
}
