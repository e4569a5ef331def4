// Copyright 2018 Vasily Turchenko <turchenkov@gmail.com>. All rights reserved.
// Use of this source code is free

package gerbparser

import (
	"strconv"
	"strings"

	"github.com/piperpilot/DRCBotV2/diag"
	"github.com/piperpilot/DRCBotV2/gerberlexer"
)

// parseParams handles the %...% region opening at p.pos.
func (p *parser) parseParams() error {
	start := p.pos
	end, ok := gerberlexer.FindParamRegion(p.buf, start)
	if !ok {
		return diag.NewError(diag.UnmatchedPercent, start, "unmatched '%' in extended parameter")
	}
	blocks := gerberlexer.SplitParamBlocks(string(p.buf[start+1:end]), start+1)
	Logger().Debug("parameter region", "offset", start, "blocks", len(blocks))

	for k := 0; k < len(blocks); {
		consumed, err := p.dispatchParam(blocks[k:])
		if err != nil {
			return err
		}
		k += consumed
	}
	p.pos = end + 1
	return nil
}

// dispatchParam interprets blocks[0] and returns how many blocks it used.
func (p *parser) dispatchParam(blocks []gerberlexer.Block) (int, error) {
	b := blocks[0]
	if strings.TrimSpace(b.Text) == "" {
		diag.Info(p.rep, diag.BlankParam, b.Offset, "blank parameter block skipped")
		return 1, nil
	}
	key := gerberlexer.LookupParam(b.Text)
	if key.IsImageParam() {
		p.model.Image.record(key, b.Text)
		diag.Info(p.rep, diag.ImageParamStub, b.Offset, key.String()+" recorded, not interpreted")
		return 1, nil
	}
	switch key {
	case gerberlexer.ParamFS:
		return 1, p.model.Format.Init(b.Text, b.Offset, p.rep)
	case gerberlexer.ParamMO:
		return 1, p.handleMO(b)
	case gerberlexer.ParamAD:
		return 1, p.handleAD(b)
	case gerberlexer.ParamAM:
		return len(blocks), p.handleAM(blocks)
	case gerberlexer.ParamLP:
		p.handleLP(b)
		return 1, nil
	}
	diag.Warn(p.rep, diag.UnknownParam, b.Offset, "unknown parameter "+strconv.Quote(b.Text)+" skipped")
	return 1, nil
}
