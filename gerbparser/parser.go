// Copyright 2018 Vasily Turchenko <turchenkov@gmail.com>. All rights reserved.
// Use of this source code is free

/*
Package gerbparser compiles a Gerber RS-274X file held in memory into a
Model: the format specification, image parameters, aperture and macro
tables and the ordered command stream.

The parser does no I/O and never prints. Hard errors abort the parse and
are returned as diag.Diagnostic values; tolerated quirks end up in
Model.Diagnostics and in the optional Reporter.
*/
package gerbparser

import (
	"fmt"

	"github.com/piperpilot/DRCBotV2/diag"
	. "github.com/piperpilot/DRCBotV2/gerberbasetypes"
)

const defaultMaxDiagnostics = 1000

type options struct {
	compiler       MacroCompiler
	maxApertures   int
	maxDiagnostics int
	reporter       diag.Reporter
	strictMacros   bool
}

type Option func(*options)

// WithMacroCompiler sets the compiler for AM parameters. The default keeps
// the macro source uncompiled (RawCompiler).
func WithMacroCompiler(c MacroCompiler) Option {
	return func(o *options) {
		if c != nil {
			o.compiler = c
		}
	}
}

// WithMaxApertures sets the exclusive upper bound of aperture codes.
func WithMaxApertures(n int) Option {
	return func(o *options) { o.maxApertures = n }
}

func WithMaxDiagnostics(n int) Option {
	return func(o *options) { o.maxDiagnostics = n }
}

// WithReporter receives every non-fatal diagnostic as it is produced,
// in addition to Model.Diagnostics.
func WithReporter(r diag.Reporter) Option {
	return func(o *options) { o.reporter = r }
}

// WithStrictMacros makes a macro aperture whose macro is still unknown at
// the end of the file a hard error.
func WithStrictMacros(strict bool) Option {
	return func(o *options) { o.strictMacros = strict }
}

type parser struct {
	buf   []byte
	pos   int
	model *Model
	opts  options
	rep   diag.Reporter
}

// Parse compiles buf. buf is only read, and only during the call.
func Parse(buf []byte, opts ...Option) (*Model, error) {
	o := options{
		compiler:       RawCompiler{},
		maxApertures:   DefaultMaxApertures,
		maxDiagnostics: defaultMaxDiagnostics,
	}
	for _, opt := range opts {
		opt(&o)
	}
	p := &parser{
		buf:   buf,
		model: newModel(o.maxApertures, o.maxDiagnostics),
		opts:  o,
	}
	p.rep = diag.MultiReporter{diag.BagReporter{Bag: p.model.Diagnostics}, o.reporter}

	if err := p.run(); err != nil {
		return nil, err
	}
	if err := p.resolveMacros(); err != nil {
		return nil, err
	}
	Logger().Info("gerber file parsed",
		"bytes", len(buf),
		"commands", p.model.Commands.Len(),
		"apertures", p.model.Apertures.Len(),
		"macros", p.model.Macros.Len(),
		"diagnostics", p.model.Diagnostics.Len())
	return p.model, nil
}

// run is the file level driver. It stops at the first hard error.
func (p *parser) run() error {
	for p.pos < len(p.buf) {
		var err error
		switch p.buf[p.pos] {
		case '\n', '\r', ' ', '\t':
			p.pos++
			continue
		case '%':
			err = p.parseParams()
		default:
			err = p.parseCommandWord()
		}
		if err != nil {
			return err
		}
	}
	if p.pos != len(p.buf) {
		return diag.Errorf(diag.CursorMismatch, p.pos, "parse stopped at %d, buffer ends at %d", p.pos, len(p.buf))
	}
	return nil
}

// resolveMacros binds macro apertures defined before their macro.
func (p *parser) resolveMacros() error {
	for _, code := range p.model.Apertures.Codes() {
		apert, _ := p.model.Apertures.Get(code)
		if apert.Type != AptypeMacro || apert.Macro != nil {
			continue
		}
		if m, ok := p.model.Macros.Lookup(apert.MacroName); ok {
			apert.Macro = m
			Logger().Debug("forward macro reference resolved", "code", code, "macro", apert.MacroName)
			continue
		}
		msg := fmt.Sprintf("aperture D%d refers to macro %q which is never defined", code, apert.MacroName)
		if p.opts.strictMacros {
			return diag.NewError(diag.MacroUnresolved, apert.Offset, msg)
		}
		diag.Warn(p.rep, diag.MacroUnresolved, apert.Offset, msg)
	}
	return nil
}
