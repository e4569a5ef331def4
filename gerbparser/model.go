// Copyright 2018 Vasily Turchenko <turchenkov@gmail.com>. All rights reserved.
// Use of this source code is free

package gerbparser

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/piperpilot/DRCBotV2/diag"
	. "github.com/piperpilot/DRCBotV2/gerberbasetypes"
	"github.com/piperpilot/DRCBotV2/gerberlexer"
	"github.com/piperpilot/DRCBotV2/xy"
)

/*
############################ image parameters #####################
*/

// ImageParam records that an image parameter directive was seen.
// Its content is kept verbatim and never interpreted.
type ImageParam struct {
	Set bool
	Raw string
}

// Value returns the raw directive, or def if it was never set.
func (ip ImageParam) Value(def string) string {
	if ip.Set {
		return ip.Raw
	}
	return def
}

// standard defaults
const (
	DefaultImagePolarity = "IPPOS"
	DefaultJustification = "IJALBL"
	DefaultImageOffset   = "IOA0B0"
	DefaultImageRotation = "IR0"
)

type ImageParams struct {
	Polarity      ImageParam // IP
	Justification ImageParam // IJ
	Name          ImageParam // IN
	Offset        ImageParam // IO
	Rotation      ImageParam // IR
	Film          ImageParam // PF
}

func (ip *ImageParams) record(key gerberlexer.ParamKey, raw string) {
	var dst *ImageParam
	switch key {
	case gerberlexer.ParamIP:
		dst = &ip.Polarity
	case gerberlexer.ParamIJ:
		dst = &ip.Justification
	case gerberlexer.ParamIN:
		dst = &ip.Name
	case gerberlexer.ParamIO:
		dst = &ip.Offset
	case gerberlexer.ParamIR:
		dst = &ip.Rotation
	case gerberlexer.ParamPF:
		dst = &ip.Film
	default:
		return
	}
	*dst = ImageParam{Set: true, Raw: raw}
}

/*
############################ apertures #####################
*/

type Aperture struct {
	Code         int
	Type         ApertureType
	SourceString string
	Offset       int
	Diameter     float64 // circle diameter, polygon outer diameter
	XSize        float64
	YSize        float64
	HoleX        float64
	HoleY        float64
	Vertices     int
	RotAngle     float64
	MacroName    string
	MacroParams  []float64
	// Macro stays nil until the macro named MacroName is known.
	Macro CompiledMacro
}

func (apert *Aperture) String() string {
	s := "D" + strconv.Itoa(apert.Code) + " " + apert.Type.String()
	switch apert.Type {
	case AptypeCircle:
		s += fmt.Sprintf(" D=%g", apert.Diameter)
	case AptypeRectangle, AptypeObround:
		s += fmt.Sprintf(" %gx%g", apert.XSize, apert.YSize)
	case AptypePoly:
		s += fmt.Sprintf(" OD=%g N=%d R=%g", apert.Diameter, apert.Vertices, apert.RotAngle)
	case AptypeMacro:
		s += " " + apert.MacroName + fmt.Sprint(apert.MacroParams)
		if apert.Macro == nil {
			s += " (unresolved)"
		}
		return s
	}
	if apert.HoleX != 0 || apert.HoleY != 0 {
		s += fmt.Sprintf(" hole %gx%g", apert.HoleX, apert.HoleY)
	}
	return s
}

// ApertureTable maps D codes in [MinApertureCode, max) to apertures.
type ApertureTable struct {
	max   int
	items map[int]*Aperture
}

func NewApertureTable(max int) *ApertureTable {
	if max <= MinApertureCode {
		max = DefaultMaxApertures
	}
	return &ApertureTable{max: max, items: make(map[int]*Aperture)}
}

func (t *ApertureTable) Max() int {
	return t.max
}

// check validates code for a new definition at offset.
func (t *ApertureTable) check(code, offset int) error {
	if code < MinApertureCode || code >= t.max {
		return diag.Errorf(diag.BadApertureCode, offset, "invalid D code %d, must be in [%d, %d)", code, MinApertureCode, t.max)
	}
	if _, ok := t.items[code]; ok {
		return diag.Errorf(diag.ApertureRedefined, offset, "attempted to redefine aperture D%d", code)
	}
	return nil
}

// Define stores apert; out of range codes and redefinitions are rejected.
func (t *ApertureTable) Define(apert *Aperture) error {
	if err := t.check(apert.Code, apert.Offset); err != nil {
		return err
	}
	t.items[apert.Code] = apert
	return nil
}

func (t *ApertureTable) Get(code int) (*Aperture, bool) {
	apert, ok := t.items[code]
	return apert, ok
}

func (t *ApertureTable) Len() int {
	return len(t.items)
}

// Codes returns the defined codes in ascending order.
func (t *ApertureTable) Codes() []int {
	codes := make([]int, 0, len(t.items))
	for code := range t.items {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

/*
############################ macros #####################
*/

// CompiledMacro is the handle produced by a MacroCompiler.
type CompiledMacro interface {
	MacroName() string
}

// MacroCompiler turns the statements of an AM parameter into a CompiledMacro.
type MacroCompiler interface {
	Compile(name string, lines []string) (CompiledMacro, error)
}

// RawMacro keeps the macro source as is. It is what the default compiler
// produces.
type RawMacro struct {
	Name  string
	Lines []string
}

func (m *RawMacro) MacroName() string {
	return m.Name
}

type RawCompiler struct{}

func (RawCompiler) Compile(name string, lines []string) (CompiledMacro, error) {
	return &RawMacro{Name: name, Lines: slices.Clone(lines)}, nil
}

// MacroTable maps macro names, case-sensitive, to compiled macros.
type MacroTable struct {
	items map[string]CompiledMacro
}

func NewMacroTable() *MacroTable {
	return &MacroTable{items: make(map[string]CompiledMacro)}
}

func (t *MacroTable) Lookup(name string) (CompiledMacro, bool) {
	m, ok := t.items[name]
	return m, ok
}

// Store adds m under name and reports whether an older macro was replaced.
func (t *MacroTable) Store(name string, m CompiledMacro) bool {
	_, replaced := t.items[name]
	t.items[name] = m
	return replaced
}

func (t *MacroTable) Len() int {
	return len(t.items)
}

func (t *MacroTable) Names() []string {
	names := make([]string, 0, len(t.items))
	for name := range t.items {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

/*
############################ command stream #####################
*/

// CommandNode is one instruction of the command stream. Code is set for
// G, D and M, Value for X, Y, I and J, Unit for OpUnitMode.
type CommandNode struct {
	Op     Op
	Code   int32
	Value  float64
	Unit   UnitMode
	Offset int
}

func (n CommandNode) String() string {
	switch {
	case n.Op.IsCode():
		return n.Op.String() + strconv.Itoa(int(n.Code))
	case n.Op.IsCoord():
		return n.Op.String() + strconv.FormatFloat(n.Value, 'f', -1, 64)
	case n.Op == OpUnitMode:
		return n.Op.String() + " " + n.Unit.String()
	}
	return n.Op.String()
}

// CommandStream is the append-only, ordered sequence of command nodes.
type CommandStream struct {
	nodes []CommandNode
}

func NewCommandStream() *CommandStream {
	return &CommandStream{nodes: make([]CommandNode, 0, 256)}
}

func (cs *CommandStream) Append(n CommandNode) {
	cs.nodes = append(cs.nodes, n)
}

func (cs *CommandStream) Len() int {
	return len(cs.nodes)
}

func (cs *CommandStream) At(i int) CommandNode {
	return cs.nodes[i]
}

// Nodes returns the stream as a slice. Do not modify it.
func (cs *CommandStream) Nodes() []CommandNode {
	return cs.nodes
}

/*
############################ the model #####################
*/

// Model is everything a Gerber file compiles to.
type Model struct {
	Format    *xy.FormatSpec
	Image     ImageParams
	Apertures *ApertureTable
	Macros    *MacroTable
	Commands  *CommandStream
	// Unit is the last unit selected by MO, valid if UnitSet.
	Unit    UnitMode
	UnitSet bool
	// Polarity is the last LP seen, dark by default.
	Polarity    PolType
	Diagnostics *diag.Bag
}

func newModel(maxApertures, maxDiagnostics int) *Model {
	return &Model{
		Format:      xy.NewFormatSpec(),
		Apertures:   NewApertureTable(maxApertures),
		Macros:      NewMacroTable(),
		Commands:    NewCommandStream(),
		Polarity:    PolTypeDark,
		Diagnostics: diag.NewBag(maxDiagnostics),
	}
}

// MacroFor returns the compiled macro of macro aperture code.
func (m *Model) MacroFor(code int) (CompiledMacro, error) {
	apert, ok := m.Apertures.Get(code)
	if !ok {
		return nil, diag.Errorf(diag.BadApertureCode, -1, "aperture D%d is not defined", code)
	}
	if apert.Type != AptypeMacro {
		return nil, diag.Errorf(diag.BadApertureCode, apert.Offset, "aperture D%d is a %s, not a macro", code, apert.Type)
	}
	if apert.Macro == nil {
		return nil, diag.Errorf(diag.MacroUnresolved, apert.Offset, "aperture D%d refers to undefined macro %q", code, apert.MacroName)
	}
	return apert.Macro, nil
}
