package gerbparser_test

import (
	"errors"
	"math"
	"testing"

	"github.com/piperpilot/DRCBotV2/amprocessor"
	"github.com/piperpilot/DRCBotV2/diag"
	"github.com/piperpilot/DRCBotV2/gerbparser"
)

const thermalPad = `%FSLAX26Y26*%
%MOMM*%
%AMPAD*
0 rounded pad*
$3=$1x0.5*
21,1,$1,$2,0,0,0*
1,0,$3,0,0*%
%ADD10PAD,1.2X0.8*%
D10*
X1000000Y1000000D03*
M02*
`

func TestParse_CompiledMacro(t *testing.T) {
	m, err := gerbparser.Parse([]byte(thermalPad), gerbparser.WithMacroCompiler(amprocessor.Compiler{}))
	if err != nil {
		t.Fatal(err)
	}
	cm, err := m.MacroFor(10)
	if err != nil {
		t.Fatal(err)
	}
	am, ok := cm.(*amprocessor.ApertureMacro)
	if !ok {
		t.Fatalf("got %T", cm)
	}
	if len(am.Comments) != 1 || len(am.Variables) != 1 || len(am.Primitives) != 2 {
		t.Errorf("got %s", am)
	}
	apert, _ := m.Apertures.Get(10)
	prims, err := am.Evaluate(apert.MacroParams)
	if err != nil {
		t.Fatal(err)
	}
	if prims[1].Exposure() || math.Abs(prims[1].Modifiers[1]-0.6) > 1e-9 {
		t.Errorf("got %v", prims[1])
	}
	poly, err := am.Outline(apert.MacroParams, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	box := poly.BoundingBox()
	if box.Max.X < 0.599 || box.Max.X > 0.601 {
		t.Errorf("bounding box %+v", box)
	}
}

func TestParse_MacroSyntaxError(t *testing.T) {
	_, err := gerbparser.Parse([]byte("%AMBAD*99,1,2*%"), gerbparser.WithMacroCompiler(amprocessor.Compiler{}))
	if !errors.Is(err, amprocessor.ErrBadPrimitive) {
		t.Errorf("got %v", err)
	}
	var d diag.Diagnostic
	if !errors.As(err, &d) || d.Code != diag.MacroCompile || d.Offset != 1 {
		t.Errorf("got %v", err)
	}
}
