package gerberlexer

import (
	"reflect"
	"strconv"
	"testing"
)

func TestDelim_String(t *testing.T) {
	if DataBlockTrailer.String() != "DBEND" || ExtCmdDelimiter.String() != "EXTCMD" {
		t.Error("bad delimiter names")
	}
	if Delim('#').String() != "#" {
		t.Error(Delim('#').String())
	}
}

func TestLookupParam(t *testing.T) {
	answers := map[string]ParamKey{
		"FSLAX25Y25":      ParamFS,
		"MOMM":            ParamMO,
		"ADD10C,0.5":      ParamAD,
		"AMTHERMAL":       ParamAM,
		"LPD":             ParamLP,
		"IPPOS":           ParamIP,
		"INboard":         ParamIN,
		"IJA0B0":          ParamIJ,
		"IOA0B0":          ParamIO,
		"IR0":             ParamIR,
		"PFfilm":          ParamPF,
		"SRX1Y1I0J0":      ParamUnknown,
		"F":               ParamUnknown,
		"":                ParamUnknown,
		"fslax25y25":      ParamUnknown,
		"TF.FileFunction": ParamUnknown,
	}
	for block, want := range answers {
		if got := LookupParam(block); got != want {
			t.Errorf("%q: got %s, want %s", block, got, want)
		}
	}
}

func TestParamKey_IsImageParam(t *testing.T) {
	for _, k := range []ParamKey{ParamIJ, ParamIN, ParamIO, ParamIP, ParamIR, ParamPF} {
		if !k.IsImageParam() {
			t.Errorf("%s must be an image parameter", k)
		}
	}
	for _, k := range []ParamKey{ParamUnknown, ParamFS, ParamMO, ParamAD, ParamAM, ParamLP} {
		if k.IsImageParam() {
			t.Errorf("%s must not be an image parameter", k)
		}
	}
	if ParamKey(200).String() != "??" {
		t.Error(ParamKey(200).String())
	}
}

func TestFindParamRegion(t *testing.T) {
	buf := []byte("G04 x*%FSLAX25Y25*%X1Y1D02*%MOMM*")
	end, ok := FindParamRegion(buf, 6)
	if !ok || end != 18 {
		t.Errorf("got (%d,%v)", end, ok)
	}
	if _, ok := FindParamRegion(buf, 27); ok {
		t.Error("unmatched '%' must not be found")
	}
	if _, ok := FindParamRegion(buf, 0); ok {
		t.Error("start must point at '%'")
	}
}

type splitCase struct {
	region string
	answer []string
}

var splitCases = []splitCase{
	{"FSLAX25Y25*", []string{"FSLAX25Y25"}},
	{"FSLAX25Y25", []string{"FSLAX25Y25"}},
	{"AMDONUT*\n1,1,$1,0,0*\n1,0,$2,0,0*\n", []string{"AMDONUT", "1,1,$1,0,0", "1,0,$2,0,0"}},
	{"\r\n  MOIN*", []string{"MOIN"}},
	{"MOIN**LPD*", []string{"MOIN", "", "LPD"}},
	{"MOIN*LPD", []string{"MOIN", "LPD"}},
	{"MOIN*  \n", []string{"MOIN"}},
	{"", []string{""}},
}

func TestSplitParams(t *testing.T) {
	for i, c := range splitCases {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			got := SplitParams(c.region)
			if !reflect.DeepEqual(got, c.answer) {
				t.Errorf("%q:\ngot  %q\nwant %q", c.region, got, c.answer)
			}
		})
	}
}

func TestSplitParamBlocks_Offsets(t *testing.T) {
	blocks := SplitParamBlocks("FSLAX25Y25*\nMOMM*", 100)
	want := []Block{{100, "FSLAX25Y25"}, {112, "MOMM"}}
	if !reflect.DeepEqual(blocks, want) {
		t.Errorf("got %+v", blocks)
	}
}

func TestSplitFile(t *testing.T) {
	src := []byte("\n\t\t   0000****%1111*\r\n*%\n22222")
	want := []Block{
		{6, "0000*"},
		{14, "%1111**%"},
		{25, "22222"},
	}
	got := SplitFile(src)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v\nwant %+v", got, want)
	}
}

func TestSplitFile_Unterminated(t *testing.T) {
	got := SplitFile([]byte("%11\n\r\tkkkkkkk"))
	if len(got) != 1 || got[0].Text != "%11\tkkkkkkk" {
		t.Errorf("got %+v", got)
	}
}

func TestFilterNewLines(t *testing.T) {
	if FilterNewLines("a\r\nb\nc") != "abc" {
		t.Error(FilterNewLines("a\r\nb\nc"))
	}
}
