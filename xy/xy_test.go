package xy

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/piperpilot/DRCBotV2/diag"
	. "github.com/piperpilot/DRCBotV2/gerberbasetypes"
)

const eps = 1e-9

var fstr = []string{
	"FSLAX14Y14",
	"FSLAX15Y15",
	"FSLAX16Y16",
	"FSLAX24Y24",
	"FSLAX25Y25",
	"FSLAX26Y26",
	"FSLAX34Y34",
	"FSLAX36Y36",
	"FSLAX44Y44",
	"FSLAX46Y46",
	"FSLAX64Y64",
	"FSLAX66Y66",
}

func TestNewFormatSpec(t *testing.T) {
	fs := NewFormatSpec()
	if fs.Suppression != OmitLeading || fs.Mode != CoordAbsolute {
		t.Errorf("bad default modes: %v", fs)
	}
	if fs.NWidth != 2 || fs.GWidth != 2 || fs.DWidth != 3 || fs.MWidth != 2 {
		t.Errorf("bad default widths: %+v", fs)
	}
	if fs.XLead != 2 || fs.XTrail != 3 || fs.YLead != 2 || fs.YTrail != 3 {
		t.Errorf("bad default digits: %+v", fs)
	}
	if fs.Configured {
		t.Error("defaults must not be marked as configured")
	}
}

func TestFormatSpec_Init(t *testing.T) {
	for i := range fstr {
		fs := NewFormatSpec()
		if err := fs.Init(fstr[i], 0, nil); err != nil {
			t.Errorf("%s: %v", fstr[i], err)
			continue
		}
		lead := int(fstr[i][5] - '0')
		trail := int(fstr[i][6] - '0')
		if fs.XLead != lead || fs.XTrail != trail || fs.YLead != lead || fs.YTrail != trail {
			t.Errorf("%s: got %+v", fstr[i], fs)
		}
	}
}

func TestFormatSpec_InitLAX25Y25(t *testing.T) {
	fs := NewFormatSpec()
	if err := fs.Init("FSLAX25Y25", 0, nil); err != nil {
		t.Fatal(err)
	}
	if fs.Suppression != OmitLeading || fs.Mode != CoordAbsolute {
		t.Errorf("modes: %v", fs)
	}
	if fs.XLead != 2 || fs.XTrail != 5 || fs.YLead != 2 || fs.YTrail != 5 {
		t.Errorf("digits: %+v", fs)
	}
	if !fs.Configured {
		t.Error("configured flag not set")
	}
}

func TestFormatSpec_InitWidths(t *testing.T) {
	fs := NewFormatSpec()
	if err := fs.Init("FSTIN3G4X34Y45D2M3", 0, nil); err != nil {
		t.Fatal(err)
	}
	want := FormatSpec{
		Suppression: OmitTrailing, Mode: CoordIncremental,
		NWidth: 3, GWidth: 4, DWidth: 2, MWidth: 3,
		XLead: 3, XTrail: 4, YLead: 4, YTrail: 5,
		Configured: true,
	}
	if *fs != want {
		t.Errorf("got %+v\nwant %+v", *fs, want)
	}
}

func TestFormatSpec_InitErrors(t *testing.T) {
	cases := []struct {
		block string
		code  diag.Code
	}{
		{"FSXAX25Y25", diag.BadZeroSuppression},
		{"FS", diag.BadZeroSuppression},
		{"FSLAX75Y25", diag.BadFormatDigits},
		{"FSLAX2", diag.BadFormatDigits},
		{"FSLAX25Y2A", diag.BadFormatDigits},
		{"FSLANX25Y25", diag.BadFormatWidth},
		{"FSLAGX25Y25", diag.BadFormatWidth},
		{"FSLAX25Y25D", diag.BadFormatWidth},
		{"FSLAX25Y25D2M", diag.BadFormatWidth},
	}
	for _, c := range cases {
		fs := NewFormatSpec()
		err := fs.Init(c.block, 0, nil)
		var d diag.Diagnostic
		if !errors.As(err, &d) {
			t.Errorf("%s: expected diagnostic, got %v", c.block, err)
			continue
		}
		if d.Code != c.code {
			t.Errorf("%s: got code %s, want %s", c.block, d.Code, c.code)
		}
		if fs.Configured {
			t.Errorf("%s: configured after failure", c.block)
		}
	}
}

func TestFormatSpec_InitBadModeIsNotFatal(t *testing.T) {
	bag := diag.NewBag(4)
	fs := NewFormatSpec()
	if err := fs.Init("FSLQX25Y25", 0, diag.BagReporter{Bag: bag}); err != nil {
		t.Fatal(err)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.BadCoordMode {
		t.Errorf("expected one bad-coord-mode warning, got %+v", bag.Items())
	}
	if fs.XTrail != 5 || !fs.Configured {
		t.Errorf("parsing must continue after the mode selector: %+v", fs)
	}
}

type decodeCase struct {
	in       string
	supp     ZeroSuppression
	lead     int
	trail    int
	want     float64
	consumed int
}

var decodeCases = []decodeCase{
	{"12", OmitTrailing, 2, 3, 12.0, 2},
	{"12345", OmitLeading, 2, 3, 12.345, 5},
	{"-123", OmitLeading, 2, 3, -0.123, 4},
	{"+123", OmitLeading, 2, 3, 0.123, 4},
	{"1 2 3", OmitLeading, 2, 3, 0.123, 5},
	{"001", OmitLeading, 2, 3, 0.001, 3},
	{"-1", OmitTrailing, 2, 3, -10.0, 2},
	{"12345", OmitTrailing, 2, 3, 12.345, 5},
	{"4794700Y22", OmitLeading, 2, 5, 47.947, 7},
	{"", OmitLeading, 2, 3, 0, 0},
}

func TestFormatSpec_Decode(t *testing.T) {
	for _, c := range decodeCases {
		t.Run(strconv.Quote(c.in), func(t *testing.T) {
			fs := NewFormatSpec()
			fs.Suppression = c.supp
			fs.XLead, fs.XTrail = c.lead, c.trail
			got, n, err := fs.Decode([]byte(c.in), AxisX)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got.Value-c.want) > eps {
				t.Errorf("value: got %v, want %v", got.Value, c.want)
			}
			if n != c.consumed {
				t.Errorf("consumed: got %d, want %d", n, c.consumed)
			}
		})
	}
}

func TestFormatSpec_DecodeExact(t *testing.T) {
	fs := NewFormatSpec()
	got, _, err := fs.Decode([]byte("12345"), AxisX)
	if err != nil {
		t.Fatal(err)
	}
	if got.Value != 12.345 {
		t.Errorf("got %v", got.Value)
	}
}

func TestFormatSpec_DecodeUsesAxis(t *testing.T) {
	fs := NewFormatSpec()
	fs.XTrail = 3
	fs.YTrail = 5
	x, _, _ := fs.Decode([]byte("12345"), AxisX)
	y, _, _ := fs.Decode([]byte("12345"), AxisY)
	if math.Abs(x.Value-12.345) > eps || math.Abs(y.Value-0.12345) > eps {
		t.Errorf("x=%v y=%v", x.Value, y.Value)
	}
}

func TestFormatSpec_DecodeSignAfterDigit(t *testing.T) {
	fs := NewFormatSpec()
	if _, _, err := fs.Decode([]byte("12-3"), AxisX); err == nil {
		t.Error("sign after digit must be rejected")
	}
}

func TestFormatSpec_DecodeNoDigits(t *testing.T) {
	fs := NewFormatSpec()
	got, n, err := fs.Decode([]byte("-D02"), AxisX)
	if err != nil {
		t.Fatal(err)
	}
	if got.Digits != 0 || n != 1 {
		t.Errorf("got %+v, consumed %d", got, n)
	}
}

func TestParseInt(t *testing.T) {
	cases := []struct {
		in  string
		val int
		n   int
	}{
		{"10C", 10, 2},
		{"  7", 7, 3},
		{"-5x", -5, 2},
		{"+04", 4, 3},
		{"C", 0, 0},
		{"-", 0, 0},
		{"", 0, 0},
	}
	for _, c := range cases {
		val, n := ParseInt(c.in)
		if val != c.val || n != c.n {
			t.Errorf("%q: got (%d,%d), want (%d,%d)", c.in, val, n, c.val, c.n)
		}
	}
}
