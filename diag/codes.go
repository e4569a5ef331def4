package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// structural
	UnterminatedBlock Code = 1001
	UnmatchedPercent  Code = 1002
	BadCommandChar    Code = 1003
	ParseHang         Code = 1004
	CursorMismatch    Code = 1005

	// command words
	MissingCodeValue Code = 2001
	BadGCode         Code = 2002
	BadCoordinate    Code = 2003
	CodeOverflow     Code = 2004

	// directives
	BadZeroSuppression Code = 3001
	BadCoordMode       Code = 3002
	BadFormatWidth     Code = 3003
	BadFormatDigits    Code = 3004
	BadUnitMode        Code = 3005
	UnknownParam       Code = 3006
	BlankParam         Code = 3007
	ClearPolarity      Code = 3008
	ImageParamStub     Code = 3009
	MissingPolarity    Code = 3010

	// apertures and macros
	BadApertureDefine   Code = 4001
	BadApertureCode     Code = 4002
	ApertureRedefined   Code = 4003
	ApertureArgs        Code = 4004
	ApertureUnsupported Code = 4005
	MacroCompile        Code = 4006
	MacroUnresolved     Code = 4007
	MacroRedefined      Code = 4008
)

var codeNames = map[Code]string{
	UnknownCode:         "unknown",
	UnterminatedBlock:   "unterminated-block",
	UnmatchedPercent:    "unmatched-percent",
	BadCommandChar:      "bad-command-char",
	ParseHang:           "parse-hang",
	CursorMismatch:      "cursor-mismatch",
	MissingCodeValue:    "missing-code-value",
	BadGCode:            "bad-g-code",
	BadCoordinate:       "bad-coordinate",
	CodeOverflow:        "code-overflow",
	BadZeroSuppression:  "bad-zero-suppression",
	BadCoordMode:        "bad-coord-mode",
	BadFormatWidth:      "bad-format-width",
	BadFormatDigits:     "bad-format-digits",
	BadUnitMode:         "bad-unit-mode",
	UnknownParam:        "unknown-param",
	BlankParam:          "blank-param",
	ClearPolarity:       "clear-polarity",
	ImageParamStub:      "image-param-stub",
	MissingPolarity:     "missing-polarity",
	BadApertureDefine:   "bad-aperture-define",
	BadApertureCode:     "bad-aperture-code",
	ApertureRedefined:   "aperture-redefined",
	ApertureArgs:        "aperture-args",
	ApertureUnsupported: "aperture-unsupported",
	MacroCompile:        "macro-compile",
	MacroUnresolved:     "macro-unresolved",
	MacroRedefined:      "macro-redefined",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code-%d", uint16(c))
}
