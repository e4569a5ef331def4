// Package diag carries the diagnostics produced while parsing a Gerber file.
//
// Parsers never print. Hard errors are returned as Diagnostic values with
// SevError (Diagnostic implements error); tolerated producer quirks are
// handed to a Reporter and the caller decides what to show.
package diag

import (
	"fmt"
)

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	// Offset is the byte offset into the parsed buffer, -1 when unknown.
	Offset  int
	Message string
}

func New(sev Severity, code Code, offset int, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Offset:   offset,
		Message:  msg,
	}
}

func NewError(code Code, offset int, msg string) Diagnostic {
	return New(SevError, code, offset, msg)
}

// Errorf builds a hard error diagnostic with a formatted message.
func Errorf(code Code, offset int, format string, args ...any) Diagnostic {
	return New(SevError, code, offset, fmt.Sprintf(format, args...))
}

func (d Diagnostic) Error() string {
	if d.Offset < 0 {
		return fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s %s at offset %d: %s", d.Severity, d.Code, d.Offset, d.Message)
}

// At returns a copy of the diagnostic moved to offset.
func (d Diagnostic) At(offset int) Diagnostic {
	d.Offset = offset
	return d
}
