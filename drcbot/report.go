package drcbot

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/piperpilot/DRCBotV2/diag"
	"github.com/piperpilot/DRCBotV2/gerbparser"
)

var (
	fileColor  = color.New(color.Bold)
	okColor    = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed, color.Bold)
	infoColor  = color.New(color.FgCyan)
)

type reportOptions struct {
	apertures bool
	commands  bool
}

// printReport writes the summary of one parsed file.
func printReport(w io.Writer, r fileResult, ro reportOptions) {
	name := fileColor.Sprint(r.Path)
	if r.Err != nil {
		fmt.Fprintf(w, "%s: %s %v\n", name, errorColor.Sprint("FAILED"), r.Err)
		return
	}
	m := r.Model
	status := okColor.Sprint("OK")
	if m.Diagnostics.HasWarnings() {
		status = warnColor.Sprint("OK with warnings")
	}
	fmt.Fprintf(w, "%s: %s (%s)\n", name, status, r.Elapsed.Round(time.Microsecond))
	fmt.Fprintf(w, "\tformat:    %s\n", m.Format)
	unit := "not set"
	if m.UnitSet {
		unit = m.Unit.String()
	}
	fmt.Fprintf(w, "\tunit:      %s\n", unit)
	fmt.Fprintf(w, "\tcommands:  %d\n", m.Commands.Len())
	fmt.Fprintf(w, "\tapertures: %d\n", m.Apertures.Len())
	if ro.apertures {
		for _, code := range m.Apertures.Codes() {
			apert, _ := m.Apertures.Get(code)
			fmt.Fprintf(w, "\t\t%s\n", apert)
		}
	}
	fmt.Fprintf(w, "\tmacros:    %d %s\n", m.Macros.Len(), strings.Join(m.Macros.Names(), " "))
	fmt.Fprintf(w, "\tdiagnostics: %d\n", m.Diagnostics.Len())
	for _, d := range m.Diagnostics.Items() {
		fmt.Fprintf(w, "\t\t%s\n", severityColor(d.Severity).Sprint(d.Error()))
	}
	if ro.commands {
		for _, n := range m.Commands.Nodes() {
			fmt.Fprintf(w, "\t\t%d\t%s\n", n.Offset, n)
		}
	}
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warnColor
	}
	return infoColor
}

// summary of the model in one line, used by the macro command
func modelLine(m *gerbparser.Model) string {
	return fmt.Sprintf("%d commands, %d apertures, %d macros", m.Commands.Len(), m.Apertures.Len(), m.Macros.Len())
}
