package drcbot

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/akavel/polyclip-go"
	"github.com/spf13/cobra"

	"github.com/piperpilot/DRCBotV2/amprocessor"
	"github.com/piperpilot/DRCBotV2/configurator"
	"github.com/piperpilot/DRCBotV2/gerbparser"
)

func (a *app) macroCommand() *cobra.Command {
	var chord float64
	cmd := &cobra.Command{
		Use:   "macro FILE NAME [PARAM...]",
		Short: "Evaluate an aperture macro of a Gerber file and print its outline",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !(chord >= 0) {
				return fmt.Errorf("invalid chord %g", chord)
			}
			buf, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			m, err := gerbparser.Parse(buf, configurator.ParserOptions(a.v)...)
			if err != nil {
				return err
			}
			am, err := lookupMacro(m, args[1])
			if err != nil {
				return err
			}
			params, err := parseMacroParams(args[2:])
			if err != nil {
				return err
			}
			poly, err := am.Outline(params, chord)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", fileColor.Sprint(args[0]), modelLine(m))
			printOutline(cmd.OutOrStdout(), am.Name, params, poly)
			return nil
		},
	}
	cmd.Flags().Float64Var(&chord, "chord", 0, "maximal chord of circle approximations (0: radius/20)")
	return cmd
}

func lookupMacro(m *gerbparser.Model, name string) (*amprocessor.ApertureMacro, error) {
	cm, ok := m.Macros.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("aperture macro %q is not defined", name)
	}
	am, ok := cm.(*amprocessor.ApertureMacro)
	if !ok {
		return nil, fmt.Errorf("aperture macro %q is not compiled (%T)", name, cm)
	}
	return am, nil
}

func parseMacroParams(args []string) ([]float64, error) {
	params := make([]float64, len(args))
	for i, s := range args {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("macro parameter $%d: %w", i+1, err)
		}
		params[i] = v
	}
	return params, nil
}

func printOutline(w io.Writer, name string, params []float64, poly polyclip.Polygon) {
	if len(poly) == 0 {
		fmt.Fprintf(w, "macro %s%v: empty outline\n", name, params)
		return
	}
	box := poly.BoundingBox()
	fmt.Fprintf(w, "macro %s%v: %d contours, bounding box (%g, %g) - (%g, %g), size %g x %g\n",
		name, params, len(poly),
		box.Min.X, box.Min.Y, box.Max.X, box.Max.Y,
		box.Max.X-box.Min.X, box.Max.Y-box.Min.Y)
}
