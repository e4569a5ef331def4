// Copyright 2018 Vasily Turchenko <turchenkov@gmail.com>. All rights reserved.
// Use of this source code is free

// Package drcbot is the command line front end: it reads Gerber files,
// runs the parser and prints or stores what it produced.
package drcbot

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/piperpilot/DRCBotV2/configurator"
	"github.com/piperpilot/DRCBotV2/gerbparser"
)

const (
	appHeader  = "Gerber RS-274X design rule check front end"
	appVersion = "0.2.0"
)

// app carries the configuration shared by the subcommands.
type app struct {
	v       *viper.Viper
	cfgFile string
}

// NewRootCommand builds the drcbot command tree on top of v.
func NewRootCommand(v *viper.Viper) *cobra.Command {
	a := &app{v: v}
	configurator.SetDefaults(v)

	root := &cobra.Command{
		Use:           "drcbot",
		Short:         appHeader,
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "configuration file (default ./config.toml)")
	pf.String("log-level", "warn", "log level (debug|info|warn|error)")
	pf.String("color", configurator.ColorAuto, "colorize output (auto|on|off)")
	pf.Int("max-apertures", 1000, "exclusive upper bound of aperture codes")
	pf.Bool("strict-macros", false, "fail on macro apertures whose macro is never defined")
	bindFlags(v, pf, map[string]string{
		"log-level":     configurator.CfgCommonLogLevel,
		"color":         configurator.CfgCommonColor,
		"max-apertures": configurator.CfgParserMaxApertures,
		"strict-macros": configurator.CfgParserStrictMacros,
	})

	root.AddCommand(a.parseCommand(), a.blocksCommand(), a.macroCommand(), a.configCommand())
	return root
}

// Execute runs drcbot with the process arguments and returns the exit code.
func Execute() int {
	root := NewRootCommand(viper.New())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		return 1
	}
	return 0
}

// setup reads the configuration file, then installs the logger and the
// colour mode.
func (a *app) setup(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	}
	if err := configurator.ProcessConfigFile(a.v); err != nil {
		return err
	}
	if err := configurator.Validate(a.v); err != nil {
		return err
	}
	lvl, err := configurator.LogLevel(a.v)
	if err != nil {
		return err
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl})
	gerbparser.SetLogger(slog.New(handler))

	color.NoColor = !useColor(a.v.GetString(configurator.CfgCommonColor), cmd.OutOrStdout())
	return nil
}

func (a *app) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configurator.DiagnosticAllCfgPrint(a.v, cmd.OutOrStdout())
			return nil
		},
	}
}

// useColor resolves the colour mode; auto colours terminals only.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case configurator.ColorOn:
		return true
	case configurator.ColorOff:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// bindFlags ties flags to configuration keys. A flag given on the command
// line wins over the configuration file.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(err)
		}
	}
}
