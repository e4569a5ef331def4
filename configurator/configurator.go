// Package configurator holds the viper keys, defaults and option mapping
// of drcbot.
package configurator

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/piperpilot/DRCBotV2/amprocessor"
	"github.com/piperpilot/DRCBotV2/gerbparser"
)

const (
	CfgCommonLogLevel           string = "common.LogLevel"
	CfgCommonPrintAperturesInfo string = "common.PrintAperturesInfo"
	CfgCommonPrintCommands      string = "common.PrintCommands"
	CfgCommonColor              string = "common.Color"

	CfgParserMaxApertures     string = "parser.MaxApertures"
	CfgParserSaveIntermediate string = "parser.SaveIntermediate"
	CfgParserIntermediateFile string = "parser.IntermediateFile"
	CfgParserWorkers          string = "parser.Workers"
	CfgParserStrictMacros     string = "parser.StrictMacros"

	CfgOutputFormat string = "output.Format"
	CfgOutputFile   string = "output.File"
)

// output formats
const (
	FormatText    = "text"
	FormatMsgpack = "msgpack"
)

// colour modes
const (
	ColorAuto = "auto"
	ColorOn   = "on"
	ColorOff  = "off"
)

var ErrBadSetting = errors.New("bad configuration value")

func SetDefaults(v *viper.Viper) {
	v.SetConfigName("config") // no need to include file extension
	v.AddConfigPath(".")
	v.SetConfigType("toml")

	// diagnostic messages
	v.SetDefault(CfgCommonLogLevel, "warn")
	v.SetDefault(CfgCommonPrintAperturesInfo, true)
	v.SetDefault(CfgCommonPrintCommands, false)
	v.SetDefault(CfgCommonColor, ColorAuto)

	//
	v.SetDefault(CfgParserMaxApertures, 1000)
	v.SetDefault(CfgParserSaveIntermediate, false)
	v.SetDefault(CfgParserIntermediateFile, "splitted.txt")
	v.SetDefault(CfgParserWorkers, 4)
	v.SetDefault(CfgParserStrictMacros, false)

	//
	v.SetDefault(CfgOutputFormat, FormatText)
	v.SetDefault(CfgOutputFile, "")
}

// ProcessConfigFile reads the configuration file. A missing file is not an
// error, the defaults stay in effect.
func ProcessConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("configuration file error: %w", err)
	}
	return Validate(v)
}

// Validate checks the enumerated and numeric settings.
func Validate(v *viper.Viper) error {
	if _, err := LogLevel(v); err != nil {
		return err
	}
	if f := v.GetString(CfgOutputFormat); f != FormatText && f != FormatMsgpack {
		return fmt.Errorf("%w: %s = %q", ErrBadSetting, CfgOutputFormat, f)
	}
	if c := v.GetString(CfgCommonColor); !slices.Contains([]string{ColorAuto, ColorOn, ColorOff}, c) {
		return fmt.Errorf("%w: %s = %q", ErrBadSetting, CfgCommonColor, c)
	}
	if w := v.GetInt(CfgParserWorkers); w < 1 {
		return fmt.Errorf("%w: %s = %d", ErrBadSetting, CfgParserWorkers, w)
	}
	return nil
}

// LogLevel maps common.LogLevel to a slog level.
func LogLevel(v *viper.Viper) (slog.Level, error) {
	var lvl slog.Level
	s := strings.TrimSpace(v.GetString(CfgCommonLogLevel))
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn, fmt.Errorf("%w: %s = %q", ErrBadSetting, CfgCommonLogLevel, s)
	}
	return lvl, nil
}

// ParserOptions maps the parser settings to gerbparser options. Macros are
// always compiled with amprocessor.
func ParserOptions(v *viper.Viper, extra ...gerbparser.Option) []gerbparser.Option {
	opts := []gerbparser.Option{
		gerbparser.WithMacroCompiler(amprocessor.Compiler{}),
		gerbparser.WithMaxApertures(v.GetInt(CfgParserMaxApertures)),
		gerbparser.WithStrictMacros(v.GetBool(CfgParserStrictMacros)),
	}
	return append(opts, extra...)
}

// DiagnosticAllCfgPrint dumps every setting, sorted by key.
func DiagnosticAllCfgPrint(v *viper.Viper, w io.Writer) {
	keys := v.AllKeys()
	slices.Sort(keys)
	for _, key := range keys {
		fmt.Fprintln(w, key, ":", v.Get(key))
	}
	fmt.Fprintln(w)
}
