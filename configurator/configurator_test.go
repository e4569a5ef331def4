package configurator

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/piperpilot/DRCBotV2/amprocessor"
	"github.com/piperpilot/DRCBotV2/gerbparser"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestSetDefaults(t *testing.T) {
	v := newViper()
	if v.GetInt(CfgParserMaxApertures) != 1000 || v.GetInt(CfgParserWorkers) != 4 {
		t.Error("parser defaults")
	}
	if v.GetString(CfgOutputFormat) != FormatText || v.GetString(CfgCommonColor) != ColorAuto {
		t.Error("output defaults")
	}
	if v.GetBool(CfgParserStrictMacros) || v.GetBool(CfgParserSaveIntermediate) {
		t.Error("flags must be off by default")
	}
	if err := Validate(v); err != nil {
		t.Error(err)
	}
}

func TestProcessConfigFile(t *testing.T) {
	dir := t.TempDir()

	v := newViper()
	v.AddConfigPath(dir)
	v.SetConfigName("absent")
	if err := ProcessConfigFile(v); err != nil {
		t.Errorf("missing file: %v", err)
	}

	cfg := "[parser]\nWorkers = 2\nStrictMacros = true\n[common]\nLogLevel = \"debug\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	v = newViper()
	v.SetConfigFile(filepath.Join(dir, "config.toml"))
	if err := ProcessConfigFile(v); err != nil {
		t.Fatal(err)
	}
	if v.GetInt(CfgParserWorkers) != 2 || !v.GetBool(CfgParserStrictMacros) {
		t.Errorf("file not applied: %v", v.AllSettings())
	}
	if lvl, _ := LogLevel(v); lvl != slog.LevelDebug {
		t.Errorf("level %v", lvl)
	}

	if err := os.WriteFile(filepath.Join(dir, "bad.toml"), []byte("[output]\nFormat = \"xml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	v = newViper()
	v.SetConfigFile(filepath.Join(dir, "bad.toml"))
	if err := ProcessConfigFile(v); !errors.Is(err, ErrBadSetting) {
		t.Errorf("got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		key string
		val any
	}{
		{CfgCommonLogLevel, "loud"},
		{CfgOutputFormat, "json"},
		{CfgCommonColor, "maybe"},
		{CfgParserWorkers, 0},
	}
	for _, c := range cases {
		v := newViper()
		v.Set(c.key, c.val)
		if err := Validate(v); !errors.Is(err, ErrBadSetting) {
			t.Errorf("%s=%v: got %v", c.key, c.val, err)
		}
	}
}

func TestLogLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		v := newViper()
		v.Set(CfgCommonLogLevel, in)
		got, err := LogLevel(v)
		if err != nil || got != want {
			t.Errorf("%s: got %v, %v", in, got, err)
		}
	}
}

func TestParserOptions(t *testing.T) {
	v := newViper()
	v.Set(CfgParserMaxApertures, 20)
	m, err := gerbparser.Parse([]byte("%AMPAD*21,1,1,1,0,0,0*%%ADD11PAD*%"), ParserOptions(v)...)
	if err != nil {
		t.Fatal(err)
	}
	if m.Apertures.Max() != 20 {
		t.Errorf("max %d", m.Apertures.Max())
	}
	cm, err := m.MacroFor(11)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cm.(*amprocessor.ApertureMacro); !ok {
		t.Errorf("macros must be compiled, got %T", cm)
	}

	v.Set(CfgParserStrictMacros, true)
	if _, err := gerbparser.Parse([]byte("%ADD11NONE*%"), ParserOptions(v)...); err == nil {
		t.Error("strict macros must fail")
	}
	if _, err := gerbparser.Parse([]byte("%ADD11C,1*%"), ParserOptions(v, gerbparser.WithMaxApertures(11))...); err == nil {
		t.Error("extra options must win")
	}
}

func TestDiagnosticAllCfgPrint(t *testing.T) {
	var buf bytes.Buffer
	DiagnosticAllCfgPrint(newViper(), &buf)
	out := buf.String()
	if !strings.Contains(out, "parser.workers : 4") || !strings.Contains(out, "output.format : text") {
		t.Errorf("got\n%s", out)
	}
}
