package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"

	"github.com/benbjohnson/go-css/parser"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(name, []byte(content), 0644))
	return name
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Version)
	assert.False(t, cfg.Parser.IEValues)
	assert.False(t, cfg.Parser.StarHack)
	assert.Equal(t, parser.DefaultMaxNesting, cfg.Parser.MaxNesting)
	assert.Empty(t, cfg.Parser.Charset)
	assert.Equal(t, "normal", cfg.Logging.ConsoleLogger.Level)
	assert.Equal(t, "none", cfg.Logging.FileLogger.Level)
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	name := writeConfig(t, `version: 1
parser:
  star_hack: true
  max_nesting: 16
  charset: windows-1252
logging:
  console:
    level: debug
`)
	cfg, err := LoadConfiguration(name)
	require.NoError(t, err)
	assert.True(t, cfg.Parser.StarHack)
	assert.False(t, cfg.Parser.IEValues)
	assert.Equal(t, 16, cfg.Parser.MaxNesting)
	assert.Equal(t, "windows-1252", cfg.Parser.Charset)
	assert.Equal(t, "debug", cfg.Logging.ConsoleLogger.Level)
	// untouched keys keep their defaults
	assert.Equal(t, "none", cfg.Logging.FileLogger.Level)
}

func TestLoadConfiguration_Errors(t *testing.T) {
	var tests = []struct {
		name    string
		content string
	}{
		{name: "UnknownKey", content: "version: 1\nparser:\n  quirks: true\n"},
		{name: "MaxNesting", content: "version: 1\nparser:\n  max_nesting: 0\n"},
		{name: "Version", content: "version: 2\n"},
		{name: "LogLevel", content: "version: 1\nlogging:\n  console:\n    level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfiguration(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestParserConfig_Options(t *testing.T) {
	pc := ParserConfig{IEValues: true, StarHack: true, MaxNesting: 8}
	assert.Equal(t, parser.IEValues|parser.StarHack, pc.Flags())

	p := parser.New(pc.Options()...)
	assert.Equal(t, parser.IEValues|parser.StarHack, p.Flags())

	pc = ParserConfig{}
	assert.Equal(t, parser.Flags(0), pc.Flags())
}

func TestPrepareAndDump(t *testing.T) {
	data, err := Prepare()
	require.NoError(t, err)
	assert.Contains(t, string(data), "max_nesting: 64")

	cfg, err := LoadConfiguration("")
	require.NoError(t, err)
	cfg.Parser.IEValues = true

	data, err = Dump(cfg)
	require.NoError(t, err)

	var back Config
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, *cfg, back)
}

func TestLoggingConfig_Prepare(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "cssparse.log")
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "debug", Destination: dest, Mode: "overwrite"},
	}
	log, err := conf.Prepare()
	require.NoError(t, err)
	log.Debug("Decoding style sheet")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Decoding style sheet")
	assert.Contains(t, string(data), AppName)

	conf.FileLogger.Destination = filepath.Join(t.TempDir(), "missing", "cssparse.log")
	_, err = conf.Prepare()
	assert.ErrorContains(t, err, "unable to access file log destination")
}
