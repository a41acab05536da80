package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/benbjohnson/go-css/parser"
)

// run executes the program with args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	app.ExitErrHandler = nil
	err := app.Run(contextWithEnv(context.Background()), append([]string{"cssparse", "--config", quietConfig(t)}, args...))
	return buf.String(), err
}

// quietConfig writes a configuration turning console logging off.
func quietConfig(t *testing.T) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(name, []byte("version: 1\nlogging:\n  console:\n    level: none\n"), 0644))
	return name
}

func TestApp_Commands(t *testing.T) {
	var tests = []struct {
		name string
		args []string
		out  string
	}{
		{name: "Value", args: []string{"value", "margin", "0", "auto"}, out: "0 auto\n"},
		{name: "Selectors", args: []string{"selectors", "ul > li, #a"}, out: "ul > li (0,0,2)\n#a (1,0,0)\n"},
		{name: "Page", args: []string{"page", ":first"}, out: ":first\n"},
		{name: "Media", args: []string{"media", "screen and (width >= 40em)"}, out: "screen and (width >= 40em)\n"},
		{name: "Supports", args: []string{"supports", "(display: grid)"}, out: "(display: grid)\n"},
		{name: "IEValues", args: []string{"--ie-values", "value", "zoom", `1\9`}, out: "1\\9\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.out, out)
		})
	}
}

func TestApp_ParseError(t *testing.T) {
	_, err := run(t, "value", "width", "1foo")
	assert.EqualError(t, err, `1:1: unknown unit "foo"`)

	_, err = run(t, "media")
	assert.EqualError(t, err, "nothing to parse has been specified")
}

func TestApp_Sheet(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.css")
	bad := filepath.Join(dir, "bad.css")
	require.NoError(t, os.WriteFile(good, []byte(`@media print{p{color:red!important}}`), 0644))
	require.NoError(t, os.WriteFile(bad, []byte(`p{color:;top:0}`), 0644))

	out, err := run(t, "sheet", good)
	require.NoError(t, err)
	assert.Equal(t, "start media print\n"+
		"  start selector p\n"+
		"    color = red [IDENT] !important\n"+
		"  end selector\n"+
		"end media\n", out)

	out, err = run(t, "sheet", "--css", good, bad)
	assert.EqualError(t, err, "1 of 2 style sheet(s) had errors")
	assert.Equal(t, "@media print {\n  p {\n    color: red !important;\n  }\n}\n"+
		"p {\n  top: 0;\n}\n", out)
}

func TestApp_DumpConfig(t *testing.T) {
	out, err := run(t, "dumpconfig")
	require.NoError(t, err)
	assert.Contains(t, out, "max_nesting: 64")
	assert.Contains(t, out, "level: none")

	out, err = run(t, "dumpconfig", "--default")
	require.NoError(t, err)
	assert.Contains(t, out, "level: normal")
}

func TestLogErrors(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	errh := &logErrors{log: zap.New(core), source: "a.css"}

	p := parser.New(parser.WithErrorHandler(errh))
	require.NoError(t, p.ParseStyleSheet(strings.NewReader(`p{color:} p,p{}`)))

	assert.Equal(t, 1, errh.count)
	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Parse error", entries[0].Message)
	assert.Equal(t, "missing value", entries[0].ContextMap()["msg"])
	assert.Equal(t, "a.css", entries[0].ContextMap()["source"])
	assert.Equal(t, "Parse warning", entries[1].Message)
	assert.Equal(t, "duplicate selector p", entries[1].ContextMap()["msg"])
}

func TestParserOptions(t *testing.T) {
	env := envFromContext(contextWithEnv(context.Background()))
	p := parser.New(env.parserOptions(true, false)...)
	assert.Equal(t, parser.IEValues, p.Flags())

	p = parser.New(env.parserOptions(false, true)...)
	assert.Equal(t, parser.StarHack, p.Flags())
}

func TestEnvFromContext_Missing(t *testing.T) {
	assert.Panics(t, func() { envFromContext(context.Background()) })
}
