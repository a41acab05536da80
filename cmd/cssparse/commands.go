package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	css "github.com/benbjohnson/go-css"
	"github.com/benbjohnson/go-css/config"
	"github.com/benbjohnson/go-css/parser"
)

// options returns the parser options for cmd.
func options(ctx context.Context, cmd *cli.Command) []parser.Option {
	return envFromContext(ctx).parserOptions(cmd.Bool("ie-values"), cmd.Bool("star-hack"))
}

// output returns the writer commands print their results to.
func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// describe prefixes parse errors with their position.
func describe(err error) error {
	var perr *parser.Error
	if errors.As(err, &perr) {
		return errors.New(perr.String())
	}
	return err
}

// text joins the command arguments into the text to parse.
func text(cmd *cli.Command, from int) (string, error) {
	if cmd.Args().Len() <= from {
		return "", errors.New("nothing to parse has been specified")
	}
	return strings.Join(cmd.Args().Slice()[from:], " "), nil
}

func runSheet(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := envFromContext(ctx)
	log := env.Log.Named("sheet")

	files := cmd.Args().Slice()
	if len(files) == 0 {
		files = []string{"-"}
	}

	declared := cmd.String("charset")
	if declared == "" && env.Cfg != nil {
		declared = env.Cfg.Parser.Charset
	}

	var failed int
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := parseSheet(ctx, cmd, name, declared)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Warn("Style sheet has errors", zap.String("source", name), zap.Int("errors", n))
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d style sheet(s) had errors", failed, len(files))
	}
	return nil
}

// parseSheet parses a single style sheet file and returns the number of
// errors found in it.
func parseSheet(ctx context.Context, cmd *cli.Command, name, declared string) (int, error) {
	env := envFromContext(ctx)

	in := io.Reader(os.Stdin)
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return 0, fmt.Errorf("unable to open style sheet: %w", err)
		}
		defer f.Close()
		in = f
	}

	errh := &logErrors{log: env.Log, source: name}
	w := output(cmd)

	var (
		h     parser.DocumentHandler
		flush func() error
	)
	if cmd.Bool("css") {
		pr := css.NewPrinter(w)
		h, flush = pr, pr.Err
	} else {
		d := &dumper{w: w}
		h, flush = d, func() error { return d.err }
	}

	opts := append(options(ctx, cmd), parser.WithHandler(h), parser.WithErrorHandler(errh))
	if err := parser.New(opts...).ParseStyleSheetBytes(in, declared); err != nil {
		return 0, fmt.Errorf("unable to read style sheet %s: %w", name, err)
	}
	if err := flush(); err != nil {
		return 0, fmt.Errorf("unable to write output: %w", err)
	}
	return errh.count, nil
}

func runValue(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().Get(0)
	if name == "" {
		return errors.New("no property name has been specified")
	}
	s, err := text(cmd, 1)
	if err != nil {
		return err
	}
	u, err := parser.New(options(ctx, cmd)...).ParsePropertyValue(name, strings.NewReader(s))
	if err != nil {
		return describe(err)
	}
	w := output(cmd)
	fmt.Fprintln(w, u)
	if cmd.Bool("units") {
		for ; u != nil; u = u.Next() {
			fmt.Fprintf(w, "  %s %s\n", u.Type(), u.CSSText())
		}
	}
	return nil
}

func runSelectors(ctx context.Context, cmd *cli.Command) error {
	s, err := text(cmd, 0)
	if err != nil {
		return err
	}
	list, err := parser.New(options(ctx, cmd)...).ParseSelectors(strings.NewReader(s), nil)
	if err != nil {
		return describe(err)
	}
	w := output(cmd)
	for _, sel := range list {
		a, b, c := sel.Specificity()
		fmt.Fprintf(w, "%s (%d,%d,%d)\n", sel, a, b, c)
	}
	return nil
}

func runPage(ctx context.Context, cmd *cli.Command) error {
	s, err := text(cmd, 0)
	if err != nil {
		return err
	}
	list, err := parser.New(options(ctx, cmd)...).ParsePageSelectorList(strings.NewReader(s))
	if err != nil {
		return describe(err)
	}
	fmt.Fprintln(output(cmd), list)
	return nil
}

func runMedia(ctx context.Context, cmd *cli.Command) error {
	s, err := text(cmd, 0)
	if err != nil {
		return err
	}
	list, err := parser.New(options(ctx, cmd)...).ParseMediaQueryList(strings.NewReader(s))
	if err != nil {
		return describe(err)
	}
	fmt.Fprintln(output(cmd), list)
	return nil
}

func runSupports(ctx context.Context, cmd *cli.Command) error {
	s, err := text(cmd, 0)
	if err != nil {
		return err
	}
	cond, err := parser.New(options(ctx, cmd)...).ParseSupportsCondition(strings.NewReader(s))
	if err != nil {
		return describe(err)
	}
	fmt.Fprintln(output(cmd), cond)
	return nil
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := output(cmd)
	if len(fname) > 0 {
		f, err := os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer f.Close()
		out = f
	}

	if cmd.Bool("default") || env.Cfg == nil {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Debug("Writing configuration", zap.String("state", state), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
