package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benbjohnson/go-css/config"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	env := envFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		env.Cfg.Logging.ConsoleLogger.Level = "debug"
	}
	if env.Log, err = env.Cfg.Logging.Prepare(); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.redirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", version()), zap.String("runtime", runtime.Version()))
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := envFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	// log is synced now, errors must be reported directly to stderr from
	// now on
	if er := env.restoreLog(); er != nil && !isIgnorableSyncError(er) {
		err = multierr.Append(err, fmt.Errorf("unable to sync logs: %w", er))
	}
	return
}

// isIgnorableSyncError reports sync errors caused by console streams that
// cannot be synced.
func isIgnorableSyncError(err error) bool {
	for _, e := range multierr.Errors(err) {
		if !errors.Is(e, syscall.EINVAL) && !errors.Is(e, syscall.ENOTTY) && !errors.Is(e, syscall.EBADF) {
			return false
		}
	}
	return true
}

// Ignore urfave/cli default error handling, subcommands return regular
// errors.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := envFromContext(ctx)

	if env.Log != nil && env.Cfg != nil && env.Cfg.Logging.ConsoleLogger.Level != "none" {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// do nothing special, error is reported either by exitErrHandler or on
	// exit directly to stderr.
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	envFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

func version() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:            config.AppName,
		Usage:           "parses CSS style sheets, values, selectors and conditions",
		Version:         version() + " (" + runtime.Version() + ")",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log parser debug output to the console"},
			&cli.BoolFlag{Name: "ie-values", Usage: "accept Internet Explorer value hacks"},
			&cli.BoolFlag{Name: "star-hack", Usage: "accept property names prefixed with '*'"},
		},
		Commands: []*cli.Command{
			{
				Name:         "sheet",
				Usage:        "Parses style sheet file(s) and prints their events",
				OnUsageError: usageErrorHandler,
				Action:       runSheet,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "css", Usage: "print the style sheet back as CSS instead of its events"},
					&cli.StringFlag{Name: "charset", Usage: "assume `ENCODING` for files without a byte order mark (see IANA.org for character set names)"},
				},
				ArgsUsage: "FILE...",
				CustomHelpTemplate: fmt.Sprintf(`%s
FILE:
    path to a style sheet, "-" or nothing reads STDIN

	Errors are logged with their position and parsing resumes at the next
	declaration or rule. The command fails if any file had errors.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "value",
				Usage:        "Parses the value of a property",
				OnUsageError: usageErrorHandler,
				Action:       runValue,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "units", Aliases: []string{"u"}, Usage: "list the type of every lexical unit"},
				},
				ArgsUsage: "PROPERTY VALUE",
			},
			{
				Name:         "selectors",
				Usage:        "Parses a selector list and prints each selector with its specificity",
				OnUsageError: usageErrorHandler,
				Action:       runSelectors,
				ArgsUsage:    "SELECTORS",
			},
			{
				Name:         "page",
				Usage:        "Parses a page selector list",
				OnUsageError: usageErrorHandler,
				Action:       runPage,
				ArgsUsage:    "SELECTORS",
			},
			{
				Name:         "media",
				Usage:        "Parses a media query list",
				OnUsageError: usageErrorHandler,
				Action:       runMedia,
				ArgsUsage:    "QUERIES",
			},
			{
				Name:         "supports",
				Usage:        "Parses the condition of a @supports rule",
				OnUsageError: usageErrorHandler,
				Action:       runSupports,
				ArgsUsage:    "CONDITION",
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(contextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = newApp().Run(ctx, os.Args)
}
