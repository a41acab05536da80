package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/benbjohnson/go-css/config"
	"github.com/benbjohnson/go-css/parser"
)

type envKey struct{}

// localEnv keeps everything the program needs in a single place.
type localEnv struct {
	Cfg *config.Config
	Log *zap.Logger

	start         time.Time
	restoreStdLog func()
}

func envFromContext(ctx context.Context) *localEnv {
	if env, ok := ctx.Value(envKey{}).(*localEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func contextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &localEnv{start: time.Now(), Log: zap.NewNop()})
}

func (e *localEnv) uptime() time.Duration {
	return time.Since(e.start)
}

func (e *localEnv) redirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *localEnv) restoreLog() error {
	var err error
	if e.Log != nil {
		err = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
	return err
}

// parserOptions returns the parser options selected by the configuration
// and the global command line flags.
func (e *localEnv) parserOptions(ieValues, starHack bool) []parser.Option {
	pc := config.ParserConfig{MaxNesting: parser.DefaultMaxNesting}
	if e.Cfg != nil {
		pc = e.Cfg.Parser
	}
	pc.IEValues = pc.IEValues || ieValues
	pc.StarHack = pc.StarHack || starHack
	return append(pc.Options(), parser.WithLogger(e.Log))
}
