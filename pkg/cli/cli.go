package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/relwatch/pkg/cli/config"
	"github.com/m-mizutani/relwatch/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

type options struct {
	stdout    io.Writer
	logOutput io.Writer
}

// Option configures the I/O of Run
type Option func(*options)

// WithStdout replaces the writer receiving command results
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		o.stdout = w
	}
}

// WithLogOutput replaces the writer receiving log output
func WithLogOutput(w io.Writer) Option {
	return func(o *options) {
		o.logOutput = w
	}
}

// Run runs the CLI application
func Run(ctx context.Context, args []string, opts ...Option) error {
	o := &options{
		stdout:    os.Stdout,
		logOutput: os.Stderr,
	}
	for _, opt := range opts {
		opt(o)
	}

	var (
		loggerCfg = config.Logger{Output: o.logOutput}
		sentryCfg config.Sentry
		logger    *slog.Logger
		flush     = func() {}
	)

	app := &cli.Command{
		Name:      "relwatch",
		Usage:     "Print the latest release tag of a release channel",
		Version:   types.Version,
		Writer:    o.stdout,
		ErrWriter: o.logOutput,
		Flags:     append(loggerCfg.Flags(), sentryCfg.Flags()...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)

			flush, err = sentryCfg.Configure()
			if err != nil {
				return nil, err
			}
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if flush != nil {
				flush()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdCheck(),
			cmdChannels(),
			cmdServe(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.New(slog.NewTextHandler(o.logOutput, nil))
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		return err
	}

	return nil
}
