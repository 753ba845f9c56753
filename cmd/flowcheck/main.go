// Package main provides the flowcheck command line and API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dukex/flowcheck/pkg/log"
	cli "github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:                  "flowcheck",
		Usage:                 "Validate, score and analyze workflow graphs",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "otel",
				Usage:   "Export engine traces over OTLP/HTTP",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
		},
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			log.Setup(command.String("log-level"))

			return ctx, nil
		},
		Commands: []*cli.Command{
			NewValidateCommand(),
			NewAnalyzeCommand(),
			NewConfidenceCommand(),
			NewServeCommand(),
		},
	}
}

func main() {
	err := newApp().Run(context.Background(), os.Args)
	if err == nil {
		return
	}

	if errors.Is(err, ErrValidationFailed) {
		os.Exit(2)
	}

	fmt.Fprintln(os.Stderr, "flowcheck:", err)
	os.Exit(1)
}
