package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dukex/flowcheck/pkg/analyzers"
	"github.com/dukex/flowcheck/pkg/engine"
	"github.com/dukex/flowcheck/pkg/log"
	"github.com/dukex/flowcheck/pkg/models"
	"github.com/dukex/flowcheck/pkg/otelhelper"
	"github.com/dukex/flowcheck/pkg/scoring"
	"github.com/dukex/flowcheck/pkg/validation"
	"github.com/urfave/cli/v3"
)

var (
	// ErrValidationFailed is returned when a workflow does not pass validation.
	ErrValidationFailed = errors.New("workflow validation failed")
	ErrMissingFile      = errors.New("workflow file argument is required")
	ErrInvalidFactor    = errors.New("invalid factor, expected name:weight:matched")
)

func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"v"},
		Usage:     "Validate a workflow document",
		ArgsUsage: "<file|->",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "strictness",
				Aliases: []string{"s"},
				Usage:   "Strictness level (low, medium, high)",
				Value:   string(analyzers.StrictnessMedium),
				Sources: cli.EnvVars("STRICTNESS"),
			},
			&cli.StringSliceFlag{
				Name:    "category",
				Aliases: []string{"c"},
				Usage:   "Category to run, repeatable (naming, security, performance, error_handling, documentation)",
			},
			&cli.BoolFlag{
				Name:  "structure-only",
				Usage: "Only check the document shape and connection references",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			raw, err := readDocument(command)
			if err != nil {
				return err
			}

			if command.Bool("structure-only") {
				_, result, err := validation.Decode(raw)
				if err != nil && !validation.IsMalformedInput(err) {
					return err
				}

				if err := writeJSON(command, result); err != nil {
					return err
				}

				if !result.Valid {
					return ErrValidationFailed
				}

				return nil
			}

			strictness, err := analyzers.ParseStrictness(command.String("strictness"))
			if err != nil {
				return err
			}

			categories := make([]models.Category, 0)
			for _, name := range command.StringSlice("category") {
				categories = append(categories, models.Category(name))
			}

			workflow, structure, err := validation.Decode(raw)
			if err != nil {
				return err
			}

			e, shutdown, err := newEngine(ctx, command)
			if err != nil {
				return err
			}
			defer shutdown(ctx)

			report, err := e.ValidateCategories(ctx, workflow, scoring.ValidationOptions{
				Strictness: strictness,
				Categories: categories,
			})
			if err != nil {
				return err
			}

			report.Structure = structure

			if err := writeJSON(command, report); err != nil {
				return err
			}

			if !report.Passed || !report.Structure.Valid {
				return ErrValidationFailed
			}

			return nil
		},
	}
}

func NewAnalyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Compute the composite quality assessment of a workflow document",
		ArgsUsage: "<file|->",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "patterns",
				Usage: "Include detected patterns and anti-patterns",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			raw, err := readDocument(command)
			if err != nil {
				return err
			}

			workflow, structure, err := validation.Decode(raw)
			if err != nil {
				return err
			}

			e, shutdown, err := newEngine(ctx, command)
			if err != nil {
				return err
			}
			defer shutdown(ctx)

			report, err := e.Analyze(ctx, workflow, scoring.AnalysisOptions{IncludePatterns: command.Bool("patterns")})
			if err != nil {
				return err
			}

			report.Structure = structure

			return writeJSON(command, report)
		},
	}
}

func NewConfidenceCommand() *cli.Command {
	return &cli.Command{
		Name:  "confidence",
		Usage: "Score how reliable a recommendation is from weighted factors",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "factor",
				Aliases: []string{"f"},
				Usage:   "Factor as name:weight:matched, repeatable",
			},
			&cli.StringFlag{
				Name:  "query",
				Usage: "Node type query to match against --node-type",
			},
			&cli.StringFlag{
				Name:  "node-type",
				Usage: "Candidate node type for --query",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			factors := make([]models.ConfidenceFactor, 0)

			for _, value := range command.StringSlice("factor") {
				factor, err := parseFactor(value)
				if err != nil {
					return err
				}

				factors = append(factors, factor)
			}

			if query, nodeType := command.String("query"), command.String("node-type"); query != "" && nodeType != "" {
				factors = append(factors, scoring.NodeTypeMatchFactors(query, nodeType)...)
			}

			e, shutdown, err := newEngine(ctx, command)
			if err != nil {
				return err
			}
			defer shutdown(ctx)

			return writeJSON(command, e.ScoreConfidence(ctx, factors))
		},
	}
}

func parseFactor(value string) (models.ConfidenceFactor, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 || strings.TrimSpace(parts[0]) == "" {
		return models.ConfidenceFactor{}, fmt.Errorf("%w: %q", ErrInvalidFactor, value)
	}

	weight, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return models.ConfidenceFactor{}, fmt.Errorf("%w: %q: %w", ErrInvalidFactor, value, err)
	}

	matched, err := strconv.ParseBool(parts[2])
	if err != nil {
		return models.ConfidenceFactor{}, fmt.Errorf("%w: %q: %w", ErrInvalidFactor, value, err)
	}

	return models.ConfidenceFactor{Name: strings.TrimSpace(parts[0]), Weight: weight, Matched: matched}, nil
}

// newEngine builds an engine, exporting spans when --otel is set. The returned
// function flushes pending spans.
func newEngine(ctx context.Context, command *cli.Command) (*engine.Engine, func(context.Context), error) {
	logger := log.WithModule("engine")

	if !command.Bool("otel") {
		return engine.New(engine.WithLogger(logger)), func(context.Context) {}, nil
	}

	tracer, shutdown, err := otelhelper.NewTracer(ctx, "flowcheck")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	flush := func(ctx context.Context) {
		if err := shutdown(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
		}
	}

	return engine.New(engine.WithLogger(logger), engine.WithTracer(tracer)), flush, nil
}

func readDocument(command *cli.Command) ([]byte, error) {
	path := command.Args().First()

	switch path {
	case "":
		return nil, ErrMissingFile
	case "-":
		return io.ReadAll(command.Root().Reader)
	default:
		return os.ReadFile(path)
	}
}

func writeJSON(command *cli.Command, v any) error {
	encoder := json.NewEncoder(command.Root().Writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
