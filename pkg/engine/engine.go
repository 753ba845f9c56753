// Package engine is the entry point of workflow validation: structure first,
// then category analyzers or the composite analysis.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukex/flowcheck/pkg/analyzers"
	"github.com/dukex/flowcheck/pkg/graph"
	"github.com/dukex/flowcheck/pkg/log"
	"github.com/dukex/flowcheck/pkg/models"
	"github.com/dukex/flowcheck/pkg/otelhelper"
	"github.com/dukex/flowcheck/pkg/scoring"
	"github.com/dukex/flowcheck/pkg/validation"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrMalformedInput is returned when there is no workflow to work on.
	ErrMalformedInput = validation.ErrMalformedInput
	// ErrUnknownCategory is returned when a requested category has no analyzer.
	ErrUnknownCategory = scoring.ErrUnknownCategory
)

// Report is the outcome of a category validation run.
type Report struct {
	models.ValidationResult

	WorkflowID string                     `json:"workflow_id"`
	Strictness analyzers.Strictness       `json:"strictness"`
	Structure  validation.StructureResult `json:"structure"`
}

// AnalysisReport is the outcome of a composite analysis run.
type AnalysisReport struct {
	models.AnalysisResult

	WorkflowID string                     `json:"workflow_id"`
	Structure  validation.StructureResult `json:"structure"`
}

// Engine runs validations and analyses. It holds no per-workflow state and is
// safe for concurrent use.
type Engine struct {
	logger *slog.Logger
	tracer trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTracer sets the tracer used for engine spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = log.WithModule("engine")
	}

	if e.tracer == nil {
		e.tracer = otelhelper.NoopTracer()
	}

	return e
}

func workflowAttributes(workflow *models.Workflow) []attribute.KeyValue {
	if workflow == nil {
		return nil
	}

	return []attribute.KeyValue{
		attribute.String(otelhelper.WorkflowIDKey, workflow.ID),
		attribute.String(otelhelper.WorkflowNameKey, workflow.Name),
		attribute.Int(otelhelper.NodeCountKey, len(workflow.Nodes)),
	}
}

// ValidateStructure checks the workflow shape and references.
func (e *Engine) ValidateStructure(ctx context.Context, workflow *models.Workflow) validation.StructureResult {
	_, span := otelhelper.StartSpan(ctx, e.tracer, "engine.validate_structure", workflowAttributes(workflow)...)
	defer span.End()

	result := validation.ValidateStructure(workflow)

	span.SetAttributes(attribute.Bool(otelhelper.PassedKey, result.Valid))

	return result
}

// ValidateCategories validates the structure and then runs the selected category
// analyzers, one goroutine per category. Analyzers themselves never fail; the only
// runtime error is ctx being done before an analyzer starts, in which case the
// context error is returned wrapped and no partial report is produced.
func (e *Engine) ValidateCategories(ctx context.Context, workflow *models.Workflow, opts scoring.ValidationOptions) (*Report, error) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.validate_categories", workflowAttributes(workflow)...)
	defer span.End()

	if workflow == nil {
		err := fmt.Errorf("validate categories: %w", ErrMalformedInput)
		otelhelper.SetError(span, err)

		return nil, err
	}

	strictness := opts.Strictness
	if strictness == "" {
		strictness = analyzers.StrictnessMedium
	}

	span.SetAttributes(attribute.String(otelhelper.StrictnessKey, string(strictness)))

	selected, err := scoring.ResolveAnalyzers(opts.Categories)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	structure := validation.ValidateStructure(workflow)
	if !structure.Valid {
		e.logger.DebugContext(ctx, "workflow has structural errors",
			"workflow_id", workflow.ID,
			"errors", len(structure.Errors))
	}

	results := make([]models.CategoryResult, len(selected))

	g, gctx := errgroup.WithContext(ctx)

	for i, analyzer := range selected {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			_, categorySpan := otelhelper.StartSpan(gctx, e.tracer, "engine.analyze_category",
				attribute.String(otelhelper.CategoryKey, string(analyzer.Category())))
			defer categorySpan.End()

			results[i] = analyzer.Analyze(workflow, strictness)

			categorySpan.SetAttributes(attribute.Int(otelhelper.ScoreKey, results[i].Score))

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("validate categories: %w", err)
	}

	byCategory := make(map[models.Category]models.CategoryResult, len(selected))
	for i, analyzer := range selected {
		byCategory[analyzer.Category()] = results[i]
	}

	aggregate := scoring.Aggregate(byCategory)

	span.SetAttributes(
		attribute.Int(otelhelper.ScoreKey, aggregate.Score),
		attribute.Bool(otelhelper.PassedKey, aggregate.Passed),
	)

	e.logger.DebugContext(ctx, "validated workflow categories",
		"workflow_id", workflow.ID,
		"strictness", strictness,
		"categories", len(selected),
		"score", aggregate.Score,
		"issues", aggregate.TotalIssues,
		"critical", aggregate.CriticalIssues)

	return &Report{
		ValidationResult: aggregate,
		WorkflowID:       workflow.ID,
		Strictness:       strictness,
		Structure:        structure,
	}, nil
}

// Analyze validates the structure and computes the composite 0-10 assessment.
func (e *Engine) Analyze(ctx context.Context, workflow *models.Workflow, opts scoring.AnalysisOptions) (*AnalysisReport, error) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.analyze", workflowAttributes(workflow)...)
	defer span.End()

	if workflow == nil {
		err := fmt.Errorf("analyze: %w", ErrMalformedInput)
		otelhelper.SetError(span, err)

		return nil, err
	}

	structure := validation.ValidateStructure(workflow)
	result := scoring.Analyze(workflow, opts)

	e.logger.DebugContext(ctx, "analyzed workflow",
		"workflow_id", workflow.ID,
		"complexity", result.Scores.Complexity,
		"performance", result.Scores.Performance,
		"security", result.Scores.Security,
		"maintainability", result.Scores.Maintainability,
		"issues", len(result.Issues))

	return &AnalysisReport{
		AnalysisResult: result,
		WorkflowID:     workflow.ID,
		Structure:      structure,
	}, nil
}

// ScoreConfidence rates a proposed fact from its weighted factors.
func (e *Engine) ScoreConfidence(ctx context.Context, factors []models.ConfidenceFactor) models.ConfidenceScore {
	_, span := otelhelper.StartSpan(ctx, e.tracer, "engine.score_confidence",
		attribute.Int(otelhelper.FactorCountKey, len(factors)))
	defer span.End()

	return scoring.ScoreConfidence(factors)
}

// AddNode appends a node. See graph.AddNode.
func (e *Engine) AddNode(ctx context.Context, workflow *models.Workflow, node models.Node) (*models.Workflow, error) {
	updated, err := graph.AddNode(workflow, node)
	if err != nil {
		e.logger.DebugContext(ctx, "add node rejected", "node_id", node.ID, "error", err)

		return nil, err
	}

	return updated, nil
}

// RemoveNode removes a node and every connection touching it. See graph.RemoveNode.
func (e *Engine) RemoveNode(_ context.Context, workflow *models.Workflow, nodeID string) *models.Workflow {
	return graph.RemoveNode(workflow, nodeID)
}

// AddConnection adds a connection. See graph.AddConnection.
func (e *Engine) AddConnection(_ context.Context, workflow *models.Workflow, conn graph.ConnectionRef) *models.Workflow {
	return graph.AddConnection(workflow, conn.Source, conn.SourceChannel, conn.Target, conn.TargetChannel, conn.TargetIndex)
}

// RemoveConnection removes an exactly matching connection. See graph.RemoveConnection.
func (e *Engine) RemoveConnection(_ context.Context, workflow *models.Workflow, conn graph.ConnectionRef) *models.Workflow {
	return graph.RemoveConnection(workflow, conn.Source, conn.SourceChannel, conn.Target, conn.TargetChannel, conn.TargetIndex)
}

// UpdateNode merges a patch into a node. See graph.UpdateNode.
func (e *Engine) UpdateNode(ctx context.Context, workflow *models.Workflow, nodeID string, patch graph.NodePatch) (*models.Workflow, error) {
	updated, err := graph.UpdateNode(workflow, nodeID, patch)
	if err != nil {
		e.logger.DebugContext(ctx, "update node rejected", "node_id", nodeID, "error", err)
	}

	return updated, err
}
