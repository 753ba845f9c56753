package web

import (
	"errors"

	"github.com/dukex/flowcheck/pkg/analyzers"
	"github.com/dukex/flowcheck/pkg/graph"
	"github.com/dukex/flowcheck/pkg/persistence"
	"github.com/dukex/flowcheck/pkg/scoring"
	"github.com/dukex/flowcheck/pkg/services"
	"github.com/dukex/flowcheck/pkg/validation"
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, problemType, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType(problemType).
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func conflict(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(409).
		WithInstance(c.Path()).
		WithType("conflict").
		WithDetail(detail)

	return c.Status(fiber.StatusConflict).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleError maps engine, graph and persistence errors to problem responses.
func handleError(c fiber.Ctx, err error) error {
	switch {
	case validation.IsMalformedInput(err),
		errors.Is(err, scoring.ErrUnknownCategory),
		errors.Is(err, analyzers.ErrInvalidStrictness),
		persistence.IsInvalidWorkflowID(err),
		services.IsValidationError(err):
		return badRequest(c, err.Error())

	case graph.IsDuplicateIdentifier(err):
		return conflict(c, err.Error())

	case persistence.IsWorkflowNotFound(err):
		return notFound(c, "workflow_not_found", "workflow not found")

	case graph.IsNodeNotFound(err):
		return notFound(c, "node_not_found", "node not found")

	default:
		requestLogger(c).ErrorContext(c.Context(), "request failed", "error", err)

		return internalError(c, err)
	}
}
