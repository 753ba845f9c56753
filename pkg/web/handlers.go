// Package web provides the HTTP API for validating, analyzing and editing workflows.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dukex/flowcheck/pkg/analyzers"
	"github.com/dukex/flowcheck/pkg/cache"
	"github.com/dukex/flowcheck/pkg/engine"
	"github.com/dukex/flowcheck/pkg/eventbus"
	"github.com/dukex/flowcheck/pkg/events"
	"github.com/dukex/flowcheck/pkg/graph"
	"github.com/dukex/flowcheck/pkg/log"
	"github.com/dukex/flowcheck/pkg/models"
	"github.com/dukex/flowcheck/pkg/scoring"
	"github.com/dukex/flowcheck/pkg/services"
	"github.com/dukex/flowcheck/pkg/validation"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// DefaultCacheTTL is how long computed reports stay cached.
const DefaultCacheTTL = 10 * time.Minute

const cacheHeader = "X-Cache"

// APIHandlers serves the HTTP API. The cache and the event bus are optional.
type APIHandlers struct {
	engine          *engine.Engine
	workflowService *services.Workflow
	nodeService     *services.Node
	cache           cache.Cache
	eventBus        eventbus.EventBus
	validator       *validator.Validate
	cacheTTL        time.Duration
}

func NewAPIHandlers(
	engine *engine.Engine,
	workflowService *services.Workflow,
	nodeService *services.Node,
	cache cache.Cache,
	eventBus eventbus.EventBus,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		engine:          engine,
		workflowService: workflowService,
		nodeService:     nodeService,
		cache:           cache,
		eventBus:        eventBus,
		validator:       validator,
		cacheTTL:        DefaultCacheTTL,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, healthy := h.workflowService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Flowcheck API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if healthy {
		status = "healthy"
		message = "Flowcheck API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

// ValidateStructure always answers with the collected findings. An undecodable
// document is reported in the list rather than as a problem response.
func (h *APIHandlers) ValidateStructure(c fiber.Ctx) error {
	_, result, err := validation.Decode(c.Body())
	if err != nil && !validation.IsMalformedInput(err) {
		return handleError(c, err)
	}

	return c.JSON(result)
}

func (h *APIHandlers) Validate(c fiber.Ctx) error {
	opts, err := validationOptions(c)
	if err != nil {
		return handleError(c, err)
	}

	return h.validate(c, c.Body(), opts)
}

func (h *APIHandlers) Analyze(c fiber.Ctx) error {
	opts, err := analysisOptions(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	return h.analyze(c, c.Body(), opts)
}

func (h *APIHandlers) Confidence(c fiber.Ctx) error {
	var req ConfidenceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	return c.JSON(h.engine.ScoreConfidence(requestContext(c), req.Factors))
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.workflowService.ListWorkflows(c.Context())
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(summarize(workflows))
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	workflow, _, err := validation.Decode(c.Body())
	if err != nil {
		return handleError(c, err)
	}

	if workflow.ID == "" {
		workflow.ID = uuid.NewString()
	}

	if err := h.validator.Struct(workflow); err != nil {
		return badRequest(c, err.Error())
	}

	ctx := requestContext(c)

	saved, err := h.workflowService.Save(ctx, workflow)
	if err != nil {
		return handleError(c, err)
	}

	h.saved(ctx, saved)

	return c.Status(fiber.StatusCreated).JSON(saved)
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	workflow, err := h.workflowService.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	ctx := requestContext(c)
	id := c.Params("id")

	if err := h.workflowService.Delete(ctx, id); err != nil {
		return handleError(c, err)
	}

	h.publish(ctx, id, events.WorkflowDeleted{
		BaseEvent: events.NewBaseEvent(events.WorkflowDeletedEvent, id),
	})

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) CreateWorkflowNode(c fiber.Ctx) error {
	var req CreateNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	return h.mutate(c, fiber.StatusCreated, func(ctx context.Context, workflowID string) (*models.Workflow, error) {
		return h.nodeService.CreateNode(ctx, workflowID, req.Node(req.ID))
	})
}

func (h *APIHandlers) UpdateWorkflowNode(c fiber.Ctx) error {
	var patch graph.NodePatch
	if err := c.Bind().JSON(&patch); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	nodeID := c.Params("nodeId")

	return h.mutate(c, fiber.StatusOK, func(ctx context.Context, workflowID string) (*models.Workflow, error) {
		return h.nodeService.UpdateNode(ctx, workflowID, nodeID, patch)
	})
}

func (h *APIHandlers) DeleteWorkflowNode(c fiber.Ctx) error {
	nodeID := c.Params("nodeId")

	return h.mutate(c, fiber.StatusOK, func(ctx context.Context, workflowID string) (*models.Workflow, error) {
		return h.nodeService.DeleteNode(ctx, workflowID, nodeID)
	})
}

func (h *APIHandlers) CreateConnection(c fiber.Ctx) error {
	ref, err := h.connectionRef(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	return h.mutate(c, fiber.StatusCreated, func(ctx context.Context, workflowID string) (*models.Workflow, error) {
		return h.nodeService.CreateConnection(ctx, workflowID, ref)
	})
}

func (h *APIHandlers) DeleteConnection(c fiber.Ctx) error {
	ref, err := h.connectionRef(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	return h.mutate(c, fiber.StatusOK, func(ctx context.Context, workflowID string) (*models.Workflow, error) {
		return h.nodeService.DeleteConnection(ctx, workflowID, ref)
	})
}

func (h *APIHandlers) GetWorkflowValidation(c fiber.Ctx) error {
	opts, err := validationOptions(c)
	if err != nil {
		return handleError(c, err)
	}

	raw, err := h.document(c)
	if err != nil {
		return handleError(c, err)
	}

	return h.validate(c, raw, opts)
}

func (h *APIHandlers) GetWorkflowAnalysis(c fiber.Ctx) error {
	opts, err := analysisOptions(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	raw, err := h.document(c)
	if err != nil {
		return handleError(c, err)
	}

	return h.analyze(c, raw, opts)
}

func (h *APIHandlers) validate(c fiber.Ctx, raw []byte, opts scoring.ValidationOptions) error {
	ctx := requestContext(c)
	key := cache.Key("validation", []byte(opts.Strictness), []byte(joinCategories(opts.Categories)), raw)

	var report engine.Report

	hit := h.lookup(ctx, key, &report)
	if !hit {
		workflow, structure, err := validation.Decode(raw)
		if err != nil {
			return handleError(c, err)
		}

		computed, err := h.engine.ValidateCategories(ctx, workflow, opts)
		if err != nil {
			return handleError(c, err)
		}

		computed.Structure = structure
		report = *computed

		h.store(ctx, key, report)
	}

	h.publish(ctx, report.WorkflowID, events.ValidationCompleted{
		BaseEvent:      events.NewBaseEvent(events.ValidationCompletedEvent, report.WorkflowID),
		Strictness:     string(report.Strictness),
		Score:          report.Score,
		Passed:         report.Passed,
		TotalIssues:    report.TotalIssues,
		CriticalIssues: report.CriticalIssues,
		StructureValid: report.Structure.Valid,
		Cached:         hit,
	})

	c.Set(cacheHeader, cacheStatus(hit))

	return c.JSON(report)
}

func (h *APIHandlers) analyze(c fiber.Ctx, raw []byte, opts scoring.AnalysisOptions) error {
	ctx := requestContext(c)
	key := cache.Key("analysis", []byte(strconv.FormatBool(opts.IncludePatterns)), raw)

	var report engine.AnalysisReport

	hit := h.lookup(ctx, key, &report)
	if !hit {
		workflow, structure, err := validation.Decode(raw)
		if err != nil {
			return handleError(c, err)
		}

		computed, err := h.engine.Analyze(ctx, workflow, opts)
		if err != nil {
			return handleError(c, err)
		}

		computed.Structure = structure
		report = *computed

		h.store(ctx, key, report)
	}

	h.publish(ctx, report.WorkflowID, events.AnalysisCompleted{
		BaseEvent:    events.NewBaseEvent(events.AnalysisCompletedEvent, report.WorkflowID),
		Scores:       report.Scores,
		Issues:       len(report.Issues),
		AntiPatterns: report.AntiPatterns,
		Cached:       hit,
	})

	c.Set(cacheHeader, cacheStatus(hit))

	return c.JSON(report)
}

// mutate runs a node service operation against the workflow named by the id parameter.
func (h *APIHandlers) mutate(
	c fiber.Ctx,
	status int,
	fn func(ctx context.Context, workflowID string) (*models.Workflow, error),
) error {
	ctx := requestContext(c)

	updated, err := fn(ctx, c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	h.saved(ctx, updated)

	return c.Status(status).JSON(updated)
}

func (h *APIHandlers) saved(ctx context.Context, workflow *models.Workflow) {
	log.FromContext(ctx).InfoContext(ctx, "workflow saved", "workflow_id", workflow.ID, "nodes", len(workflow.Nodes))

	h.publish(ctx, workflow.ID, events.WorkflowSaved{
		BaseEvent: events.NewBaseEvent(events.WorkflowSavedEvent, workflow.ID),
		Name:      workflow.Name,
		NodeCount: len(workflow.Nodes),
	})
}

// document returns the stored workflow named by the id parameter as JSON.
func (h *APIHandlers) document(c fiber.Ctx) ([]byte, error) {
	workflow, err := h.workflowService.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return nil, err
	}

	return json.Marshal(workflow)
}

func (h *APIHandlers) connectionRef(c fiber.Ctx) (graph.ConnectionRef, error) {
	var ref graph.ConnectionRef
	if err := c.Bind().JSON(&ref); err != nil {
		return ref, err
	}

	if err := h.validator.Struct(ref); err != nil {
		return ref, err
	}

	return ref, nil
}

func (h *APIHandlers) lookup(ctx context.Context, key string, v any) bool {
	if h.cache == nil {
		return false
	}

	data, ok, err := h.cache.Get(ctx, key)
	if err != nil {
		log.FromContext(ctx).WarnContext(ctx, "report cache read failed", "error", err)

		return false
	}

	if !ok {
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		log.FromContext(ctx).WarnContext(ctx, "discarding unreadable cached report", "error", err)

		return false
	}

	return true
}

func (h *APIHandlers) store(ctx context.Context, key string, v any) {
	if h.cache == nil {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		log.FromContext(ctx).WarnContext(ctx, "failed to encode report for cache", "error", err)

		return
	}

	if err := h.cache.Set(ctx, key, data, h.cacheTTL); err != nil {
		log.FromContext(ctx).WarnContext(ctx, "report cache write failed", "error", err)
	}
}

func (h *APIHandlers) publish(ctx context.Context, key string, event eventbus.Event) {
	if h.eventBus == nil {
		return
	}

	if err := h.eventBus.Publish(ctx, key, event); err != nil {
		log.FromContext(ctx).WarnContext(ctx, "failed to publish event", "event_type", event.GetType(), "error", err)
	}
}

func validationOptions(c fiber.Ctx) (scoring.ValidationOptions, error) {
	strictness, err := analyzers.ParseStrictness(c.Query("strictness"))
	if err != nil {
		return scoring.ValidationOptions{}, err
	}

	var categories []models.Category

	for _, name := range strings.Split(c.Query("categories"), ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			categories = append(categories, models.Category(name))
		}
	}

	return scoring.ValidationOptions{Strictness: strictness, Categories: categories}, nil
}

func analysisOptions(c fiber.Ctx) (scoring.AnalysisOptions, error) {
	var opts scoring.AnalysisOptions

	if patterns := c.Query("patterns"); patterns != "" {
		include, err := strconv.ParseBool(patterns)
		if err != nil {
			return opts, err
		}

		opts.IncludePatterns = include
	}

	return opts, nil
}

func joinCategories(categories []models.Category) string {
	names := make([]string, len(categories))
	for i, category := range categories {
		names[i] = string(category)
	}

	return strings.Join(names, ",")
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}

	return "MISS"
}
