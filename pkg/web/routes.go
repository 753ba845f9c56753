package web

import "github.com/gofiber/fiber/v3"

// Register mounts the API routes on router.
func (h *APIHandlers) Register(router fiber.Router) {
	router.Get("/health", h.HealthCheck)

	router.Post("/validate/structure", h.ValidateStructure)
	router.Post("/validate", h.Validate)
	router.Post("/analyze", h.Analyze)
	router.Post("/confidence", h.Confidence)

	w := router.Group("/workflows")
	w.Get("/", h.GetWorkflows)
	w.Post("/", h.CreateWorkflow)
	w.Get("/:id", h.GetWorkflow)
	w.Delete("/:id", h.DeleteWorkflow)
	w.Get("/:id/validation", h.GetWorkflowValidation)
	w.Get("/:id/analysis", h.GetWorkflowAnalysis)

	w.Post("/:id/nodes", h.CreateWorkflowNode)
	w.Patch("/:id/nodes/:nodeId", h.UpdateWorkflowNode)
	w.Delete("/:id/nodes/:nodeId", h.DeleteWorkflowNode)

	w.Post("/:id/connections", h.CreateConnection)
	w.Delete("/:id/connections", h.DeleteConnection)
}
