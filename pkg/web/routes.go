package web

import "github.com/gofiber/fiber/v3"

// RegisterRoutes mounts every API endpoint on r.
func RegisterRoutes(r fiber.Router, h *APIHandlers) {
	r.Post("/messages", h.PostMessage)
	r.Post("/chat", h.PostChat)

	catalog := r.Group("/catalog")
	catalog.Get("/products", h.GetProducts)
	catalog.Get("/orders/:id", h.GetOrder)

	r.Post("/refine", h.PostRefine)
	r.Post("/generate", h.PostGenerate)

	templates := r.Group("/templates")
	templates.Get("/", h.GetTemplates)
	templates.Post("/", h.CreateTemplate)
	templates.Delete("/:id", h.DeleteTemplate)

	settings := r.Group("/settings")
	settings.Get("/api-key", h.GetAPIKey)
	settings.Put("/api-key", h.PutAPIKey)

	workflows := r.Group("/workflows")
	workflows.Post("/run", h.RunSteps)
	workflows.Get("/", h.GetWorkflows)
	workflows.Post("/", h.CreateWorkflow)
	workflows.Get("/:id", h.GetWorkflow)
	workflows.Put("/:id", h.UpdateWorkflow)
	workflows.Delete("/:id", h.DeleteWorkflow)
	workflows.Post("/:id/run", h.RunWorkflow)

	r.Get("/health", h.HealthCheck)
}
