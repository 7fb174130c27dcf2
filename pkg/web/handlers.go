// Package web provides the HTTP handlers for the chat, writing toolkit and workflow API.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukex/scribe/pkg/completion"
	"github.com/dukex/scribe/pkg/kvstore"
	"github.com/dukex/scribe/pkg/models"
	"github.com/dukex/scribe/pkg/services"
	"github.com/dukex/scribe/pkg/toolkit"
	"github.com/dukex/scribe/pkg/workflow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type APIHandlers struct {
	chat      *services.Chat
	toolkit   *toolkit.Service
	templates *services.Templates
	workflows *services.Workflows
	settings  *services.Settings
	store     kvstore.Store
	validator *validator.Validate
	logger    *slog.Logger

	completion HealthChecker
}

func NewAPIHandlers(
	chat *services.Chat,
	toolkitService *toolkit.Service,
	templates *services.Templates,
	workflows *services.Workflows,
	settings *services.Settings,
	store kvstore.Store,
	validator *validator.Validate,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		chat:      chat,
		toolkit:   toolkitService,
		templates: templates,
		workflows: workflows,
		settings:  settings,
		store:     store,
		validator: validator,
		logger:    logger.With("module", "web"),
	}
}

// WithCompletionCheck adds the completion API to /health. Its failures degrade the report but
// never make the API unavailable.
func (h *APIHandlers) WithCompletionCheck(checker HealthChecker) *APIHandlers {
	h.completion = checker

	return h
}

// PostMessage answers the chat widget: {message} -> {reply}.
func (h *APIHandlers) PostMessage(c fiber.Ctx) error {
	var req MessageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	reply, _ := h.chat.Respond(c.Context(), req.Message)

	return c.JSON(MessageResponse{Reply: reply})
}

func (h *APIHandlers) PostChat(c fiber.Ctx) error {
	var req ChatRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	reply, kind := h.chat.Respond(c.Context(), req.Query)

	return c.JSON(ChatResponse{Reply: reply, Intent: string(kind)})
}

func (h *APIHandlers) GetProducts(c fiber.Ctx) error {
	return c.JSON(h.chat.Products())
}

func (h *APIHandlers) GetOrder(c fiber.Ctx) error {
	order, err := h.chat.Order(c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(order)
}

func (h *APIHandlers) PostRefine(c fiber.Ctx) error {
	var req RefineRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.toolkit.Refine(c.Context(), toolkit.RefineKind(req.Kind), req.Text)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TextResponse{Result: result})
}

func (h *APIHandlers) PostGenerate(c fiber.Ctx) error {
	var req GenerateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.toolkit.Generate(c.Context(), toolkit.ContentKind(req.Kind), req.Prompt)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TextResponse{Result: result})
}

func (h *APIHandlers) GetTemplates(c fiber.Ctx) error {
	templates, err := h.templates.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(templates)
}

func (h *APIHandlers) CreateTemplate(c fiber.Ctx) error {
	var req CreateTemplateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Please fill in name and prompt")
	}

	created, err := h.templates.Save(c.Context(), models.PromptTemplate{
		Name:        req.Name,
		Category:    req.Category,
		Prompt:      req.Prompt,
		Description: req.Description,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) DeleteTemplate(c fiber.Ctx) error {
	if err := h.templates.Delete(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) PutAPIKey(c fiber.Ctx) error {
	var req APIKeyRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.settings.SetAPIKey(c.Context(), req.APIKey); err != nil {
		return internalError(c, err)
	}

	configured, err := h.settings.HasAPIKey(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(APIKeyStatus{Configured: configured})
}

// GetAPIKey reports whether a key is stored. The key itself is never returned.
func (h *APIHandlers) GetAPIKey(c fiber.Ctx) error {
	configured, err := h.settings.HasAPIKey(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(APIKeyStatus{Configured: configured})
}

func (h *APIHandlers) RunSteps(c fiber.Ctx) error {
	var req RunStepsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	outputs, err := h.workflows.RunSteps(c.Context(), toPromptSteps(req.Steps), req.Input)

	return h.runResponse(c, "", outputs, err)
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.workflows.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflows)
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	wf, err := h.workflows.Get(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(wf)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	return h.saveWorkflow(c, "", fiber.StatusCreated)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	id := c.Params("id")

	if _, err := h.workflows.Get(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return h.saveWorkflow(c, id, fiber.StatusOK)
}

func (h *APIHandlers) saveWorkflow(c fiber.Ctx, id string, status int) error {
	var req SaveWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	saved, err := h.workflows.Save(c.Context(), models.Workflow{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Steps:       toPromptSteps(req.Steps),
		Input:       req.Input,
		Schedule:    req.Schedule,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(status).JSON(saved)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	if err := h.workflows.Delete(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) RunWorkflow(c fiber.Ctx) error {
	var req RunWorkflowRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	result, err := h.workflows.Run(c.Context(), c.Params("id"), req.Input)
	if result == nil {
		return handleServiceError(c, err)
	}

	return h.runResponse(c, result.RunID, result.Outputs, err)
}

// runResponse reports partial outputs with the error when a run was aborted.
func (h *APIHandlers) runResponse(c fiber.Ctx, runID string, outputs []string, err error) error {
	if outputs == nil {
		outputs = []string{}
	}

	if err != nil {
		var stepErr *workflow.StepError
		if !errors.As(err, &stepErr) {
			h.logger.ErrorContext(c.Context(), "Workflow run failed", "error", err)

			return internalError(c, err)
		}

		return c.Status(http.StatusBadGateway).JSON(RunResponse{RunID: runID, Outputs: outputs, Error: err.Error()})
	}

	return c.JSON(RunResponse{RunID: runID, Outputs: outputs})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	status := "healthy"
	message := "Scribe API is healthy"
	storeCheck := "Store is healthy"
	httpStatus := http.StatusOK

	if err := h.store.HealthCheck(c.Context()); err != nil {
		status = "unhealthy"
		message = "Scribe API is unhealthy"
		storeCheck = "Store is unhealthy: " + err.Error()
		httpStatus = http.StatusServiceUnavailable
	}

	checkers := fiber.Map{
		"store": storeCheck,
	}

	if h.completion != nil {
		completionCheck := "Completion API is healthy"

		switch err := h.completion.HealthCheck(c.Context()); {
		case errors.Is(err, completion.ErrMissingCredential):
			completionCheck = "Completion API key is not configured"
		case err != nil:
			completionCheck = "Completion API is unhealthy: " + err.Error()

			if status == "healthy" {
				status = "degraded"
				message = "Scribe API is degraded"
			}
		}

		checkers["completion"] = completionCheck
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":   status,
		"message":  message,
		"checkers": checkers,
	})
}
