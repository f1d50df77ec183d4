package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// TemplatesHandler compiles email structures into HTML.
type TemplatesHandler struct {
	templates *service.TemplateService
}

// NewTemplatesHandler constructs handler.
func NewTemplatesHandler(templates *service.TemplateService) *TemplatesHandler {
	return &TemplatesHandler{templates: templates}
}

// Compile POST /templates/compile.
func (h *TemplatesHandler) Compile(c *fiber.Ctx) error {
	var req dto.CompileTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.templates.Compile(c.Context(), req.Structure, service.CompileOptions{
		IncludeChrome: req.IncludeChrome,
		Data:          req.Data,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// Preview POST /templates/preview. Resolves the unsubscribe placeholder for a
// concrete recipient so the returned HTML matches a real delivery.
func (h *TemplatesHandler) Preview(c *fiber.Ctx) error {
	var req dto.PreviewTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.SubscriberID == "" {
		return apperrors.NewValidationError("subscriber_id required", nil)
	}
	result, err := h.templates.Compile(c.Context(), req.Structure, service.CompileOptions{
		IncludeChrome:   req.IncludeChrome,
		Data:            req.Data,
		SubscriberID:    req.SubscriberID,
		SubscriberEmail: req.SubscriberEmail,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}
