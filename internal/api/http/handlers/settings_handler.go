package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// SettingsHandler manages the site chrome settings used by email templates.
type SettingsHandler struct {
	settings repository.SiteSettingsRepository
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(settings repository.SiteSettingsRepository) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get GET /site-settings.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	settings, err := h.settings.Get(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": settings})
}

// Update PUT /site-settings.
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var req dto.SiteSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.BaseURL) == "" {
		return apperrors.NewValidationError("base_url required", nil)
	}

	settings := &domain.SiteSettings{
		BaseURL:      req.BaseURL,
		LogoPath:     req.LogoPath,
		CompanyName:  req.CompanyName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		SocialLinks:  req.SocialLinks,
	}
	if err := h.settings.Upsert(c.Context(), settings); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": settings})
}
