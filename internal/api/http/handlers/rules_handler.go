package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// RulesHandler manages escalation rule configuration.
type RulesHandler struct {
	rules repository.EscalationRuleRepository
}

// NewRulesHandler constructs handler.
func NewRulesHandler(rules repository.EscalationRuleRepository) *RulesHandler {
	return &RulesHandler{rules: rules}
}

// List GET /escalation-rules?active=true.
func (h *RulesHandler) List(c *fiber.Ctx) error {
	var (
		rules []domain.EscalationRule
		err   error
	)
	if c.QueryBool("active") {
		rules, err = h.rules.ListActive(c.Context())
	} else {
		rules, err = h.rules.ListAll(c.Context())
	}
	if err != nil {
		return apperrors.MapError(err)
	}
	items := make([]dto.EscalationRuleSummary, 0, len(rules))
	for i := range rules {
		items = append(items, dto.FromRule(&rules[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /escalation-rules/:id.
func (h *RulesHandler) Get(c *fiber.Ctx) error {
	rule, err := h.rules.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.FromRule(rule)})
}

// Create POST /escalation-rules.
func (h *RulesHandler) Create(c *fiber.Ctx) error {
	req, err := parseRuleRequest(c)
	if err != nil {
		return err
	}
	rule := ruleFromRequest(req)
	if err := h.rules.Create(c.Context(), rule); err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromRule(rule)})
}

// Update PUT /escalation-rules/:id.
func (h *RulesHandler) Update(c *fiber.Ctx) error {
	req, err := parseRuleRequest(c)
	if err != nil {
		return err
	}
	rule := ruleFromRequest(req)
	rule.ID = c.Params("id")
	if err := h.rules.Update(c.Context(), rule); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.FromRule(rule)})
}

func parseRuleRequest(c *fiber.Ctx) (*dto.SaveEscalationRuleRequest, error) {
	var req dto.SaveEscalationRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if req.MaxApplications < 0 {
		return nil, apperrors.NewValidationError("max_applications must not be negative", nil)
	}
	return &req, nil
}

func ruleFromRequest(req *dto.SaveEscalationRuleRequest) *domain.EscalationRule {
	return &domain.EscalationRule{
		Name:            req.Name,
		Description:     req.Description,
		IsActive:        req.IsActive,
		SortOrder:       req.SortOrder,
		MaxApplications: req.MaxApplications,
		Conditions:      req.Conditions,
		Actions:         req.Actions,
	}
}
