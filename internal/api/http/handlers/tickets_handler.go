package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// TicketsHandler exposes ticket state and SLA endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
	sla     *service.SlaService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, sla *service.SlaService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, sla: sla}
}

// Create POST /tickets. The fresh ticket gets its SLA due dates assigned
// immediately so the response already carries them.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.CreateTicket(c.Context(), service.CreateTicketInput{
		Title:       req.Title,
		Description: req.Description,
		RequesterID: req.RequesterID,
		Priority:    domain.TicketPriority(strings.ToUpper(req.Priority)),
		Tags:        req.Tags,
	})
	if err != nil {
		return err
	}
	ticket, err = h.sla.UpdateTicketSLA(c.Context(), ticket.ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.tickets.GetTicket(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// UpdateStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Status) == "" {
		return apperrors.NewValidationError("status required", nil)
	}
	actor := strings.TrimSpace(req.Actor)
	if actor == "" {
		return apperrors.NewValidationError("actor required", nil)
	}

	ticket, err := h.tickets.UpdateStatus(c.Context(), c.Params("id"),
		domain.TicketStatus(strings.ToUpper(req.Status)), actor, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// GetSLAStatus GET /tickets/:id/sla.
func (h *TicketsHandler) GetSLAStatus(c *fiber.Ctx) error {
	ticket, err := h.tickets.GetTicket(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.sla.SLAStatus(ticket)})
}

// RefreshSLA POST /tickets/:id/sla/refresh.
func (h *TicketsHandler) RefreshSLA(c *fiber.Ctx) error {
	ticket, err := h.sla.UpdateTicketSLA(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// ApproachingBreach GET /tickets/approaching-breach?threshold_hours=4.
func (h *TicketsHandler) ApproachingBreach(c *fiber.Ctx) error {
	threshold, err := strconv.Atoi(c.Query("threshold_hours", "4"))
	if err != nil {
		return apperrors.NewValidationError("threshold_hours must be an integer", nil)
	}
	tickets, err := h.sla.TicketsApproachingBreach(c.Context(), threshold)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.FromTicket(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
