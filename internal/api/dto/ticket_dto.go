package dto

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// TicketSummary is the list/detail projection of a ticket.
type TicketSummary struct {
	ID                    string     `json:"id"`
	ExternalKey           string     `json:"external_key"`
	Title                 string     `json:"title"`
	Status                string     `json:"status"`
	Priority              string     `json:"priority"`
	AssigneeID            *string    `json:"assignee_id,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	FirstResponseAt       *time.Time `json:"first_response_at,omitempty"`
	ResolvedAt            *time.Time `json:"resolved_at,omitempty"`
	ClosedAt              *time.Time `json:"closed_at,omitempty"`
	SLAFirstResponseDueAt *time.Time `json:"sla_first_response_due_at,omitempty"`
	SLAResolutionDueAt    *time.Time `json:"sla_resolution_due_at,omitempty"`
	SLABreached           bool       `json:"sla_breached"`
	EscalationLevel       int        `json:"escalation_level"`
	LastEscalatedAt       *time.Time `json:"last_escalated_at,omitempty"`
}

// CreateTicketRequest opens a new ticket.
type CreateTicketRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	RequesterID string   `json:"requester_id"`
	Priority    string   `json:"priority"`
	Tags        []string `json:"tags"`
}

// UpdateStatusRequest changes a ticket's lifecycle state.
type UpdateStatusRequest struct {
	Status  string `json:"status"`
	Actor   string `json:"actor"`
	Comment string `json:"comment"`
}

// FromTicket maps a domain ticket to its summary projection.
func FromTicket(ticket *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:                    ticket.ID,
		ExternalKey:           ticket.ExternalKey,
		Title:                 ticket.Title,
		Status:                string(ticket.Status),
		Priority:              string(ticket.Priority),
		AssigneeID:            ticket.AssigneeID,
		CreatedAt:             ticket.CreatedAt,
		UpdatedAt:             ticket.UpdatedAt,
		FirstResponseAt:       ticket.FirstResponseAt,
		ResolvedAt:            ticket.ResolvedAt,
		ClosedAt:              ticket.ClosedAt,
		SLAFirstResponseDueAt: ticket.SLAFirstResponseDueAt,
		SLAResolutionDueAt:    ticket.SLAResolutionDueAt,
		SLABreached:           ticket.SLABreached,
		EscalationLevel:       ticket.EscalationLevel,
		LastEscalatedAt:       ticket.LastEscalatedAt,
	}
}
