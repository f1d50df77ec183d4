package events

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketEscalated     EventType = "ticket_escalated"
	EventSLABreachDetected   EventType = "sla_breach_detected"
	EventTicketAutoClosed    EventType = "ticket_auto_closed"
)

// AllEventTypes lists every event a dispatcher can carry, for forwarders that
// subscribe to the full stream.
var AllEventTypes = []EventType{
	EventTicketCreated,
	EventTicketStatusChanged,
	EventTicketEscalated,
	EventSLABreachDetected,
	EventTicketAutoClosed,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	ExternalKey string                `json:"external_key"`
	Title       string                `json:"title"`
	Priority    domain.TicketPriority `json:"priority"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Comment   string              `json:"comment,omitempty"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	RuleID            string                 `json:"rule_id"`
	RuleName          string                 `json:"rule_name"`
	NewLevel          int                    `json:"new_level"`
	AssignedToID      *string                `json:"assigned_to_id,omitempty"`
	NewPriority       *domain.TicketPriority `json:"new_priority,omitempty"`
	NotifySupervisors bool                   `json:"notify_supervisors"`
}

// SLABreachDetectedPayload payload.
type SLABreachDetectedPayload struct {
	FirstResponseDueAt *time.Time `json:"first_response_due_at,omitempty"`
	ResolutionDueAt    *time.Time `json:"resolution_due_at,omitempty"`
}

// TicketAutoClosedPayload payload.
type TicketAutoClosedPayload struct {
	HoursSinceUpdate int `json:"hours_since_update"`
}
