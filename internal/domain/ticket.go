package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew               TicketStatus = "NEW"
	TicketStatusOpen              TicketStatus = "OPEN"
	TicketStatusPendingCustomer   TicketStatus = "PENDING_CUSTOMER"
	TicketStatusPendingInternal   TicketStatus = "PENDING_INTERNAL"
	TicketStatusPendingThirdParty TicketStatus = "PENDING_THIRD_PARTY"
	TicketStatusResolved          TicketStatus = "RESOLVED"
	TicketStatusClosed            TicketStatus = "CLOSED"
	TicketStatusCancelled         TicketStatus = "CANCELLED"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// SystemActor identifies automated mutations in history and escalation entries.
const SystemActor = "system"

// EscalationEntry is one append-only record in a ticket's escalation history.
type EscalationEntry struct {
	Level        int       `json:"level"`
	EscalatedAt  time.Time `json:"escalated_at"`
	EscalatedBy  string    `json:"escalated_by"`
	Reason       string    `json:"reason"`
	RuleID       string    `json:"rule_id"`
	AssignedToID *string   `json:"assigned_to_id,omitempty"`
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          string
	ExternalKey string
	RequesterID string
	AssigneeID  *string
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	Tags        []string

	CreatedAt       time.Time
	UpdatedAt       time.Time
	FirstResponseAt *time.Time
	ResolvedAt      *time.Time
	ClosedAt        *time.Time

	// SLA fields. Due dates are computed once per ticket and never
	// recomputed; breach and elapsed times are derived on every refresh.
	SLAFirstResponseDueAt *time.Time
	SLAResolutionDueAt    *time.Time
	SLABreached           bool
	ResponseTimeHours     float64
	ResolutionTimeHours   float64

	// Escalation fields. Level only ever increases.
	EscalationLevel   int
	LastEscalatedAt   *time.Time
	EscalationHistory []EscalationEntry
}

// IsActive reports whether the ticket still counts toward SLA monitoring.
func (t *Ticket) IsActive() bool {
	switch t.Status {
	case TicketStatusNew, TicketStatusOpen, TicketStatusPendingCustomer:
		return true
	}
	return false
}

// RuleApplications counts how many times the given rule already escalated this ticket.
func (t *Ticket) RuleApplications(ruleID string) int {
	count := 0
	for _, entry := range t.EscalationHistory {
		if entry.RuleID == ruleID {
			count++
		}
	}
	return count
}
