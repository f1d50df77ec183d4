package domain

import "time"

// RuleMetrics carries the elapsed-time measurements a sweep computes per ticket.
type RuleMetrics struct {
	HoursSinceCreation int
	HoursSinceUpdate   int
	EscalationLevel    int
}

// RuleConditions is the conjunctive trigger predicate of an escalation rule.
// Unset fields do not constrain.
type RuleConditions struct {
	MinHoursSinceCreation *int             `json:"min_hours_since_creation,omitempty"`
	MinHoursSinceUpdate   *int             `json:"min_hours_since_update,omitempty"`
	MaxEscalationLevel    *int             `json:"max_escalation_level,omitempty"`
	Priorities            []TicketPriority `json:"priorities,omitempty"`
	Statuses              []TicketStatus   `json:"statuses,omitempty"`
}

// RuleActions describes what applying a rule does to a ticket.
type RuleActions struct {
	AssignToID        *string         `json:"assign_to_id,omitempty"`
	SetPriority       *TicketPriority `json:"set_priority,omitempty"`
	AddNote           string          `json:"add_note,omitempty"`
	NotifySupervisors bool            `json:"notify_supervisors,omitempty"`
}

// EscalationRule defines one automatic escalation rule. Rules are evaluated
// in SortOrder; the first matching rule wins for a given ticket and pass.
type EscalationRule struct {
	ID              string
	Name            string
	Description     string
	IsActive        bool
	SortOrder       int
	MaxApplications int
	Conditions      RuleConditions
	Actions         RuleActions
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ShouldTrigger evaluates the rule's conditions against a ticket and its metrics.
func (r *EscalationRule) ShouldTrigger(ticket *Ticket, metrics RuleMetrics) bool {
	cond := r.Conditions
	if cond.MinHoursSinceCreation != nil && metrics.HoursSinceCreation < *cond.MinHoursSinceCreation {
		return false
	}
	if cond.MinHoursSinceUpdate != nil && metrics.HoursSinceUpdate < *cond.MinHoursSinceUpdate {
		return false
	}
	if cond.MaxEscalationLevel != nil && metrics.EscalationLevel > *cond.MaxEscalationLevel {
		return false
	}
	if len(cond.Priorities) > 0 && !containsPriority(cond.Priorities, ticket.Priority) {
		return false
	}
	if len(cond.Statuses) > 0 && !containsStatus(cond.Statuses, ticket.Status) {
		return false
	}
	return true
}

// HasReachedMaxApplications reports whether the rule hit its per-ticket cap.
func (r *EscalationRule) HasReachedMaxApplications(ticket *Ticket) bool {
	if r.MaxApplications <= 0 {
		return false
	}
	return ticket.RuleApplications(r.ID) >= r.MaxApplications
}

func containsPriority(list []TicketPriority, p TicketPriority) bool {
	for _, candidate := range list {
		if candidate == p {
			return true
		}
	}
	return false
}

func containsStatus(list []TicketStatus, s TicketStatus) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}
