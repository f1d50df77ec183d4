package domain

import "time"

// ChangeType labels a history entry.
type ChangeType string

const (
	ChangeTypeStatus     ChangeType = "STATUS"
	ChangeTypePriority   ChangeType = "PRIORITY"
	ChangeTypeAssignee   ChangeType = "ASSIGNEE"
	ChangeTypeEscalation ChangeType = "ESCALATION"
	ChangeTypeSLA        ChangeType = "SLA"
)

// TicketHistory records one audited mutation.
type TicketHistory struct {
	ID            string
	TicketID      string
	ChangedByType MessageAuthorType
	ChangedByID   *string
	ChangeType    ChangeType
	OldValue      map[string]any
	NewValue      map[string]any
	CreatedAt     time.Time
}
