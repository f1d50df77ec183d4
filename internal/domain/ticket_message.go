package domain

import "time"

// MessageAuthorType distinguishes who wrote a message.
type MessageAuthorType string

const (
	AuthorTypeUser   MessageAuthorType = "USER"
	AuthorTypeStaff  MessageAuthorType = "STAFF"
	AuthorTypeSystem MessageAuthorType = "SYSTEM"
)

// TicketMessageType distinguishes public replies from internal notes.
type TicketMessageType string

const (
	MessageTypePublicReply  TicketMessageType = "PUBLIC_REPLY"
	MessageTypeInternalNote TicketMessageType = "INTERNAL_NOTE"
)

// TicketMessage is one entry in a ticket's conversation thread.
type TicketMessage struct {
	ID          string
	TicketID    string
	MessageType TicketMessageType
	AuthorType  MessageAuthorType
	AuthorID    *string
	Body        string
	CreatedAt   time.Time
}
