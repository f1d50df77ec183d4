package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// TicketService coordinates ticket lifecycle transitions. Automation jobs and
// HTTP handlers both go through it so every mutation lands in the audit trail.
type TicketService struct {
	tickets    repository.TicketRepository
	history    repository.TicketHistoryRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	HistoryRepo repository.TicketHistoryRepository
	Dispatcher  events.Dispatcher
	Now         func() time.Time
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// CreateTicketInput carries the caller-supplied fields for a new ticket.
type CreateTicketInput struct {
	Title       string
	Description string
	RequesterID string
	Priority    domain.TicketPriority
	Tags        []string
}

// CreateTicket opens a ticket in status NEW with a generated external key.
// Priority defaults to medium when the caller leaves it unset.
func (s *TicketService) CreateTicket(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if strings.TrimSpace(input.RequesterID) == "" {
		return nil, apperrors.NewValidationError("requester_id required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	switch priority {
	case domain.TicketPriorityLow, domain.TicketPriorityMedium, domain.TicketPriorityHigh, domain.TicketPriorityUrgent:
	default:
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}

	now := s.now()
	ticket := &domain.Ticket{
		ID:          uuid.NewString(),
		ExternalKey: GenerateTicketKey(),
		RequesterID: input.RequesterID,
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.TicketStatusNew,
		Priority:    priority,
		Tags:        input.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    input.RequesterID,
		Payload: events.TicketCreatedPayload{
			ExternalKey: ticket.ExternalKey,
			Title:       ticket.Title,
			Priority:    ticket.Priority,
		},
	})
	return ticket, nil
}

// GetTicket fetches a ticket by id.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// UpdateStatus transitions a ticket, recording history and emitting an event.
// The actor is a user/staff id, or domain.SystemActor for automated moves.
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID string, newStatus domain.TicketStatus, actor, comment string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.transition(ctx, ticket, newStatus, actor, comment)
}

// Transition applies a status change to an already-loaded ticket. Used by the
// automation sweeps, which mutate in-memory snapshots.
func (s *TicketService) Transition(ctx context.Context, ticket *domain.Ticket, newStatus domain.TicketStatus, actor, comment string) (*domain.Ticket, error) {
	return s.transition(ctx, ticket, newStatus, actor, comment)
}

func (s *TicketService) transition(ctx context.Context, ticket *domain.Ticket, newStatus domain.TicketStatus, actor, comment string) (*domain.Ticket, error) {
	if !isValidTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": ticket.Status,
			"to":   newStatus,
		})
	}

	now := s.now()
	oldStatus := ticket.Status
	ticket.Status = newStatus

	switch newStatus {
	case domain.TicketStatusResolved:
		if ticket.ResolvedAt == nil {
			ticket.ResolvedAt = &now
		}
	case domain.TicketStatusClosed:
		if ticket.ClosedAt == nil {
			ticket.ClosedAt = &now
		}
	default:
		// Reopening puts the resolution SLA clock back in play: the
		// completion timestamps only describe the current lifecycle run.
		ticket.ResolvedAt = nil
		ticket.ClosedAt = nil
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordStatusChange(ctx, ticket.ID, actor, oldStatus, newStatus, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Comment:   comment,
		},
	})
	return ticket, nil
}

func (s *TicketService) recordStatusChange(ctx context.Context, ticketID, actor string, oldStatus, newStatus domain.TicketStatus, comment string) error {
	if s.history == nil {
		return nil
	}
	actorType := domain.AuthorTypeStaff
	var actorID *string
	if actor == domain.SystemActor {
		actorType = domain.AuthorTypeSystem
	} else if actor != "" {
		actorID = &actor
	}
	entry := &domain.TicketHistory{
		TicketID:      ticketID,
		ChangedByType: actorType,
		ChangedByID:   actorID,
		ChangeType:    domain.ChangeTypeStatus,
		OldValue: map[string]any{
			"status": oldStatus,
		},
		NewValue: map[string]any{
			"status":  newStatus,
			"comment": comment,
		},
	}
	return s.history.Create(ctx, entry)
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// GenerateTicketKey creates an external reference like TCK-1A2B3C4D.
func GenerateTicketKey() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusNew: {
		domain.TicketStatusOpen,
		domain.TicketStatusCancelled,
	},
	domain.TicketStatusOpen: {
		domain.TicketStatusPendingCustomer,
		domain.TicketStatusPendingInternal,
		domain.TicketStatusPendingThirdParty,
		domain.TicketStatusResolved,
		domain.TicketStatusCancelled,
	},
	domain.TicketStatusPendingCustomer: {
		domain.TicketStatusOpen,
		domain.TicketStatusResolved,
		domain.TicketStatusCancelled,
	},
	domain.TicketStatusPendingInternal: {
		domain.TicketStatusOpen,
		domain.TicketStatusResolved,
		domain.TicketStatusCancelled,
	},
	domain.TicketStatusPendingThirdParty: {
		domain.TicketStatusOpen,
		domain.TicketStatusResolved,
		domain.TicketStatusCancelled,
	},
	domain.TicketStatusResolved: {
		domain.TicketStatusClosed,
		domain.TicketStatusOpen,
	},
	domain.TicketStatusClosed:    {},
	domain.TicketStatusCancelled: {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
