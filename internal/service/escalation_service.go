package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// EscalationService evaluates configured rules against tickets and applies
// the first matching one per ticket and pass.
type EscalationService struct {
	tickets    repository.TicketRepository
	rules      repository.EscalationRuleRepository
	messages   repository.TicketMessageRepository
	history    repository.TicketHistoryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// EscalationDependencies bundles collaborators for the escalation service.
type EscalationDependencies struct {
	TicketRepo  repository.TicketRepository
	RuleRepo    repository.EscalationRuleRepository
	MessageRepo repository.TicketMessageRepository
	HistoryRepo repository.TicketHistoryRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Now         func() time.Time
}

// NewEscalationService constructs the service.
func NewEscalationService(deps EscalationDependencies) *EscalationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &EscalationService{
		tickets:    deps.TicketRepo,
		rules:      deps.RuleRepo,
		messages:   deps.MessageRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        now,
	}
}

// ActiveRules returns the rules in evaluation order.
func (s *EscalationService) ActiveRules(ctx context.Context) ([]domain.EscalationRule, error) {
	rules, err := s.rules.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return rules, nil
}

// Metrics computes the elapsed-time measurements a sweep feeds into rule
// predicates. Hours use floor semantics.
func (s *EscalationService) Metrics(ticket *domain.Ticket) domain.RuleMetrics {
	now := s.now()
	return domain.RuleMetrics{
		HoursSinceCreation: hoursSince(ticket.CreatedAt, now),
		HoursSinceUpdate:   hoursSince(ticket.UpdatedAt, now),
		EscalationLevel:    ticket.EscalationLevel,
	}
}

// SelectRule returns the first applicable rule for the ticket, skipping rules
// that hit their per-ticket application cap. Nil means no escalation this pass.
func (s *EscalationService) SelectRule(ticket *domain.Ticket, rules []domain.EscalationRule, metrics domain.RuleMetrics) *domain.EscalationRule {
	for i := range rules {
		rule := &rules[i]
		if rule.HasReachedMaxApplications(ticket) {
			continue
		}
		if rule.ShouldTrigger(ticket, metrics) {
			return rule
		}
	}
	return nil
}

// Apply escalates the ticket under the given rule: history entry, level bump,
// rule actions, persistence, and the supervisor notification event.
func (s *EscalationService) Apply(ctx context.Context, ticket *domain.Ticket, rule *domain.EscalationRule) error {
	now := s.now()
	entry := domain.EscalationEntry{
		Level:       ticket.EscalationLevel + 1,
		EscalatedAt: now,
		EscalatedBy: domain.SystemActor,
		Reason:      "Escalated by rule: " + rule.Name,
		RuleID:      rule.ID,
	}

	oldLevel := ticket.EscalationLevel
	ticket.EscalationLevel++
	ticket.LastEscalatedAt = &now

	if rule.Actions.AssignToID != nil {
		ticket.AssigneeID = rule.Actions.AssignToID
		entry.AssignedToID = rule.Actions.AssignToID
	}
	if rule.Actions.SetPriority != nil {
		ticket.Priority = *rule.Actions.SetPriority
	}
	ticket.EscalationHistory = append(ticket.EscalationHistory, entry)

	// The ticket mutation commits first; the note and history trail only
	// exist for an escalation that actually landed.
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return apperrors.MapError(err)
	}

	if rule.Actions.AddNote != "" {
		note := &domain.TicketMessage{
			TicketID:    ticket.ID,
			MessageType: domain.MessageTypeInternalNote,
			AuthorType:  domain.AuthorTypeSystem,
			Body:        rule.Actions.AddNote,
		}
		if err := s.messages.Create(ctx, note); err != nil {
			return apperrors.MapError(err)
		}
	}
	if err := s.recordEscalation(ctx, ticket, rule, oldLevel); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketEscalated,
		TicketID: ticket.ID,
		Actor:    domain.SystemActor,
		Payload: events.TicketEscalatedPayload{
			RuleID:            rule.ID,
			RuleName:          rule.Name,
			NewLevel:          ticket.EscalationLevel,
			AssignedToID:      rule.Actions.AssignToID,
			NewPriority:       rule.Actions.SetPriority,
			NotifySupervisors: rule.Actions.NotifySupervisors,
		},
	})

	s.logger.Info("escalated ticket",
		zap.String("ticket_id", ticket.ID),
		zap.String("rule", rule.Name),
		zap.Int("level", ticket.EscalationLevel))
	return nil
}

func (s *EscalationService) recordEscalation(ctx context.Context, ticket *domain.Ticket, rule *domain.EscalationRule, oldLevel int) error {
	if s.history == nil {
		return nil
	}
	entry := &domain.TicketHistory{
		TicketID:      ticket.ID,
		ChangedByType: domain.AuthorTypeSystem,
		ChangeType:    domain.ChangeTypeEscalation,
		OldValue: map[string]any{
			"escalation_level": oldLevel,
		},
		NewValue: map[string]any{
			"escalation_level": ticket.EscalationLevel,
			"rule_id":          rule.ID,
			"rule_name":        rule.Name,
		},
	}
	return s.history.Create(ctx, entry)
}

func (s *EscalationService) publish(ctx context.Context, event events.Event) {
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

func hoursSince(t, now time.Time) int {
	if now.Before(t) {
		return 0
	}
	return int(now.Sub(t).Hours())
}
