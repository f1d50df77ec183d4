package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
)

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
	updates int
}

func newFakeTicketRepo(tickets ...*domain.Ticket) *fakeTicketRepo {
	repo := &fakeTicketRepo{tickets: make(map[string]*domain.Ticket)}
	for _, t := range tickets {
		repo.tickets[t.ID] = t
	}
	return repo
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets[ticket.ID] = ticket
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.tickets[ticket.ID] = ticket
	r.updates++
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if len(filter.Statuses) > 0 {
			match := false
			for _, status := range filter.Statuses {
				if ticket.Status == status {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		result = append(result, *ticket)
	}
	return result, nil
}

func (r *fakeTicketRepo) ListApproachingSLA(_ context.Context, now time.Time, threshold time.Duration) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	limit := now.Add(threshold)
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if !ticket.IsActive() {
			continue
		}
		due := ticket.SLAResolutionDueAt
		if ticket.FirstResponseAt == nil && ticket.SLAFirstResponseDueAt != nil {
			due = ticket.SLAFirstResponseDueAt
		}
		if due == nil {
			continue
		}
		if due.After(now) && !due.After(limit) {
			result = append(result, *ticket)
		}
	}
	return result, nil
}

type fakeRuleRepo struct {
	rules []domain.EscalationRule
}

func (r *fakeRuleRepo) Create(_ context.Context, _ *domain.EscalationRule) error { return nil }
func (r *fakeRuleRepo) Update(_ context.Context, _ *domain.EscalationRule) error { return nil }
func (r *fakeRuleRepo) GetByID(_ context.Context, _ string) (*domain.EscalationRule, error) {
	return nil, pgx.ErrNoRows
}
func (r *fakeRuleRepo) ListActive(_ context.Context) ([]domain.EscalationRule, error) {
	var active []domain.EscalationRule
	for _, rule := range r.rules {
		if rule.IsActive {
			active = append(active, rule)
		}
	}
	return active, nil
}
func (r *fakeRuleRepo) ListAll(_ context.Context) ([]domain.EscalationRule, error) {
	return r.rules, nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []domain.TicketMessage
}

func (r *fakeMessageRepo) Create(_ context.Context, msg *domain.TicketMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *fakeMessageRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.TicketMessage
	for _, msg := range r.messages {
		if msg.TicketID == ticketID {
			result = append(result, msg)
		}
	}
	return result, nil
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.TicketHistory
}

func (r *fakeHistoryRepo) Create(_ context.Context, entry *domain.TicketHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeHistoryRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.TicketHistory
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type fakeDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *fakeDispatcher) Subscribe(_ events.EventType, _ events.EventHandler) {}

func (d *fakeDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *fakeDispatcher) byType(t events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var result []events.Event
	for _, event := range d.events {
		if event.Type == t {
			result = append(result, event)
		}
	}
	return result
}

type fakeSiteSettingsRepo struct {
	settings *domain.SiteSettings
	err      error
}

func (r *fakeSiteSettingsRepo) Get(_ context.Context) (*domain.SiteSettings, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.settings == nil {
		return nil, pgx.ErrNoRows
	}
	return r.settings, nil
}

func (r *fakeSiteSettingsRepo) Upsert(_ context.Context, settings *domain.SiteSettings) error {
	r.settings = settings
	return nil
}

type fakeRenderer struct {
	lastMJML string
	html     string
	err      error
}

func (r *fakeRenderer) Render(_ context.Context, mjml string) (string, error) {
	r.lastMJML = mjml
	if r.err != nil {
		return "", r.err
	}
	if r.html != "" {
		return r.html, nil
	}
	return "<html>" + mjml + "</html>", nil
}
