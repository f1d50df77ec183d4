package scheduler

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/service"
)

// Job names used in logs and metrics.
const (
	JobAutoClose         = "auto_close"
	JobThirdPartyTimeout = "pending_third_party_timeout"
	JobEscalationSweep   = "escalation_sweep"
)

// TicketLocker serializes per-ticket processing across overlapping sweeps.
type TicketLocker interface {
	Acquire(ctx context.Context, ticketID string) (bool, error)
	Release(ctx context.Context, ticketID string)
}

// Automation runs the interval-driven ticket jobs: auto-close of stale
// resolved tickets, reopening of stale pending-third-party tickets, and the
// escalation sweep. Each job catches its own errors so the scheduler never
// dies; within the sweep each ticket has its own error boundary so one bad
// record cannot abort the batch.
type Automation struct {
	tickets    repository.TicketRepository
	ticketSvc  *service.TicketService
	slaSvc     *service.SlaService
	escalation *service.EscalationService
	dispatcher events.Dispatcher
	locks      TicketLocker
	logger     *zap.Logger
	metrics    *observability.Metrics
	cfg        config.AutomationConfig
	now        func() time.Time
}

// Dependencies bundles collaborators for the automation runner.
type Dependencies struct {
	TicketRepo    repository.TicketRepository
	TicketService *service.TicketService
	SlaService    *service.SlaService
	Escalation    *service.EscalationService
	Dispatcher    events.Dispatcher
	Locks         TicketLocker
	Logger        *zap.Logger
	Metrics       *observability.Metrics
	Config        config.AutomationConfig
	Now           func() time.Time
}

// NewAutomation constructs the runner.
func NewAutomation(deps Dependencies) *Automation {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Automation{
		tickets:    deps.TicketRepo,
		ticketSvc:  deps.TicketService,
		slaSvc:     deps.SlaService,
		escalation: deps.Escalation,
		dispatcher: deps.Dispatcher,
		locks:      deps.Locks,
		logger:     logger,
		metrics:    deps.Metrics,
		cfg:        deps.Config,
		now:        now,
	}
}

// Start launches one goroutine per job. They stop when ctx is cancelled.
// A job never overlaps itself: each loop runs its job to completion before
// waiting for the next tick. Different jobs may overlap each other.
func (a *Automation) Start(ctx context.Context) {
	go a.loop(ctx, JobAutoClose, a.cfg.AutoCloseInterval(), a.RunAutoClose)
	go a.loop(ctx, JobThirdPartyTimeout, a.cfg.ThirdPartyInterval(), a.RunPendingThirdPartyTimeout)
	go a.loop(ctx, JobEscalationSweep, a.cfg.EscalationInterval(), a.RunEscalationSweep)
	a.logger.Info("automation scheduler started",
		zap.Duration("auto_close_interval", a.cfg.AutoCloseInterval()),
		zap.Duration("third_party_interval", a.cfg.ThirdPartyInterval()),
		zap.Duration("escalation_interval", a.cfg.EscalationInterval()))
}

func (a *Automation) loop(ctx context.Context, name string, interval time.Duration, job func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.runJob(ctx, name, job)
		}
	}
}

// runJob is the per-job error boundary: failures are logged and counted, the
// next tick is the retry mechanism.
func (a *Automation) runJob(ctx context.Context, name string, job func(context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("automation job panicked",
				zap.String("job", name),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			a.metrics.RecordJobRun(name, true)
		}
	}()
	if err := job(ctx); err != nil {
		a.logger.Error("automation job failed", zap.String("job", name), zap.Error(err))
		a.metrics.RecordJobRun(name, true)
		return
	}
	a.metrics.RecordJobRun(name, false)
}

// RunAutoClose closes resolved tickets with no activity for the configured
// window (default 72h). Already-closed tickets are excluded by the status
// filter, which makes the job idempotent.
func (a *Automation) RunAutoClose(ctx context.Context) error {
	tickets, err := a.tickets.ListWithFilter(ctx, repository.TicketFilter{
		Statuses: []domain.TicketStatus{domain.TicketStatusResolved},
	})
	if err != nil {
		return err
	}

	now := a.now()
	closed := 0
	for i := range tickets {
		ticket := &tickets[i]
		hours := hoursSince(ticket.UpdatedAt, now)
		if hours < a.cfg.AutoCloseAfterHours {
			continue
		}
		if _, err := a.ticketSvc.Transition(ctx, ticket, domain.TicketStatusClosed, domain.SystemActor, "auto_closed_after_inactivity"); err != nil {
			a.logger.Warn("auto-close failed for ticket", zap.String("ticket_id", ticket.ID), zap.Error(err))
			continue
		}
		a.publish(ctx, events.Event{
			Type:     events.EventTicketAutoClosed,
			TicketID: ticket.ID,
			Actor:    domain.SystemActor,
			Payload:  events.TicketAutoClosedPayload{HoursSinceUpdate: hours},
		})
		closed++
		a.logger.Info("auto-closed ticket", zap.String("ticket_id", ticket.ID), zap.Int("hours_since_update", hours))
	}
	if closed > 0 {
		a.logger.Info("auto-close pass complete", zap.Int("closed", closed))
	}
	return nil
}

// RunPendingThirdPartyTimeout reopens tickets stuck waiting on a third party
// past the configured window.
func (a *Automation) RunPendingThirdPartyTimeout(ctx context.Context) error {
	tickets, err := a.tickets.ListWithFilter(ctx, repository.TicketFilter{
		Statuses: []domain.TicketStatus{domain.TicketStatusPendingThirdParty},
	})
	if err != nil {
		return err
	}

	now := a.now()
	reopened := 0
	for i := range tickets {
		ticket := &tickets[i]
		hours := hoursSince(ticket.UpdatedAt, now)
		if hours < a.cfg.ThirdPartyTimeoutHours {
			continue
		}
		if _, err := a.ticketSvc.Transition(ctx, ticket, domain.TicketStatusOpen, domain.SystemActor, "third_party_timeout"); err != nil {
			a.logger.Warn("third-party reopen failed for ticket", zap.String("ticket_id", ticket.ID), zap.Error(err))
			continue
		}
		reopened++
		a.logger.Info("reopened pending-third-party ticket", zap.String("ticket_id", ticket.ID), zap.Int("hours_since_update", hours))
	}
	if reopened > 0 {
		a.logger.Info("third-party timeout pass complete", zap.Int("reopened", reopened))
	}
	return nil
}

// RunEscalationSweep refreshes SLA state and applies at most one escalation
// rule per ticket. Tickets whose lock cannot be acquired are skipped for the
// pass; the next sweep retries them.
func (a *Automation) RunEscalationSweep(ctx context.Context) error {
	rules, err := a.escalation.ActiveRules(ctx)
	if err != nil {
		return err
	}
	if len(rules) == 0 {
		return nil
	}

	tickets, err := a.tickets.ListWithFilter(ctx, repository.TicketFilter{})
	if err != nil {
		return err
	}

	escalated := 0
	for i := range tickets {
		if a.sweepTicket(ctx, tickets[i].ID, rules) {
			escalated++
		}
	}
	if escalated > 0 {
		a.logger.Info("escalation sweep complete", zap.Int("escalated", escalated))
	}
	return nil
}

// sweepTicket processes one ticket inside its own lock and error boundary.
func (a *Automation) sweepTicket(ctx context.Context, ticketID string, rules []domain.EscalationRule) bool {
	if a.locks != nil {
		acquired, err := a.locks.Acquire(ctx, ticketID)
		if err != nil {
			a.logger.Warn("ticket lock error", zap.String("ticket_id", ticketID), zap.Error(err))
			return false
		}
		if !acquired {
			return false
		}
		defer a.locks.Release(ctx, ticketID)
	}

	ticket, err := a.tickets.GetByID(ctx, ticketID)
	if err != nil {
		a.logger.Warn("ticket load failed", zap.String("ticket_id", ticketID), zap.Error(err))
		return false
	}
	// SLA state is only meaningful while the ticket is live; terminal tickets
	// keep whatever they breached (or didn't) historically.
	if ticket.IsActive() {
		ticket, err = a.slaSvc.UpdateTicketSLA(ctx, ticketID)
		if err != nil {
			a.logger.Warn("sla refresh failed for ticket", zap.String("ticket_id", ticketID), zap.Error(err))
			return false
		}
	}

	metrics := a.escalation.Metrics(ticket)
	rule := a.escalation.SelectRule(ticket, rules, metrics)
	if rule == nil {
		return false
	}
	if err := a.escalation.Apply(ctx, ticket, rule); err != nil {
		a.logger.Warn("escalation failed for ticket",
			zap.String("ticket_id", ticket.ID),
			zap.String("rule", rule.Name),
			zap.Error(err))
		return false
	}
	a.metrics.RecordEscalation()
	return true
}

func (a *Automation) publish(ctx context.Context, event events.Event) {
	if a.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = a.now()
	}
	_ = a.dispatcher.Publish(ctx, event)
}

func hoursSince(t, now time.Time) int {
	if now.Before(t) {
		return 0
	}
	return int(now.Sub(t).Hours())
}
