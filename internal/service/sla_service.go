package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/businesshours"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// SLATarget is the pair of deadlines attached to a priority, in business hours.
type SLATarget struct {
	FirstResponseHours int
	ResolutionHours    int
}

// defaultSLATargets measured as business hours from ticket creation.
var defaultSLATargets = map[domain.TicketPriority]SLATarget{
	domain.TicketPriorityUrgent: {FirstResponseHours: 1, ResolutionHours: 4},
	domain.TicketPriorityHigh:   {FirstResponseHours: 4, ResolutionHours: 24},
	domain.TicketPriorityMedium: {FirstResponseHours: 8, ResolutionHours: 72},
	domain.TicketPriorityLow:    {FirstResponseHours: 24, ResolutionHours: 168},
}

// SLADueDates carries computed deadlines.
type SLADueDates struct {
	FirstResponseDueAt time.Time
	ResolutionDueAt    time.Time
}

// SLAAxisStatus is the read-only projection for one SLA axis.
type SLAAxisStatus struct {
	IsDue          bool    `json:"is_due"`
	IsBreached     bool    `json:"is_breached"`
	RemainingHours float64 `json:"remaining_hours"`
}

// SLAStatusReport aggregates both axes.
type SLAStatusReport struct {
	FirstResponse SLAAxisStatus `json:"first_response"`
	Resolution    SLAAxisStatus `json:"resolution"`
}

// SlaService computes and refreshes SLA state for tickets.
type SlaService struct {
	tickets           repository.TicketRepository
	calculator        *businesshours.Calculator
	businessHoursOnly bool
	dispatcher        events.Dispatcher
	logger            *zap.Logger
	now               func() time.Time
}

// SlaDependencies bundles collaborators for the SLA service.
type SlaDependencies struct {
	TicketRepo        repository.TicketRepository
	Calculator        *businesshours.Calculator
	BusinessHoursOnly bool
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
	Now               func() time.Time
}

// NewSlaService constructs the service.
func NewSlaService(deps SlaDependencies) *SlaService {
	calculator := deps.Calculator
	if calculator == nil {
		calculator = businesshours.NewCalculator(nil)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &SlaService{
		tickets:           deps.TicketRepo,
		calculator:        calculator,
		businessHoursOnly: deps.BusinessHoursOnly,
		dispatcher:        deps.Dispatcher,
		logger:            logger,
		now:               now,
	}
}

// CalculateSLADueDates derives both deadlines from the ticket's priority table.
func (s *SlaService) CalculateSLADueDates(ticket *domain.Ticket) SLADueDates {
	target, ok := defaultSLATargets[ticket.Priority]
	if !ok {
		target = defaultSLATargets[domain.TicketPriorityMedium]
	}
	return SLADueDates{
		FirstResponseDueAt: s.calculator.CalculateSLADueDate(ticket.CreatedAt, target.FirstResponseHours, s.businessHoursOnly),
		ResolutionDueAt:    s.calculator.CalculateSLADueDate(ticket.CreatedAt, target.ResolutionHours, s.businessHoursOnly),
	}
}

// CheckSLABreach reports whether either axis is past due without its
// completion event. A missing due date never breaches.
func (s *SlaService) CheckSLABreach(ticket *domain.Ticket) bool {
	now := s.now()
	if ticket.FirstResponseAt == nil && ticket.SLAFirstResponseDueAt != nil && now.After(*ticket.SLAFirstResponseDueAt) {
		return true
	}
	if ticket.ResolvedAt == nil && ticket.SLAResolutionDueAt != nil && now.After(*ticket.SLAResolutionDueAt) {
		return true
	}
	return false
}

// CalculateResponseTimeHours returns elapsed first-response time, 0 until the
// first response happens.
func (s *SlaService) CalculateResponseTimeHours(ticket *domain.Ticket) float64 {
	if ticket.FirstResponseAt == nil {
		return 0
	}
	return roundHours(ticket.FirstResponseAt.Sub(ticket.CreatedAt))
}

// CalculateResolutionTimeHours returns elapsed resolution time, 0 until resolved.
func (s *SlaService) CalculateResolutionTimeHours(ticket *domain.Ticket) float64 {
	if ticket.ResolvedAt == nil {
		return 0
	}
	return roundHours(ticket.ResolvedAt.Sub(ticket.CreatedAt))
}

// UpdateTicketSLA refreshes a ticket's SLA fields and persists it. Due dates
// are assigned only when absent; breach and elapsed times are always
// recomputed.
func (s *SlaService) UpdateTicketSLA(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if ticket.SLAFirstResponseDueAt == nil || ticket.SLAResolutionDueAt == nil {
		dates := s.CalculateSLADueDates(ticket)
		if ticket.SLAFirstResponseDueAt == nil {
			ticket.SLAFirstResponseDueAt = &dates.FirstResponseDueAt
		}
		if ticket.SLAResolutionDueAt == nil {
			ticket.SLAResolutionDueAt = &dates.ResolutionDueAt
		}
	}

	wasBreached := ticket.SLABreached
	ticket.SLABreached = s.CheckSLABreach(ticket)
	ticket.ResponseTimeHours = s.CalculateResponseTimeHours(ticket)
	ticket.ResolutionTimeHours = s.CalculateResolutionTimeHours(ticket)

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if ticket.SLABreached && !wasBreached {
		s.logger.Warn("sla breach detected",
			zap.String("ticket_id", ticket.ID),
			zap.String("priority", string(ticket.Priority)))
		s.publish(ctx, events.Event{
			Type:     events.EventSLABreachDetected,
			TicketID: ticket.ID,
			Actor:    domain.SystemActor,
			Payload: events.SLABreachDetectedPayload{
				FirstResponseDueAt: ticket.SLAFirstResponseDueAt,
				ResolutionDueAt:    ticket.SLAResolutionDueAt,
			},
		})
	}
	return ticket, nil
}

// SLAStatus projects the current per-axis SLA state without persisting.
func (s *SlaService) SLAStatus(ticket *domain.Ticket) SLAStatusReport {
	now := s.now()
	return SLAStatusReport{
		FirstResponse: axisStatus(now, ticket.SLAFirstResponseDueAt, ticket.FirstResponseAt),
		Resolution:    axisStatus(now, ticket.SLAResolutionDueAt, ticket.ResolvedAt),
	}
}

// TicketsApproachingBreach lists active tickets with an uncompleted deadline
// inside (now, now+threshold].
func (s *SlaService) TicketsApproachingBreach(ctx context.Context, thresholdHours int) ([]domain.Ticket, error) {
	if thresholdHours <= 0 {
		return nil, apperrors.NewValidationError("threshold_hours must be positive", nil)
	}
	tickets, err := s.tickets.ListApproachingSLA(ctx, s.now(), time.Duration(thresholdHours)*time.Hour)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func (s *SlaService) publish(ctx context.Context, event events.Event) {
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

func axisStatus(now time.Time, dueAt, completedAt *time.Time) SLAAxisStatus {
	status := SLAAxisStatus{}
	if dueAt == nil {
		return status
	}
	status.IsDue = completedAt == nil
	if completedAt == nil && now.After(*dueAt) {
		status.IsBreached = true
	}
	if completedAt == nil {
		remaining := dueAt.Sub(now).Hours()
		if remaining > 0 {
			status.RemainingHours = math.Round(remaining*10) / 10
		}
	}
	return status
}

func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*10) / 10
}
