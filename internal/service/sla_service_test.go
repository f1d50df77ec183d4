package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
)

func newSlaFixture(now time.Time, tickets ...*domain.Ticket) (*SlaService, *fakeTicketRepo, *fakeDispatcher) {
	repo := newFakeTicketRepo(tickets...)
	dispatcher := &fakeDispatcher{}
	svc := NewSlaService(SlaDependencies{
		TicketRepo: repo,
		Dispatcher: dispatcher,
		Now:        func() time.Time { return now },
	})
	return svc, repo, dispatcher
}

func slaTicket(id string, priority domain.TicketPriority, createdAt time.Time) *domain.Ticket {
	return &domain.Ticket{
		ID:        id,
		Status:    domain.TicketStatusOpen,
		Priority:  priority,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestCalculateSLADueDatesOrdering(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newSlaFixture(now)

	for _, priority := range []domain.TicketPriority{
		domain.TicketPriorityUrgent,
		domain.TicketPriorityHigh,
		domain.TicketPriorityMedium,
		domain.TicketPriorityLow,
	} {
		ticket := slaTicket("t", priority, now)
		dates := svc.CalculateSLADueDates(ticket)
		assert.True(t, dates.FirstResponseDueAt.After(ticket.CreatedAt), "priority %s", priority)
		assert.False(t, dates.ResolutionDueAt.Before(dates.FirstResponseDueAt), "priority %s", priority)
	}
}

func TestCalculateSLADueDatesUnknownPriorityFallsBackToMedium(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newSlaFixture(now)

	unknown := svc.CalculateSLADueDates(slaTicket("t", domain.TicketPriority("BOGUS"), now))
	medium := svc.CalculateSLADueDates(slaTicket("t", domain.TicketPriorityMedium, now))
	assert.Equal(t, medium, unknown)
}

func TestCheckSLABreach(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newSlaFixture(now)

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	ticket := slaTicket("t", domain.TicketPriorityHigh, now.Add(-5*time.Hour))
	assert.False(t, svc.CheckSLABreach(ticket), "no due dates set")

	ticket.SLAFirstResponseDueAt = &past
	assert.True(t, svc.CheckSLABreach(ticket), "first response overdue")

	responded := now.Add(-2 * time.Hour)
	ticket.FirstResponseAt = &responded
	assert.False(t, svc.CheckSLABreach(ticket), "completed axis never breaches")

	ticket.SLAResolutionDueAt = &future
	assert.False(t, svc.CheckSLABreach(ticket))

	ticket.SLAResolutionDueAt = &past
	assert.True(t, svc.CheckSLABreach(ticket), "resolution overdue")
}

func TestUpdateTicketSLAAssignsDueDatesOnce(t *testing.T) {
	created := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	now := created.Add(30 * time.Minute)
	ticket := slaTicket("t-1", domain.TicketPriorityUrgent, created)
	svc, repo, _ := newSlaFixture(now, ticket)

	updated, err := svc.UpdateTicketSLA(context.Background(), "t-1")
	require.NoError(t, err)
	require.NotNil(t, updated.SLAFirstResponseDueAt)
	require.NotNil(t, updated.SLAResolutionDueAt)
	firstDue := *updated.SLAFirstResponseDueAt

	// A later refresh must not move the deadlines.
	again, err := svc.UpdateTicketSLA(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, firstDue, *again.SLAFirstResponseDueAt)
	assert.Equal(t, 2, repo.updates)
}

func TestUpdateTicketSLAPublishesBreachOnce(t *testing.T) {
	created := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	now := created.Add(5 * time.Hour) // urgent first response target is 1h
	ticket := slaTicket("t-1", domain.TicketPriorityUrgent, created)
	svc, _, dispatcher := newSlaFixture(now, ticket)

	updated, err := svc.UpdateTicketSLA(context.Background(), "t-1")
	require.NoError(t, err)
	assert.True(t, updated.SLABreached)
	assert.Len(t, dispatcher.byType(events.EventSLABreachDetected), 1)

	_, err = svc.UpdateTicketSLA(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Len(t, dispatcher.byType(events.EventSLABreachDetected), 1, "already-breached tickets do not re-emit")
}

func TestUpdateTicketSLANotFound(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newSlaFixture(now)

	_, err := svc.UpdateTicketSLA(context.Background(), "missing")
	require.Error(t, err)
}

func TestElapsedTimesRoundedToOneDecimal(t *testing.T) {
	created := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	now := created.Add(10 * time.Hour)
	svc, _, _ := newSlaFixture(now)

	ticket := slaTicket("t", domain.TicketPriorityMedium, created)
	assert.Zero(t, svc.CalculateResponseTimeHours(ticket))
	assert.Zero(t, svc.CalculateResolutionTimeHours(ticket))

	responded := created.Add(90 * time.Minute)
	resolved := created.Add(200 * time.Minute)
	ticket.FirstResponseAt = &responded
	ticket.ResolvedAt = &resolved

	assert.Equal(t, 1.5, svc.CalculateResponseTimeHours(ticket))
	assert.Equal(t, 3.3, svc.CalculateResolutionTimeHours(ticket))
}

func TestSLAStatusProjection(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newSlaFixture(now)

	overdue := now.Add(-2 * time.Hour)
	upcoming := now.Add(90 * time.Minute)

	ticket := slaTicket("t", domain.TicketPriorityHigh, now.Add(-10*time.Hour))
	ticket.SLAFirstResponseDueAt = &overdue
	ticket.SLAResolutionDueAt = &upcoming

	report := svc.SLAStatus(ticket)
	assert.True(t, report.FirstResponse.IsDue)
	assert.True(t, report.FirstResponse.IsBreached)
	assert.Zero(t, report.FirstResponse.RemainingHours, "overdue axis floors at zero")

	assert.True(t, report.Resolution.IsDue)
	assert.False(t, report.Resolution.IsBreached)
	assert.Equal(t, 1.5, report.Resolution.RemainingHours)
}

func TestSLAStatusCompletedAxis(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newSlaFixture(now)

	due := now.Add(-time.Hour)
	done := now.Add(-30 * time.Minute)
	ticket := slaTicket("t", domain.TicketPriorityHigh, now.Add(-10*time.Hour))
	ticket.SLAFirstResponseDueAt = &due
	ticket.FirstResponseAt = &done

	report := svc.SLAStatus(ticket)
	assert.False(t, report.FirstResponse.IsDue)
	assert.False(t, report.FirstResponse.IsBreached)
}

func TestTicketsApproachingBreachValidatesThreshold(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newSlaFixture(now)

	_, err := svc.TicketsApproachingBreach(context.Background(), 0)
	require.Error(t, err)

	_, err = svc.TicketsApproachingBreach(context.Background(), -4)
	require.Error(t, err)
}

func TestTicketsApproachingBreachReturnsWindowed(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	soon := now.Add(2 * time.Hour)

	ticket := slaTicket("t-soon", domain.TicketPriorityHigh, now.Add(-2*time.Hour))
	ticket.SLAFirstResponseDueAt = &soon

	svc, _, _ := newSlaFixture(now, ticket)

	result, err := svc.TicketsApproachingBreach(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "t-soon", result[0].ID)
}
