package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// TicketFilter captures listing parameters. A non-positive Limit means
// unlimited: the automation sweeps operate on full ticket sets.
type TicketFilter struct {
	RequesterID   *string
	AssigneeID    *string
	Statuses      []domain.TicketStatus
	Priorities    []domain.TicketPriority
	UpdatedBefore *time.Time
	Limit         int
	Offset        int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	// ListApproachingSLA returns active tickets with an uncompleted SLA axis
	// due strictly within (now, now+threshold].
	ListApproachingSLA(ctx context.Context, now time.Time, threshold time.Duration) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, external_key, requester_user_id, assignee_staff_id, title, description,
       status, priority, tags, created_at, updated_at, first_response_at, resolved_at, closed_at,
       sla_first_response_due_at, sla_resolution_due_at, sla_breached,
       response_time_hours, resolution_time_hours,
       escalation_level, last_escalated_at, escalation_history`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (external_key, requester_user_id, assignee_staff_id, title, description,
            status, priority, tags, first_response_at, resolved_at, closed_at,
            sla_first_response_due_at, sla_resolution_due_at, sla_breached,
            response_time_hours, resolution_time_hours,
            escalation_level, last_escalated_at, escalation_history)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
        RETURNING id, created_at, updated_at`
	history := ticket.EscalationHistory
	if history == nil {
		history = []domain.EscalationEntry{}
	}
	return r.pool.QueryRow(ctx, query,
		ticket.ExternalKey,
		ticket.RequesterID,
		ticket.AssigneeID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.Tags,
		ticket.FirstResponseAt,
		ticket.ResolvedAt,
		ticket.ClosedAt,
		ticket.SLAFirstResponseDueAt,
		ticket.SLAResolutionDueAt,
		ticket.SLABreached,
		ticket.ResponseTimeHours,
		ticket.ResolutionTimeHours,
		ticket.EscalationLevel,
		ticket.LastEscalatedAt,
		history,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET assignee_staff_id=$1, title=$2, description=$3, status=$4, priority=$5,
            tags=$6, first_response_at=$7, resolved_at=$8, closed_at=$9,
            sla_first_response_due_at=$10, sla_resolution_due_at=$11, sla_breached=$12,
            response_time_hours=$13, resolution_time_hours=$14,
            escalation_level=$15, last_escalated_at=$16, escalation_history=$17,
            updated_at=NOW()
        WHERE id=$18`
	history := ticket.EscalationHistory
	if history == nil {
		history = []domain.EscalationEntry{}
	}
	cmd, err := r.pool.Exec(ctx, query,
		ticket.AssigneeID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.Tags,
		ticket.FirstResponseAt,
		ticket.ResolvedAt,
		ticket.ClosedAt,
		ticket.SLAFirstResponseDueAt,
		ticket.SLAResolutionDueAt,
		ticket.SLABreached,
		ticket.ResponseTimeHours,
		ticket.ResolutionTimeHours,
		ticket.EscalationLevel,
		ticket.LastEscalatedAt,
		history,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	var ticket domain.Ticket
	if err := scanTicket(r.pool.QueryRow(ctx, query, id), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := fmt.Sprintf(`SELECT %s FROM tickets`, ticketColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.RequesterID != nil {
		args = append(args, *filter.RequesterID)
		clauses = append(clauses, fmt.Sprintf("requester_user_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assignee_staff_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.UpdatedBefore != nil {
		args = append(args, *filter.UpdatedBefore)
		clauses = append(clauses, fmt.Sprintf("updated_at <= $%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC`, base, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query = fmt.Sprintf("%s LIMIT %d OFFSET %d", query, filter.Limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListApproachingSLA(ctx context.Context, now time.Time, threshold time.Duration) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM tickets
        WHERE status IN ('NEW','OPEN','PENDING_CUSTOMER')
          AND ((first_response_at IS NULL AND sla_first_response_due_at > $1 AND sla_first_response_due_at <= $2)
            OR (resolved_at IS NULL AND sla_resolution_due_at > $1 AND sla_resolution_due_at <= $2))
        ORDER BY sla_resolution_due_at ASC NULLS LAST`, ticketColumns)
	rows, err := r.pool.Query(ctx, query, now, now.Add(threshold))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.ExternalKey,
		&ticket.RequesterID,
		&ticket.AssigneeID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Tags,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.FirstResponseAt,
		&ticket.ResolvedAt,
		&ticket.ClosedAt,
		&ticket.SLAFirstResponseDueAt,
		&ticket.SLAResolutionDueAt,
		&ticket.SLABreached,
		&ticket.ResponseTimeHours,
		&ticket.ResolutionTimeHours,
		&ticket.EscalationLevel,
		&ticket.LastEscalatedAt,
		&ticket.EscalationHistory,
	)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
