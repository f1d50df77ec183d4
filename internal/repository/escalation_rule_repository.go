package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// EscalationRuleRepository encapsulates escalation rule persistence.
type EscalationRuleRepository interface {
	Create(ctx context.Context, rule *domain.EscalationRule) error
	Update(ctx context.Context, rule *domain.EscalationRule) error
	GetByID(ctx context.Context, id string) (*domain.EscalationRule, error)
	// ListActive returns active rules in evaluation order.
	ListActive(ctx context.Context) ([]domain.EscalationRule, error)
	ListAll(ctx context.Context) ([]domain.EscalationRule, error)
}

type escalationRuleRepository struct {
	pool *pgxpool.Pool
}

// NewEscalationRuleRepository instantiates repository.
func NewEscalationRuleRepository(pool *pgxpool.Pool) EscalationRuleRepository {
	return &escalationRuleRepository{pool: pool}
}

const ruleColumns = `id, name, description, is_active, sort_order, max_applications, conditions, actions, created_at, updated_at`

func (r *escalationRuleRepository) Create(ctx context.Context, rule *domain.EscalationRule) error {
	const query = `
        INSERT INTO escalation_rules (name, description, is_active, sort_order, max_applications, conditions, actions)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		rule.Name,
		rule.Description,
		rule.IsActive,
		rule.SortOrder,
		rule.MaxApplications,
		rule.Conditions,
		rule.Actions,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
}

func (r *escalationRuleRepository) Update(ctx context.Context, rule *domain.EscalationRule) error {
	const query = `
        UPDATE escalation_rules SET name=$1, description=$2, is_active=$3, sort_order=$4,
            max_applications=$5, conditions=$6, actions=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		rule.Name,
		rule.Description,
		rule.IsActive,
		rule.SortOrder,
		rule.MaxApplications,
		rule.Conditions,
		rule.Actions,
		rule.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *escalationRuleRepository) GetByID(ctx context.Context, id string) (*domain.EscalationRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM escalation_rules WHERE id=$1`
	var rule domain.EscalationRule
	if err := scanRule(r.pool.QueryRow(ctx, query, id), &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *escalationRuleRepository) ListActive(ctx context.Context) ([]domain.EscalationRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM escalation_rules WHERE is_active ORDER BY sort_order ASC, created_at ASC`
	return r.list(ctx, query)
}

func (r *escalationRuleRepository) ListAll(ctx context.Context) ([]domain.EscalationRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM escalation_rules ORDER BY sort_order ASC, created_at ASC`
	return r.list(ctx, query)
}

func (r *escalationRuleRepository) list(ctx context.Context, query string) ([]domain.EscalationRule, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EscalationRule
	for rows.Next() {
		var rule domain.EscalationRule
		if err := scanRule(rows, &rule); err != nil {
			return nil, err
		}
		result = append(result, rule)
	}
	return result, rows.Err()
}

func scanRule(row rowScanner, rule *domain.EscalationRule) error {
	return row.Scan(
		&rule.ID,
		&rule.Name,
		&rule.Description,
		&rule.IsActive,
		&rule.SortOrder,
		&rule.MaxApplications,
		&rule.Conditions,
		&rule.Actions,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
}
