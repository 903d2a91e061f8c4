package repository

import (
	"context"
	"fmt"
	"time"
)

// GateDecision — строка журнала решений гейта подписки.
type GateDecision struct {
	ID            int
	TenantUID     string
	Outcome       string
	DaysRemaining int
	DecidedAt     time.Time
}

// InsertDecision дописывает исход проверки подписки в журнал.
func (s *Storage) InsertDecision(ctx context.Context, tenantUID, outcome string, daysRemaining int) error {
	const op = "storage.InsertDecision"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO gate_decisions (tenant_uid, outcome, days_remaining)
			  VALUES ($1, $2, $3)`
	if _, err := s.DB.ExecContext(ctx, query, tenantUID, outcome, daysRemaining); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListDecisions возвращает журнал решений арендатора, свежие первыми.
func (s *Storage) ListDecisions(ctx context.Context, tenantUID string, limit, offset int) ([]*GateDecision, error) {
	const op = "storage.ListDecisions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, tenant_uid, outcome, days_remaining, decided_at
			  FROM gate_decisions
			  WHERE tenant_uid = $1
			  ORDER BY decided_at DESC, id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, tenantUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*GateDecision
	for rows.Next() {
		var d GateDecision
		if err := rows.Scan(&d.ID, &d.TenantUID, &d.Outcome, &d.DaysRemaining, &d.DecidedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
