package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"medmaint/internal/event"
	"medmaint/internal/model"
	"medmaint/internal/scheduler"
	"medmaint/pkg/outbox"
)

// SchedulerStore implements the scheduler's ports on PostgreSQL. Each plan
// cycle runs in one transaction holding a row lock on the plan, so
// concurrent passes serialize per plan and the second pass sees the first
// one's writes when it re-reads the plan. A partial unique index on active
// PM orders per source plan backstops the guard at the storage layer.
type SchedulerStore struct {
	db         *pgxpool.Pool
	outboxRepo *outbox.Repository
	logger     *zap.Logger
}

func NewSchedulerStore(db *pgxpool.Pool, outboxRepo *outbox.Repository, logger *zap.Logger) *SchedulerStore {
	return &SchedulerStore{
		db:         db,
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// ListDuePlans returns every plan whose next due date is today or earlier.
// Dates compare as calendar dates; the parameter is bound as DATE.
func (s *SchedulerStore) ListDuePlans(ctx context.Context, today time.Time) ([]model.PMPlan, error) {
	query := `
        SELECT id, asset_id, title, frequency_days, checklist, next_due_date, created_at, updated_at
        FROM pm_plans
        WHERE next_due_date <= $1
    `
	rows, err := s.db.Query(ctx, query, scheduler.FormatDate(today))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []model.PMPlan
	for rows.Next() {
		var p model.PMPlan
		if err := rows.Scan(
			&p.ID,
			&p.AssetID,
			&p.Title,
			&p.FrequencyDays,
			&p.Checklist,
			&p.NextDueDate,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// RunCycle locks the plan row, re-reads it, and runs fn in the same
// transaction. fn's writes and the outbox events they enqueue commit
// atomically or not at all.
func (s *SchedulerStore) RunCycle(ctx context.Context, planID int64, fn func(ctx context.Context, c scheduler.Cycle, plan *model.PMPlan) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin cycle tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var p model.PMPlan
	err = tx.QueryRow(ctx, `
        SELECT id, asset_id, title, frequency_days, checklist, next_due_date, created_at, updated_at
        FROM pm_plans
        WHERE id = $1
        FOR UPDATE
    `, planID).Scan(
		&p.ID,
		&p.AssetID,
		&p.Title,
		&p.FrequencyDays,
		&p.Checklist,
		&p.NextDueDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return scheduler.ErrPlanGone
		}
		return fmt.Errorf("lock plan: %w", err)
	}

	cycle := &pgCycle{tx: tx, outboxRepo: s.outboxRepo}
	if err := fn(ctx, cycle, &p); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit cycle tx: %w", err)
	}
	return nil
}

// pgCycle is the transactional view handed to the engine during one cycle.
type pgCycle struct {
	tx         pgx.Tx
	outboxRepo *outbox.Repository
}

func (c *pgCycle) HasActivePMOrder(ctx context.Context, planID int64) (bool, error) {
	var exists bool
	err := c.tx.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM work_orders
            WHERE source_plan_id = $1
              AND type = 'pm'
              AND status IN ('open', 'in_progress', 'on_hold')
        )
    `, planID).Scan(&exists)
	return exists, err
}

func (c *pgCycle) CreateWorkOrder(ctx context.Context, w *model.WorkOrder) (int64, error) {
	var id int64
	err := c.tx.QueryRow(ctx, `
        INSERT INTO work_orders (asset_id, source_plan_id, type, priority, status, description, due_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `,
		w.AssetID,
		w.SourcePlanID,
		w.Type,
		w.Priority,
		w.Status,
		w.Description,
		w.DueDate,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	w.ID = id

	// Event rides the same transaction: no order without its event, no
	// event without its order.
	payload := event.WorkOrderGeneratedPayload{
		WorkOrderID: id,
		PlanID:      derefInt64(w.SourcePlanID),
		AssetID:     derefInt64(w.AssetID),
		Description: w.Description,
		DueDate:     scheduler.FormatDate(*w.DueDate),
	}
	if err := outbox.InsertEventInTx(ctx, c.tx, c.outboxRepo,
		"work_order", &id, event.RoutingKeyWorkOrderGenerated, payload); err != nil {
		return 0, err
	}

	return id, nil
}

func (c *pgCycle) UpdatePlanNextDueDate(ctx context.Context, planID int64, next time.Time) error {
	_, err := c.tx.Exec(ctx, `
        UPDATE pm_plans SET next_due_date = $1, updated_at = NOW() WHERE id = $2
    `, scheduler.FormatDate(next), planID)
	return err
}

func derefInt64(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
