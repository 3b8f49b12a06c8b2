package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"medmaint/internal/model"
)

type WorkOrderRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewWorkOrderRepository(db *pgxpool.Pool, logger *zap.Logger) *WorkOrderRepository {
	return &WorkOrderRepository{
		db:     db,
		logger: logger,
	}
}

const workOrderColumns = `id, asset_id, source_plan_id, type, priority, status,
       description, assigned_to, due_date, completed_date, created_at, updated_at`

func scanWorkOrder(row pgx.Row) (*model.WorkOrder, error) {
	var w model.WorkOrder
	err := row.Scan(
		&w.ID,
		&w.AssetID,
		&w.SourcePlanID,
		&w.Type,
		&w.Priority,
		&w.Status,
		&w.Description,
		&w.AssignedTo,
		&w.DueDate,
		&w.CompletedDate,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

// WorkOrderFilter narrows List results.
type WorkOrderFilter struct {
	Status     string
	AssignedTo *int64
}

func (r *WorkOrderRepository) List(ctx context.Context, filter WorkOrderFilter) ([]model.WorkOrder, error) {
	query := `
        SELECT ` + workOrderColumns + `
        FROM work_orders
        WHERE 1=1
    `
	var params []interface{}
	paramCount := 1

	if filter.Status != "" && filter.Status != "all" {
		query += fmt.Sprintf(" AND status = $%d", paramCount)
		params = append(params, filter.Status)
		paramCount++
	}
	if filter.AssignedTo != nil {
		query += fmt.Sprintf(" AND assigned_to = $%d", paramCount)
		params = append(params, *filter.AssignedTo)
		paramCount++
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, params...)
	if err != nil {
		r.logger.Error("Failed to list work orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []model.WorkOrder
	for rows.Next() {
		var w model.WorkOrder
		if err := rows.Scan(
			&w.ID,
			&w.AssetID,
			&w.SourcePlanID,
			&w.Type,
			&w.Priority,
			&w.Status,
			&w.Description,
			&w.AssignedTo,
			&w.DueDate,
			&w.CompletedDate,
			&w.CreatedAt,
			&w.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, w)
	}
	return orders, rows.Err()
}

func (r *WorkOrderRepository) GetByID(ctx context.Context, id int64) (*model.WorkOrder, error) {
	query := `
        SELECT ` + workOrderColumns + `
        FROM work_orders
        WHERE id = $1
    `
	return scanWorkOrder(r.db.QueryRow(ctx, query, id))
}

func (r *WorkOrderRepository) Insert(ctx context.Context, w *model.WorkOrder) (int64, error) {
	query := `
        INSERT INTO work_orders (asset_id, source_plan_id, type, priority, status,
                                 description, assigned_to, due_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	var id int64
	err := r.db.QueryRow(ctx, query,
		w.AssetID,
		w.SourcePlanID,
		w.Type,
		w.Priority,
		w.Status,
		w.Description,
		w.AssignedTo,
		w.DueDate,
	).Scan(&id)

	if err != nil {
		r.logger.Error("Failed to insert work order", zap.Error(err))
		return 0, err
	}

	r.logger.Info("Work order inserted",
		zap.Int64("id", id),
		zap.String("type", w.Type),
		zap.String("status", w.Status),
	)
	return id, nil
}

func (r *WorkOrderRepository) Update(ctx context.Context, w *model.WorkOrder) error {
	query := `
        UPDATE work_orders
        SET asset_id = $1, type = $2, priority = $3, status = $4, description = $5,
            assigned_to = $6, due_date = $7, completed_date = $8, updated_at = NOW()
        WHERE id = $9
    `
	tag, err := r.db.Exec(ctx, query,
		w.AssetID,
		w.Type,
		w.Priority,
		w.Status,
		w.Description,
		w.AssignedTo,
		w.DueDate,
		w.CompletedDate,
		w.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update work order", zap.Int64("id", w.ID), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *WorkOrderRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM work_orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete work order", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListOverdueOpen returns open orders whose due date has passed, for the
// overdue sweep.
func (r *WorkOrderRepository) ListOverdueOpen(ctx context.Context, today string) ([]model.WorkOrder, error) {
	query := `
        SELECT ` + workOrderColumns + `
        FROM work_orders
        WHERE status = 'open'
          AND due_date IS NOT NULL
          AND due_date < $1
          AND overdue_notified_at IS NULL
    `
	rows, err := r.db.Query(ctx, query, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []model.WorkOrder
	for rows.Next() {
		var w model.WorkOrder
		if err := rows.Scan(
			&w.ID,
			&w.AssetID,
			&w.SourcePlanID,
			&w.Type,
			&w.Priority,
			&w.Status,
			&w.Description,
			&w.AssignedTo,
			&w.DueDate,
			&w.CompletedDate,
			&w.CreatedAt,
			&w.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, w)
	}
	return orders, rows.Err()
}

// CountActive counts orders in non-terminal statuses, for dashboard stats.
func (r *WorkOrderRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM work_orders
        WHERE status IN ('open', 'in_progress', 'on_hold')
    `).Scan(&count)
	return count, err
}
