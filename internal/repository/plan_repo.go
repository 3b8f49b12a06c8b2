package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"medmaint/internal/model"
)

var ErrNotFound = errors.New("record not found")

type PlanRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPlanRepository(db *pgxpool.Pool, logger *zap.Logger) *PlanRepository {
	return &PlanRepository{
		db:     db,
		logger: logger,
	}
}

const planColumns = `id, asset_id, title, frequency_days, checklist, next_due_date, created_at, updated_at`

func scanPlan(row pgx.Row) (*model.PMPlan, error) {
	var p model.PMPlan
	err := row.Scan(
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
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PlanRepository) List(ctx context.Context) ([]model.PMPlan, error) {
	query := `
        SELECT ` + planColumns + `
        FROM pm_plans
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list pm plans", zap.Error(err))
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

func (r *PlanRepository) GetByID(ctx context.Context, id int64) (*model.PMPlan, error) {
	query := `
        SELECT ` + planColumns + `
        FROM pm_plans
        WHERE id = $1
    `
	return scanPlan(r.db.QueryRow(ctx, query, id))
}

func (r *PlanRepository) Insert(ctx context.Context, p *model.PMPlan) (int64, error) {
	query := `
        INSERT INTO pm_plans (asset_id, title, frequency_days, checklist, next_due_date)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	var id int64
	err := r.db.QueryRow(ctx, query,
		p.AssetID,
		p.Title,
		p.FrequencyDays,
		p.Checklist,
		p.NextDueDate,
	).Scan(&id)

	if err != nil {
		r.logger.Error("Failed to insert pm plan", zap.Error(err))
		return 0, err
	}

	r.logger.Info("PM plan inserted",
		zap.Int64("id", id),
		zap.Int64("asset_id", p.AssetID),
		zap.String("title", p.Title),
	)
	return id, nil
}

func (r *PlanRepository) Update(ctx context.Context, p *model.PMPlan) error {
	query := `
        UPDATE pm_plans
        SET asset_id = $1, title = $2, frequency_days = $3, checklist = $4,
            next_due_date = $5, updated_at = NOW()
        WHERE id = $6
    `
	tag, err := r.db.Exec(ctx, query,
		p.AssetID,
		p.Title,
		p.FrequencyDays,
		p.Checklist,
		p.NextDueDate,
		p.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update pm plan", zap.Int64("id", p.ID), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a plan. Generated work orders survive: source_plan_id is
// set NULL by the schema, not cascaded.
func (r *PlanRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM pm_plans WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete pm plan", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
