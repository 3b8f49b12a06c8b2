package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"medmaint/internal/model"
)

type ActivityRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewActivityRepository(db *pgxpool.Pool, logger *zap.Logger) *ActivityRepository {
	return &ActivityRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ActivityRepository) Insert(ctx context.Context, entry *model.ActivityLog) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO activity_logs (user_id, action, entity_type, entity_id, details)
        VALUES ($1, $2, $3, $4, $5)
    `,
		entry.UserID,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.Details,
	)
	if err != nil {
		r.logger.Error("Failed to insert activity log", zap.Error(err))
	}
	return err
}

// ActivityFilter narrows List results. Zero values are ignored.
type ActivityFilter struct {
	EntityType string
	EntityID   *int64
	UserID     *int64
	Limit      int
}

func (r *ActivityRepository) List(ctx context.Context, filter ActivityFilter) ([]model.ActivityLog, error) {
	query := `
        SELECT id, user_id, action, entity_type, entity_id, details, timestamp
        FROM activity_logs
        WHERE 1=1
    `
	var params []interface{}
	paramCount := 1

	if filter.EntityType != "" {
		query += fmt.Sprintf(" AND entity_type = $%d", paramCount)
		params = append(params, filter.EntityType)
		paramCount++
	}
	if filter.EntityID != nil {
		query += fmt.Sprintf(" AND entity_id = $%d", paramCount)
		params = append(params, *filter.EntityID)
		paramCount++
	}
	if filter.UserID != nil {
		query += fmt.Sprintf(" AND user_id = $%d", paramCount)
		params = append(params, *filter.UserID)
		paramCount++
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	query += fmt.Sprintf(" ORDER BY timestamp DESC LIMIT $%d", paramCount)
	params = append(params, limit)

	rows, err := r.db.Query(ctx, query, params...)
	if err != nil {
		r.logger.Error("Failed to list activity logs", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var entries []model.ActivityLog
	for rows.Next() {
		var e model.ActivityLog
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Action,
			&e.EntityType,
			&e.EntityID,
			&e.Details,
			&e.Timestamp,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
