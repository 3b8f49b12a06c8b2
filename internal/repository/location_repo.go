package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"medmaint/internal/model"
)

type LocationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewLocationRepository(db *pgxpool.Pool, logger *zap.Logger) *LocationRepository {
	return &LocationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *LocationRepository) List(ctx context.Context) ([]model.Location, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, name, parent_id, created_at
        FROM locations
        ORDER BY name ASC
    `)
	if err != nil {
		r.logger.Error("Failed to list locations", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.ParentID, &l.CreatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (r *LocationRepository) GetByID(ctx context.Context, id int64) (*model.Location, error) {
	var l model.Location
	err := r.db.QueryRow(ctx, `
        SELECT id, name, parent_id, created_at
        FROM locations
        WHERE id = $1
    `, id).Scan(&l.ID, &l.Name, &l.ParentID, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *LocationRepository) Insert(ctx context.Context, l *model.Location) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
        INSERT INTO locations (name, parent_id)
        VALUES ($1, $2)
        RETURNING id
    `, l.Name, l.ParentID).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert location", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *LocationRepository) Update(ctx context.Context, l *model.Location) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE locations SET name = $1, parent_id = $2 WHERE id = $3
    `, l.Name, l.ParentID, l.ID)
	if err != nil {
		r.logger.Error("Failed to update location", zap.Int64("id", l.ID), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LocationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete location", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
