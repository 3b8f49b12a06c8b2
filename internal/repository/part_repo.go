package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"medmaint/internal/model"
)

type PartRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPartRepository(db *pgxpool.Pool, logger *zap.Logger) *PartRepository {
	return &PartRepository{
		db:     db,
		logger: logger,
	}
}

const partColumns = `id, name, part_number, quantity, min_quantity, location_id, created_at, updated_at`

func (r *PartRepository) List(ctx context.Context) ([]model.Part, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+partColumns+`
        FROM parts
        ORDER BY name ASC
    `)
	if err != nil {
		r.logger.Error("Failed to list parts", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var parts []model.Part
	for rows.Next() {
		var p model.Part
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.PartNumber,
			&p.Quantity,
			&p.MinQuantity,
			&p.LocationID,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

func (r *PartRepository) GetByID(ctx context.Context, id int64) (*model.Part, error) {
	var p model.Part
	err := r.db.QueryRow(ctx, `
        SELECT `+partColumns+`
        FROM parts
        WHERE id = $1
    `, id).Scan(
		&p.ID,
		&p.Name,
		&p.PartNumber,
		&p.Quantity,
		&p.MinQuantity,
		&p.LocationID,
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

func (r *PartRepository) Insert(ctx context.Context, p *model.Part) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
        INSERT INTO parts (name, part_number, quantity, min_quantity, location_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `,
		p.Name,
		p.PartNumber,
		p.Quantity,
		p.MinQuantity,
		p.LocationID,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert part", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *PartRepository) Update(ctx context.Context, p *model.Part) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE parts
        SET name = $1, part_number = $2, quantity = $3, min_quantity = $4,
            location_id = $5, updated_at = NOW()
        WHERE id = $6
    `,
		p.Name,
		p.PartNumber,
		p.Quantity,
		p.MinQuantity,
		p.LocationID,
		p.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update part", zap.Int64("id", p.ID), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PartRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM parts WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete part", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
