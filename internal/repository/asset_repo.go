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

type AssetRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAssetRepository(db *pgxpool.Pool, logger *zap.Logger) *AssetRepository {
	return &AssetRepository{
		db:     db,
		logger: logger,
	}
}

// AssetFilter narrows List results. Status "overdue" selects assets whose
// calibration date has passed or is missing.
type AssetFilter struct {
	Status string
	Search string
}

func (r *AssetRepository) List(ctx context.Context, filter AssetFilter) ([]model.Asset, error) {
	query := `
        SELECT a.id, a.name, a.serial_number, a.model, a.manufacturer,
               a.location_id, COALESCE(l.name, ''), a.status,
               a.purchase_date, a.warranty_expiry, a.next_calibration_date,
               a.created_at, a.updated_at
        FROM assets a
        LEFT JOIN locations l ON a.location_id = l.id
        WHERE 1=1
    `
	var params []interface{}
	paramCount := 1

	if filter.Status != "" && filter.Status != "all" {
		if filter.Status == "overdue" {
			query += " AND (a.next_calibration_date < CURRENT_DATE OR a.next_calibration_date IS NULL)"
		} else {
			query += fmt.Sprintf(" AND a.status = $%d", paramCount)
			params = append(params, filter.Status)
			paramCount++
		}
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (a.name ILIKE $%d OR a.serial_number ILIKE $%d OR a.model ILIKE $%d)",
			paramCount, paramCount, paramCount)
		params = append(params, "%"+filter.Search+"%")
		paramCount++
	}

	query += " ORDER BY a.created_at DESC"

	rows, err := r.db.Query(ctx, query, params...)
	if err != nil {
		r.logger.Error("Failed to list assets", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var assets []model.Asset
	for rows.Next() {
		var a model.Asset
		if err := rows.Scan(
			&a.ID,
			&a.Name,
			&a.SerialNumber,
			&a.Model,
			&a.Manufacturer,
			&a.LocationID,
			&a.LocationName,
			&a.Status,
			&a.PurchaseDate,
			&a.WarrantyExpiry,
			&a.NextCalibrationDate,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (r *AssetRepository) GetByID(ctx context.Context, id int64) (*model.Asset, error) {
	var a model.Asset
	err := r.db.QueryRow(ctx, `
        SELECT a.id, a.name, a.serial_number, a.model, a.manufacturer,
               a.location_id, COALESCE(l.name, ''), a.status,
               a.purchase_date, a.warranty_expiry, a.next_calibration_date,
               a.created_at, a.updated_at
        FROM assets a
        LEFT JOIN locations l ON a.location_id = l.id
        WHERE a.id = $1
    `, id).Scan(
		&a.ID,
		&a.Name,
		&a.SerialNumber,
		&a.Model,
		&a.Manufacturer,
		&a.LocationID,
		&a.LocationName,
		&a.Status,
		&a.PurchaseDate,
		&a.WarrantyExpiry,
		&a.NextCalibrationDate,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AssetRepository) Insert(ctx context.Context, a *model.Asset) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
        INSERT INTO assets (name, serial_number, model, manufacturer, location_id,
                            status, purchase_date, warranty_expiry, next_calibration_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `,
		a.Name,
		a.SerialNumber,
		a.Model,
		a.Manufacturer,
		a.LocationID,
		a.Status,
		a.PurchaseDate,
		a.WarrantyExpiry,
		a.NextCalibrationDate,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert asset", zap.Error(err))
		return 0, err
	}

	r.logger.Info("Asset inserted", zap.Int64("id", id), zap.String("name", a.Name))
	return id, nil
}

func (r *AssetRepository) Update(ctx context.Context, a *model.Asset) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE assets
        SET name = $1, serial_number = $2, model = $3, manufacturer = $4,
            location_id = $5, status = $6, purchase_date = $7,
            warranty_expiry = $8, next_calibration_date = $9, updated_at = NOW()
        WHERE id = $10
    `,
		a.Name,
		a.SerialNumber,
		a.Model,
		a.Manufacturer,
		a.LocationID,
		a.Status,
		a.PurchaseDate,
		a.WarrantyExpiry,
		a.NextCalibrationDate,
		a.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update asset", zap.Int64("id", a.ID), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AssetRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete asset", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DashboardCounts aggregates asset counts for the dashboard view.
type DashboardCounts struct {
	Total              int
	Operational        int
	CalibrationOverdue int
	UnderMaintenance   int
	OutOfService       int
	Disposed           int
}

func (r *AssetRepository) CountForDashboard(ctx context.Context, today string) (*DashboardCounts, error) {
	var c DashboardCounts
	err := r.db.QueryRow(ctx, `
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE status = 'active'),
            COUNT(*) FILTER (WHERE next_calibration_date IS NOT NULL AND next_calibration_date < $1),
            COUNT(*) FILTER (WHERE status = 'maintenance'),
            COUNT(*) FILTER (WHERE status IN ('retired', 'broken')),
            COUNT(*) FILTER (WHERE status = 'disposed')
        FROM assets
    `, today).Scan(
		&c.Total,
		&c.Operational,
		&c.CalibrationOverdue,
		&c.UnderMaintenance,
		&c.OutOfService,
		&c.Disposed,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
