package model

import "time"

// Asset statuses.
const (
	AssetStatusActive      = "active"
	AssetStatusMaintenance = "maintenance"
	AssetStatusBroken      = "broken"
	AssetStatusRetired     = "retired"
	AssetStatusDisposed    = "disposed"
)

// Asset is a piece of tracked medical equipment.
type Asset struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"name"`
	SerialNumber        string     `json:"serial_number"`
	Model               string     `json:"model"`
	Manufacturer        string     `json:"manufacturer"`
	LocationID          *int64     `json:"location_id"`
	LocationName        string     `json:"location_name,omitempty"`
	Status              string     `json:"status"`
	PurchaseDate        *time.Time `json:"purchase_date"`
	WarrantyExpiry      *time.Time `json:"warranty_expiry"`
	NextCalibrationDate *time.Time `json:"next_calibration_date"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// IsValidAssetStatus reports whether s is a known asset status.
func IsValidAssetStatus(s string) bool {
	switch s {
	case AssetStatusActive, AssetStatusMaintenance, AssetStatusBroken,
		AssetStatusRetired, AssetStatusDisposed:
		return true
	}
	return false
}
