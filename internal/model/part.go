package model

import "time"

// Part is a spare part kept in inventory.
type Part struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	PartNumber  string    `json:"part_number"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"min_quantity"`
	LocationID  *int64    `json:"location_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BelowMinimum reports whether stock has fallen below the reorder floor.
func (p *Part) BelowMinimum() bool {
	return p.Quantity < p.MinQuantity
}
