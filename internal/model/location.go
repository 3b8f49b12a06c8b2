package model

import "time"

// Location is a node in the facility hierarchy (building, floor, room).
type Location struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
}
