package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Checklist item input types.
const (
	ChecklistTypePassFail = "pass_fail"
	ChecklistTypeNumeric  = "numeric"
	ChecklistTypeText     = "text"
)

// ChecklistItem is one step of a PM checklist.
type ChecklistItem struct {
	Label string `json:"label"`
	Type  string `json:"type"`
}

// Checklist is an ordered sequence of checklist items, stored as JSONB.
// The scheduler treats it as opaque; only the forms read it.
type Checklist []ChecklistItem

func (c Checklist) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c)
}

func (c *Checklist) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*c = nil
		return nil
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("cannot scan %T into Checklist", src)
	}
}

// PMPlan is a recurring preventive-maintenance schedule tied to one asset.
type PMPlan struct {
	ID            int64     `json:"id"`
	AssetID       int64     `json:"asset_id"`
	Title         string    `json:"title"`
	FrequencyDays int       `json:"frequency_days"`
	Checklist     Checklist `json:"checklist"`
	NextDueDate   time.Time `json:"next_due_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
