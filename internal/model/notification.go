package model

import "time"

// Notification categories.
const (
	NotificationCategoryPMGenerated = "pm_generated"
	NotificationCategoryWOOverdue   = "wo_overdue"
	NotificationCategoryLowStock    = "low_stock"
)

// Notification is an in-app notification row shown in the notification center.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Type      string    `json:"type"` // info, warning, error
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      *string   `json:"link"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
