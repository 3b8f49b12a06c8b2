package model

import "time"

// Work order types.
const (
	WorkOrderTypeRepair       = "repair"
	WorkOrderTypePM           = "pm"
	WorkOrderTypeInstallation = "installation"
)

// Work order priorities.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Work order statuses.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusOnHold     = "on_hold"
	StatusCompleted  = "completed"
	StatusClosed     = "closed"
)

// WorkOrder is a unit of maintenance work against an asset. Scheduler-
// generated orders carry SourcePlanID; manual orders may leave both
// AssetID and SourcePlanID nil.
type WorkOrder struct {
	ID            int64      `json:"id"`
	AssetID       *int64     `json:"asset_id"`
	SourcePlanID  *int64     `json:"source_plan_id"`
	Type          string     `json:"type"`
	Priority      string     `json:"priority"`
	Status        string     `json:"status"`
	Description   string     `json:"description"`
	AssignedTo    *int64     `json:"assigned_to"`
	DueDate       *time.Time `json:"due_date"`
	CompletedDate *time.Time `json:"completed_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ActiveStatuses are the non-terminal statuses that make a PM order count
// as "still pending" for the duplicate guard.
func ActiveStatuses() []string {
	return []string{StatusOpen, StatusInProgress, StatusOnHold}
}

// IsValidType reports whether t is a known work order type.
func IsValidType(t string) bool {
	switch t {
	case WorkOrderTypeRepair, WorkOrderTypePM, WorkOrderTypeInstallation:
		return true
	}
	return false
}

// IsValidPriority reports whether p is a known priority.
func IsValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// IsValidStatus reports whether s is a known status.
func IsValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusOnHold, StatusCompleted, StatusClosed:
		return true
	}
	return false
}

// IsTerminalStatus reports whether s admits no further transitions.
// Only closed is terminal; completed orders can still be closed.
func IsTerminalStatus(s string) bool {
	return s == StatusClosed
}

// statusTransitions is the work order state machine:
// open → in_progress ↔ on_hold → completed → closed, with the shortcut
// open → completed for trivial jobs.
var statusTransitions = map[string][]string{
	StatusOpen:       {StatusInProgress, StatusCompleted},
	StatusInProgress: {StatusOnHold, StatusCompleted},
	StatusOnHold:     {StatusInProgress},
	StatusCompleted:  {StatusClosed},
	StatusClosed:     {},
}

// CanTransition reports whether a work order may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
