package event

// Routing keys on the events exchange.
const (
	RoutingKeyWorkOrderGenerated = "workorder.generated"
	RoutingKeyWorkOrderOverdue   = "workorder.overdue"
)

// WorkOrderGeneratedPayload announces a scheduler-generated PM work order.
type WorkOrderGeneratedPayload struct {
	WorkOrderID int64  `json:"work_order_id"`
	PlanID      int64  `json:"plan_id"`
	AssetID     int64  `json:"asset_id"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"` // YYYY-MM-DD
}

// WorkOrderOverduePayload announces a work order past its due date.
type WorkOrderOverduePayload struct {
	WorkOrderID int64  `json:"work_order_id"`
	AssetID     *int64 `json:"asset_id"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"` // YYYY-MM-DD
}
