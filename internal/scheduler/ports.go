package scheduler

import (
	"context"
	"errors"
	"time"

	"medmaint/internal/model"
)

// ErrPlanGone is returned by RunCycle when the plan was deleted between the
// scan and the cycle. The engine treats it as a skip, not a failure.
var ErrPlanGone = errors.New("pm plan no longer exists")

// DuePlanScanner lists PM plans whose next due date has arrived.
type DuePlanScanner interface {
	ListDuePlans(ctx context.Context, today time.Time) ([]model.PMPlan, error)
}

// Cycle is the transactional view of the stores available while one plan's
// generation cycle runs.
type Cycle interface {
	// HasActivePMOrder reports whether a non-terminal PM order generated
	// from this plan already exists.
	HasActivePMOrder(ctx context.Context, planID int64) (bool, error)
	// CreateWorkOrder persists a new work order.
	CreateWorkOrder(ctx context.Context, wo *model.WorkOrder) (int64, error)
	// UpdatePlanNextDueDate persists the advanced due date.
	UpdatePlanNextDueDate(ctx context.Context, planID int64, next time.Time) error
}

// CycleStore runs one plan's guard-check, generation and advancement as a
// single atomic unit. Implementations must serialize concurrent cycles for
// the same plan and pass fn a fresh read of the plan taken under that
// serialization, so a second concurrent pass observes the first one's
// writes. fn returning an error aborts the whole cycle.
type CycleStore interface {
	RunCycle(ctx context.Context, planID int64, fn func(ctx context.Context, c Cycle, plan *model.PMPlan) error) error
}
