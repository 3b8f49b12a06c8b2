package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"medmaint/internal/model"
	"medmaint/pkg/metrics"
)

// Engine orchestrates PM scheduler passes: scan due plans, then for each
// plan run an independent guard → generate → advance cycle.
type Engine struct {
	scanner DuePlanScanner
	store   CycleStore
	logger  *zap.Logger
	catchUp bool
}

func NewEngine(scanner DuePlanScanner, store CycleStore, logger *zap.Logger, catchUp bool) *Engine {
	return &Engine{
		scanner: scanner,
		store:   store,
		logger:  logger,
		catchUp: catchUp,
	}
}

// PassResult summarizes one scheduler pass.
type PassResult struct {
	Due       int
	Generated int
	Skipped   int
	Failed    int
}

// RunPass executes one full scheduler pass for the given calendar date.
// A failure in one plan's cycle is logged and counted but never aborts the
// remaining plans; only context cancellation stops the pass early. The
// returned error is non-nil only when the scan itself failed or the pass
// was cancelled.
func (e *Engine) RunPass(ctx context.Context, today time.Time, trigger string) (PassResult, error) {
	start := time.Now()
	today = DateOnly(today)

	var result PassResult

	plans, err := e.scanner.ListDuePlans(ctx, today)
	if err != nil {
		e.logger.Error("Failed to scan due plans", zap.Error(err))
		return result, fmt.Errorf("scan due plans: %w", err)
	}

	result.Due = len(plans)
	if len(plans) == 0 {
		e.logger.Debug("No due plans", zap.String("date", FormatDate(today)))
		return result, nil
	}

	e.logger.Info("Scheduler pass started",
		zap.String("trigger", trigger),
		zap.String("date", FormatDate(today)),
		zap.Int("due_plans", len(plans)),
	)

	for _, plan := range plans {
		// Each plan is an independent unit of work, but a shutdown
		// abandons the rest of the pass cleanly.
		if err := ctx.Err(); err != nil {
			e.logger.Warn("Scheduler pass cancelled",
				zap.Int("processed", result.Generated+result.Skipped+result.Failed),
				zap.Int("due_plans", result.Due),
			)
			return result, err
		}

		switch err := e.runPlanCycle(ctx, plan.ID, today); {
		case err == nil:
			result.Generated++
			metrics.IncrementGeneration("generated")
		case errors.Is(err, errCycleSkipped):
			result.Skipped++
			metrics.IncrementGeneration("skipped")
		default:
			result.Failed++
			metrics.IncrementGeneration("failed")
			e.logger.Error("Plan cycle failed",
				zap.Int64("plan_id", plan.ID),
				zap.Error(err),
			)
		}
	}

	metrics.ObserveSchedulerPass(trigger, time.Since(start))
	e.logger.Info("Scheduler pass completed",
		zap.String("trigger", trigger),
		zap.Int("due", result.Due),
		zap.Int("generated", result.Generated),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
		zap.Duration("took", time.Since(start)),
	)

	return result, nil
}

// errCycleSkipped signals that a cycle ran to completion without generating
// an order (active order pending, or the plan advanced/vanished under us).
var errCycleSkipped = errors.New("cycle skipped")

// runPlanCycle runs one plan's guard, generation and advancement inside the
// store's atomic cycle. The plan is re-read under the cycle's lock: a
// concurrent pass may already have advanced it.
func (e *Engine) runPlanCycle(ctx context.Context, planID int64, today time.Time) error {
	err := e.store.RunCycle(ctx, planID, func(ctx context.Context, c Cycle, plan *model.PMPlan) error {
		due := DateOnly(plan.NextDueDate)
		if due.After(today) {
			// Another pass got here first and advanced the date.
			e.logger.Debug("Plan no longer due",
				zap.Int64("plan_id", plan.ID),
				zap.String("next_due_date", FormatDate(due)),
			)
			return errCycleSkipped
		}

		active, err := c.HasActivePMOrder(ctx, plan.ID)
		if err != nil {
			return fmt.Errorf("duplicate guard: %w", err)
		}
		if active {
			// Previous cycle's order is still pending; not an error.
			// The due date stays put so the plan is revisited once
			// the order closes out.
			e.logger.Debug("Active PM order exists, skipping generation",
				zap.Int64("plan_id", plan.ID),
				zap.Int64("asset_id", plan.AssetID),
			)
			return errCycleSkipped
		}

		wo := newPMWorkOrder(plan)
		woID, err := c.CreateWorkOrder(ctx, wo)
		if err != nil {
			return fmt.Errorf("create work order: %w", err)
		}

		next := NextDueDate(due, plan.FrequencyDays, today, e.catchUp)
		if err := c.UpdatePlanNextDueDate(ctx, plan.ID, next); err != nil {
			return fmt.Errorf("advance next due date: %w", err)
		}

		e.logger.Info("Generated PM work order",
			zap.Int64("plan_id", plan.ID),
			zap.Int64("asset_id", plan.AssetID),
			zap.Int64("work_order_id", woID),
			zap.String("due_date", FormatDate(due)),
			zap.String("next_due_date", FormatDate(next)),
		)
		return nil
	})

	if errors.Is(err, ErrPlanGone) {
		// Deleted between scan and cycle; nothing to do.
		e.logger.Debug("Plan deleted mid-pass", zap.Int64("plan_id", planID))
		return errCycleSkipped
	}
	return err
}

// newPMWorkOrder builds the generated order: always type pm, status open,
// priority medium, due on the plan's due date that triggered generation.
func newPMWorkOrder(plan *model.PMPlan) *model.WorkOrder {
	assetID := plan.AssetID
	planID := plan.ID
	due := DateOnly(plan.NextDueDate)
	return &model.WorkOrder{
		AssetID:      &assetID,
		SourcePlanID: &planID,
		Type:         model.WorkOrderTypePM,
		Priority:     model.PriorityMedium,
		Status:       model.StatusOpen,
		Description:  "PM: " + plan.Title,
		DueDate:      &due,
	}
}
