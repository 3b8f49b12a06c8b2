package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"medmaint/internal/event"
	"medmaint/internal/scheduler"
	"medmaint/pkg/metrics"
	"medmaint/pkg/outbox"
)

// OverdueSweeper flags open work orders past their due date, once each.
// The flag and its outbox event commit in the same transaction, so a
// crashed sweep never drops or double-sends an overdue notification.
type OverdueSweeper struct {
	db         *pgxpool.Pool
	woRepo     *WorkOrderRepository
	outboxRepo *outbox.Repository
	logger     *zap.Logger
}

func NewOverdueSweeper(db *pgxpool.Pool, woRepo *WorkOrderRepository, outboxRepo *outbox.Repository, logger *zap.Logger) *OverdueSweeper {
	return &OverdueSweeper{
		db:         db,
		woRepo:     woRepo,
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// Sweep marks every not-yet-notified overdue open order and enqueues one
// workorder.overdue event per order. Returns the number marked.
func (s *OverdueSweeper) Sweep(ctx context.Context, today time.Time) (int, error) {
	todayStr := scheduler.FormatDate(scheduler.DateOnly(today))

	orders, err := s.woRepo.ListOverdueOpen(ctx, todayStr)
	if err != nil {
		return 0, fmt.Errorf("list overdue orders: %w", err)
	}

	marked := 0
	for _, w := range orders {
		if err := ctx.Err(); err != nil {
			return marked, err
		}

		tx, err := s.db.Begin(ctx)
		if err != nil {
			return marked, fmt.Errorf("begin sweep tx: %w", err)
		}

		tag, err := tx.Exec(ctx, `
            UPDATE work_orders
            SET overdue_notified_at = NOW()
            WHERE id = $1 AND overdue_notified_at IS NULL
        `, w.ID)
		if err != nil {
			tx.Rollback(ctx)
			s.logger.Error("Failed to mark work order overdue",
				zap.Int64("work_order_id", w.ID),
				zap.Error(err),
			)
			continue
		}
		if tag.RowsAffected() == 0 {
			// Another sweep beat us to this one.
			tx.Rollback(ctx)
			continue
		}

		payload := event.WorkOrderOverduePayload{
			WorkOrderID: w.ID,
			AssetID:     w.AssetID,
			Description: w.Description,
			DueDate:     scheduler.FormatDate(*w.DueDate),
		}
		woID := w.ID
		if err := outbox.InsertEventInTx(ctx, tx, s.outboxRepo,
			"work_order", &woID, event.RoutingKeyWorkOrderOverdue, payload); err != nil {
			tx.Rollback(ctx)
			s.logger.Error("Failed to enqueue overdue event",
				zap.Int64("work_order_id", w.ID),
				zap.Error(err),
			)
			continue
		}

		if err := tx.Commit(ctx); err != nil {
			s.logger.Error("Failed to commit overdue sweep",
				zap.Int64("work_order_id", w.ID),
				zap.Error(err),
			)
			continue
		}

		marked++
		metrics.WorkOrderOverdueCount.Inc()
	}

	if marked > 0 {
		s.logger.Info("Overdue sweep completed",
			zap.String("date", todayStr),
			zap.Int("marked", marked),
		)
	}
	return marked, nil
}
