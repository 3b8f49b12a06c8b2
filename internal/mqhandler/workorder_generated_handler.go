package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"medmaint/internal/event"
	"medmaint/internal/model"
	"medmaint/internal/repository"
	"medmaint/pkg/logger"
	"medmaint/pkg/metrics"
	"medmaint/pkg/rbac"
)

// WorkOrderGeneratedHandler turns scheduler generation events into
// notification rows for admins and managers.
type WorkOrderGeneratedHandler struct {
	userRepo         *repository.UserRepository
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
}

func NewWorkOrderGeneratedHandler(
	userRepo *repository.UserRepository,
	notificationRepo *repository.NotificationRepository,
	logger *zap.Logger,
) *WorkOrderGeneratedHandler {
	return &WorkOrderGeneratedHandler{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

func (h *WorkOrderGeneratedHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	log := logger.WithTrace(ctx, h.logger)

	var p event.WorkOrderGeneratedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error("Failed to unmarshal WorkOrderGeneratedPayload", zap.Error(err))
		return err
	}

	log.Info("Handling workorder.generated event",
		zap.Int64("work_order_id", p.WorkOrderID),
		zap.Int64("plan_id", p.PlanID),
		zap.Int64("asset_id", p.AssetID),
	)

	recipients, err := h.userRepo.ListIDsByRoles(ctx, []string{rbac.RoleAdmin, rbac.RoleManager})
	if err != nil {
		log.Error("Failed to resolve recipients", zap.Error(err))
		return err
	}

	link := fmt.Sprintf("/workorders/%d", p.WorkOrderID)
	for _, uid := range recipients {
		_, err := h.notificationRepo.Insert(ctx, &model.Notification{
			UserID:   uid,
			Type:     "info",
			Category: model.NotificationCategoryPMGenerated,
			Title:    "PM work order generated",
			Message:  fmt.Sprintf("%s (due %s)", p.Description, p.DueDate),
			Link:     &link,
		})
		if err != nil {
			return err
		}
		metrics.IncrementNotificationCreated(model.NotificationCategoryPMGenerated)
	}

	return nil
}
