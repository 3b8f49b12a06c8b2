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

// WorkOrderOverdueHandler notifies admins and managers about work orders
// past their due date.
type WorkOrderOverdueHandler struct {
	userRepo         *repository.UserRepository
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
}

func NewWorkOrderOverdueHandler(
	userRepo *repository.UserRepository,
	notificationRepo *repository.NotificationRepository,
	logger *zap.Logger,
) *WorkOrderOverdueHandler {
	return &WorkOrderOverdueHandler{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

func (h *WorkOrderOverdueHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	log := logger.WithTrace(ctx, h.logger)

	var p event.WorkOrderOverduePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error("Failed to unmarshal WorkOrderOverduePayload", zap.Error(err))
		return err
	}

	log.Info("Handling workorder.overdue event",
		zap.Int64("work_order_id", p.WorkOrderID),
		zap.String("due_date", p.DueDate),
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
			Type:     "warning",
			Category: model.NotificationCategoryWOOverdue,
			Title:    "Work order overdue",
			Message:  fmt.Sprintf("%s was due %s", p.Description, p.DueDate),
			Link:     &link,
		})
		if err != nil {
			return err
		}
		metrics.IncrementNotificationCreated(model.NotificationCategoryWOOverdue)
	}

	return nil
}
