package workorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"medmaint/internal/model"
	"medmaint/internal/repository"
)

var (
	ErrInvalidType        = errors.New("invalid work order type")
	ErrInvalidPriority    = errors.New("invalid work order priority")
	ErrInvalidStatus      = errors.New("invalid work order status")
	ErrMissingDescription = errors.New("description is required")
)

// InvalidTransitionError is returned when a status change violates the
// work order state machine.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition work order from %s to %s", e.From, e.To)
}

type Service struct {
	woRepo       *repository.WorkOrderRepository
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger
}

func NewService(woRepo *repository.WorkOrderRepository, activityRepo *repository.ActivityRepository, logger *zap.Logger) *Service {
	return &Service{
		woRepo:       woRepo,
		activityRepo: activityRepo,
		logger:       logger,
	}
}

func (s *Service) List(ctx context.Context, filter repository.WorkOrderFilter) ([]model.WorkOrder, error) {
	return s.woRepo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id int64) (*model.WorkOrder, error) {
	return s.woRepo.GetByID(ctx, id)
}

// Create persists a manually entered work order. Scheduler-generated
// orders bypass this path and are created inside the scheduler cycle.
func (s *Service) Create(ctx context.Context, w *model.WorkOrder, userID int64) (int64, error) {
	if w.Description == "" {
		return 0, ErrMissingDescription
	}
	if !model.IsValidType(w.Type) {
		return 0, ErrInvalidType
	}
	if w.Priority == "" {
		w.Priority = model.PriorityMedium
	}
	if !model.IsValidPriority(w.Priority) {
		return 0, ErrInvalidPriority
	}
	if w.Status == "" {
		w.Status = model.StatusOpen
	}
	if !model.IsValidStatus(w.Status) {
		return 0, ErrInvalidStatus
	}

	id, err := s.woRepo.Insert(ctx, w)
	if err != nil {
		return 0, err
	}

	s.recordActivity(ctx, userID, model.ActionCreate, id, w.Description)
	return id, nil
}

// Update applies field edits. Status changes are validated against the
// state machine; completing an order stamps its completed date.
func (s *Service) Update(ctx context.Context, w *model.WorkOrder, userID int64) error {
	current, err := s.woRepo.GetByID(ctx, w.ID)
	if err != nil {
		return err
	}

	if !model.IsValidPriority(w.Priority) {
		return ErrInvalidPriority
	}
	if w.Status != current.Status {
		if !model.IsValidStatus(w.Status) {
			return ErrInvalidStatus
		}
		if !model.CanTransition(current.Status, w.Status) {
			return &InvalidTransitionError{From: current.Status, To: w.Status}
		}
		w.CompletedDate = current.CompletedDate
		if w.Status == model.StatusCompleted && w.CompletedDate == nil {
			now := time.Now()
			w.CompletedDate = &now
		}
	} else {
		w.CompletedDate = current.CompletedDate
	}

	if err := s.woRepo.Update(ctx, w); err != nil {
		return err
	}

	s.recordActivity(ctx, userID, model.ActionUpdate, w.ID, fmt.Sprintf("status: %s", w.Status))
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64, userID int64) error {
	if err := s.woRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.recordActivity(ctx, userID, model.ActionDelete, id, "")
	return nil
}

func (s *Service) recordActivity(ctx context.Context, userID int64, action string, woID int64, details string) {
	entityID := woID
	if err := s.activityRepo.Insert(ctx, &model.ActivityLog{
		UserID:     &userID,
		Action:     action,
		EntityType: "work_order",
		EntityID:   &entityID,
		Details:    details,
	}); err != nil {
		s.logger.Warn("Failed to record work order activity",
			zap.String("action", action),
			zap.Int64("work_order_id", woID),
			zap.Error(err),
		)
	}
}
