package part

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"medmaint/internal/model"
	"medmaint/internal/repository"
	"medmaint/pkg/metrics"
	"medmaint/pkg/rbac"
)

var (
	ErrMissingName     = errors.New("name is required")
	ErrNegativeStock   = errors.New("quantity cannot be negative")
	ErrNegativeMinimum = errors.New("min_quantity cannot be negative")
)

type Service struct {
	partRepo         *repository.PartRepository
	userRepo         *repository.UserRepository
	notificationRepo *repository.NotificationRepository
	activityRepo     *repository.ActivityRepository
	logger           *zap.Logger
}

func NewService(
	partRepo *repository.PartRepository,
	userRepo *repository.UserRepository,
	notificationRepo *repository.NotificationRepository,
	activityRepo *repository.ActivityRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		partRepo:         partRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		activityRepo:     activityRepo,
		logger:           logger,
	}
}

func validate(p *model.Part) error {
	if p.Name == "" {
		return ErrMissingName
	}
	if p.Quantity < 0 {
		return ErrNegativeStock
	}
	if p.MinQuantity < 0 {
		return ErrNegativeMinimum
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]model.Part, error) {
	return s.partRepo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Part, error) {
	return s.partRepo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, p *model.Part, userID int64) (int64, error) {
	if err := validate(p); err != nil {
		return 0, err
	}

	id, err := s.partRepo.Insert(ctx, p)
	if err != nil {
		return 0, err
	}
	p.ID = id

	s.recordActivity(ctx, userID, model.ActionCreate, id, p.Name)
	if p.BelowMinimum() {
		s.notifyLowStock(ctx, p)
	}
	return id, nil
}

func (s *Service) Update(ctx context.Context, p *model.Part, userID int64) error {
	if err := validate(p); err != nil {
		return err
	}

	current, err := s.partRepo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}

	if err := s.partRepo.Update(ctx, p); err != nil {
		return err
	}

	s.recordActivity(ctx, userID, model.ActionUpdate, p.ID, p.Name)

	// Notify only on the crossing, not on every save of an already-low part.
	if p.BelowMinimum() && !current.BelowMinimum() {
		s.notifyLowStock(ctx, p)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64, userID int64) error {
	if err := s.partRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.recordActivity(ctx, userID, model.ActionDelete, id, "")
	return nil
}

// notifyLowStock fans a low-stock warning out to admins and managers.
// Best effort: inventory writes never fail on notification errors.
func (s *Service) notifyLowStock(ctx context.Context, p *model.Part) {
	recipients, err := s.userRepo.ListIDsByRoles(ctx, []string{rbac.RoleAdmin, rbac.RoleManager})
	if err != nil {
		s.logger.Warn("Failed to resolve low-stock recipients", zap.Error(err))
		return
	}

	link := "/inventory"
	for _, uid := range recipients {
		_, err := s.notificationRepo.Insert(ctx, &model.Notification{
			UserID:   uid,
			Type:     "warning",
			Category: model.NotificationCategoryLowStock,
			Title:    "Low stock: " + p.Name,
			Message:  fmt.Sprintf("%s is down to %d (minimum %d)", p.Name, p.Quantity, p.MinQuantity),
			Link:     &link,
		})
		if err != nil {
			continue
		}
		metrics.IncrementNotificationCreated(model.NotificationCategoryLowStock)
	}
}

func (s *Service) recordActivity(ctx context.Context, userID int64, action string, partID int64, details string) {
	entityID := partID
	if err := s.activityRepo.Insert(ctx, &model.ActivityLog{
		UserID:     &userID,
		Action:     action,
		EntityType: "part",
		EntityID:   &entityID,
		Details:    details,
	}); err != nil {
		s.logger.Warn("Failed to record part activity",
			zap.String("action", action),
			zap.Int64("part_id", partID),
			zap.Error(err),
		)
	}
}
