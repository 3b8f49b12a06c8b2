package location

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"medmaint/internal/model"
	"medmaint/internal/repository"
)

var ErrMissingName = errors.New("name is required")

type Service struct {
	locationRepo *repository.LocationRepository
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger
}

func NewService(locationRepo *repository.LocationRepository, activityRepo *repository.ActivityRepository, logger *zap.Logger) *Service {
	return &Service{
		locationRepo: locationRepo,
		activityRepo: activityRepo,
		logger:       logger,
	}
}

func (s *Service) List(ctx context.Context) ([]model.Location, error) {
	return s.locationRepo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Location, error) {
	return s.locationRepo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, l *model.Location, userID int64) (int64, error) {
	if l.Name == "" {
		return 0, ErrMissingName
	}

	id, err := s.locationRepo.Insert(ctx, l)
	if err != nil {
		return 0, err
	}

	s.recordActivity(ctx, userID, model.ActionCreate, id, l.Name)
	return id, nil
}

func (s *Service) Update(ctx context.Context, l *model.Location, userID int64) error {
	if l.Name == "" {
		return ErrMissingName
	}

	if err := s.locationRepo.Update(ctx, l); err != nil {
		return err
	}

	s.recordActivity(ctx, userID, model.ActionUpdate, l.ID, l.Name)
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64, userID int64) error {
	if err := s.locationRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.recordActivity(ctx, userID, model.ActionDelete, id, "")
	return nil
}

func (s *Service) recordActivity(ctx context.Context, userID int64, action string, locationID int64, details string) {
	entityID := locationID
	if err := s.activityRepo.Insert(ctx, &model.ActivityLog{
		UserID:     &userID,
		Action:     action,
		EntityType: "location",
		EntityID:   &entityID,
		Details:    details,
	}); err != nil {
		s.logger.Warn("Failed to record location activity",
			zap.String("action", action),
			zap.Int64("location_id", locationID),
			zap.Error(err),
		)
	}
}
