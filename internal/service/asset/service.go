package asset

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"medmaint/internal/model"
	"medmaint/internal/repository"
)

var (
	ErrMissingName   = errors.New("name is required")
	ErrInvalidStatus = errors.New("invalid asset status")
)

type Service struct {
	assetRepo    *repository.AssetRepository
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger
}

func NewService(assetRepo *repository.AssetRepository, activityRepo *repository.ActivityRepository, logger *zap.Logger) *Service {
	return &Service{
		assetRepo:    assetRepo,
		activityRepo: activityRepo,
		logger:       logger,
	}
}

func validate(a *model.Asset) error {
	if a.Name == "" {
		return ErrMissingName
	}
	if a.Status == "" {
		a.Status = model.AssetStatusActive
	}
	if !model.IsValidAssetStatus(a.Status) {
		return ErrInvalidStatus
	}
	return nil
}

func (s *Service) List(ctx context.Context, filter repository.AssetFilter) ([]model.Asset, error) {
	return s.assetRepo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Asset, error) {
	return s.assetRepo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, a *model.Asset, userID int64) (int64, error) {
	if err := validate(a); err != nil {
		return 0, err
	}

	id, err := s.assetRepo.Insert(ctx, a)
	if err != nil {
		return 0, err
	}

	s.recordActivity(ctx, userID, model.ActionCreate, id, a.Name)
	return id, nil
}

func (s *Service) Update(ctx context.Context, a *model.Asset, userID int64) error {
	if err := validate(a); err != nil {
		return err
	}

	if err := s.assetRepo.Update(ctx, a); err != nil {
		return err
	}

	s.recordActivity(ctx, userID, model.ActionUpdate, a.ID, a.Name)
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64, userID int64) error {
	if err := s.assetRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.recordActivity(ctx, userID, model.ActionDelete, id, "")
	return nil
}

func (s *Service) recordActivity(ctx context.Context, userID int64, action string, assetID int64, details string) {
	entityID := assetID
	if err := s.activityRepo.Insert(ctx, &model.ActivityLog{
		UserID:     &userID,
		Action:     action,
		EntityType: "asset",
		EntityID:   &entityID,
		Details:    details,
	}); err != nil {
		s.logger.Warn("Failed to record asset activity",
			zap.String("action", action),
			zap.Int64("asset_id", assetID),
			zap.Error(err),
		)
	}
}
