package plan

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"medmaint/internal/model"
	"medmaint/internal/repository"
	"medmaint/internal/scheduler"
)

var (
	ErrInvalidFrequency = errors.New("frequency_days must be a positive integer")
	ErrMissingTitle     = errors.New("title is required")
	ErrMissingAsset     = errors.New("asset_id is required")
)

// Service owns PM plan lifecycle: validation, persistence and audit trail.
type Service struct {
	planRepo     *repository.PlanRepository
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger
}

func NewService(planRepo *repository.PlanRepository, activityRepo *repository.ActivityRepository, logger *zap.Logger) *Service {
	return &Service{
		planRepo:     planRepo,
		activityRepo: activityRepo,
		logger:       logger,
	}
}

func validate(p *model.PMPlan) error {
	if p.Title == "" {
		return ErrMissingTitle
	}
	if p.AssetID == 0 {
		return ErrMissingAsset
	}
	// A zero or negative frequency would stall or rewind the schedule.
	if p.FrequencyDays <= 0 {
		return ErrInvalidFrequency
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]model.PMPlan, error) {
	return s.planRepo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*model.PMPlan, error) {
	return s.planRepo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, p *model.PMPlan, userID int64) (int64, error) {
	if err := validate(p); err != nil {
		return 0, err
	}
	p.NextDueDate = scheduler.DateOnly(p.NextDueDate)

	id, err := s.planRepo.Insert(ctx, p)
	if err != nil {
		return 0, err
	}

	s.recordActivity(ctx, userID, model.ActionCreate, id, p.Title)
	return id, nil
}

func (s *Service) Update(ctx context.Context, p *model.PMPlan, userID int64) error {
	if err := validate(p); err != nil {
		return err
	}
	p.NextDueDate = scheduler.DateOnly(p.NextDueDate)

	if err := s.planRepo.Update(ctx, p); err != nil {
		return err
	}

	s.recordActivity(ctx, userID, model.ActionUpdate, p.ID, p.Title)
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64, userID int64) error {
	if err := s.planRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.recordActivity(ctx, userID, model.ActionDelete, id, "")
	return nil
}

// recordActivity is best effort: audit failures never fail the operation.
func (s *Service) recordActivity(ctx context.Context, userID int64, action string, planID int64, details string) {
	entityID := planID
	if err := s.activityRepo.Insert(ctx, &model.ActivityLog{
		UserID:     &userID,
		Action:     action,
		EntityType: "pm_plan",
		EntityID:   &entityID,
		Details:    details,
	}); err != nil {
		s.logger.Warn("Failed to record plan activity",
			zap.String("action", action),
			zap.Int64("plan_id", planID),
			zap.Error(err),
		)
	}
}
