package dashboard

import (
	"context"

	"go.uber.org/zap"

	"medmaint/internal/repository"
	"medmaint/internal/scheduler"
)

// Summary is the dashboard payload: asset fleet counts plus workload.
type Summary struct {
	Assets           repository.DashboardCounts `json:"assets"`
	ActiveWorkOrders int                        `json:"active_work_orders"`
}

type Service struct {
	assetRepo *repository.AssetRepository
	woRepo    *repository.WorkOrderRepository
	logger    *zap.Logger
}

func NewService(assetRepo *repository.AssetRepository, woRepo *repository.WorkOrderRepository, logger *zap.Logger) *Service {
	return &Service{
		assetRepo: assetRepo,
		woRepo:    woRepo,
		logger:    logger,
	}
}

func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	today := scheduler.FormatDate(scheduler.Today())

	counts, err := s.assetRepo.CountForDashboard(ctx, today)
	if err != nil {
		s.logger.Error("Failed to count assets for dashboard", zap.Error(err))
		return nil, err
	}

	active, err := s.woRepo.CountActive(ctx)
	if err != nil {
		s.logger.Error("Failed to count active work orders", zap.Error(err))
		return nil, err
	}

	return &Summary{
		Assets:           *counts,
		ActiveWorkOrders: active,
	}, nil
}
