package service

import (
	"context"

	"contentHub/internal/models"
	"contentHub/internal/repository"
)

type DashboardService interface {
	GetStats(ctx context.Context) (*models.DashboardStats, error)
}

type dashboardService struct {
	statsRepo repository.StatsRepository
}

func NewDashboardService(statsRepo repository.StatsRepository) DashboardService {
	return &dashboardService{statsRepo: statsRepo}
}

const topPostsLimit = 5

func (d *dashboardService) GetStats(ctx context.Context) (*models.DashboardStats, error) {
	stats, err := d.statsRepo.Dashboard(ctx)
	if err != nil {
		return nil, err
	}

	stats.TopPosts, err = d.statsRepo.TopPosts(ctx, topPostsLimit)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
