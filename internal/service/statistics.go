package service

import (
	"context"

	"github.com/msp993/backlog-zenith-project/internal/models"
)

func (s *Service) GetDashboardStatistics(ctx context.Context) (*models.DashboardStats, *models.ErrDetails) {
	stats, err := s.repository.SelectDashboardStats(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	if s.presence != nil {
		stats.OnlineUsers = s.presence.OnlineCount()
	}

	return stats, nil
}
