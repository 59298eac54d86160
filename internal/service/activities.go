package service

import (
	"context"
	"strings"

	"github.com/msp993/backlog-zenith-project/internal/models"
	"go.uber.org/zap"
)

// logActivity records an entry in the activity feed. Failures are logged
// and never reach the caller.
func (s *Service) logActivity(
	ctx context.Context,
	userID string,
	action models.ActionType,
	entity models.EntityType,
	entityID, title string,
	details ...string,
) {
	if userID == "" {
		return
	}

	activity := models.Activity{
		UserID:      userID,
		ActionType:  action,
		EntityType:  entity,
		EntityID:    entityID,
		EntityTitle: title,
	}
	if len(details) > 0 {
		joined := strings.Join(details, ", ")
		activity.Details = &joined
	}

	if err := s.repository.InsertActivity(ctx, activity); err != nil {
		zap.L().Warn("failed to log activity",
			zap.Error(err),
			zap.String("action", string(action)),
			zap.String("entity_type", string(entity)),
			zap.String("entity_id", entityID),
		)
	}
}

func (s *Service) ListActivities(ctx context.Context, limit int) (*models.ActivitiesResponse, *models.ErrDetails) {
	switch {
	case limit <= 0:
		limit = s.cfg.ActivityLimit
	case limit > maxActivityLimit:
		limit = maxActivityLimit
	}

	activities, err := s.repository.SelectActivities(ctx, limit)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return &models.ActivitiesResponse{Activities: activities}, nil
}
