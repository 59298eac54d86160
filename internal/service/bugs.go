package service

import (
	"context"
	"errors"

	"github.com/msp993/backlog-zenith-project/internal/listing"
	"github.com/msp993/backlog-zenith-project/internal/models"
)

const defaultEffortPoints = 1

func (s *Service) ListBugs(
	ctx context.Context, filter models.BugFilter, sort models.Sort,
) (*models.ListBugsResponse, *models.ErrDetails) {
	sort = normalizeSort(sort, models.DefaultBugSort)
	if !sort.ValidForBugs() {
		return nil, validationError("ListBugs", errors.New("invalid sort"))
	}

	bugs, err := s.repository.SelectBugs(ctx, filter)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	total, err := s.repository.CountBugs(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	listing.SortBugs(bugs, sort)

	return &models.ListBugsResponse{
		Bugs:     bugs,
		Filtered: len(bugs),
		Total:    total,
	}, nil
}

func (s *Service) GetBug(ctx context.Context, id string) (*models.BugResponse, *models.ErrDetails) {
	if err := s.checkID(id); err != nil {
		return nil, validationError("GetBug", err)
	}

	bug, err := s.repository.SelectBug(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return &models.BugResponse{Bug: bug}, nil
}

// checkRelated makes sure a linked backlog item exists. Empty ids unlink.
func (s *Service) checkRelated(ctx context.Context, id *string) *models.ErrDetails {
	if id == nil || *id == "" {
		return nil
	}

	if _, err := s.repository.SelectBacklogItem(ctx, *id); err != nil {
		return mapRepositoryError(err)
	}

	return nil
}

func (s *Service) CreateBug(
	ctx context.Context, userID string, req models.CreateBugRequest,
) (*models.BugResponse, *models.ErrDetails) {
	if req.Impact == "" {
		req.Impact = models.ImpactMedium
	}
	if req.Status == "" {
		req.Status = models.BugReported
	}
	if req.EffortPoints == nil {
		points := defaultEffortPoints
		req.EffortPoints = &points
	}
	if err := s.check(req); err != nil {
		return nil, validationError("CreateBug", err)
	}

	if errDetails := s.checkRelated(ctx, req.RelatedBacklogItem); errDetails != nil {
		return nil, errDetails
	}

	id, err := s.repository.InsertBug(ctx, req, userID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logActivity(ctx, userID, models.ActionCreated, models.EntityBug, id, req.Title)

	bug, err := s.repository.SelectBug(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return &models.BugResponse{Bug: bug}, nil
}

func (s *Service) UpdateBug(
	ctx context.Context, userID string, req models.UpdateBugRequest,
) (*models.BugResponse, *models.ErrDetails) {
	if err := s.check(req); err != nil {
		return nil, validationError("UpdateBug", err)
	}

	fields := req.Fields()
	if len(fields) == 0 {
		return nil, validationError("UpdateBug", errors.New("no fields to update"))
	}

	if errDetails := s.checkRelated(ctx, req.RelatedBacklogItem); errDetails != nil {
		return nil, errDetails
	}

	if err := s.repository.UpdateBug(ctx, req); err != nil {
		return nil, mapRepositoryError(err)
	}

	bug, err := s.repository.SelectBug(ctx, req.ID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logActivity(ctx, userID, models.ActionUpdated, models.EntityBug, bug.ID, bug.Title, fields...)

	return &models.BugResponse{Bug: bug}, nil
}

func (s *Service) DeleteBug(ctx context.Context, userID string, req models.DeleteRequest) *models.ErrDetails {
	if err := s.check(req); err != nil {
		return validationError("DeleteBug", err)
	}

	title, err := s.repository.DeleteBug(ctx, req.ID)
	if err != nil {
		return mapRepositoryError(err)
	}

	s.logActivity(ctx, userID, models.ActionDeleted, models.EntityBug, req.ID, title)

	return nil
}

func (s *Service) BulkUpdateBugStatus(
	ctx context.Context, userID string, req models.BulkBugStatusRequest,
) (*models.BulkUpdateResponse, *models.ErrDetails) {
	if err := s.check(req); err != nil {
		return nil, validationError("BulkUpdateBugStatus", err)
	}

	updated, err := s.repository.UpdateBugStatus(ctx, req.IDs, req.Status)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	for _, bug := range updated {
		s.logActivity(ctx, userID, models.ActionUpdated, models.EntityBug, bug.ID, bug.Title, "status")
	}

	return &models.BulkUpdateResponse{Updated: len(updated)}, nil
}
