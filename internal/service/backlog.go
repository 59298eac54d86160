package service

import (
	"context"
	"errors"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/msp993/backlog-zenith-project/internal/listing"
	"github.com/msp993/backlog-zenith-project/internal/models"
)

const defaultStoryPoints = 1

// normalizeSort fills missing parts of a sort from def.
func normalizeSort(sort, def models.Sort) models.Sort {
	if sort.Field == "" {
		sort.Field = def.Field
		if sort.Direction == "" {
			sort.Direction = def.Direction
		}
	}
	if sort.Direction == "" {
		sort.Direction = models.SortAsc
	}
	return sort
}

func (s *Service) ListBacklog(
	ctx context.Context, filter models.BacklogFilter, sort models.Sort,
) (*models.ListBacklogResponse, *models.ErrDetails) {
	sort = normalizeSort(sort, models.DefaultBacklogSort)
	if !sort.ValidForBacklog() {
		return nil, validationError("ListBacklog", errors.New("invalid sort"))
	}

	items, err := s.repository.SelectBacklogItems(ctx, filter)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	total, err := s.repository.CountBacklogItems(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	listing.SortBacklog(items, sort)

	var points int
	for _, item := range items {
		if item.StoryPoints != nil {
			points += *item.StoryPoints
		}
	}

	return &models.ListBacklogResponse{
		Items:       items,
		Filtered:    len(items),
		Total:       total,
		StoryPoints: points,
	}, nil
}

func (s *Service) GetBacklogItem(ctx context.Context, id string) (*models.BacklogItemResponse, *models.ErrDetails) {
	if err := s.checkID(id); err != nil {
		return nil, validationError("GetBacklogItem", err)
	}

	item, err := s.repository.SelectBacklogItem(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return &models.BacklogItemResponse{Item: item}, nil
}

func (s *Service) CreateBacklogItem(
	ctx context.Context, userID string, req models.CreateBacklogItemRequest,
) (*models.BacklogItemResponse, *models.ErrDetails) {
	if req.Priority == "" {
		req.Priority = models.PriorityP3
	}
	if req.Status == "" {
		req.Status = models.BacklogPending
	}
	if req.BusinessValue == "" {
		req.BusinessValue = models.ValueMedium
	}
	if req.StoryPoints == nil {
		points := defaultStoryPoints
		req.StoryPoints = &points
	}
	if err := s.check(req); err != nil {
		return nil, validationError("CreateBacklogItem", err)
	}

	id, err := s.repository.InsertBacklogItem(ctx, req, userID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logActivity(ctx, userID, models.ActionCreated, models.EntityBacklogItem, id, req.Title)

	item, err := s.repository.SelectBacklogItem(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return &models.BacklogItemResponse{Item: item}, nil
}

// UpdateBacklogItem applies a partial update, which also covers inline
// single-field edits.
func (s *Service) UpdateBacklogItem(
	ctx context.Context, userID string, req models.UpdateBacklogItemRequest,
) (*models.BacklogItemResponse, *models.ErrDetails) {
	if err := s.check(req); err != nil {
		return nil, validationError("UpdateBacklogItem", err)
	}

	fields := req.Fields()
	if len(fields) == 0 {
		return nil, validationError("UpdateBacklogItem", errors.New("no fields to update"))
	}

	if err := s.repository.UpdateBacklogItem(ctx, req); err != nil {
		return nil, mapRepositoryError(err)
	}

	item, err := s.repository.SelectBacklogItem(ctx, req.ID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logActivity(ctx, userID, models.ActionUpdated, models.EntityBacklogItem, item.ID, item.Title, fields...)

	return &models.BacklogItemResponse{Item: item}, nil
}

func (s *Service) DeleteBacklogItem(ctx context.Context, userID string, req models.DeleteRequest) *models.ErrDetails {
	if err := s.check(req); err != nil {
		return validationError("DeleteBacklogItem", err)
	}

	title, err := s.repository.DeleteBacklogItem(ctx, req.ID)
	if err != nil {
		return mapRepositoryError(err)
	}

	s.logActivity(ctx, userID, models.ActionDeleted, models.EntityBacklogItem, req.ID, title)

	return nil
}

func (s *Service) BulkUpdateBacklogStatus(
	ctx context.Context, userID string, req models.BulkBacklogStatusRequest,
) (*models.BulkUpdateResponse, *models.ErrDetails) {
	if err := s.check(req); err != nil {
		return nil, validationError("BulkUpdateBacklogStatus", err)
	}

	updated, err := s.repository.UpdateBacklogStatus(ctx, req.IDs, req.Status)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	for _, item := range updated {
		s.logActivity(ctx, userID, models.ActionUpdated, models.EntityBacklogItem, item.ID, item.Title, "status")
	}

	return &models.BulkUpdateResponse{Updated: len(updated)}, nil
}

// ReorderBacklog persists a complete manual order. ids must list every
// backlog item exactly once.
func (s *Service) ReorderBacklog(
	ctx context.Context, req models.ReorderBacklogRequest,
) (*models.ReorderResponse, *models.ErrDetails) {
	if err := s.check(req); err != nil {
		return nil, validationError("ReorderBacklog", err)
	}

	var mismatch bool
	err := s.inTx(ctx, "ReorderBacklog", func(tx pgx.Tx) error {
		current, err := s.repository.SelectBacklogOrder(ctx, tx)
		if err != nil {
			return err
		}

		if !samePermutation(current, req.IDs) {
			mismatch = true
			return nil
		}

		return s.repository.UpdateBacklogPositions(ctx, tx, req.IDs)
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if mismatch {
		return nil, validationError("ReorderBacklog", errors.New("ids must list every backlog item exactly once"))
	}

	return &models.ReorderResponse{IDs: req.IDs}, nil
}

// MoveBacklogItem drops the active item onto the slot of the over item and
// persists the resulting order.
func (s *Service) MoveBacklogItem(
	ctx context.Context, req models.MoveBacklogItemRequest,
) (*models.ReorderResponse, *models.ErrDetails) {
	if err := s.check(req); err != nil {
		return nil, validationError("MoveBacklogItem", err)
	}

	var ids []string
	err := s.inTx(ctx, "MoveBacklogItem", func(tx pgx.Tx) error {
		current, err := s.repository.SelectBacklogOrder(ctx, tx)
		if err != nil {
			return err
		}

		ids, err = listing.MoveOver(current, req.ActiveID, req.OverID)
		if err != nil {
			return err
		}

		if slices.Equal(ids, current) {
			return nil
		}

		return s.repository.UpdateBacklogPositions(ctx, tx, ids)
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return &models.ReorderResponse{IDs: ids}, nil
}

func samePermutation(current, ids []string) bool {
	if len(current) != len(ids) {
		return false
	}

	a := slices.Clone(current)
	b := slices.Clone(ids)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}
