package repository

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/msp993/backlog-zenith-project/internal/models"
)

var backlogColumns = []string{
	"bi.id", "bi.title", "bi.description", "bi.user_story", "bi.acceptance_criteria",
	"bi.priority", "bi.status", "bi.business_value", "bi.story_points",
	"bi.assignee_id", "bi.created_by", "bi.position", "bi.created_at", "bi.updated_at",
	"a.id", "a.full_name", "a.email", "a.avatar_url",
	"c.id", "c.full_name", "c.email", "c.avatar_url",
}

func (r *Repository) selectBacklog() squirrel.SelectBuilder {
	return r.builder.
		Select(backlogColumns...).
		From("backlog_items bi").
		LeftJoin("profiles a ON a.id = bi.assignee_id").
		LeftJoin("profiles c ON c.id = bi.created_by")
}

func filterBacklog(q squirrel.SelectBuilder, f models.BacklogFilter) squirrel.SelectBuilder {
	if status := models.FilterValue(f.Status); status != "" {
		q = q.Where(squirrel.Eq{"bi.status": status})
	}
	if priority := models.FilterValue(f.Priority); priority != "" {
		q = q.Where(squirrel.Eq{"bi.priority": priority})
	}
	switch assignee := models.FilterValue(f.Assignee); assignee {
	case "":
	case models.FilterUnassigned:
		q = q.Where(squirrel.Eq{"bi.assignee_id": nil})
	default:
		q = q.Where(squirrel.Eq{"bi.assignee_id": assignee})
	}
	if search := models.FilterValue(f.Search); search != "" {
		pattern := containsPattern(search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"bi.title": pattern},
			squirrel.ILike{"bi.description": pattern},
		})
	}
	return q
}

func scanBacklogItem(row pgx.Row) (models.BacklogItem, error) {
	var (
		item                                    models.BacklogItem
		assigneeID, assigneeName, assigneeEmail *string
		assigneeAvatar                          *string
		creatorID, creatorName, creatorEmail    *string
		creatorAvatar                           *string
	)

	err := row.Scan(
		&item.ID, &item.Title, &item.Description, &item.UserStory, &item.AcceptanceCriteria,
		&item.Priority, &item.Status, &item.BusinessValue, &item.StoryPoints,
		&item.AssigneeID, &item.CreatedBy, &item.Position, &item.CreatedAt, &item.UpdatedAt,
		&assigneeID, &assigneeName, &assigneeEmail, &assigneeAvatar,
		&creatorID, &creatorName, &creatorEmail, &creatorAvatar,
	)
	if err != nil {
		return models.BacklogItem{}, err
	}

	item.Assignee = summary(assigneeID, assigneeName, assigneeEmail, assigneeAvatar)
	item.CreatedByProfile = summary(creatorID, creatorName, creatorEmail, creatorAvatar)
	return item, nil
}

func (r *Repository) SelectBacklogItems(ctx context.Context, filter models.BacklogFilter) ([]models.BacklogItem, error) {
	query, args, err := filterBacklog(r.selectBacklog(), filter).
		OrderBy("bi.priority ASC", "bi.created_at DESC").
		ToSql()

	if err != nil {
		return nil, wrapDBError(err, "SelectBacklogItems: build query")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(err, "SelectBacklogItems: execute query")
	}
	defer rows.Close()

	items := make([]models.BacklogItem, 0)
	for rows.Next() {
		item, err := scanBacklogItem(rows)
		if err != nil {
			return nil, wrapDBError(err, "SelectBacklogItems: scan row")
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, wrapDBError(err, "SelectBacklogItems: rows")
	}

	return items, nil
}

func (r *Repository) CountBacklogItems(ctx context.Context) (int, error) {
	query, args, err := r.builder.Select("COUNT(*)").From("backlog_items").ToSql()
	if err != nil {
		return 0, wrapDBError(err, "CountBacklogItems: build query")
	}

	var n int
	if err = r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, wrapDBError(err, "CountBacklogItems: query row")
	}

	return n, nil
}

func (r *Repository) SelectBacklogItem(ctx context.Context, id string) (models.BacklogItem, error) {
	query, args, err := r.selectBacklog().
		Where(squirrel.Eq{"bi.id": id}).
		ToSql()

	if err != nil {
		return models.BacklogItem{}, wrapDBError(err, "SelectBacklogItem: build query")
	}

	item, err := scanBacklogItem(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.BacklogItem{}, errors.New("backlog item not found")
		}
		return models.BacklogItem{}, wrapDBError(err, "SelectBacklogItem: query row")
	}

	return item, nil
}

func (r *Repository) InsertBacklogItem(
	ctx context.Context, req models.CreateBacklogItemRequest, createdBy string,
) (string, error) {
	query, args, err := r.builder.
		Insert("backlog_items").
		Columns(
			"title", "description", "user_story", "acceptance_criteria",
			"priority", "status", "business_value", "story_points",
			"assignee_id", "created_by", "position",
		).
		Values(
			req.Title, req.Description, req.UserStory, req.AcceptanceCriteria,
			req.Priority, req.Status, req.BusinessValue, req.StoryPoints,
			nullable(req.AssigneeID), nullable(&createdBy),
			squirrel.Expr("(SELECT COALESCE(MAX(position), 0) + 1 FROM backlog_items)"),
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return "", wrapDBError(err, "InsertBacklogItem: build query")
	}

	var id string
	if err = r.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return "", classifyPgError(err, "backlog item", "InsertBacklogItem: execute query")
	}

	return id, nil
}

func backlogUpdates(req models.UpdateBacklogItemRequest) map[string]any {
	set := make(map[string]any)
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Description != nil {
		set["description"] = nullable(req.Description)
	}
	if req.UserStory != nil {
		set["user_story"] = nullable(req.UserStory)
	}
	if req.AcceptanceCriteria != nil {
		set["acceptance_criteria"] = nullable(req.AcceptanceCriteria)
	}
	if req.Priority != nil {
		set["priority"] = *req.Priority
	}
	if req.Status != nil {
		set["status"] = *req.Status
	}
	if req.BusinessValue != nil {
		set["business_value"] = *req.BusinessValue
	}
	if req.StoryPoints != nil {
		set["story_points"] = *req.StoryPoints
	}
	if req.AssigneeID != nil {
		set["assignee_id"] = nullable(req.AssigneeID)
	}
	return set
}

func (r *Repository) UpdateBacklogItem(ctx context.Context, req models.UpdateBacklogItemRequest) error {
	set := backlogUpdates(req)
	if len(set) == 0 {
		return nil
	}

	query, args, err := r.builder.
		Update("backlog_items").
		SetMap(set).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": req.ID}).
		ToSql()

	if err != nil {
		return wrapDBError(err, "UpdateBacklogItem: build query")
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return classifyPgError(err, "backlog item", "UpdateBacklogItem: execute query")
	}

	if result.RowsAffected() == 0 {
		return errors.New("backlog item not found")
	}

	return nil
}

// DeleteBacklogItem removes the item and returns its title.
func (r *Repository) DeleteBacklogItem(ctx context.Context, id string) (string, error) {
	query, args, err := r.builder.
		Delete("backlog_items").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING title").
		ToSql()

	if err != nil {
		return "", wrapDBError(err, "DeleteBacklogItem: build query")
	}

	var title string
	if err = r.pool.QueryRow(ctx, query, args...).Scan(&title); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errors.New("backlog item not found")
		}
		return "", classifyPgError(err, "backlog item", "DeleteBacklogItem: execute query")
	}

	return title, nil
}

// UpdateBacklogStatus sets status on every id and returns the rows it touched.
func (r *Repository) UpdateBacklogStatus(
	ctx context.Context, ids []string, status models.BacklogStatus,
) ([]models.BacklogSummary, error) {
	query, args, err := r.builder.
		Update("backlog_items").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids}).
		Suffix("RETURNING id, title").
		ToSql()

	if err != nil {
		return nil, wrapDBError(err, "UpdateBacklogStatus: build query")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, classifyPgError(err, "backlog item", "UpdateBacklogStatus: execute query")
	}
	defer rows.Close()

	updated := make([]models.BacklogSummary, 0, len(ids))
	for rows.Next() {
		var row models.BacklogSummary
		if err = rows.Scan(&row.ID, &row.Title); err != nil {
			return nil, wrapDBError(err, "UpdateBacklogStatus: scan row")
		}
		updated = append(updated, row)
	}

	if err = rows.Err(); err != nil {
		return nil, classifyPgError(err, "backlog item", "UpdateBacklogStatus: rows")
	}

	return updated, nil
}

// SelectBacklogOrder returns every item id in manual rank order. Within a
// transaction the rows are locked until commit.
func (r *Repository) SelectBacklogOrder(ctx context.Context, tx pgx.Tx) ([]string, error) {
	q := r.builder.
		Select("id").
		From("backlog_items").
		OrderBy("position ASC", "created_at ASC")
	if tx != nil {
		q = q.Suffix("FOR UPDATE")
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, wrapDBError(err, "SelectBacklogOrder: build query")
	}

	rows, err := r.conn(tx).Query(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(err, "SelectBacklogOrder: execute query")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, wrapDBError(err, "SelectBacklogOrder: scan row")
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, wrapDBError(err, "SelectBacklogOrder: rows")
	}

	return ids, nil
}

// UpdateBacklogPositions rewrites the whole rank: ids[i] gets position i+1.
func (r *Repository) UpdateBacklogPositions(ctx context.Context, tx pgx.Tx, ids []string) error {
	for i, id := range ids {
		query, args, err := r.builder.
			Update("backlog_items").
			Set("position", i+1).
			Where(squirrel.Eq{"id": id}).
			ToSql()

		if err != nil {
			return wrapDBError(err, "UpdateBacklogPositions: build query")
		}

		result, err := r.conn(tx).Exec(ctx, query, args...)
		if err != nil {
			return wrapDBError(err, "UpdateBacklogPositions: execute query")
		}

		if result.RowsAffected() == 0 {
			return errors.New("backlog item not found")
		}
	}

	return nil
}
