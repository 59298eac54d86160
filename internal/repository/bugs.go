package repository

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/msp993/backlog-zenith-project/internal/models"
)

var bugColumns = []string{
	"b.id", "b.title", "b.description", "b.impact", "b.effort_points", "b.status",
	"b.assignee_id", "b.related_backlog_item", "b.created_by", "b.created_at", "b.updated_at",
	"a.id", "a.full_name", "a.email", "a.avatar_url",
	"c.id", "c.full_name", "c.email", "c.avatar_url",
	"bi.id", "bi.title",
}

func (r *Repository) selectBugs() squirrel.SelectBuilder {
	return r.builder.
		Select(bugColumns...).
		From("bugs b").
		LeftJoin("profiles a ON a.id = b.assignee_id").
		LeftJoin("profiles c ON c.id = b.created_by").
		LeftJoin("backlog_items bi ON bi.id = b.related_backlog_item")
}

func filterBugs(q squirrel.SelectBuilder, f models.BugFilter) squirrel.SelectBuilder {
	if status := models.FilterValue(f.Status); status != "" {
		q = q.Where(squirrel.Eq{"b.status": status})
	}
	if impact := models.FilterValue(f.Impact); impact != "" {
		q = q.Where(squirrel.Eq{"b.impact": impact})
	}
	switch assignee := models.FilterValue(f.Assignee); assignee {
	case "":
	case models.FilterUnassigned:
		q = q.Where(squirrel.Eq{"b.assignee_id": nil})
	default:
		q = q.Where(squirrel.Eq{"b.assignee_id": assignee})
	}
	if search := models.FilterValue(f.Search); search != "" {
		pattern := containsPattern(search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"b.title": pattern},
			squirrel.ILike{"b.description": pattern},
		})
	}
	return q
}

func scanBug(row pgx.Row) (models.Bug, error) {
	var (
		bug                                     models.Bug
		assigneeID, assigneeName, assigneeEmail *string
		assigneeAvatar                          *string
		creatorID, creatorName, creatorEmail    *string
		creatorAvatar                           *string
		relatedID, relatedTitle                 *string
	)

	err := row.Scan(
		&bug.ID, &bug.Title, &bug.Description, &bug.Impact, &bug.EffortPoints, &bug.Status,
		&bug.AssigneeID, &bug.RelatedBacklogItem, &bug.CreatedBy, &bug.CreatedAt, &bug.UpdatedAt,
		&assigneeID, &assigneeName, &assigneeEmail, &assigneeAvatar,
		&creatorID, &creatorName, &creatorEmail, &creatorAvatar,
		&relatedID, &relatedTitle,
	)
	if err != nil {
		return models.Bug{}, err
	}

	bug.Assignee = summary(assigneeID, assigneeName, assigneeEmail, assigneeAvatar)
	bug.CreatedByProfile = summary(creatorID, creatorName, creatorEmail, creatorAvatar)
	if relatedID != nil {
		bug.RelatedBacklog = &models.BacklogSummary{ID: *relatedID}
		if relatedTitle != nil {
			bug.RelatedBacklog.Title = *relatedTitle
		}
	}
	return bug, nil
}

func (r *Repository) SelectBugs(ctx context.Context, filter models.BugFilter) ([]models.Bug, error) {
	query, args, err := filterBugs(r.selectBugs(), filter).
		OrderBy("b.created_at DESC").
		ToSql()

	if err != nil {
		return nil, wrapDBError(err, "SelectBugs: build query")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(err, "SelectBugs: execute query")
	}
	defer rows.Close()

	bugs := make([]models.Bug, 0)
	for rows.Next() {
		bug, err := scanBug(rows)
		if err != nil {
			return nil, wrapDBError(err, "SelectBugs: scan row")
		}
		bugs = append(bugs, bug)
	}

	if err = rows.Err(); err != nil {
		return nil, wrapDBError(err, "SelectBugs: rows")
	}

	return bugs, nil
}

func (r *Repository) CountBugs(ctx context.Context) (int, error) {
	query, args, err := r.builder.Select("COUNT(*)").From("bugs").ToSql()
	if err != nil {
		return 0, wrapDBError(err, "CountBugs: build query")
	}

	var n int
	if err = r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, wrapDBError(err, "CountBugs: query row")
	}

	return n, nil
}

func (r *Repository) SelectBug(ctx context.Context, id string) (models.Bug, error) {
	query, args, err := r.selectBugs().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()

	if err != nil {
		return models.Bug{}, wrapDBError(err, "SelectBug: build query")
	}

	bug, err := scanBug(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Bug{}, errors.New("bug not found")
		}
		return models.Bug{}, wrapDBError(err, "SelectBug: query row")
	}

	return bug, nil
}

func (r *Repository) InsertBug(ctx context.Context, req models.CreateBugRequest, createdBy string) (string, error) {
	query, args, err := r.builder.
		Insert("bugs").
		Columns(
			"title", "description", "impact", "effort_points", "status",
			"assignee_id", "related_backlog_item", "created_by",
		).
		Values(
			req.Title, req.Description, req.Impact, req.EffortPoints, req.Status,
			nullable(req.AssigneeID), nullable(req.RelatedBacklogItem), nullable(&createdBy),
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return "", wrapDBError(err, "InsertBug: build query")
	}

	var id string
	if err = r.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return "", classifyPgError(err, "bug", "InsertBug: execute query")
	}

	return id, nil
}

func bugUpdates(req models.UpdateBugRequest) map[string]any {
	set := make(map[string]any)
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Impact != nil {
		set["impact"] = *req.Impact
	}
	if req.EffortPoints != nil {
		set["effort_points"] = *req.EffortPoints
	}
	if req.Status != nil {
		set["status"] = *req.Status
	}
	if req.AssigneeID != nil {
		set["assignee_id"] = nullable(req.AssigneeID)
	}
	if req.RelatedBacklogItem != nil {
		set["related_backlog_item"] = nullable(req.RelatedBacklogItem)
	}
	return set
}

func (r *Repository) UpdateBug(ctx context.Context, req models.UpdateBugRequest) error {
	set := bugUpdates(req)
	if len(set) == 0 {
		return nil
	}

	query, args, err := r.builder.
		Update("bugs").
		SetMap(set).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": req.ID}).
		ToSql()

	if err != nil {
		return wrapDBError(err, "UpdateBug: build query")
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return classifyPgError(err, "bug", "UpdateBug: execute query")
	}

	if result.RowsAffected() == 0 {
		return errors.New("bug not found")
	}

	return nil
}

// DeleteBug removes the bug and returns its title.
func (r *Repository) DeleteBug(ctx context.Context, id string) (string, error) {
	query, args, err := r.builder.
		Delete("bugs").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING title").
		ToSql()

	if err != nil {
		return "", wrapDBError(err, "DeleteBug: build query")
	}

	var title string
	if err = r.pool.QueryRow(ctx, query, args...).Scan(&title); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errors.New("bug not found")
		}
		return "", wrapDBError(err, "DeleteBug: execute query")
	}

	return title, nil
}

// UpdateBugStatus sets status on every id and returns the rows it touched.
func (r *Repository) UpdateBugStatus(
	ctx context.Context, ids []string, status models.BugStatus,
) ([]models.BugSummary, error) {
	query, args, err := r.builder.
		Update("bugs").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids}).
		Suffix("RETURNING id, title").
		ToSql()

	if err != nil {
		return nil, wrapDBError(err, "UpdateBugStatus: build query")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, classifyPgError(err, "bug", "UpdateBugStatus: execute query")
	}
	defer rows.Close()

	updated := make([]models.BugSummary, 0, len(ids))
	for rows.Next() {
		var row models.BugSummary
		if err = rows.Scan(&row.ID, &row.Title); err != nil {
			return nil, wrapDBError(err, "UpdateBugStatus: scan row")
		}
		updated = append(updated, row)
	}

	if err = rows.Err(); err != nil {
		return nil, classifyPgError(err, "bug", "UpdateBugStatus: rows")
	}

	return updated, nil
}
