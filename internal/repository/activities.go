package repository

import (
	"context"

	"github.com/msp993/backlog-zenith-project/internal/models"
)

func (r *Repository) InsertActivity(ctx context.Context, a models.Activity) error {
	query, args, err := r.builder.
		Insert("activities").
		Columns("user_id", "action_type", "entity_type", "entity_id", "entity_title", "details").
		Values(a.UserID, a.ActionType, a.EntityType, a.EntityID, a.EntityTitle, a.Details).
		ToSql()

	if err != nil {
		return wrapDBError(err, "InsertActivity: build query")
	}

	if _, err = r.pool.Exec(ctx, query, args...); err != nil {
		return classifyPgError(err, "activity", "InsertActivity: execute query")
	}

	return nil
}

// SelectActivities returns the newest activities first.
func (r *Repository) SelectActivities(ctx context.Context, limit int) ([]models.Activity, error) {
	query, args, err := r.builder.
		Select(
			"ac.id", "ac.user_id", "ac.action_type", "ac.entity_type", "ac.entity_id",
			"ac.entity_title", "ac.details", "ac.created_at",
			"p.id", "p.full_name", "p.email", "p.avatar_url",
		).
		From("activities ac").
		LeftJoin("profiles p ON p.id = ac.user_id").
		OrderBy("ac.created_at DESC").
		Limit(uint64(limit)).
		ToSql()

	if err != nil {
		return nil, wrapDBError(err, "SelectActivities: build query")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(err, "SelectActivities: execute query")
	}
	defer rows.Close()

	activities := make([]models.Activity, 0, limit)
	for rows.Next() {
		var (
			a                           models.Activity
			userID, userName, userEmail *string
			userAvatar                  *string
		)
		err = rows.Scan(
			&a.ID, &a.UserID, &a.ActionType, &a.EntityType, &a.EntityID,
			&a.EntityTitle, &a.Details, &a.CreatedAt,
			&userID, &userName, &userEmail, &userAvatar,
		)
		if err != nil {
			return nil, wrapDBError(err, "SelectActivities: scan row")
		}
		a.User = summary(userID, userName, userEmail, userAvatar)
		activities = append(activities, a)
	}

	if err = rows.Err(); err != nil {
		return nil, wrapDBError(err, "SelectActivities: rows")
	}

	return activities, nil
}
