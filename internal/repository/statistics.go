package repository

import (
	"context"

	"github.com/msp993/backlog-zenith-project/internal/models"
)

// SelectDashboardStats fills every counter except OnlineUsers, which comes
// from presence rather than the database.
func (r *Repository) SelectDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	backlogQuery, backlogArgs, err := r.builder.
		Select(
			"COUNT(*) FILTER (WHERE status <> 'completado') AS active",
			"COALESCE(SUM(story_points), 0) AS total_points",
			"COALESCE(SUM(story_points) FILTER (WHERE status = 'completado'), 0) AS completed_points",
		).
		From("backlog_items").
		ToSql()

	if err != nil {
		return nil, wrapDBError(err, "SelectDashboardStats: build backlog query")
	}

	err = r.pool.QueryRow(ctx, backlogQuery, backlogArgs...).
		Scan(&stats.ActiveStories, &stats.TotalStoryPoints, &stats.CompletedStoryPoints)
	if err != nil {
		return nil, wrapDBError(err, "SelectDashboardStats: execute backlog query")
	}

	bugQuery, bugArgs, err := r.builder.
		Select(
			"COUNT(*) FILTER (WHERE status NOT IN ('resuelto', 'cerrado')) AS open",
			"COUNT(*) FILTER (WHERE status NOT IN ('resuelto', 'cerrado') AND impact = 'alto') AS critical",
		).
		From("bugs").
		ToSql()

	if err != nil {
		return nil, wrapDBError(err, "SelectDashboardStats: build bug query")
	}

	err = r.pool.QueryRow(ctx, bugQuery, bugArgs...).Scan(&stats.OpenBugs, &stats.CriticalOpenBugs)
	if err != nil {
		return nil, wrapDBError(err, "SelectDashboardStats: execute bug query")
	}

	teamQuery, teamArgs, err := r.builder.Select("COUNT(*)").From("profiles").ToSql()
	if err != nil {
		return nil, wrapDBError(err, "SelectDashboardStats: build team query")
	}

	if err = r.pool.QueryRow(ctx, teamQuery, teamArgs...).Scan(&stats.TeamMembers); err != nil {
		return nil, wrapDBError(err, "SelectDashboardStats: execute team query")
	}

	return stats, nil
}
