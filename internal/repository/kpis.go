package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/msp993/backlog-zenith-project/internal/models"
)

var kpiColumns = []string{
	"id", "name", "description", "category", "unit", "current_value", "target_value", "updated_at",
}

func scanKPI(row pgx.Row) (models.KPI, error) {
	var k models.KPI
	err := row.Scan(
		&k.ID, &k.Name, &k.Description, &k.Category, &k.Unit,
		&k.CurrentValue, &k.TargetValue, &k.UpdatedAt,
	)
	return k, err
}

func (r *Repository) SelectKPIs(ctx context.Context) ([]models.KPI, error) {
	query, args, err := r.builder.
		Select(kpiColumns...).
		From("kpis").
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		return nil, wrapDBError(err, "SelectKPIs: build query")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(err, "SelectKPIs: execute query")
	}
	defer rows.Close()

	kpis := make([]models.KPI, 0)
	for rows.Next() {
		k, err := scanKPI(rows)
		if err != nil {
			return nil, wrapDBError(err, "SelectKPIs: scan row")
		}
		kpis = append(kpis, k)
	}

	if err = rows.Err(); err != nil {
		return nil, wrapDBError(err, "SelectKPIs: rows")
	}

	return kpis, nil
}

func kpiUpdates(req models.UpdateKPIRequest) map[string]any {
	set := make(map[string]any)
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = nullable(req.Description)
	}
	if req.Category != nil {
		set["category"] = nullable(req.Category)
	}
	if req.Unit != nil {
		set["unit"] = nullable(req.Unit)
	}
	if req.CurrentValue != nil {
		set["current_value"] = *req.CurrentValue
	}
	if req.TargetValue != nil {
		set["target_value"] = *req.TargetValue
	}
	return set
}

// UpdateKPI applies the patch and returns the stored row.
func (r *Repository) UpdateKPI(ctx context.Context, tx pgx.Tx, req models.UpdateKPIRequest) (models.KPI, error) {
	query, args, err := r.builder.
		Update("kpis").
		SetMap(kpiUpdates(req)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": req.ID}).
		Suffix("RETURNING " + joinColumns(kpiColumns)).
		ToSql()

	if err != nil {
		return models.KPI{}, wrapDBError(err, "UpdateKPI: build query")
	}

	k, err := scanKPI(r.conn(tx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.KPI{}, errors.New("kpi not found")
		}
		return models.KPI{}, classifyPgError(err, "kpi", "UpdateKPI: execute query")
	}

	return k, nil
}

func (r *Repository) InsertKPIHistory(ctx context.Context, tx pgx.Tx, point models.KPIHistoryPoint) error {
	query, args, err := r.builder.
		Insert("kpi_history").
		Columns("kpi_id", "value", "target").
		Values(point.KPIID, point.Value, point.Target).
		ToSql()

	if err != nil {
		return wrapDBError(err, "InsertKPIHistory: build query")
	}

	if _, err = r.conn(tx).Exec(ctx, query, args...); err != nil {
		return classifyPgError(err, "kpi history", "InsertKPIHistory: execute query")
	}

	return nil
}

// kpiHistoryQuery selects the points recorded in [from, to) plus, per KPI,
// the latest point before from so series can start with a known value.
func (r *Repository) kpiHistoryQuery(from, to time.Time) (string, []any, error) {
	seed := r.builder.
		Select("DISTINCT ON (kpi_id) kpi_id", "value", "target", "recorded_at").
		From("kpi_history").
		Where(squirrel.Lt{"recorded_at": from}).
		OrderBy("kpi_id", "recorded_at DESC")

	// the seed is rendered with ? placeholders so the outer query numbers them
	seedSQL, seedArgs, err := seed.PlaceholderFormat(squirrel.Question).ToSql()
	if err != nil {
		return "", nil, err
	}

	return r.builder.
		Select("kpi_id", "value", "target", "recorded_at").
		From("kpi_history").
		Where(squirrel.GtOrEq{"recorded_at": from}).
		Where(squirrel.Lt{"recorded_at": to}).
		Prefix("("+seedSQL+") UNION ALL", seedArgs...).
		OrderBy("recorded_at ASC").
		ToSql()
}

func (r *Repository) SelectKPIHistory(ctx context.Context, from, to time.Time) ([]models.KPIHistoryPoint, error) {
	query, args, err := r.kpiHistoryQuery(from, to)
	if err != nil {
		return nil, wrapDBError(err, "SelectKPIHistory: build query")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(err, "SelectKPIHistory: execute query")
	}
	defer rows.Close()

	points := make([]models.KPIHistoryPoint, 0)
	for rows.Next() {
		var p models.KPIHistoryPoint
		if err = rows.Scan(&p.KPIID, &p.Value, &p.Target, &p.RecordedAt); err != nil {
			return nil, wrapDBError(err, "SelectKPIHistory: scan row")
		}
		points = append(points, p)
	}

	if err = rows.Err(); err != nil {
		return nil, wrapDBError(err, "SelectKPIHistory: rows")
	}

	return points, nil
}

// SnapshotKPIs records the current value of every KPI that has one.
func (r *Repository) SnapshotKPIs(ctx context.Context) (int, error) {
	query, args, err := r.builder.
		Insert("kpi_history").
		Columns("kpi_id", "value", "target").
		Select(
			r.builder.
				Select("id", "current_value", "target_value").
				From("kpis").
				Where(squirrel.NotEq{"current_value": nil}),
		).
		ToSql()

	if err != nil {
		return 0, wrapDBError(err, "SnapshotKPIs: build query")
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, wrapDBError(err, "SnapshotKPIs: execute query")
	}

	return int(result.RowsAffected()), nil
}
