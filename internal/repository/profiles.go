package repository

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/msp993/backlog-zenith-project/internal/models"
)

var profileColumns = []string{"id", "email", "full_name", "role", "avatar_url", "created_at", "updated_at"}

func scanProfile(row pgx.Row) (models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// summary builds a joined profile from nullable LEFT JOIN columns.
func summary(id, fullName, email, avatarURL *string) *models.ProfileSummary {
	if id == nil {
		return nil
	}
	return &models.ProfileSummary{ID: *id, FullName: fullName, Email: email, AvatarURL: avatarURL}
}

func (r *Repository) SelectProfiles(ctx context.Context) ([]models.Profile, error) {
	query, args, err := r.builder.
		Select(profileColumns...).
		From("profiles").
		OrderBy("full_name ASC NULLS LAST", "email ASC").
		ToSql()

	if err != nil {
		return nil, wrapDBError(err, "SelectProfiles: build query")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(err, "SelectProfiles: execute query")
	}
	defer rows.Close()

	profiles := make([]models.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, wrapDBError(err, "SelectProfiles: scan row")
		}
		profiles = append(profiles, p)
	}

	if err = rows.Err(); err != nil {
		return nil, wrapDBError(err, "SelectProfiles: rows")
	}

	return profiles, nil
}

func (r *Repository) SelectProfile(ctx context.Context, id string) (models.Profile, error) {
	query, args, err := r.builder.
		Select(profileColumns...).
		From("profiles").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return models.Profile{}, wrapDBError(err, "SelectProfile: build query")
	}

	p, err := scanProfile(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Profile{}, errors.New("profile not found")
		}
		return models.Profile{}, wrapDBError(err, "SelectProfile: query row")
	}

	return p, nil
}

func (r *Repository) UpsertProfile(ctx context.Context, req models.UpsertProfileRequest) (models.Profile, error) {
	query, args, err := r.builder.
		Insert("profiles").
		Columns("id", "email", "full_name", "role", "avatar_url").
		Values(req.ID, nullable(req.Email), nullable(req.FullName), req.Role, nullable(req.AvatarURL)).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			email = COALESCE(EXCLUDED.email, profiles.email),
			full_name = COALESCE(EXCLUDED.full_name, profiles.full_name),
			role = EXCLUDED.role,
			avatar_url = COALESCE(EXCLUDED.avatar_url, profiles.avatar_url),
			updated_at = NOW()`).
		Suffix("RETURNING " + joinColumns(profileColumns)).
		ToSql()

	if err != nil {
		return models.Profile{}, wrapDBError(err, "UpsertProfile: build query")
	}

	p, err := scanProfile(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Profile{}, classifyPgError(err, "profile", "UpsertProfile: execute query")
	}

	return p, nil
}
