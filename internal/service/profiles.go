package service

import (
	"context"

	"github.com/msp993/backlog-zenith-project/internal/models"
)

func (s *Service) profileList(ctx context.Context) ([]models.Profile, error) {
	if profiles, ok := s.profiles.Get(profilesKey); ok {
		return profiles, nil
	}

	profiles, err := s.repository.SelectProfiles(ctx)
	if err != nil {
		return nil, err
	}

	s.profiles.Set(profilesKey, profiles)
	return profiles, nil
}

func (s *Service) ListProfiles(ctx context.Context) (*models.ProfilesResponse, *models.ErrDetails) {
	profiles, err := s.profileList(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return &models.ProfilesResponse{Profiles: profiles}, nil
}

func (s *Service) GetProfile(ctx context.Context, id string) (*models.ProfileResponse, *models.ErrDetails) {
	if err := s.checkID(id); err != nil {
		return nil, validationError("GetProfile", err)
	}

	profile, err := s.repository.SelectProfile(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return &models.ProfileResponse{Profile: profile}, nil
}

func (s *Service) UpsertProfile(
	ctx context.Context, req models.UpsertProfileRequest,
) (*models.ProfileResponse, *models.ErrDetails) {
	if err := s.check(req); err != nil {
		return nil, validationError("UpsertProfile", err)
	}

	existing, err := s.repository.SelectProfile(ctx, req.ID)
	switch {
	case err == nil:
		req = mergeProfile(existing, req)
	case mapRepositoryError(err).Code == models.NotFoundErr:
		if req.Role == "" {
			req.Role = models.RoleDeveloper
		}
	default:
		return nil, mapRepositoryError(err)
	}

	profile, err := s.repository.UpsertProfile(ctx, req)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	s.profiles.Invalidate(profilesKey)

	return &models.ProfileResponse{Profile: profile}, nil
}

// mergeProfile keeps the stored value of every field the request omits.
func mergeProfile(existing models.Profile, req models.UpsertProfileRequest) models.UpsertProfileRequest {
	if req.Role == "" {
		req.Role = existing.Role
	}
	if req.Email == nil {
		req.Email = existing.Email
	}
	if req.FullName == nil {
		req.FullName = existing.FullName
	}
	if req.AvatarURL == nil {
		req.AvatarURL = existing.AvatarURL
	}
	return req
}
