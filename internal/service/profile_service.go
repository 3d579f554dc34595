package service

import (
	"context"
	"strings"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/model"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/repository"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/validate"
)

// ProfileService reads and edits the guide's public profile.
type ProfileService struct {
	profiles repository.ProfileStore
}

// NewProfileService creates a ProfileService backed by profiles.
func NewProfileService(profiles repository.ProfileStore) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// GetProfile returns the profile owned by userID.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, translate("get profile", err)
	}
	return p, nil
}

// UpdateProfile replaces every editable field. Blank languages are dropped.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, in model.ProfileInput) (*model.Profile, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Bio = strings.TrimSpace(in.Bio)
	in.PhotoURL = strings.TrimSpace(in.PhotoURL)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Location = strings.TrimSpace(in.Location)
	langs := make([]string, 0, len(in.Languages))
	for _, l := range in.Languages {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	in.Languages = langs
	if errs := validate.Struct(in); errs != nil {
		return nil, invalid(errs)
	}

	p := &model.Profile{
		UserID:    userID,
		Name:      in.Name,
		Bio:       in.Bio,
		PhotoURL:  in.PhotoURL,
		Phone:     in.Phone,
		Email:     in.Email,
		Location:  in.Location,
		Languages: in.Languages,
	}
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, translate("update profile", err)
	}
	return p, nil
}
