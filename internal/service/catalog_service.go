package service

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/model"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/render"
)

// CatalogService assembles the public page of a guide.
type CatalogService struct {
	profiles *ProfileService
	tours    *TourService
}

// NewCatalogService creates a CatalogService over the profile and tour services.
func NewCatalogService(profiles *ProfileService, tours *TourService) *CatalogService {
	return &CatalogService{profiles: profiles, tours: tours}
}

// Catalog returns the guide's profile and active tours with upcoming dates.
// Tour descriptions are rendered from markdown.
func (s *CatalogService) Catalog(ctx context.Context, userID string) (*model.Catalog, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	tours, err := s.tours.PublicTours(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &model.Catalog{Profile: profile, Tours: make([]model.PublicTour, 0, len(tours))}
	for _, t := range tours {
		pt, err := publicTour(t)
		if err != nil {
			return nil, err
		}
		out.Tours = append(out.Tours, pt)
	}
	return out, nil
}

// Tour returns one active tour of the guide as shown publicly.
func (s *CatalogService) Tour(ctx context.Context, userID, tourID string) (*model.PublicTour, error) {
	t, err := s.tours.PublicTour(ctx, userID, tourID)
	if err != nil {
		return nil, err
	}
	pt, err := publicTour(*t)
	if err != nil {
		return nil, err
	}
	return &pt, nil
}

func publicTour(t model.TourWithDates) (model.PublicTour, error) {
	html, err := render.Markdown(t.Description)
	if err != nil {
		return model.PublicTour{}, fmt.Errorf("render tour %s: %w", t.ID, err)
	}
	return model.PublicTour{TourWithDates: t, DescriptionHTML: html}, nil
}
