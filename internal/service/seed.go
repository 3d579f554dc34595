package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/model"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/repository"
)

// Demo is the guide account created by Seed.
type Demo struct {
	Email    string
	Password string
	Name     string
}

type demoTour struct {
	input model.TourInput
	dates []model.DateInput
}

func intPtr(n int) *int { return &n }

// Seed creates the demo guide with a filled-in profile and two tours. It is a
// no-op when the demo account already exists.
func Seed(ctx context.Context, demo Demo, auth *AuthService, profiles repository.ProfileStore, tours *TourService) error {
	account, created, err := auth.EnsureAccount(ctx, demo.Email, demo.Password, demo.Name)
	if err != nil {
		return fmt.Errorf("seed account: %w", err)
	}
	if !created {
		slog.Info("seed_skipped", "email", demo.Email, "user_id", account.ID)
		return nil
	}

	profile := &model.Profile{
		UserID:    account.ID,
		Name:      "Ricardo Mendes",
		Bio:       "Especialista em roteiros exclusivos e experiências autênticas. Transformo sua viagem em uma jornada inesquecível pelos tesouros escondidos da nossa região.",
		Phone:     "(21) 98765-4321",
		Email:     account.Email,
		Location:  "Rio de Janeiro, RJ",
		Languages: []string{"Português", "Inglês", "Espanhol"},
	}
	if err := profiles.Update(ctx, profile); err != nil {
		return fmt.Errorf("seed profile: %w", err)
	}

	today := model.Today(tours.now())
	day := func(offset int) string { return today.AddDate(0, 0, offset).Format(model.DateLayout) }

	catalog := []demoTour{
		{
			input: model.TourInput{
				Title:           "Tour Histórico: O Coração da Cidade",
				Description:     "Explore os segredos e monumentos mais icônicos do centro histórico com um guia local apaixonado.",
				ImageURL:        "https://images.unsplash.com/photo-1483729558449-99ef09a8c325?auto=format&fit=crop&q=80&w=800",
				Price:           120,
				DurationHours:   4,
				Location:        "Rio de Janeiro",
				MaxParticipants: intPtr(10),
			},
			dates: []model.DateInput{
				{Date: day(1), StartTime: "09:00", SpotsAvailable: 5},
				{Date: day(2), StartTime: "09:00", SpotsAvailable: 8},
			},
		},
		{
			input: model.TourInput{
				Title:           "Trilha Secreta e Banho de Cachoeira",
				Description:     "Uma experiência imersiva na natureza, longe dos pontos turísticos tradicionais. Perfeito para fotos!",
				ImageURL:        "https://images.unsplash.com/photo-1501785888041-af3ef285b470?auto=format&fit=crop&q=80&w=800",
				Price:           180,
				DurationHours:   6,
				Location:        "Paraty",
				MaxParticipants: intPtr(6),
			},
			dates: []model.DateInput{
				{Date: day(3), StartTime: "08:30", SpotsAvailable: 4},
			},
		},
	}

	for _, dt := range catalog {
		t, err := tours.CreateTour(ctx, account.ID, dt.input)
		if err != nil {
			return fmt.Errorf("seed tour %q: %w", dt.input.Title, err)
		}
		for _, d := range dt.dates {
			if _, err := tours.AddDate(ctx, account.ID, t.ID, d); err != nil {
				return fmt.Errorf("seed date for %q: %w", dt.input.Title, err)
			}
		}
	}

	slog.Info("seed_completed", "email", account.Email, "user_id", account.ID, "tours", len(catalog))
	return nil
}
