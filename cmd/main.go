// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/auth"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/config"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/database"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/handler"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/notify"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/repository"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/service"
)

type stores struct {
	accounts repository.AccountStore
	profiles repository.ProfileStore
	tours    repository.TourStore
	bookings repository.BookingStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_invalid", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(cfg.Logger())

	if err := run(cfg); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx := context.Background()

	// ── 1. Storage ────────────────────────────────────────────────────────
	var st stores
	switch cfg.Storage {
	case config.StoragePostgres:
		pool, err := database.NewPool(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer pool.Close()
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
		st = stores{
			accounts: repository.NewAccountRepository(pool),
			profiles: repository.NewProfileRepository(pool),
			tours:    repository.NewTourRepository(pool),
			bookings: repository.NewBookingRepository(pool),
		}
		slog.Info("storage_ready", "driver", "postgres", "host", cfg.Database.Host, "db", cfg.Database.DBName)
	default:
		mem := repository.NewMemoryStore()
		st = stores{accounts: mem.Accounts(), profiles: mem.Profiles(), tours: mem.Tours(), bookings: mem.Bookings()}
		slog.Info("storage_ready", "driver", "memory")
	}

	// ── 2. Sessions and email ─────────────────────────────────────────────
	var revoker auth.Revoker = auth.NewMemoryRevoker()
	if cfg.RedisURL != "" {
		client, err := database.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		revoker = auth.NewRedisRevoker(client)
		slog.Info("revocation_store", "driver", "redis", "addr", cfg.RedisURL)
	}

	var sender notify.Sender = notify.NoopSender{}
	if cfg.ResendAPIKey != "" {
		sender = notify.NewResendSender(cfg.ResendAPIKey, cfg.MailFrom)
	} else {
		slog.Warn("email_disabled", "reason", "RESEND_API_KEY not set")
	}

	// ── 3. Wire up layers ─────────────────────────────────────────────────
	authSvc := service.NewAuthService(st.accounts, st.profiles, auth.NewTokens(cfg.SessionSecret, cfg.SessionTTL), revoker)
	tourSvc := service.NewTourService(st.tours)
	profileSvc := service.NewProfileService(st.profiles)
	bookingSvc := service.NewBookingService(st.tours, st.bookings, st.profiles, notify.NewMailer(sender))

	if cfg.SeedDemo {
		demo := service.Demo{Email: cfg.DemoEmail, Password: cfg.DemoPassword, Name: cfg.DemoName}
		if err := service.Seed(ctx, demo, authSvc, st.profiles, tourSvc); err != nil {
			return err
		}
	}

	h := handler.New(handler.Services{
		Auth:     authSvc,
		Tours:    tourSvc,
		Bookings: bookingSvc,
		Profiles: profileSvc,
		Catalog:  service.NewCatalogService(profileSvc, tourSvc),
	}, cfg.CookieSecure)

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr: fmt.Sprintf(":%s", cfg.Port),
		Handler: handler.NewRouter(h, handler.RouterOptions{
			AllowOrigins: cfg.AllowOrigins,
			CSRFKey:      []byte(cfg.CSRFKey),
			SecureCookie: cfg.CookieSecure,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_listening", "addr", "http://localhost:"+cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	slog.Info("server_shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	slog.Info("server_stopped")
	return nil
}
