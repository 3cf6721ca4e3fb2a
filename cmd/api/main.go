package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/anvaya/anvaya-go/internal/config"
	"github.com/anvaya/anvaya-go/internal/handler"
	"github.com/anvaya/anvaya-go/internal/middleware"
	"github.com/anvaya/anvaya-go/internal/repository"
	"github.com/anvaya/anvaya-go/internal/service"
	"github.com/anvaya/anvaya-go/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database setup failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	uploader, err := storage.New(ctx, cfg)
	if err != nil {
		slog.Error("upload backend setup failed", "backend", cfg.UploadBackend, "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	eventService := service.NewEventService(eventRepo)
	achievementService := service.NewAchievementService(achievementRepo, uploader)
	classroomService := service.NewClassroomService(classroomRepo, bookingRepo)

	router := handler.NewRouter(handler.Routes{
		Auth:         handler.NewAuthHandler(authService),
		Events:       handler.NewEventHandler(eventService),
		Achievements: handler.NewAchievementHandler(achievementService),
		Classrooms:   handler.NewClassroomHandler(classroomService),
		JWTSecret:    cfg.JWTSecret,
		LoginLimiter: middleware.RateLimit(ctx, cfg.LoginRateRPS, cfg.LoginRateBurst),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "upload_backend", cfg.UploadBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func setupLogger(cfg config.Config) {
	var h slog.Handler
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(h))
}
