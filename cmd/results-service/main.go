package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nurpe/commute-results/internal/auth"
	"github.com/nurpe/commute-results/internal/config"
	"github.com/nurpe/commute-results/internal/db"
	httphandler "github.com/nurpe/commute-results/internal/http"
	"github.com/nurpe/commute-results/internal/http/middleware"
	"github.com/nurpe/commute-results/internal/logger"
	"github.com/nurpe/commute-results/internal/metrics"
	"github.com/nurpe/commute-results/internal/repository"
	"github.com/nurpe/commute-results/internal/scheduler"
	"github.com/nurpe/commute-results/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	if err := run(cfg, log, database); err != nil {
		log.Error().Err(err).Msg("service stopped")
		os.Exit(1)
	}
}

// run owns the scheduler and the HTTP server so their deferred shutdowns complete
// before main exits.
func run(cfg *config.Config, log zerolog.Logger, database *gorm.DB) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	competitionRepo := repository.NewCompetitionRepository(database)
	competitorRepo := repository.NewCompetitorRepository(database)
	tripRepo := repository.NewTripRepository(database)
	resultRepo := repository.NewResultRepository(database)

	var cache service.AggregateSource
	if cfg.Scoring.UseCachedAggregates {
		cache = repository.NewAggregateRepository(database)
	}

	resolver := service.NewResolver(competitorRepo)
	scorer := service.NewScorer(tripRepo, competitorRepo, competitionRepo, cache)
	resultService := service.NewResultService(
		competitionRepo,
		resultRepo,
		resolver,
		scorer,
		metrics.Recalculation(),
		cfg,
		log,
	)

	if cfg.Scheduler.Enabled {
		sched, err := scheduler.New(ctx, resultService, cfg.Scheduler.Interval, log)
		if err != nil {
			return fmt.Errorf("init scheduler: %w", err)
		}
		sched.Start()
		defer func() {
			if err := sched.Shutdown(); err != nil {
				log.Error().Err(err).Msg("scheduler shutdown failed")
			}
		}()
		log.Info().Dur("interval", cfg.Scheduler.Interval).Msg("recalculation scheduler started")
	}

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(resultService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.HTTP.CORSAllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("starting competition results service")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve http: %w", err)
	}
	return nil
}
