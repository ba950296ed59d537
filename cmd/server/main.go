// @title                       ExamPrep Gateway API
// @version                     1.0
// @description                 Auth proxy, exam catalogue and attempt history for the ExamPrep web client.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/learnscope/examprep-web/internal/api"
	"github.com/learnscope/examprep-web/internal/api/handler"
	"github.com/learnscope/examprep-web/internal/core/ports"
	"github.com/learnscope/examprep-web/internal/core/service"
	"github.com/learnscope/examprep-web/internal/infrastructure/backend"
	"github.com/learnscope/examprep-web/internal/infrastructure/db/memory"
	mongodb "github.com/learnscope/examprep-web/internal/infrastructure/db/mongo"
	"github.com/learnscope/examprep-web/internal/pkg/config"
	"github.com/learnscope/examprep-web/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "examprep-gateway",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("gateway stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	upstream := backend.New(cfg.BackendURL, cfg.Timeout, log)
	health := map[string]handler.Pinger{"backend": upstream}

	var repo ports.AttemptRepository
	if cfg.Mongo.URI != "" {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}()
		mongoRepo := mongodb.NewAttemptRepository(db)
		if err := mongoRepo.EnsureIndexes(ctx); err != nil {
			return err
		}
		repo = mongoRepo
		health["mongodb"] = mongoRepo
		log.Info().Str("database", cfg.Mongo.Database).Msg("attempt history in mongodb")
	} else {
		repo = memory.NewAttemptRepository()
		log.Warn().Msg("MONGO_URI not set, attempt history kept in memory")
	}

	e, err := api.NewRouter(api.Deps{
		Config:   cfg,
		Backend:  upstream,
		Attempts: service.NewAttemptService(repo, log),
		Health:   health,
		Log:      log,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.BackendURL).Msg("gateway listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
