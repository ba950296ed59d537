package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/learnscope/examprep-web/internal/devbackend"
	"github.com/learnscope/examprep-web/internal/pkg/config"
	"github.com/learnscope/examprep-web/pkg/logger"
)

func main() {
	cfg := config.LoadDevBackend()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "examprep-devbackend",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: devbackend.New(devbackend.Options{
			JWTSecret: cfg.JWTSecret,
			TokenTTL:  cfg.TokenTTL,
			Log:       log,
		}).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("dev backend listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("dev backend stopped")
	}
}
