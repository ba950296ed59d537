package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/learnscope/examprep-web/internal/client/api"
	"github.com/learnscope/examprep-web/internal/client/app"
	"github.com/learnscope/examprep-web/internal/client/authstate"
	"github.com/learnscope/examprep-web/internal/client/cli"
	"github.com/learnscope/examprep-web/internal/client/session"
	"github.com/learnscope/examprep-web/internal/client/tokenstore"
	redisstore "github.com/learnscope/examprep-web/internal/infrastructure/db/redis"
	"github.com/learnscope/examprep-web/internal/infrastructure/db/sqlite"
	"github.com/learnscope/examprep-web/internal/pkg/config"
	"github.com/learnscope/examprep-web/pkg/logger"
)

func main() {
	cfg := config.LoadClient()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  true,
		Service: "examprep",
		Output:  os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.ClientConfig, log zerolog.Logger) error {
	origin, err := url.Parse(cfg.GatewayURL)
	if err != nil {
		return fmt.Errorf("gateway url: %w", err)
	}

	durable, closeDurable, err := openDurable(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDurable()

	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	store := tokenstore.New(tokenstore.NewMemoryStorage(), durable, log)
	sess := session.New(store, jar, origin)
	client := api.New(cfg.GatewayURL, &http.Client{Jar: jar}, log)
	// Navigation in a terminal is only announced.
	nav := authstate.NavigatorFunc(func(path string) {
		log.Debug().Str("path", path).Msg("navigate")
	})
	state := authstate.New(sess, client, nav, log)

	a := app.New(client, sess, state, log)
	repl := cli.New(a, os.Stdin, os.Stdout, log, cli.WithPasswordReader(cli.TerminalPassword(os.Stdin)))
	err = repl.Run(ctx)
	state.Wait()
	return err
}

// openDurable picks the remembered-session scope: Redis when an address is
// configured, the local SQLite file otherwise.
func openDurable(ctx context.Context, cfg *config.ClientConfig) (tokenstore.Storage, func(), error) {
	if cfg.RedisAddr != "" {
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewTokenStorage(client, cfg.RedisNamespace), func() { _ = client.Close() }, nil
	}

	db, err := sqlite.Open(ctx, cfg.StateDB)
	if err != nil {
		return nil, nil, err
	}
	return sqlite.NewTokenStorage(db), func() { _ = db.Close() }, nil
}
