// Command storefront is a command-line client for the storefront API.
//
// The session survives between runs in a token file (or a shared Redis
// slot), so `storefront login` once and later commands act as that user.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/souqly/storefront-go/internal/auth"
	"github.com/souqly/storefront-go/internal/config"
	"github.com/souqly/storefront-go/pkg/logger"
	"github.com/souqly/storefront-go/pkg/storefront"
	"golang.org/x/time/rate"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage(os.Stdout)
		return nil
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})

	client, closeFn, err := newClient(cfg, log)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := client.Session.Initialize(ctx); err != nil {
		return err
	}
	log.Debug().
		Str("state", client.Session.State().String()).
		Msg("Session initialized")

	return newApp(client, os.Stdout).dispatch(ctx, args)
}

// newClient builds the API client and returns a func releasing its resources
func newClient(cfg *config.Config, log zerolog.Logger) (*storefront.Client, func(), error) {
	opts := &storefront.ClientOptions{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		TokenFile: cfg.TokenFile,
		Logger:    logger.NewKV(log),
		SentryDSN: cfg.SentryDSN,
	}

	var rdb *goredis.Client
	if cfg.Redis.URL != "" {
		var err error
		rdb, err = auth.NewRedisClient(cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		opts.TokenStore = storefront.NewRedisTokenStore(rdb, cfg.Redis.Slot)
	}

	if cfg.RateLimit > 0 {
		opts.RateLimiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	client, err := storefront.NewClient(opts)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, nil, err
	}

	return client, func() {
		client.Close()
		if rdb != nil {
			_ = rdb.Close()
		}
	}, nil
}
