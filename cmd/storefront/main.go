// Command storefront serves the collectibles storefront API and delivers order notifications.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/config"
	"github.com/polkiloo/storefront/internal/di"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cfg *config.Config
	app := fx.New(
		fx.Provide(func() context.Context { return ctx }),
		di.Module(),
		fx.Populate(&cfg),
	)

	stopTimeout := 10 * time.Second
	if cfg != nil {
		stopTimeout = cfg.ShutdownTimeout
	}

	if err := run(ctx, app, stopTimeout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
