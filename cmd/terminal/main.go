package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/noah-isme/store-terminal/internal/cart"
	"github.com/noah-isme/store-terminal/internal/catalog"
	"github.com/noah-isme/store-terminal/internal/config"
	"github.com/noah-isme/store-terminal/internal/obs"
	"github.com/noah-isme/store-terminal/internal/terminal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger("console", "warn").With().Str("env", cfg.AppEnv).Logger()

	store := catalog.NewStore()
	if cfg.CatalogSeedPath != "" {
		seed, err := catalog.LoadSeedFile(cfg.CatalogSeedPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.CatalogSeedPath).Msg("load catalog seed")
		}
		if err := store.ApplySeed(seed); err != nil {
			logger.Fatal().Err(err).Msg("apply catalog seed")
		}
	} else if err := store.SeedDefault(); err != nil {
		logger.Fatal().Err(err).Msg("seed default catalog")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shell := &terminal.Shell{
		In:      os.Stdin,
		Out:     os.Stdout,
		Cart:    cart.NewService(store, cfg.OptimizerMaxRounds, logger),
		Catalog: store,
		Log:     logger,
	}
	if err := shell.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("shell exited")
	}
}
