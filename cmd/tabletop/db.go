package main

import (
	"context"
	"fmt"

	"tabletop/internal/config"
	"tabletop/internal/logger"
	"tabletop/internal/logger/console"
	"tabletop/internal/session"
	"tabletop/internal/storage"
	"tabletop/internal/storage/sqlite"
)

func loadConfig() (*config.ProjectConfig, error) {
	if err := config.LoadEnv(".env"); err != nil {
		return nil, err
	}
	return config.LoadProjectConfig(configPath)
}

func newLogger(cfg *config.ProjectConfig) logger.Logger {
	return console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  cfg.Log.Debug,
		Level:  cfg.Log.Level,
		Prefix: "tabletop",
	})
}

func openDB(ctx context.Context, cfg *config.ProjectConfig) (*sqlite.Client, error) {
	return sqlite.New(ctx, cfg.Storage.DSN, sqlite.Options{Quota: cfg.Storage.Quota})
}

// openSession builds a session over the configured sqlite store. The caller
// closes the returned client.
func openSession(ctx context.Context, cfg *config.ProjectConfig, log logger.Logger) (*session.Session, *sqlite.Client, error) {
	therapy, settlement, err := cfg.Catalogs()
	if err != nil {
		return nil, nil, err
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	sess, err := session.New(ctx, storage.NewGateway(db, log), session.Options{
		Mode:         session.Mode(cfg.Mode),
		Era:          cfg.Era,
		Therapy:      therapy,
		Settlement:   settlement,
		Surface:      cfg.SurfaceSpec(),
		HistoryLimit: cfg.History.Limit,
		Log:          log,
	})
	if err != nil {
		db.Close(ctx)
		return nil, nil, fmt.Errorf("starting session: %w", err)
	}
	sess.SetCardPools(cfg.Cards.Images, cfg.Cards.Words)
	return sess, db, nil
}
