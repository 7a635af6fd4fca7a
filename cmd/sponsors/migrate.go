package main

import (
	"context"
	"fmt"

	"sponsors/internal/db"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Apply pending database migrations",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c.String("env-prefix"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logger := logrus.StandardLogger()
		logger.WithField("schema", cfg.DatabaseSchema).Info("Connected to database")

		if err := db.Migrate(ctx, pool, cfg.DatabaseSchema, logger); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}

		logger.Info("Migrations applied")

		return nil
	},
}
