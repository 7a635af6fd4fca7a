package main

import (
	"context"
	"fmt"
	"os"

	"sponsors/internal/db"
	"sponsors/internal/seed"
	"sponsors/internal/store"
	"sponsors/pkg/types"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with the default sponsor levels",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "demo",
			Usage: "Also insert demo sponsors when the sponsors table is empty",
		},
		&cli.BoolFlag{
			Name:  "print",
			Usage: "Print the seed set instead of writing it",
		},
	},
	Action: func(c *cli.Context) error {
		if c.Bool("print") {
			levels := make([]*types.Level, 0, len(seed.DefaultLevels))
			for i, l := range seed.DefaultLevels {
				levels = append(levels, &types.Level{ID: int64(i + 1), Name: l.Name})
			}
			pp.Println(levels)
			if c.Bool("demo") {
				pp.Println(seed.DemoSponsors(levels))
			}
			return nil
		}

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

		logrus.Info("Connected to database")

		levels, err := seed.SeedLevels(ctx, os.Stdout, store.NewLevelRepository(pool), seed.DefaultLevels)
		if err != nil {
			return fmt.Errorf("failed to seed levels: %w", err)
		}

		logrus.Info("Levels seeded successfully")

		if !c.Bool("demo") {
			return nil
		}

		n, err := seed.SeedDemoSponsors(ctx, os.Stdout, store.NewSponsorRepository(pool), seed.DemoSponsors(levels))
		if err != nil {
			return fmt.Errorf("failed to seed demo sponsors: %w", err)
		}

		logrus.WithField("count", n).Info("Demo sponsors seeded")

		return nil
	},
}
