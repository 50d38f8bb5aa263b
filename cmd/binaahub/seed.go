package main

import (
	"binaahub/internal/db"
	"binaahub/internal/seed"
	"binaahub/internal/store"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with the document requirement catalog",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
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

		requirementRepo := store.NewRequirementRepository(pool)

		logrus.Info("Seeding document requirements...")
		if err := seed.SeedRequirements(ctx, requirementRepo); err != nil {
			return fmt.Errorf("failed to seed requirements: %w", err)
		}

		logrus.Info("Requirements seeded successfully")

		return nil
	},
}
