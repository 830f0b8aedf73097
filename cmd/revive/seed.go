package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"revive/internal/campaign"
	"revive/internal/db"
	"revive/internal/notify"
	"revive/internal/seed"
	"revive/internal/store"

	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with fake users, campaigns and applications",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "campaigns",
			Aliases: []string{"n"},
			Usage:   "Number of fake campaigns to create",
			Value:   20,
		},
		&cli.BoolFlag{
			Name:  "reset",
			Usage: "Delete previously seeded campaigns first",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger := newLogger(cfg)
		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logger.Info("Connected to database")

		userRepo := store.NewUserRepository(pool)
		notificationRepo := store.NewNotificationRepository(pool)

		manager := campaign.NewManager(
			logger,
			store.NewCampaignRepository(pool),
			store.NewApplicationRepository(pool),
			userRepo,
			notify.NewStoreSink(notificationRepo),
		)

		logger.Info("Seeding users...")
		if err := seed.SeedFakeUsers(ctx, userRepo); err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}

		logger.Info("Seeding campaigns...")
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		if err := seed.SeedFakeCampaigns(ctx, pool, manager, rng, c.Int("campaigns"), c.Bool("reset")); err != nil {
			return fmt.Errorf("failed to seed campaigns: %w", err)
		}

		logger.Info("Seed complete")
		return nil
	},
}
