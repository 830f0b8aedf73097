package main

import (
	"context"
	"fmt"

	"revive/internal/db"
	"revive/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var statsCommand = &cli.Command{
	Name:  "stats",
	Usage: "Dump aggregate stats for an NGO or a volunteer",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "ngo",
			Usage: "NGO user id",
		},
		&cli.StringFlag{
			Name:  "volunteer",
			Usage: "Volunteer user id",
		},
	},
	Action: func(c *cli.Context) error {
		ngoID, volunteerID := c.String("ngo"), c.String("volunteer")
		if ngoID == "" && volunteerID == "" {
			return fmt.Errorf("pass --ngo or --volunteer")
		}

		cfg, err := loadConfig(c)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		statsRepo := store.NewStatsRepository(pool)

		if ngoID != "" {
			stats, err := statsRepo.NGOStats(ctx, ngoID)
			if err != nil {
				return err
			}
			pp.Println(stats)
		}

		if volunteerID != "" {
			counts, err := statsRepo.ApplicationCountsByVolunteer(ctx, volunteerID)
			if err != nil {
				return err
			}
			pp.Println(counts)
		}

		return nil
	},
}
