package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fleet_tracker/internal/logging"
	"fleet_tracker/internal/repository"
	"fleet_tracker/internal/seed"
	"fleet_tracker/internal/storage"
	"fleet_tracker/pkg/config"
)

func main() {
	var (
		configPath string
		days       int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed demo accounts, vehicles and status history",
		RunE: func(cmd *cobra.Command, args []string) error {
			var paths []string
			if configPath != "" {
				paths = append(paths, configPath)
			}
			cfg, err := config.Load(paths...)
			if err != nil {
				return err
			}

			logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := storage.NewPostgresDB(cfg.DB, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.AutoMigrate(); err != nil {
				return err
			}

			res, err := seed.Run(cmd.Context(), repository.NewRepositories(db), seed.Options{
				Days:     days,
				Location: cfg.App.Location(),
			})
			if err != nil {
				return err
			}

			logger.Info("Database seeding completed",
				zap.Int("users", res.Users),
				zap.Int("vehicles", res.Vehicles),
				zap.Int("records", res.Records),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "directory containing config.yaml")
	cmd.Flags().IntVar(&days, "days", 30, "days of status history to generate")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
