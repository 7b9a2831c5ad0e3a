package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"ecommerce-seeder/internal/config"
	"ecommerce-seeder/internal/database"
	"ecommerce-seeder/internal/dataset"
)

var (
	cfgPath      string
	seedOverride int64
)

var rootCmd = &cobra.Command{
	Use:   "seeder",
	Short: "Synthetic e-commerce dataset seeder for MongoDB",
	Long: `Generates a self-consistent e-commerce dataset (customers, products,
orders, order events) into MongoDB and declares the indexes the course
query examples rely on.`,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Drop the database and regenerate the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = seedOverride
		}

		ctx := cmd.Context()
		store, err := database.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to mongo: %w", err)
		}
		defer store.Close(context.Background())

		// A run never merges into prior data; unique indexes from an
		// earlier run would reject the fresh customer batch anyway.
		if err := store.Reset(ctx); err != nil {
			return fmt.Errorf("failed to drop database %s: %w", cfg.Mongo.Database, err)
		}

		gen := dataset.New(store, cfg)
		gen.Log = zlog.Logger

		report, err := gen.Generate(ctx)
		if err != nil {
			return err
		}
		zlog.Info().
			Str("run", report.RunID).
			Int64("seed", report.Seed).
			Dur("insert_p95", report.InsertP95).
			Dur("insert_p99", report.InsertP99).
			Msg("seed complete")
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the stored dataset against the generation invariants",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := cmd.Context()
		store, err := database.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to mongo: %w", err)
		}
		defer store.Close(context.Background())

		report, err := store.Verify(ctx, cfg)
		if err != nil {
			return err
		}
		for _, f := range report.Failures {
			zlog.Warn().Msg(f)
		}
		if !report.OK() {
			return fmt.Errorf("verification failed: %d problems", len(report.Failures))
		}
		zlog.Info().
			Int64("customers", report.Customers).
			Int64("products", report.Products).
			Int64("orders", report.Orders).
			Int64("events", report.Events).
			Msg("dataset verified")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to the YAML config file")
	seedCmd.Flags().Int64Var(&seedOverride, "seed", 0, "override the random seed (0 = time-based)")
	rootCmd.AddCommand(seedCmd, verifyCmd)
}

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	if err := rootCmd.Execute(); err != nil {
		zlog.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
