// Command devconnector-migrate applies and rolls back embedded SQL
// migrations against the configured database.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"time"

	"devconnector/internal/config"
	"devconnector/internal/database"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func connect() (*gorm.DB, error) {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return database.Open(cfg)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "devconnector-migrate",
		Short: "Manage DevConnector database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			if err := database.RunMigrations(ctx, db); err != nil {
				return err
			}
			log.Println("All migrations applied")
			return nil
		},
	}

	downCmd := &cobra.Command{
		Use:   "down <version>",
		Short: "Roll back one migration by version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}

			db, err := connect()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			if err := database.RollbackMigration(ctx, db, version); err != nil {
				return err
			}
			log.Printf("Migration %d rolled back", version)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			applied, err := database.NewMigrationStore(db).GetAppliedMigrations(ctx)
			if err != nil {
				return err
			}
			appliedSet := make(map[int]bool, len(applied))
			for _, v := range applied {
				appliedSet[v] = true
			}

			migrations := database.GetMigrations()
			sort.Slice(migrations, func(i, j int) bool {
				return migrations[i].Version < migrations[j].Version
			})

			for _, m := range migrations {
				state := "pending"
				if appliedSet[m.Version] {
					state = "applied"
				}
				fmt.Printf("%06d  %-30s  %s\n", m.Version, m.Name, state)
			}
			return nil
		},
	}

	rootCmd.AddCommand(upCmd, downCmd, statusCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
