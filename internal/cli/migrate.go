package cli

import (
	"errors"
	"totaro-checkout/internal/migration"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back the postgres schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := migrationURL()
		if err != nil {
			return err
		}
		if err := migration.Up(url); err != nil {
			return err
		}
		log.Info("Migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := migrationURL()
		if err != nil {
			return err
		}
		if err := migration.Down(url, migrateSteps); err != nil {
			return err
		}
		log.WithField("steps", migrateSteps).Info("Migrations rolled back")
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back, 0 for all")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}

func migrationURL() (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	if cfg.Database.Driver != "postgres" {
		return "", errors.New("SQL migrations target postgres; other drivers are auto-migrated on start")
	}
	if cfg.Database.URL == "" {
		return "", errors.New("DATABASE_URL is not set")
	}
	return cfg.Database.URL, nil
}
