package cli

import (
	"fmt"
	"os"
	"totaro-checkout/internal/config"

	"github.com/spf13/cobra"
)

var rootCmd *cobra.Command

func init() {
	rootCmd = &cobra.Command{
		Use:   "checkout",
		Short: "Totaro checkout: Toss Payments widget, confirm, cancel and webhooks",
		Long: `Serves the Totaro checkout pages and payment API backed by Toss Payments.

Configuration comes from the environment, after an optional .env file.`,
		RunE:          runServe, // serve is the default action
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// Execute runs the root command.
func Execute() error {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(adminTokenCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	configureLogging(&cfg.Log)
	return cfg, nil
}
