package cli

import (
	"errors"
	"fmt"
	"totaro-checkout/internal/doctor"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the checkout environment",
	Long:  `Runs diagnostic checks on the environment and reports pass, warning or fail for each. Exits non-zero on any failure.`,
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Environment: %s\n\n", cfg.Environment.Name)
	report := doctor.Run(cfg)
	report.Write(cmd.OutOrStdout())

	if report.Failed() {
		return errors.New("environment check failed")
	}
	return nil
}
