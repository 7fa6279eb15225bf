package cli

import (
	"fmt"
	"time"
	"totaro-checkout/internal/middleware"

	"github.com/spf13/cobra"
)

var (
	adminSubject string
	adminTTL     time.Duration
)

var adminTokenCmd = &cobra.Command{
	Use:   "admin-token",
	Short: "Issue an admin token for the cancel and payment lookup API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		token, err := middleware.IssueAdminToken(cfg.Admin.JWTSecret, adminSubject, adminTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	adminTokenCmd.Flags().StringVar(&adminSubject, "subject", "ops", "who the token is issued to")
	adminTokenCmd.Flags().DurationVar(&adminTTL, "ttl", time.Hour, "token lifetime")
}
