package cli

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var reconcileOnce bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Sync stale PENDING orders with the gateway",
	Long: `Looks up PENDING orders older than RECONCILE_PENDING_TIMEOUT at the gateway and applies
the gateway's status. With --once a single pass runs and the command exits.`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&reconcileOnce, "once", false, "run one pass and exit")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if !reconcileOnce {
		if cfg.Reconcile.Interval <= 0 {
			return errors.New("RECONCILE_INTERVAL must be above zero, or pass --once")
		}
		ctx, stop := signalContext(ctx)
		defer stop()
		return a.reconciler.Run(ctx)
	}

	report, err := a.reconciler.RunOnce(ctx)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"checked":   report.Checked,
		"updated":   report.Updated,
		"abandoned": report.Abandoned,
		"failed":    report.Failed,
	}).Info("Reconcile pass finished")
	fmt.Fprintf(cmd.OutOrStdout(), "checked=%d updated=%d abandoned=%d failed=%d\n",
		report.Checked, report.Updated, report.Abandoned, report.Failed)
	return nil
}
