package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
	"totaro-checkout/internal/migration"
	"totaro-checkout/internal/server"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the checkout HTTP server",
	Long: `Runs the checkout pages, payment API and webhook endpoint.

The reconciler runs alongside when RECONCILE_INTERVAL is above zero.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "apply SQL migrations on start (postgres)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if serveMigrate && cfg.Database.Driver == "postgres" {
		if err := migration.Up(cfg.Database.URL); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.NewServer(cfg, a.checkoutService, a.paymentService, a.webhookService)

	reconcilerDone := make(chan struct{})
	if cfg.Reconcile.Interval > 0 {
		go func() {
			defer close(reconcilerDone)
			_ = a.reconciler.Run(ctx)
		}()
	} else {
		close(reconcilerDone)
	}

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	serverErr := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{"addr": serverAddr, "environment": cfg.Environment.Name}).Info("Starting HTTP server")
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			stop()
			<-reconcilerDone
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("Signal received, starting graceful shutdown...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	stop()
	<-reconcilerDone
	log.Info("Shutdown complete")
	return nil
}
