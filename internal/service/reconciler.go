package service

import (
	"context"
	"errors"
	"net/http"
	"time"
	"totaro-checkout/internal/client"
	"totaro-checkout/internal/config"
	"totaro-checkout/internal/event"
	"totaro-checkout/internal/model"
	"totaro-checkout/internal/payment"
	"totaro-checkout/internal/repository"
	"totaro-checkout/internal/retry"
	"totaro-checkout/internal/sender"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const codeNotFoundPayment = "NOT_FOUND_PAYMENT"

type ReconcileReport struct {
	Checked   int
	Updated   int
	Abandoned int
	Failed    int
}

// Reconciler re-reads the gateway for orders stuck in PENDING, covering
// confirms whose local write was lost and redirects that never came back.
type Reconciler struct {
	id         string
	tossClient client.TossClient
	orderRepo  repository.OrderRepository
	syncer     *orderSyncer
	cfg        config.Reconcile
	policy     retry.Policy
	now        func() time.Time
}

func NewReconciler(
	db *gorm.DB,
	cfg config.Reconcile,
	tossClient client.TossClient,
	orderRepo repository.OrderRepository,
	cancelRepo repository.CancelRepository,
	publisher event.Publisher,
	notifier sender.Notifier,
) *Reconciler {
	return &Reconciler{
		id:         uuid.NewString(),
		tossClient: tossClient,
		orderRepo:  orderRepo,
		syncer:     newOrderSyncer(db, orderRepo, cancelRepo, publisher, notifier),
		cfg:        cfg,
		policy:     retry.Backoff(3, 500*time.Millisecond),
		now:        time.Now,
	}
}

func (r *Reconciler) Run(ctx context.Context) error {
	t := time.NewTicker(r.cfg.Interval)
	defer t.Stop()

	log.WithFields(log.Fields{"reconciler_id": r.id, "interval": r.cfg.Interval}).Info("Reconciler started")
	for {
		select {
		case <-ctx.Done():
			log.WithField("reconciler_id", r.id).Info("Reconciler stopping")
			return nil
		case <-t.C:
			if _, err := r.RunOnce(ctx); err != nil {
				log.WithError(err).Error("Reconcile pass failed")
			}
		}
	}
}

func (r *Reconciler) RunOnce(ctx context.Context) (*ReconcileReport, error) {
	now := r.now()
	orders, err := r.orderRepo.ListStalePending(ctx, now.Add(-r.cfg.PendingTimeout), r.cfg.BatchSize)
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{}
	for _, order := range orders {
		report.Checked++
		logger := log.WithFields(log.Fields{"order_id": order.OrderID, "reconciler_id": r.id})

		p, err := r.lookup(ctx, order.OrderID)
		var gwErr *client.GatewayError
		switch {
		case errors.As(err, &gwErr) && gwErr.Code == codeNotFoundPayment:
			if now.Sub(order.CreatedAt) < r.cfg.AbandonAfter {
				continue
			}
			if err := r.abandon(ctx, order); err != nil {
				report.Failed++
				logger.WithError(err).Error("Failed to close abandoned order")
				continue
			}
			report.Abandoned++
			logger.Info("Closed order with no payment at the gateway")
		case err != nil:
			report.Failed++
			logger.WithError(err).Warn("Gateway lookup failed")
		default:
			res, err := r.syncer.apply(ctx, order, p)
			if err != nil {
				report.Failed++
				logger.WithError(err).Error("Failed to apply gateway status")
				continue
			}
			if res.Changed {
				report.Updated++
				logger.WithFields(log.Fields{"gateway_status": p.Status, "status": res.Order.Status}).Info("Order reconciled")
			}
		}
	}

	log.WithFields(log.Fields{
		"checked":   report.Checked,
		"updated":   report.Updated,
		"abandoned": report.Abandoned,
		"failed":    report.Failed,
	}).Info("Reconcile pass finished")
	return report, nil
}

// lookup retries transient gateway failures; client errors are final.
func (r *Reconciler) lookup(ctx context.Context, orderID string) (*model.Payment, error) {
	var p *model.Payment
	err := retry.Do(ctx, r.policy, func(ctx context.Context) error {
		var err error
		p, err = r.tossClient.GetPaymentByOrderID(ctx, orderID)
		var gwErr *client.GatewayError
		if errors.As(err, &gwErr) && gwErr.Status < http.StatusInternalServerError {
			return retry.Permanent(err)
		}
		if errors.Is(err, client.ErrMissingSecretKey) {
			return retry.Permanent(err)
		}
		return err
	})
	return p, err
}

func (r *Reconciler) abandon(ctx context.Context, order *model.Order) error {
	err := r.orderRepo.ApplyPaymentState(ctx, nil, order.OrderID, repository.PaymentState{
		Status:         model.OrderCancelled,
		FailureCode:    codeNotFoundPayment,
		FailureMessage: payment.ErrorMessage(codeNotFoundPayment, payment.LangEN),
	})
	if err != nil {
		return err
	}

	updated, err := r.orderRepo.FindByOrderID(ctx, order.OrderID)
	if err != nil {
		return err
	}
	r.syncer.announce(ctx, order.Status, &syncResult{Order: updated, Changed: true})
	return nil
}
