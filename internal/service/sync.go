package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"totaro-checkout/internal/event"
	"totaro-checkout/internal/model"
	"totaro-checkout/internal/repository"
	"totaro-checkout/internal/sender"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// publishTimeout caps how long a status change waits on the broker.
const publishTimeout = 2 * time.Second

// orderSyncer writes what the gateway reports about a payment onto the local
// order. Confirm, cancel, webhook and the reconciler all go through it.
type orderSyncer struct {
	db         *gorm.DB
	orderRepo  repository.OrderRepository
	cancelRepo repository.CancelRepository
	publisher  event.Publisher
	notifier   sender.Notifier
}

func newOrderSyncer(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	cancelRepo repository.CancelRepository,
	publisher event.Publisher,
	notifier sender.Notifier,
) *orderSyncer {
	return &orderSyncer{
		db:         db,
		orderRepo:  orderRepo,
		cancelRepo: cancelRepo,
		publisher:  publisher,
		notifier:   notifier,
	}
}

type syncResult struct {
	Order   *model.Order
	Changed bool
}

func parseGatewayTime(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}

func paymentState(status model.OrderStatus, p *model.Payment) repository.PaymentState {
	state := repository.PaymentState{
		Status:     status,
		PaymentKey: p.PaymentKey,
		Method:     p.Method,
		ApprovedAt: parseGatewayTime(p.ApprovedAt),
		Payment:    p.Raw,
	}
	if status == model.OrderFailed && p.Failure != nil {
		state.FailureCode = p.Failure.Code
		state.FailureMessage = p.Failure.Message
	}
	return state
}

func cancelRows(orderID string, p *model.Payment) []*model.OrderCancel {
	rows := make([]*model.OrderCancel, 0, len(p.Cancels))
	for _, c := range p.Cancels {
		if c.TransactionKey == "" {
			continue
		}
		canceledAt := time.Now()
		if t := parseGatewayTime(c.CanceledAt); t != nil {
			canceledAt = *t
		}
		rows = append(rows, &model.OrderCancel{
			TransactionKey: c.TransactionKey,
			OrderID:        orderID,
			PaymentKey:     p.PaymentKey,
			CancelAmount:   c.CancelAmount,
			CancelReason:   c.CancelReason,
			CanceledAt:     canceledAt,
		})
	}
	return rows
}

// findOrder locates the order a gateway payment belongs to.
func (s *orderSyncer) findOrder(ctx context.Context, p *model.Payment) (*model.Order, error) {
	if p.OrderID != "" {
		order, err := s.orderRepo.FindByOrderID(ctx, p.OrderID)
		if !errors.Is(err, repository.ErrOrderNotFound) {
			return order, err
		}
	}
	return s.orderRepo.FindByPaymentKey(ctx, p.PaymentKey)
}

// apply stores the gateway payment on order. A write refused by the
// transition rules is not an error: the order is returned unchanged.
func (s *orderSyncer) apply(ctx context.Context, order *model.Order, p *model.Payment) (*syncResult, error) {
	target, ok := OrderStatusFor(p.Status, order.Status)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, p.Status)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.cancelRepo.Append(ctx, tx, cancelRows(order.OrderID, p)); err != nil {
			return fmt.Errorf("store cancels: %w", err)
		}
		if err := s.orderRepo.ApplyPaymentState(ctx, tx, order.OrderID, paymentState(target, p)); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		return nil
	})
	if errors.Is(err, repository.ErrNotUpdated) {
		log.WithFields(log.Fields{
			"order_id":       order.OrderID,
			"payment_key":    p.PaymentKey,
			"order_status":   order.Status,
			"gateway_status": p.Status,
		}).Info("Gateway status does not move the order, ignoring")
		return &syncResult{Order: order}, nil
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.FindByOrderID(ctx, order.OrderID)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}

	res := &syncResult{Order: updated, Changed: updated.Status != order.Status}
	s.announce(ctx, order.Status, res)
	return res, nil
}

// announce publishes the status change and mails the receipt on first payment.
// Both are side channels: failures are logged and never fail the write.
func (s *orderSyncer) announce(ctx context.Context, previous model.OrderStatus, res *syncResult) {
	if !res.Changed {
		return
	}
	order := res.Order
	logger := log.WithFields(log.Fields{"order_id": order.OrderID, "status": order.Status})

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	if err := s.publisher.Publish(pubCtx, event.NewOrderEvent(order)); err != nil {
		logger.WithError(err).Error("Failed to publish order event")
	}
	cancel()

	if order.Status == model.OrderPaid && previous != model.OrderPaid {
		go func(ctx context.Context, order *model.Order) {
			if err := s.notifier.SendReceipt(ctx, order); err != nil {
				logger.WithError(err).Warn("Failed to send receipt email")
			}
		}(context.WithoutCancel(ctx), order)
	}
}
