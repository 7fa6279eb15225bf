package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"totaro-checkout/internal/client"
	"totaro-checkout/internal/event"
	"totaro-checkout/internal/idempotency"
	"totaro-checkout/internal/model"
	"totaro-checkout/internal/repository"
	"totaro-checkout/internal/sender"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

type ConfirmInput struct {
	PaymentKey string
	OrderID    string
	Amount     int64
}

type ConfirmResult struct {
	OrderID string
	Payment json.RawMessage
	// Replayed is set when the order was already paid with this paymentKey
	// and the stored confirmation was returned without calling the gateway.
	Replayed bool
}

type CancelInput struct {
	PaymentKey           string
	CancelReason         string
	CancelAmount         *int64
	RefundReceiveAccount *model.RefundReceiveAccount
}

type CancelResult struct {
	Status  model.PaymentStatus
	Cancels []model.Cancel
}

type PaymentService interface {
	Confirm(ctx context.Context, in ConfirmInput) (*ConfirmResult, error)
	Cancel(ctx context.Context, in CancelInput) (*CancelResult, error)
	GetPayment(ctx context.Context, paymentKey string) (*model.Payment, error)
	// Fail records a failure reported by the gateway's fail redirect.
	Fail(ctx context.Context, orderID, code, message string) error
}

type paymentServiceImpl struct {
	tossClient client.TossClient
	orderRepo  repository.OrderRepository
	guard      idempotency.Guard
	syncer     *orderSyncer
	tracer     trace.Tracer
}

func NewPaymentService(
	db *gorm.DB,
	tossClient client.TossClient,
	orderRepo repository.OrderRepository,
	cancelRepo repository.CancelRepository,
	guard idempotency.Guard,
	publisher event.Publisher,
	notifier sender.Notifier,
) PaymentService {
	return &paymentServiceImpl{
		tossClient: tossClient,
		orderRepo:  orderRepo,
		guard:      guard,
		syncer:     newOrderSyncer(db, orderRepo, cancelRepo, publisher, notifier),
		tracer:     otel.Tracer("payment-service"),
	}
}

func confirmLockKey(paymentKey string) string {
	return "confirm:" + paymentKey
}

func (s *paymentServiceImpl) Confirm(ctx context.Context, in ConfirmInput) (*ConfirmResult, error) {
	ctx, span := s.tracer.Start(ctx, "payment.Confirm", trace.WithAttributes(
		attribute.String("order.id", in.OrderID),
		attribute.Int64("payment.amount", in.Amount),
	))
	defer span.End()

	logger := log.WithFields(log.Fields{"order_id": in.OrderID, "payment_key": in.PaymentKey})

	order, err := s.orderRepo.FindByOrderID(ctx, in.OrderID)
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		logger.Warn("Confirming payment for an order that is not stored locally")
	case err != nil:
		return nil, fmt.Errorf("load order: %w", err)
	}

	if order != nil {
		if order.Status == model.OrderPaid && order.HasPaymentKey(in.PaymentKey) {
			logger.Info("Order already paid with this payment key, returning stored confirmation")
			return &ConfirmResult{OrderID: order.OrderID, Payment: json.RawMessage(order.Payment), Replayed: true}, nil
		}
		if order.Status == model.OrderCancelled || order.Status == model.OrderRefunded {
			return nil, fmt.Errorf("%w: %s is %s", ErrOrderNotPayable, order.OrderID, order.Status)
		}
		if order.Price != in.Amount {
			// The gateway rejects the mismatch; the local price is only logged.
			logger.WithFields(log.Fields{"order_price": order.Price, "amount": in.Amount}).Warn("Confirm amount differs from order price")
		}
	}

	lockKey := confirmLockKey(in.PaymentKey)
	acquired, err := s.guard.Acquire(ctx, lockKey)
	switch {
	case err != nil:
		logger.WithError(err).Warn("Confirm lock unavailable, continuing without it")
	case !acquired:
		return nil, ErrConfirmInProgress
	default:
		defer func() {
			if err := s.guard.Release(context.WithoutCancel(ctx), lockKey); err != nil {
				logger.WithError(err).Warn("Failed to release confirm lock")
			}
		}()
	}

	p, err := s.tossClient.ConfirmPayment(ctx, client.ConfirmRequest{
		PaymentKey: in.PaymentKey,
		OrderID:    in.OrderID,
		Amount:     in.Amount,
	})
	if err != nil {
		var gwErr *client.GatewayError
		if errors.As(err, &gwErr) && order != nil {
			s.recordFailure(ctx, in.OrderID, gwErr.Code, gwErr.Message)
		}
		return nil, err
	}

	if order != nil {
		if _, err := s.syncer.apply(ctx, order, p); err != nil {
			// The charge went through; only the local record is behind.
			logger.WithError(err).WithField("reconcile", true).Error("Payment confirmed but order update failed")
		}
	} else {
		logger.WithField("reconcile", true).Error("Payment confirmed for an unknown order")
	}

	logger.WithFields(log.Fields{"status": p.Status, "method": p.Method}).Info("Payment confirmed")
	return &ConfirmResult{OrderID: in.OrderID, Payment: p.Raw}, nil
}

// recordFailure marks the order failed. The caller already has the gateway
// error to return, so a failed write is only logged.
func (s *paymentServiceImpl) recordFailure(ctx context.Context, orderID, code, message string) {
	err := s.orderRepo.MarkFailed(ctx, nil, orderID, repository.PaymentState{
		FailureCode:    code,
		FailureMessage: message,
	})
	logger := log.WithFields(log.Fields{"order_id": orderID, "code": code})
	switch {
	case err == nil:
		logger.Info("Order marked failed")
	case errors.Is(err, repository.ErrNotUpdated):
		logger.Info("Order is past the point of failing, leaving status as is")
	default:
		logger.WithError(err).Error("Failed to mark order failed")
	}
}

func (s *paymentServiceImpl) Fail(ctx context.Context, orderID, code, message string) error {
	order, err := s.orderRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != model.OrderPending {
		return nil
	}
	s.recordFailure(ctx, orderID, code, message)
	return nil
}

func (s *paymentServiceImpl) Cancel(ctx context.Context, in CancelInput) (*CancelResult, error) {
	ctx, span := s.tracer.Start(ctx, "payment.Cancel")
	defer span.End()

	logger := log.WithField("payment_key", in.PaymentKey)

	p, err := s.tossClient.CancelPayment(ctx, in.PaymentKey, client.CancelRequest{
		CancelReason:         in.CancelReason,
		CancelAmount:         in.CancelAmount,
		RefundReceiveAccount: in.RefundReceiveAccount,
	})
	if err != nil {
		return nil, err
	}

	order, err := s.syncer.findOrder(ctx, p)
	if err != nil {
		logger.WithError(err).WithField("reconcile", true).Error("Payment cancelled but order could not be loaded")
	} else if _, err := s.syncer.apply(ctx, order, p); err != nil {
		logger.WithError(err).WithFields(log.Fields{"order_id": order.OrderID, "reconcile": true}).Error("Payment cancelled but order update failed")
	}

	logger.WithFields(log.Fields{"status": p.Status, "cancels": len(p.Cancels)}).Info("Payment cancelled")
	return &CancelResult{Status: p.Status, Cancels: p.Cancels}, nil
}

func (s *paymentServiceImpl) GetPayment(ctx context.Context, paymentKey string) (*model.Payment, error) {
	return s.tossClient.GetPayment(ctx, paymentKey)
}
