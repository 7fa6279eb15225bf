package repository

import (
	"context"
	"errors"
	"fmt"
	"time"
	"totaro-checkout/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrNotUpdated means the order exists but its current status does not allow the write.
	ErrNotUpdated = errors.New("order not updated")
)

// PaymentState is what the gateway told us about an order's payment.
type PaymentState struct {
	Status     model.OrderStatus
	PaymentKey string
	Method     string
	ApprovedAt *time.Time
	Payment    []byte

	FailureCode    string
	FailureMessage string
}

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	FindByOrderID(ctx context.Context, orderID string) (*model.Order, error)
	FindByPaymentKey(ctx context.Context, paymentKey string) (*model.Order, error)
	MarkPaid(ctx context.Context, tx *gorm.DB, orderID string, state PaymentState) error
	MarkFailed(ctx context.Context, tx *gorm.DB, orderID string, state PaymentState) error
	ApplyPaymentState(ctx context.Context, tx *gorm.DB, orderID string, state PaymentState) error
	ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]*model.Order, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx)
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return r.conn(ctx, tx).Create(order).Error
}

func (r *orderRepoImpl) FindByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	return r.findOne(ctx, "order_id = ?", orderID)
}

func (r *orderRepoImpl) FindByPaymentKey(ctx context.Context, paymentKey string) (*model.Order, error) {
	return r.findOne(ctx, "payment_key = ?", paymentKey)
}

func (r *orderRepoImpl) findOne(ctx context.Context, query string, arg string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where(query, arg).
		First(&order).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// allowedFrom lists, per target status, the statuses an order may be in
// before the write. A paid order never goes back to pending or failed.
var allowedFrom = map[model.OrderStatus][]model.OrderStatus{
	model.OrderPending:   {model.OrderPending, model.OrderFailed},
	model.OrderFailed:    {model.OrderPending, model.OrderFailed},
	model.OrderPaid:      {model.OrderPending, model.OrderFailed, model.OrderPaid, model.OrderCancelled},
	model.OrderCancelled: {model.OrderPending, model.OrderFailed, model.OrderCancelled},
	model.OrderRefunded:  {model.OrderPaid, model.OrderRefunded},
}

// CanTransition reports whether an order in from may be written as to.
func CanTransition(from, to model.OrderStatus) bool {
	for _, s := range allowedFrom[to] {
		if s == from {
			return true
		}
	}
	return false
}

func (r *orderRepoImpl) MarkPaid(ctx context.Context, tx *gorm.DB, orderID string, state PaymentState) error {
	state.Status = model.OrderPaid
	return r.ApplyPaymentState(ctx, tx, orderID, state)
}

func (r *orderRepoImpl) MarkFailed(ctx context.Context, tx *gorm.DB, orderID string, state PaymentState) error {
	state.Status = model.OrderFailed
	return r.ApplyPaymentState(ctx, tx, orderID, state)
}

// ApplyPaymentState writes the state only when the order's current status
// allows it. ErrNotUpdated reports a write refused by the transition rules.
func (r *orderRepoImpl) ApplyPaymentState(ctx context.Context, tx *gorm.DB, orderID string, state PaymentState) error {
	from, ok := allowedFrom[state.Status]
	if !ok {
		return fmt.Errorf("unknown order status %q", state.Status)
	}

	updates := map[string]interface{}{
		"status":          state.Status,
		"failure_code":    state.FailureCode,
		"failure_message": state.FailureMessage,
		"updated_at":      time.Now(),
	}
	if state.PaymentKey != "" {
		updates["payment_key"] = state.PaymentKey
	}
	if state.Method != "" {
		updates["method"] = state.Method
	}
	if state.ApprovedAt != nil {
		updates["approved_at"] = state.ApprovedAt
	}
	if len(state.Payment) > 0 {
		updates["payment"] = datatypes.JSON(state.Payment)
	}

	result := r.conn(ctx, tx).
		Model(&model.Order{}).
		Where("order_id = ?", orderID).
		Where("status IN ?", from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.conn(ctx, tx).Model(&model.Order{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrOrderNotFound
	}
	return ErrNotUpdated
}

func (r *orderRepoImpl) ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("status = ?", model.OrderPending).
		Where("created_at < ?", olderThan).
		Order("created_at").
		Limit(limit).
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}
