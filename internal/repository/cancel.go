package repository

import (
	"context"
	"totaro-checkout/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CancelRepository interface {
	Append(ctx context.Context, tx *gorm.DB, cancels []*model.OrderCancel) error
	ListByOrderID(ctx context.Context, orderID string) ([]*model.OrderCancel, error)
}

type cancelRepoImpl struct {
	db *gorm.DB
}

func NewCancelRepository(db *gorm.DB) CancelRepository {
	return &cancelRepoImpl{
		db: db,
	}
}

// Append inserts cancels that are not stored yet. The gateway returns the full
// history on every call, so known transaction keys are skipped, never updated.
func (r *cancelRepoImpl) Append(ctx context.Context, tx *gorm.DB, cancels []*model.OrderCancel) error {
	if len(cancels) == 0 {
		return nil
	}
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&cancels).Error
}

func (r *cancelRepoImpl) ListByOrderID(ctx context.Context, orderID string) ([]*model.OrderCancel, error) {
	var cancels []*model.OrderCancel
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("canceled_at").
		Find(&cancels).Error

	if err != nil {
		return nil, err
	}

	return cancels, nil
}
