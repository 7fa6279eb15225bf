package model

import (
	"time"

	"gorm.io/datatypes"
)

// OrderCancel is one entry of an order's cancellation history. Rows are
// inserted once per gateway transaction and never updated.
type OrderCancel struct {
	TransactionKey string    `gorm:"primaryKey;size:64;not null"`
	OrderID        string    `gorm:"size:64;index;not null"`
	PaymentKey     string    `gorm:"size:200;index;not null"`
	CancelAmount   int64     `gorm:"not null"`
	CancelReason   string    `gorm:"size:255"`
	CanceledAt     time.Time `gorm:"not null"`
	CreatedAt      time.Time
}

type WebhookEvent struct {
	EventID         string `gorm:"primaryKey;size:64;not null"` // sha256 of type, createdAt, paymentKey, status
	EventType       string `gorm:"size:64;index"`
	PaymentKey      string `gorm:"size:200;index"`
	OrderID         string `gorm:"size:64;index"`
	Payload         datatypes.JSON
	SignatureValid  bool
	ProcessingError string `gorm:"type:text"`
	ProcessedAt     *time.Time
	CreatedAt       time.Time
}

func AllModels() []any {
	return []any{&Order{}, &OrderCancel{}, &WebhookEvent{}}
}
