package model

import (
	"time"

	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPaid      OrderStatus = "PAID"
	OrderCancelled OrderStatus = "CANCELLED"
	OrderRefunded  OrderStatus = "REFUNDED"
	OrderFailed    OrderStatus = "FAILED"
)

type Order struct {
	OrderID     string      `gorm:"primaryKey;size:64;not null"` // ORDER_<ts>_<suffix>
	Name        string      `gorm:"size:128;not null"`
	Email       string      `gorm:"size:255;index;not null"`
	Company     string      `gorm:"size:255"`
	Phone       string      `gorm:"size:32"`
	Plan        string      `gorm:"size:64;index"`
	OrderName   string      `gorm:"size:255;not null"`
	Price       int64       `gorm:"not null"`
	Currency    string      `gorm:"size:8;not null"`
	Message     string      `gorm:"type:text"`
	CustomerKey string      `gorm:"size:64;not null"`
	Status      OrderStatus `gorm:"size:32;index;not null"` // PENDING, PAID, CANCELLED, REFUNDED, FAILED

	// PaymentKey is nil until the gateway issues one. Unique so a payment can
	// only ever belong to one order.
	PaymentKey *string `gorm:"size:200;uniqueIndex"`
	Method     string  `gorm:"size:32"`
	ApprovedAt *time.Time
	Payment    datatypes.JSON // gateway confirmation, stored verbatim

	FailureCode    string `gorm:"size:64"`
	FailureMessage string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (o *Order) IsTerminal() bool {
	switch o.Status {
	case OrderPaid, OrderCancelled, OrderRefunded:
		return true
	}
	return false
}

func (o *Order) HasPaymentKey(paymentKey string) bool {
	return o.PaymentKey != nil && *o.PaymentKey == paymentKey
}
