package testutil

import (
	"fmt"
	"time"
	"totaro-checkout/internal/model"
)

// PendingOrder returns a checkout-form order for 50,000 KRW.
func PendingOrder(orderID string) *model.Order {
	return &model.Order{
		OrderID:     orderID,
		Name:        "Kim Minji",
		Email:       "minji@example.com",
		Company:     "Totaro Trading",
		Plan:        "pro",
		OrderName:   "Export Pro (monthly)",
		Price:       50000,
		Currency:    "KRW",
		CustomerKey: "cust_test",
		Status:      model.OrderPending,
		CreatedAt:   time.Now(),
	}
}

// PaymentJSON builds a minimal gateway payment body.
func PaymentJSON(paymentKey, orderID string, status model.PaymentStatus, amount int64) string {
	return fmt.Sprintf(`{"paymentKey":%q,"orderId":%q,"orderName":"Export Pro (monthly)","status":%q,"method":"카드",`+
		`"currency":"KRW","totalAmount":%d,"balanceAmount":%d,"requestedAt":"2026-01-02T10:00:00+09:00",`+
		`"approvedAt":"2026-01-02T10:00:05+09:00"}`, paymentKey, orderID, status, amount, amount)
}
