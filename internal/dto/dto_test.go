package dto

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestAmountAcceptsStringAndNumber(t *testing.T) {
	t.Parallel()

	for _, body := range []string{
		`{"paymentKey":"pk","orderId":"o","amount":50000}`,
		`{"paymentKey":"pk","orderId":"o","amount":"50000"}`,
		`{"paymentKey":"pk","orderId":"o","amount":" 50000 "}`,
	} {
		var req ConfirmRequest
		if err := json.Unmarshal([]byte(body), &req); err != nil {
			t.Fatalf("Unmarshal %s failed: %v", body, err)
		}
		amount, err := req.Validate()
		if err != nil {
			t.Errorf("Validate %s failed: %v", body, err)
		}
		if amount != 50000 {
			t.Errorf("Expected 50000 from %s, got %d", body, amount)
		}
	}
}

func TestConfirmRequestFieldErrors(t *testing.T) {
	t.Parallel()

	var req ConfirmRequest
	_ = json.Unmarshal([]byte(`{"orderId":"","amount":"12.5"}`), &req)

	_, err := req.Validate()
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	for _, field := range []string{"paymentKey", "orderId", "amount"} {
		if vErr.Fields[field] == "" {
			t.Errorf("Expected an error for %s, got %v", field, vErr.Fields)
		}
	}
}

func TestCreateOrderRequestMinimum(t *testing.T) {
	t.Parallel()

	req := CreateOrderRequest{
		Name: "Kim", Email: "kim@example.com", Plan: "pro", OrderName: "Pro",
		Price: NewAmount("99"), Currency: "KRW",
	}
	_, err := req.Validate()
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Fields["price"] == "" {
		t.Fatalf("Expected price error, got %v", err)
	}

	req.Price = NewAmount("100")
	if price, err := req.Validate(); err != nil || price != 100 {
		t.Errorf("Expected boundary to pass, got price=%d err=%v", price, err)
	}
}

func TestCreateOrderRequestPriceOverflow(t *testing.T) {
	t.Parallel()

	for _, price := range []string{"9223372036854775808", "18446744073709551716", "1e30"} {
		req := CreateOrderRequest{
			Name: "Kim", Email: "kim@example.com", Plan: "pro", OrderName: "Pro",
			Price: NewAmount(price), Currency: "KRW",
		}
		got, err := req.Validate()
		var vErr *ValidationError
		if !errors.As(err, &vErr) || vErr.Fields["price"] == "" {
			t.Errorf("Expected price error for %s, got price=%d err=%v", price, got, err)
		}
	}
}

func TestConfirmRequestAmountOverflow(t *testing.T) {
	t.Parallel()

	var req ConfirmRequest
	if err := json.Unmarshal([]byte(`{"paymentKey":"pk","orderId":"o","amount":18446744073709551716}`), &req); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	amount, err := req.Validate()
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Fields["amount"] == "" {
		t.Errorf("Expected amount error, got amount=%d err=%v", amount, err)
	}
}

func TestCreateOrderRequestEmail(t *testing.T) {
	t.Parallel()

	req := CreateOrderRequest{Name: "Kim", Email: "not-an-email", Plan: "pro", OrderName: "Pro", Price: NewAmount("1000"), Currency: "KRW"}
	_, err := req.Validate()
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Fields["email"] != ErrInvalidEmailFormat.Error() {
		t.Errorf("Expected email format error, got %v", err)
	}
}

func TestCancelRequestPartial(t *testing.T) {
	t.Parallel()

	var req CancelRequest
	_ = json.Unmarshal([]byte(`{"paymentKey":"pk","cancelReason":"customer request","cancelAmount":"1000"}`), &req)
	amount, err := req.Validate()
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if amount == nil || *amount != 1000 {
		t.Errorf("Expected partial amount 1000, got %v", amount)
	}

	full := CancelRequest{PaymentKey: "pk", CancelReason: "customer request"}
	amount, err = full.Validate()
	if err != nil || amount != nil {
		t.Errorf("Expected full cancel, got amount=%v err=%v", amount, err)
	}
}

func TestCancelRequestRefundAccountIncomplete(t *testing.T) {
	t.Parallel()

	req := CancelRequest{PaymentKey: "pk", CancelReason: "r", RefundReceiveAccount: &RefundAccount{Bank: "88"}}
	_, err := req.Validate()
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if vErr.Fields["refundReceiveAccount.accountNumber"] == "" || vErr.Fields["refundReceiveAccount.holderName"] == "" {
		t.Errorf("Expected account field errors, got %v", vErr.Fields)
	}
}

func TestValidationErrorMessageIsSorted(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Fields: map[string]string{"orderId": "is required", "amount": "is required"}}
	if got := err.Error(); got != "validation failed: amount: is required, orderId: is required" {
		t.Errorf("Unexpected message %q", got)
	}
}
