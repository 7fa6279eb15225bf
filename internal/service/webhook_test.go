package service

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"totaro-checkout/internal/model"
	"totaro-checkout/internal/testutil"
)

func (f *fixture) webhooks(secret string) WebhookService {
	return NewWebhookService(f.db, secret, f.orders, f.cancels, f.events, f.publisher, f.notifier)
}

func statusChangedBody(paymentKey, orderID string, status model.PaymentStatus) []byte {
	return []byte(fmt.Sprintf(`{"eventType":"PAYMENT_STATUS_CHANGED","createdAt":"2026-01-02T10:00:06.000000","data":%s}`,
		testutil.PaymentJSON(paymentKey, orderID, status, 50000)))
}

func countEvents(t *testing.T, f *fixture) int64 {
	t.Helper()
	var n int64
	f.db.Model(&model.WebhookEvent{}).Count(&n)
	return n
}

func TestWebhookUnknownEventIsIgnored(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	body := []byte(`{"eventType":"DEPOSIT_CALLBACK","createdAt":"2026-01-02T10:00:00","data":{"orderId":"ORDER_x"}}`)
	if err := f.webhooks("").HandleWebhook(context.Background(), http.Header{}, body); err != nil {
		t.Fatalf("Unknown event type should not fail, got %v", err)
	}
	if countEvents(t, f) != 1 {
		t.Error("Expected the event to be recorded")
	}
}

func TestWebhookStatusChangedPaysOrder(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.createOrder(t, "ORDER_1")

	if err := f.webhooks("").HandleWebhook(context.Background(), http.Header{}, statusChangedBody("pk_1", "ORDER_1", model.PaymentDone)); err != nil {
		t.Fatalf("HandleWebhook failed: %v", err)
	}

	o := f.order(t, "ORDER_1")
	if o.Status != model.OrderPaid || !o.HasPaymentKey("pk_1") {
		t.Errorf("Expected order PAID by webhook, got %+v", o)
	}
	var ev model.WebhookEvent
	f.db.First(&ev)
	if ev.ProcessedAt == nil || ev.ProcessingError != "" || ev.SignatureValid {
		t.Errorf("Unexpected webhook event row %+v", ev)
	}
	if len(f.publisher.Events()) != 1 {
		t.Errorf("Expected one event, got %d", len(f.publisher.Events()))
	}
}

func TestWebhookDuplicateDeliveryIsSkipped(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.createOrder(t, "ORDER_2")
	svc := f.webhooks("")
	body := statusChangedBody("pk_2", "ORDER_2", model.PaymentDone)

	for i := 0; i < 2; i++ {
		if err := svc.HandleWebhook(context.Background(), http.Header{}, body); err != nil {
			t.Fatalf("Delivery %d failed: %v", i, err)
		}
	}

	if countEvents(t, f) != 1 {
		t.Errorf("Expected one stored event, got %d", countEvents(t, f))
	}
	if len(f.publisher.Events()) != 1 {
		t.Errorf("Duplicate delivery should not publish again, got %d events", len(f.publisher.Events()))
	}
}

func TestWebhookLateStatusNeverDowngradesPaid(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.createOrder(t, "ORDER_3", paidWith("pk_3"))

	if err := f.webhooks("").HandleWebhook(context.Background(), http.Header{}, statusChangedBody("pk_3", "ORDER_3", model.PaymentInProgress)); err != nil {
		t.Fatalf("HandleWebhook failed: %v", err)
	}
	if o := f.order(t, "ORDER_3"); o.Status != model.OrderPaid {
		t.Errorf("Late IN_PROGRESS must not downgrade a paid order, got %s", o.Status)
	}
}

func TestWebhookUnknownOrderIsRecorded(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	err := f.webhooks("").HandleWebhook(context.Background(), http.Header{}, statusChangedBody("pk_none", "ORDER_none", model.PaymentDone))
	if err == nil {
		t.Fatal("Expected an error for an unknown order")
	}

	var ev model.WebhookEvent
	f.db.First(&ev)
	if ev.ProcessingError == "" || ev.ProcessedAt == nil {
		t.Errorf("Expected processing error on the event row, got %+v", ev)
	}
}

func TestWebhookSignature(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.createOrder(t, "ORDER_4")
	svc := f.webhooks("whsec_test")
	body := statusChangedBody("pk_4", "ORDER_4", model.PaymentDone)

	bad := http.Header{}
	bad.Set(SignatureHeader, SignWebhook("wrong", body))
	if err := svc.HandleWebhook(context.Background(), bad, body); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("Expected ErrInvalidSignature, got %v", err)
	}
	if err := svc.HandleWebhook(context.Background(), http.Header{}, body); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("Expected missing signature to be rejected, got %v", err)
	}
	if o := f.order(t, "ORDER_4"); o.Status != model.OrderPending {
		t.Fatalf("Unsigned webhook must not change the order, got %s", o.Status)
	}
	if countEvents(t, f) != 0 {
		t.Error("Rejected deliveries must not be recorded")
	}

	good := http.Header{}
	good.Set(SignatureHeader, SignWebhook("whsec_test", body))
	if err := svc.HandleWebhook(context.Background(), good, body); err != nil {
		t.Fatalf("Signed webhook failed: %v", err)
	}
	if o := f.order(t, "ORDER_4"); o.Status != model.OrderPaid {
		t.Errorf("Expected PAID, got %s", o.Status)
	}
}

func TestVerifySignatureFormats(t *testing.T) {
	t.Parallel()

	body := []byte(`{"eventType":"PAYMENT_STATUS_CHANGED"}`)
	hexSig := SignWebhook("s3cr3t", body)
	raw, _ := hex.DecodeString(hexSig)
	b64Sig := base64.StdEncoding.EncodeToString(raw)

	for _, header := range []string{hexSig, b64Sig, "v1:" + hexSig, "v1:bogus, v1:" + b64Sig} {
		if !VerifySignature("s3cr3t", body, header) {
			t.Errorf("Expected %q to verify", header)
		}
	}
	for _, header := range []string{"", "bogus", SignWebhook("other", body)} {
		if VerifySignature("s3cr3t", body, header) {
			t.Errorf("Expected %q to be rejected", header)
		}
	}
}
