package widget

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"
	"time"
	"totaro-checkout/internal/config"
	"totaro-checkout/internal/model"
	"totaro-checkout/internal/payment"
	"totaro-checkout/internal/testutil"
)

var widgetCfg = &config.Widget{
	SDKURL:          "https://js.tosspayments.com/v2/standard",
	PollAttempts:    50,
	PollInterval:    100 * time.Millisecond,
	DOMPollAttempts: 5,
	DOMPollInterval: 300 * time.Millisecond,
}

func TestStateTransitions(t *testing.T) {
	t.Parallel()

	path := []State{StateIdle, StateSDKLoading, StateSDKLoaded, StateWidgetInitializing, StateReady, StatePaymentRequested, StateRedirected}
	for i := 0; i+1 < len(path); i++ {
		if !CanTransition(path[i], path[i+1]) {
			t.Errorf("Expected %s -> %s", path[i], path[i+1])
		}
		if CanTransition(path[i+1], path[i]) {
			t.Errorf("Unexpected backwards move %s -> %s", path[i+1], path[i])
		}
	}
	for _, s := range path {
		if !CanTransition(s, StateError) {
			t.Errorf("Expected %s -> error", s)
		}
	}
	if CanTransition(StateIdle, StateReady) {
		t.Error("Skipping states should not be allowed")
	}
	if CanTransition(StateError, StateReady) {
		t.Error("Error is terminal")
	}
}

var configPattern = regexp.MustCompile(`const cfg = (\{.*\});`)

func renderCheckout(t *testing.T, o *model.Order) string {
	t.Helper()
	page := NewCheckoutPage(widgetCfg, CheckoutInput{
		Order:      o,
		ClientKey:  "test_ck_abc",
		SuccessURL: "https://totaro.example/payment/success",
		FailURL:    "https://totaro.example/payment/fail",
		Lang:       payment.LangKO,
	})
	var buf bytes.Buffer
	if err := NewRenderer().Render(&buf, "checkout.html", page, nil); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return buf.String()
}

func TestCheckoutPageEmbedsWidgetConfig(t *testing.T) {
	t.Parallel()

	o := testutil.PendingOrder("ORDER_20260102100000_abcDEF12")
	o.Phone = "010-1234-5678"
	html := renderCheckout(t, o)

	for _, want := range []string{`id="payment-method"`, `id="agreement"`, `id="pay-button"`, "₩50,000", o.OrderID} {
		if !strings.Contains(html, want) {
			t.Errorf("Checkout page missing %q", want)
		}
	}

	m := configPattern.FindStringSubmatch(html)
	if m == nil {
		t.Fatalf("Widget config not found in page:\n%s", html)
	}
	var cfg Config
	if err := json.Unmarshal([]byte(m[1]), &cfg); err != nil {
		t.Fatalf("Config is not valid JSON: %v\n%s", err, m[1])
	}

	if cfg.ClientKey != "test_ck_abc" || cfg.CustomerKey != "cust_test" || cfg.Amount != 50000 || cfg.Currency != "KRW" {
		t.Errorf("Unexpected config %+v", cfg)
	}
	if cfg.CustomerMobilePhone != "01012345678" {
		t.Errorf("Expected digits-only phone, got %q", cfg.CustomerMobilePhone)
	}
	if cfg.SDKPoll.MaxAttempts != 50 || cfg.SDKPoll.IntervalMs != 100 || cfg.SDKPoll.ErrorMessage != "SDK not loaded" {
		t.Errorf("Unexpected SDK poll %+v", cfg.SDKPoll)
	}
	if cfg.DOMPoll.MaxAttempts != 5 || cfg.DOMPoll.IntervalMs != 300 || cfg.DOMPoll.ErrorMessage != "DOM not found" {
		t.Errorf("Unexpected DOM poll %+v", cfg.DOMPoll)
	}
	if len(cfg.Transitions[StateIdle]) != 1 || cfg.Transitions[StateIdle][0] != StateSDKLoading {
		t.Errorf("Unexpected transitions %+v", cfg.Transitions)
	}
}

func TestCheckoutPageEscapesOrderFields(t *testing.T) {
	t.Parallel()

	o := testutil.PendingOrder("ORDER_x")
	o.OrderName = `</script><script>alert(1)</script>`
	html := renderCheckout(t, o)

	if strings.Contains(html, "<script>alert(1)") {
		t.Error("Order name must be escaped")
	}
}

func TestCheckoutPageForPaidOrder(t *testing.T) {
	t.Parallel()

	o := testutil.PendingOrder("ORDER_paid")
	o.Status = model.OrderPaid
	html := renderCheckout(t, o)

	if strings.Contains(html, "const cfg") {
		t.Error("Paid orders should not load the widget")
	}
	if !strings.Contains(html, `data-status="PAID"`) {
		t.Error("Expected the order status to be shown")
	}
}

func TestFailPage(t *testing.T) {
	t.Parallel()

	page := NewFailPage(payment.LangEN, "INVALID_CARD_NUMBER", "카드번호를 다시 확인해주세요.", "ORDER_f", "/checkout/ORDER_f")
	var buf bytes.Buffer
	if err := NewRenderer().Render(&buf, "fail.html", page, nil); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	html := buf.String()

	for _, want := range []string{"Please check your card number.", "INVALID_CARD_NUMBER", "ORDER_f", "/checkout/ORDER_f"} {
		if !strings.Contains(html, want) {
			t.Errorf("Fail page missing %q", want)
		}
	}
	if n := strings.Count(html, "<li>"); n != 4 {
		t.Errorf("Expected 4 remediation items, got %d", n)
	}
}

func TestFailPageWithoutCodeUsesGatewayMessage(t *testing.T) {
	t.Parallel()

	page := NewFailPage(payment.LangKO, "", "사용자가 결제를 취소했습니다.", "", "")
	if page.Message != "사용자가 결제를 취소했습니다." {
		t.Errorf("Unexpected message %q", page.Message)
	}
}

func TestSuccessPage(t *testing.T) {
	t.Parallel()

	o := testutil.PendingOrder("ORDER_s")
	o.Status = model.OrderPaid
	o.Method = "카드"
	approved := time.Date(2026, 1, 2, 10, 0, 5, 0, time.UTC)
	o.ApprovedAt = &approved

	var buf bytes.Buffer
	if err := NewRenderer().Render(&buf, "success.html", NewSuccessPage(payment.LangKO, o), nil); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"결제가 완료되었습니다", "ORDER_s", "₩50,000", "카드", "2026-01-02T10:00:05Z"} {
		if !strings.Contains(html, want) {
			t.Errorf("Success page missing %q", want)
		}
	}
}
