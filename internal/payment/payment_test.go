package payment

import (
	"errors"
	"math"
	"regexp"
	"testing"
	"time"
)

var orderIDPattern = regexp.MustCompile(`^ORDER_\d{14}_[A-Za-z0-9_-]{8}$`)

func TestGenerateOrderIDFormat(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 9, 14, 5, 7, 0, time.UTC)
	id := GenerateOrderID(now)

	if !orderIDPattern.MatchString(id) {
		t.Fatalf("Order id %q does not match pattern", id)
	}
	if id[:20] != "ORDER_20260309140507" {
		t.Errorf("Expected timestamp prefix ORDER_20260309140507, got %s", id[:20])
	}
}

func TestNewOrderIDNoCollisions(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id := NewOrderID()
		if !orderIDPattern.MatchString(id) {
			t.Fatalf("Order id %q does not match pattern", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("Duplicate order id %q after %d calls", id, i)
		}
		seen[id] = struct{}{}
	}
}

func TestValidatePaymentAmountBoundaries(t *testing.T) {
	t.Parallel()

	minimums := map[string]int64{"KRW": 100, "USD": 1, "JPY": 100}
	for currency, minimum := range minimums {
		if r := ValidatePaymentAmount(minimum, currency); !r.Valid {
			t.Errorf("%s: expected boundary %d to be valid, got error %q", currency, minimum, r.Error)
		}
		if r := ValidatePaymentAmount(minimum-1, currency); r.Valid || r.Error == "" {
			t.Errorf("%s: expected %d to be rejected", currency, minimum-1)
		}
		if r := ValidatePaymentAmount(minimum*1000, currency); !r.Valid {
			t.Errorf("%s: expected %d to be valid", currency, minimum*1000)
		}
	}

	if r := ValidatePaymentAmount(-5, "krw"); r.Valid {
		t.Error("Expected negative amount to be rejected")
	}
	if r := ValidatePaymentAmount(1000, "EUR"); r.Valid {
		t.Error("Expected unsupported currency to be rejected")
	}
}

func TestFormatPrice(t *testing.T) {
	t.Parallel()

	cases := []struct {
		amount   int64
		currency string
		want     string
	}{
		{50000, "KRW", "₩50,000"},
		{1234, "USD", "$1,234.00"},
		{3000, "JPY", "¥3,000"},
		{100, "krw", "₩100"},
		{-1500, "KRW", "-₩1,500"},
	}
	for _, tc := range cases {
		if got := FormatPrice(tc.amount, tc.currency); got != tc.want {
			t.Errorf("FormatPrice(%d, %s) = %q, want %q", tc.amount, tc.currency, got, tc.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]int64{"50000": 50000, " 100 ": 100, "1e3": 1000, "1200.00": 1200, "9223372036854775807": math.MaxInt64} {
		got, err := ParseAmount(in)
		if err != nil {
			t.Errorf("ParseAmount(%q) failed: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseAmount(%q) = %d, want %d", in, got, want)
		}
	}

	for _, in := range []string{"", "abc", "10.5", "0", "-100", "9223372036854775808", "18446744073709551716", "1e30"} {
		if _, err := ParseAmount(in); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("ParseAmount(%q): expected ErrInvalidAmount, got %v", in, err)
		}
	}
}

func TestErrorMessageKnownCodes(t *testing.T) {
	t.Parallel()

	codes := ErrorCodes()
	if len(codes) < 30 {
		t.Fatalf("Expected at least 30 mapped codes, got %d", len(codes))
	}

	for _, code := range codes {
		entry := loadTable().Codes[code]
		if entry.KO == "" || entry.EN == "" {
			t.Errorf("Code %s is missing a translation", code)
		}
		if got := ErrorMessage(code, LangKO); got != entry.KO {
			t.Errorf("ErrorMessage(%s, ko) = %q, want %q", code, got, entry.KO)
		}
		if got := ErrorMessage(code, LangEN); got != entry.EN {
			t.Errorf("ErrorMessage(%s, en) = %q, want %q", code, got, entry.EN)
		}
	}

	if got := ErrorMessage("REJECT_CARD_PAYMENT", LangKO); got != "한도초과 혹은 잔액부족으로 결제에 실패했습니다." {
		t.Errorf("Unexpected ko message for REJECT_CARD_PAYMENT: %q", got)
	}
	if got := ErrorMessage("INVALID_CARD_NUMBER", LangEN); got != "Please check your card number." {
		t.Errorf("Unexpected en message for INVALID_CARD_NUMBER: %q", got)
	}
}

func TestErrorMessageRejectedCardAlias(t *testing.T) {
	t.Parallel()

	if !KnownErrorCode("REJECTED_CARD_PAYMENT") {
		t.Fatal("Expected REJECTED_CARD_PAYMENT to be mapped")
	}
	for _, lang := range []string{LangKO, LangEN} {
		if got, want := ErrorMessage("REJECTED_CARD_PAYMENT", lang), ErrorMessage("REJECT_CARD_PAYMENT", lang); got != want {
			t.Errorf("Expected %s alias to match REJECT_CARD_PAYMENT %q, got %q", lang, want, got)
		}
	}
}

func TestErrorMessageFallback(t *testing.T) {
	t.Parallel()

	ko := ErrorMessage("SOMETHING_NEW", LangKO)
	en := ErrorMessage("SOMETHING_NEW", LangEN)
	if ko == "" || en == "" {
		t.Fatal("Expected non-empty fallback messages")
	}
	if ko == en {
		t.Error("Expected fallback to be localized")
	}
	if KnownErrorCode("SOMETHING_NEW") {
		t.Error("Expected SOMETHING_NEW to be unknown")
	}
	if got := ErrorMessage("INVALID_REQUEST", "fr"); got != ErrorMessage("INVALID_REQUEST", LangKO) {
		t.Errorf("Expected unknown language to fall back to ko, got %q", got)
	}
}

func TestLang(t *testing.T) {
	t.Parallel()

	cases := []struct {
		accept, override, want string
	}{
		{"", "", LangKO},
		{"en-US,en;q=0.9", "", LangEN},
		{"ko-KR,ko;q=0.9,en;q=0.8", "", LangKO},
		{"en-US", "ko", LangKO},
		{"", "EN", LangEN},
		{"not a header;;", "", LangKO},
	}
	for _, tc := range cases {
		if got := Lang(tc.accept, tc.override); got != tc.want {
			t.Errorf("Lang(%q, %q) = %q, want %q", tc.accept, tc.override, got, tc.want)
		}
	}
}
