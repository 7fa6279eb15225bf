package widget

import "totaro-checkout/internal/payment"

// Text holds the page copy for one language.
type Text struct {
	CheckoutTitle string
	Pay           string
	Loading       string
	NotPayable    string
	Retry         string
	SuccessTitle  string
	SuccessBody   string
	Redirecting   string
	FailTitle     string
	OrderID       string
	Amount        string
	Method        string
	ApprovedAt    string
	ErrorCode     string
	Remediation   string
	Suggestions   []string
	TryAgain      string
	BackHome      string
}

var pageText = map[string]Text{
	payment.LangKO: {
		CheckoutTitle: "결제하기",
		Pay:           "결제하기",
		Loading:       "결제 위젯을 불러오는 중입니다...",
		NotPayable:    "이 주문은 결제할 수 없는 상태입니다.",
		Retry:         "다시 시도",
		SuccessTitle:  "결제가 완료되었습니다",
		SuccessBody:   "결제가 정상적으로 처리되었습니다. 영수증은 이메일로 발송됩니다.",
		Redirecting:   "초 후 홈으로 이동합니다.",
		FailTitle:     "결제에 실패했습니다",
		OrderID:       "주문번호",
		Amount:        "결제금액",
		Method:        "결제수단",
		ApprovedAt:    "승인일시",
		ErrorCode:     "오류 코드",
		Remediation:   "다음을 확인해주세요",
		Suggestions: []string{
			"카드 한도 또는 계좌 잔액이 충분한지 확인해주세요.",
			"카드 번호, 유효기간, CVC 등 카드 정보를 다시 확인해주세요.",
			"카드가 정지되었거나 해외 결제가 차단되지 않았는지 카드사에 문의해주세요.",
			"본인인증이 완료되었는지 확인하고 다시 시도해주세요.",
		},
		TryAgain: "다시 결제하기",
		BackHome: "홈으로",
	},
	payment.LangEN: {
		CheckoutTitle: "Checkout",
		Pay:           "Pay now",
		Loading:       "Loading the payment widget...",
		NotPayable:    "This order can no longer be paid.",
		Retry:         "Try again",
		SuccessTitle:  "Payment complete",
		SuccessBody:   "Your payment was processed. A receipt is on its way to your inbox.",
		Redirecting:   "seconds until you return to the homepage.",
		FailTitle:     "Payment failed",
		OrderID:       "Order ID",
		Amount:        "Amount",
		Method:        "Payment method",
		ApprovedAt:    "Approved at",
		ErrorCode:     "Error code",
		Remediation:   "Please check the following",
		Suggestions: []string{
			"Make sure your card limit or account balance is sufficient.",
			"Double-check the card number, expiry date and CVC.",
			"Ask your card issuer whether the card is blocked or overseas payments are disabled.",
			"Complete identity verification and try again.",
		},
		TryAgain: "Try payment again",
		BackHome: "Back to home",
	},
}

func texts(lang string) Text {
	if t, ok := pageText[lang]; ok {
		return t
	}
	return pageText[payment.LangKO]
}
