package model

import "encoding/json"

type PaymentStatus string

const (
	PaymentReady             PaymentStatus = "READY"
	PaymentInProgress        PaymentStatus = "IN_PROGRESS"
	PaymentWaitingForDeposit PaymentStatus = "WAITING_FOR_DEPOSIT"
	PaymentDone              PaymentStatus = "DONE"
	PaymentCanceled          PaymentStatus = "CANCELED"
	PaymentPartialCanceled   PaymentStatus = "PARTIAL_CANCELED"
	PaymentAborted           PaymentStatus = "ABORTED"
	PaymentExpired           PaymentStatus = "EXPIRED"
)

type Card struct {
	IssuerCode            string `json:"issuerCode"`
	AcquirerCode          string `json:"acquirerCode"`
	Number                string `json:"number"`
	InstallmentPlanMonths int    `json:"installmentPlanMonths"`
	ApproveNo             string `json:"approveNo"`
	CardType              string `json:"cardType"`
	OwnerType             string `json:"ownerType"`
	AcquireStatus         string `json:"acquireStatus"`
	Amount                int64  `json:"amount"`
}

type VirtualAccount struct {
	AccountType      string `json:"accountType"`
	AccountNumber    string `json:"accountNumber"`
	BankCode         string `json:"bankCode"`
	CustomerName     string `json:"customerName"`
	DueDate          string `json:"dueDate"`
	RefundStatus     string `json:"refundStatus"`
	Expired          bool   `json:"expired"`
	SettlementStatus string `json:"settlementStatus"`
}

type Transfer struct {
	BankCode         string `json:"bankCode"`
	SettlementStatus string `json:"settlementStatus"`
}

type EasyPay struct {
	Provider       string `json:"provider"`
	Amount         int64  `json:"amount"`
	DiscountAmount int64  `json:"discountAmount"`
}

type Cancel struct {
	CancelAmount     int64  `json:"cancelAmount"`
	CancelReason     string `json:"cancelReason"`
	TaxFreeAmount    int64  `json:"taxFreeAmount"`
	RefundableAmount int64  `json:"refundableAmount"`
	CanceledAt       string `json:"canceledAt"`
	TransactionKey   string `json:"transactionKey"`
	ReceiptKey       string `json:"receiptKey,omitempty"`
	CancelStatus     string `json:"cancelStatus,omitempty"`
}

type Failure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Receipt struct {
	URL string `json:"url"`
}

// Payment is the gateway's payment object as returned by confirm, cancel and
// get-payment. This service only reads it.
type Payment struct {
	MID                string          `json:"mId,omitempty"`
	LastTransactionKey string          `json:"lastTransactionKey,omitempty"`
	PaymentKey         string          `json:"paymentKey"`
	OrderID            string          `json:"orderId"`
	OrderName          string          `json:"orderName"`
	Status             PaymentStatus   `json:"status"`
	Method             string          `json:"method"`
	Currency           string          `json:"currency"`
	TotalAmount        int64           `json:"totalAmount"`
	BalanceAmount      int64           `json:"balanceAmount"`
	RequestedAt        string          `json:"requestedAt"`
	ApprovedAt         string          `json:"approvedAt,omitempty"`
	Cancels            []Cancel        `json:"cancels,omitempty"`
	Card               *Card           `json:"card,omitempty"`
	VirtualAccount     *VirtualAccount `json:"virtualAccount,omitempty"`
	Transfer           *Transfer       `json:"transfer,omitempty"`
	EasyPay            *EasyPay        `json:"easyPay,omitempty"`
	Failure            *Failure        `json:"failure,omitempty"`
	Receipt            *Receipt        `json:"receipt,omitempty"`

	// Raw keeps the exact response body so it can be stored and echoed verbatim.
	Raw json.RawMessage `json:"-"`
}

type RefundReceiveAccount struct {
	Bank          string `json:"bank"`
	AccountNumber string `json:"accountNumber"`
	HolderName    string `json:"holderName"`
}

type WebhookPayload struct {
	EventType string          `json:"eventType"`
	CreatedAt string          `json:"createdAt"`
	Data      json.RawMessage `json:"data"`
}

const EventPaymentStatusChanged = "PAYMENT_STATUS_CHANGED"
