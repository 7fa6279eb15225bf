package dto

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
	"totaro-checkout/internal/model"
	"totaro-checkout/internal/payment"
)

type ConfirmRequest struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Amount     Amount `json:"amount"`
}

// Validate checks the request shape and returns the normalized amount.
func (r *ConfirmRequest) Validate() (int64, error) {
	errs := fieldErrors{}
	errs.add("paymentKey", ValidateRequired(r.PaymentKey))
	errs.add("paymentKey", ValidateMaxLen(r.PaymentKey, 200))
	errs.add("orderId", ValidateRequired(r.OrderID))
	errs.add("orderId", ValidateMaxLen(r.OrderID, 64))

	amount, err := requiredAmount(r.Amount)
	errs.add("amount", err)

	return amount, errs.err()
}

func requiredAmount(a Amount) (int64, error) {
	if a.Empty() {
		return 0, ErrRequired
	}
	return a.Int64()
}

type CreateOrderRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	Phone     string `json:"phone"`
	Plan      string `json:"plan"`
	OrderName string `json:"orderName"`
	Price     Amount `json:"price"`
	Currency  string `json:"currency"`
	Message   string `json:"message"`
}

// Validate checks the checkout form and returns the normalized price.
func (r *CreateOrderRequest) Validate() (int64, error) {
	errs := fieldErrors{}
	errs.add("name", ValidateRequired(r.Name))
	errs.add("name", ValidateMaxLen(r.Name, 128))
	errs.add("email", ValidateEmail(r.Email))
	errs.add("company", ValidateMaxLen(r.Company, 255))
	errs.add("phone", ValidateMaxLen(r.Phone, 32))
	errs.add("plan", ValidateRequired(r.Plan))
	errs.add("orderName", ValidateRequired(r.OrderName))
	errs.add("orderName", ValidateMaxLen(r.OrderName, 100))
	errs.add("currency", ValidateRequired(r.Currency))

	price, err := requiredAmount(r.Price)
	errs.add("price", err)
	if err == nil && r.Currency != "" {
		if res := payment.ValidatePaymentAmount(price, r.Currency); !res.Valid {
			errs.add("price", errors.New(res.Error))
		}
	}

	return price, errs.err()
}

type RefundAccount struct {
	Bank          string `json:"bank"`
	AccountNumber string `json:"accountNumber"`
	HolderName    string `json:"holderName"`
}

type CancelRequest struct {
	PaymentKey           string         `json:"paymentKey"`
	CancelReason         string         `json:"cancelReason"`
	CancelAmount         *Amount        `json:"cancelAmount,omitempty"`
	RefundReceiveAccount *RefundAccount `json:"refundReceiveAccount,omitempty"`
}

// Validate returns the partial cancel amount, nil for a full cancel.
func (r *CancelRequest) Validate() (*int64, error) {
	errs := fieldErrors{}
	errs.add("paymentKey", ValidateRequired(r.PaymentKey))
	errs.add("cancelReason", ValidateRequired(r.CancelReason))
	errs.add("cancelReason", ValidateMaxLen(r.CancelReason, 200))

	var amount *int64
	if r.CancelAmount != nil && !r.CancelAmount.Empty() {
		v, err := r.CancelAmount.Int64()
		errs.add("cancelAmount", err)
		if err == nil {
			amount = &v
		}
	}

	if acc := r.RefundReceiveAccount; acc != nil {
		errs.add("refundReceiveAccount.bank", ValidateRequired(acc.Bank))
		errs.add("refundReceiveAccount.accountNumber", ValidateRequired(acc.AccountNumber))
		errs.add("refundReceiveAccount.holderName", ValidateRequired(acc.HolderName))
	}

	return amount, errs.err()
}

func (r *CancelRequest) RefundAccount() *model.RefundReceiveAccount {
	if r.RefundReceiveAccount == nil {
		return nil
	}
	return &model.RefundReceiveAccount{
		Bank:          strings.TrimSpace(r.RefundReceiveAccount.Bank),
		AccountNumber: strings.TrimSpace(r.RefundReceiveAccount.AccountNumber),
		HolderName:    strings.TrimSpace(r.RefundReceiveAccount.HolderName),
	}
}

type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type ConfirmResponse struct {
	Success bool            `json:"success"`
	OrderID string          `json:"orderId"`
	Payment json.RawMessage `json:"payment"`
}

type CreateOrderResponse struct {
	OrderID        string `json:"orderId"`
	OrderName      string `json:"orderName"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	FormattedPrice string `json:"formattedPrice"`
	CustomerKey    string `json:"customerKey"`
	ClientKey      string `json:"clientKey"`
	SuccessURL     string `json:"successUrl"`
	FailURL        string `json:"failUrl"`
	CheckoutURL    string `json:"checkoutUrl"`
}

type OrderStatusResponse struct {
	OrderID        string            `json:"orderId"`
	Status         model.OrderStatus `json:"status"`
	Amount         int64             `json:"amount"`
	Currency       string            `json:"currency"`
	FormattedPrice string            `json:"formattedPrice"`
	Method         string            `json:"method,omitempty"`
	ApprovedAt     *time.Time        `json:"approvedAt,omitempty"`
	FailureCode    string            `json:"failureCode,omitempty"`
	FailureMessage string            `json:"failureMessage,omitempty"`
}

func NewOrderStatusResponse(o *model.Order) *OrderStatusResponse {
	return &OrderStatusResponse{
		OrderID:        o.OrderID,
		Status:         o.Status,
		Amount:         o.Price,
		Currency:       o.Currency,
		FormattedPrice: payment.FormatPrice(o.Price, o.Currency),
		Method:         o.Method,
		ApprovedAt:     o.ApprovedAt,
		FailureCode:    o.FailureCode,
		FailureMessage: o.FailureMessage,
	}
}

type CancelResponse struct {
	Status  model.PaymentStatus `json:"status"`
	Cancels []model.Cancel      `json:"cancels"`
}

type WebhookResponse struct {
	Success bool `json:"success"`
}
