package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"totaro-checkout/internal/config"
	"totaro-checkout/internal/model"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ErrMissingSecretKey = errors.New("toss secret key is not configured")

// GatewayError is a non-2xx answer from the gateway, with its own status and code.
type GatewayError struct {
	Status  int
	Code    string
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("toss error %d %s: %s", e.Status, e.Code, e.Message)
}

type TossClient interface {
	ConfirmPayment(ctx context.Context, req ConfirmRequest) (*model.Payment, error)
	CancelPayment(ctx context.Context, paymentKey string, req CancelRequest) (*model.Payment, error)
	GetPayment(ctx context.Context, paymentKey string) (*model.Payment, error)
	GetPaymentByOrderID(ctx context.Context, orderID string) (*model.Payment, error)
}

type ConfirmRequest struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"`
}

type CancelRequest struct {
	CancelReason         string                      `json:"cancelReason"`
	CancelAmount         *int64                      `json:"cancelAmount,omitempty"`
	RefundReceiveAccount *model.RefundReceiveAccount `json:"refundReceiveAccount,omitempty"`
}

type tossClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	secretKey  string
	tracer     trace.Tracer
}

func NewTossClient(tossCfg *config.Toss) TossClient {
	return &tossClientImpl{
		httpClient: &http.Client{
			Timeout: tossCfg.Timeout,
		},
		baseApiURL: tossCfg.BaseApiURL,
		secretKey:  tossCfg.SecretKey,
		tracer:     otel.Tracer("toss-client"),
	}
}

// basicAuth is base64(secretKey + ":"): the secret key is the username, the password is empty.
func basicAuth(secretKey string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(secretKey+":"))
}

func (c *tossClientImpl) ConfirmPayment(ctx context.Context, req ConfirmRequest) (*model.Payment, error) {
	// Same key for every retry of one paymentKey, so the gateway replays its first answer.
	headers := map[string]string{"Idempotency-Key": "confirm-" + req.PaymentKey}
	return c.do(ctx, "ConfirmPayment", http.MethodPost, "/v1/payments/confirm", req, headers)
}

func (c *tossClientImpl) CancelPayment(ctx context.Context, paymentKey string, req CancelRequest) (*model.Payment, error) {
	path := fmt.Sprintf("/v1/payments/%s/cancel", url.PathEscape(paymentKey))
	return c.do(ctx, "CancelPayment", http.MethodPost, path, req, nil)
}

func (c *tossClientImpl) GetPayment(ctx context.Context, paymentKey string) (*model.Payment, error) {
	path := fmt.Sprintf("/v1/payments/%s", url.PathEscape(paymentKey))
	return c.do(ctx, "GetPayment", http.MethodGet, path, nil, nil)
}

func (c *tossClientImpl) GetPaymentByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	path := fmt.Sprintf("/v1/payments/orders/%s", url.PathEscape(orderID))
	return c.do(ctx, "GetPaymentByOrderID", http.MethodGet, path, nil, nil)
}

func (c *tossClientImpl) do(ctx context.Context, op, method, path string, payload any, headers map[string]string) (*model.Payment, error) {
	if c.secretKey == "" {
		return nil, ErrMissingSecretKey
	}

	ctx, span := c.tracer.Start(ctx, "toss."+op, trace.WithAttributes(attribute.String("http.method", method)))
	defer span.End()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal req payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseApiURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", basicAuth(c.secretKey))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("toss %s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read toss response: %w", err)
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		gwErr := &GatewayError{Status: resp.StatusCode}
		var e struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &e) == nil {
			gwErr.Code = e.Code
			gwErr.Message = e.Message
		}
		if gwErr.Code == "" {
			gwErr.Code = "UNKNOWN_PAYMENT_ERROR"
			gwErr.Message = string(raw)
		}
		span.SetStatus(codes.Error, gwErr.Code)
		return nil, gwErr
	}

	var payment model.Payment
	if err := json.Unmarshal(raw, &payment); err != nil {
		return nil, fmt.Errorf("decode toss response: %w", err)
	}
	payment.Raw = json.RawMessage(raw)

	return &payment, nil
}
