package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"totaro-checkout/internal/event"
	"totaro-checkout/internal/model"
	"totaro-checkout/internal/repository"
	"totaro-checkout/internal/sender"

	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const SignatureHeader = "toss-signature"

var ErrInvalidSignature = errors.New("invalid webhook signature")

type WebhookService interface {
	// HandleWebhook processes one delivery. The returned error is for logging;
	// the endpoint answers 200 either way.
	HandleWebhook(ctx context.Context, headers http.Header, body []byte) error
}

type webhookServiceImpl struct {
	secret           string
	webhookEventRepo repository.WebhookEventRepository
	syncer           *orderSyncer
}

func NewWebhookService(
	db *gorm.DB,
	secret string,
	orderRepo repository.OrderRepository,
	cancelRepo repository.CancelRepository,
	webhookEventRepo repository.WebhookEventRepository,
	publisher event.Publisher,
	notifier sender.Notifier,
) WebhookService {
	return &webhookServiceImpl{
		secret:           secret,
		webhookEventRepo: webhookEventRepo,
		syncer:           newOrderSyncer(db, orderRepo, cancelRepo, publisher, notifier),
	}
}

// SignWebhook returns the hex HMAC-SHA256 of body, as sent in toss-signature.
func SignWebhook(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature accepts a hex or base64 HMAC-SHA256 of body. The header may
// carry several comma separated signatures, optionally prefixed with "v1:".
func VerifySignature(secret string, body []byte, header string) bool {
	if header == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := mac.Sum(nil)

	for _, sig := range strings.Split(header, ",") {
		sig = strings.TrimSpace(sig)
		sig = strings.TrimPrefix(sig, "v1:")
		if got, err := hex.DecodeString(sig); err == nil && hmac.Equal(got, expected) {
			return true
		}
		if got, err := base64.StdEncoding.DecodeString(sig); err == nil && hmac.Equal(got, expected) {
			return true
		}
	}
	return false
}

type webhookData struct {
	PaymentKey string              `json:"paymentKey"`
	OrderID    string              `json:"orderId"`
	Status     model.PaymentStatus `json:"status"`
}

func webhookEventID(payload *model.WebhookPayload, data *webhookData) string {
	sum := sha256.Sum256([]byte(strings.Join([]string{
		payload.EventType, payload.CreatedAt, data.PaymentKey, string(data.Status),
	}, "|")))
	return hex.EncodeToString(sum[:])
}

func (s *webhookServiceImpl) HandleWebhook(ctx context.Context, headers http.Header, body []byte) error {
	signatureValid := false
	if s.secret == "" {
		log.Warn("TOSS_WEBHOOK_SECRET is not set, accepting webhook without signature verification")
	} else {
		signatureValid = VerifySignature(s.secret, body, headers.Get(SignatureHeader))
		if !signatureValid {
			return ErrInvalidSignature
		}
	}

	var payload model.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("decode webhook payload: %w", err)
	}

	var data webhookData
	if len(payload.Data) > 0 {
		if err := json.Unmarshal(payload.Data, &data); err != nil {
			return fmt.Errorf("decode webhook data: %w", err)
		}
	}

	logger := log.WithFields(log.Fields{
		"event_type":  payload.EventType,
		"order_id":    data.OrderID,
		"payment_key": data.PaymentKey,
		"status":      data.Status,
	})

	ev := &model.WebhookEvent{
		EventID:        webhookEventID(&payload, &data),
		EventType:      payload.EventType,
		PaymentKey:     data.PaymentKey,
		OrderID:        data.OrderID,
		Payload:        datatypes.JSON(body),
		SignatureValid: signatureValid,
	}
	inserted, err := s.webhookEventRepo.Record(ctx, ev)
	if err != nil {
		return fmt.Errorf("record webhook event: %w", err)
	}
	if !inserted {
		logger.Info("Duplicate webhook event, skipping")
		return nil
	}

	var processErr error
	switch payload.EventType {
	case model.EventPaymentStatusChanged:
		processErr = s.syncPaymentStatus(ctx, payload.Data)
	default:
		logger.Info("Ignoring unhandled webhook event type")
	}

	if err := s.webhookEventRepo.MarkProcessed(ctx, ev.EventID, processErr); err != nil {
		logger.WithError(err).Error("Failed to mark webhook event processed")
	}
	if processErr != nil {
		return fmt.Errorf("handle %s: %w", payload.EventType, processErr)
	}
	return nil
}

func (s *webhookServiceImpl) syncPaymentStatus(ctx context.Context, data json.RawMessage) error {
	var p model.Payment
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode payment: %w", err)
	}
	p.Raw = data
	if p.PaymentKey == "" && p.OrderID == "" {
		return fmt.Errorf("payment has neither paymentKey nor orderId")
	}

	order, err := s.syncer.findOrder(ctx, &p)
	if err != nil {
		return fmt.Errorf("find order: %w", err)
	}

	res, err := s.syncer.apply(ctx, order, &p)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"order_id":       res.Order.OrderID,
		"gateway_status": p.Status,
		"order_status":   res.Order.Status,
		"changed":        res.Changed,
	}).Info("Order synced from webhook")
	return nil
}
