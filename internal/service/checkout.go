package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"totaro-checkout/internal/model"
	"totaro-checkout/internal/payment"
	"totaro-checkout/internal/repository"

	log "github.com/sirupsen/logrus"
)

type CreateOrderInput struct {
	Name      string
	Email     string
	Company   string
	Phone     string
	Plan      string
	OrderName string
	Price     int64
	Currency  string
	Message   string
}

// CheckoutSession is everything the widget page needs to start a payment.
type CheckoutSession struct {
	Order       *model.Order
	ClientKey   string
	SuccessURL  string
	FailURL     string
	CheckoutURL string
}

type CheckoutService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*CheckoutSession, error)
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	Session(order *model.Order) *CheckoutSession
}

type checkoutServiceImpl struct {
	orderRepo repository.OrderRepository
	clientKey string
	baseURL   string
}

func NewCheckoutService(orderRepo repository.OrderRepository, clientKey, baseURL string) CheckoutService {
	return &checkoutServiceImpl{
		orderRepo: orderRepo,
		clientKey: clientKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// CustomerKey derives the widget's customer key from the email address, so
// one customer keeps one key across orders without exposing the address.
// The gateway accepts 2 to 50 characters.
func CustomerKey(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "cust_" + hex.EncodeToString(sum[:])[:32]
}

func (s *checkoutServiceImpl) CreateOrder(ctx context.Context, in CreateOrderInput) (*CheckoutSession, error) {
	currency := strings.ToUpper(in.Currency)
	if res := payment.ValidatePaymentAmount(in.Price, currency); !res.Valid {
		return nil, fmt.Errorf("%w: %s", payment.ErrInvalidAmount, res.Error)
	}

	order := &model.Order{
		OrderID:     payment.NewOrderID(),
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		Company:     strings.TrimSpace(in.Company),
		Phone:       strings.TrimSpace(in.Phone),
		Plan:        in.Plan,
		OrderName:   in.OrderName,
		Price:       in.Price,
		Currency:    currency,
		Message:     in.Message,
		CustomerKey: CustomerKey(in.Email),
		Status:      model.OrderPending,
	}

	if err := s.orderRepo.Create(ctx, nil, order); err != nil {
		return nil, fmt.Errorf("store order in db: %w", err)
	}

	log.WithFields(log.Fields{
		"order_id": order.OrderID,
		"plan":     order.Plan,
		"amount":   order.Price,
		"currency": order.Currency,
	}).Info("Order created")

	return s.Session(order), nil
}

func (s *checkoutServiceImpl) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	return s.orderRepo.FindByOrderID(ctx, orderID)
}

func (s *checkoutServiceImpl) Session(order *model.Order) *CheckoutSession {
	return &CheckoutSession{
		Order:       order,
		ClientKey:   s.clientKey,
		SuccessURL:  s.baseURL + "/payment/success",
		FailURL:     s.baseURL + "/payment/fail",
		CheckoutURL: s.baseURL + "/checkout/" + order.OrderID,
	}
}
