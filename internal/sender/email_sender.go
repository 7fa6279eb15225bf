package sender

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"
	"totaro-checkout/internal/config"
	"totaro-checkout/internal/model"
	"totaro-checkout/internal/payment"
	"totaro-checkout/internal/retry"

	"github.com/jordan-wright/email"
	log "github.com/sirupsen/logrus"
)

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type SMTPEmailSender struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSMTPEmailSender(cfg *config.SMTP) *SMTPEmailSender {
	return &SMTPEmailSender{host: cfg.Host, port: cfg.Port, user: cfg.User, pass: cfg.Password, from: cfg.From}
}

func (s *SMTPEmailSender) SendEmail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.user, s.pass, s.host)

	e := email.NewEmail()
	e.From = s.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	return e.Send(addr, auth)
}

// Notifier tells the customer about a finished payment.
type Notifier interface {
	SendReceipt(ctx context.Context, order *model.Order) error
}

type ReceiptNotifier struct {
	sender EmailSender
	policy retry.Policy
}

func NewReceiptNotifier(sender EmailSender) *ReceiptNotifier {
	return &ReceiptNotifier{sender: sender, policy: retry.Backoff(3, time.Second)}
}

func (n *ReceiptNotifier) SendReceipt(ctx context.Context, order *model.Order) error {
	subject, body := ReceiptMessage(order)

	err := retry.Do(ctx, n.policy, func(ctx context.Context) error {
		return n.sender.SendEmail(ctx, order.Email, subject, body)
	})
	if err != nil {
		return fmt.Errorf("send receipt for %s: %w", order.OrderID, err)
	}

	log.WithFields(log.Fields{"order_id": order.OrderID, "to": order.Email}).Info("Receipt email sent")
	return nil
}

// ReceiptMessage renders the plain-text receipt for a paid order.
func ReceiptMessage(order *model.Order) (string, string) {
	subject := fmt.Sprintf("[Totaro] Payment received: %s", order.OrderName)

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", order.Name)
	fmt.Fprintf(&b, "We received your payment for %s.\n\n", order.OrderName)
	fmt.Fprintf(&b, "Order ID: %s\n", order.OrderID)
	fmt.Fprintf(&b, "Amount:   %s\n", payment.FormatPrice(order.Price, order.Currency))
	if order.Method != "" {
		fmt.Fprintf(&b, "Method:   %s\n", order.Method)
	}
	if order.ApprovedAt != nil {
		fmt.Fprintf(&b, "Approved: %s\n", order.ApprovedAt.Format(time.RFC3339))
	}
	b.WriteString("\nThank you for choosing Totaro.\n")

	return subject, b.String()
}

type NoopNotifier struct{}

func (NoopNotifier) SendReceipt(context.Context, *model.Order) error { return nil }

// New returns a receipt notifier when SMTP is fully configured.
func New(cfg *config.SMTP) Notifier {
	if !cfg.Enabled() {
		return NoopNotifier{}
	}
	return NewReceiptNotifier(NewSMTPEmailSender(cfg))
}
