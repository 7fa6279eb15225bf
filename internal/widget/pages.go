package widget

import (
	"embed"
	"html/template"
	"io"
	"strings"
	"time"
	"totaro-checkout/internal/config"
	"totaro-checkout/internal/model"
	"totaro-checkout/internal/payment"

	"github.com/labstack/echo/v4"
)

const (
	errSDKNotLoaded = "SDK not loaded"
	errDOMNotFound  = "DOM not found"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Poll bounds one readiness wait in the page script.
type Poll struct {
	MaxAttempts  int    `json:"maxAttempts"`
	IntervalMs   int64  `json:"intervalMs"`
	ErrorMessage string `json:"errorMessage"`
}

// Config is serialized into the checkout page for the script.
type Config struct {
	ClientKey           string            `json:"clientKey"`
	CustomerKey         string            `json:"customerKey"`
	Amount              int64             `json:"amount"`
	Currency            string            `json:"currency"`
	OrderID             string            `json:"orderId"`
	OrderName           string            `json:"orderName"`
	SuccessURL          string            `json:"successUrl"`
	FailURL             string            `json:"failUrl"`
	CustomerEmail       string            `json:"customerEmail"`
	CustomerName        string            `json:"customerName"`
	CustomerMobilePhone string            `json:"customerMobilePhone,omitempty"`
	SDKURL              string            `json:"sdkUrl"`
	SDKPoll             Poll              `json:"sdkPoll"`
	DOMPoll             Poll              `json:"domPoll"`
	Transitions         map[State][]State `json:"transitions"`
}

type CheckoutPage struct {
	Lang           string
	Text           Text
	OrderID        string
	OrderName      string
	FormattedPrice string
	Status         model.OrderStatus
	Payable        bool
	Config         Config
}

type SuccessPage struct {
	Lang           string
	Text           Text
	OrderID        string
	OrderName      string
	FormattedPrice string
	Method         string
	ApprovedAt     string
	RedirectAfter  int
}

type FailPage struct {
	Lang        string
	Text        Text
	Code        string
	Message     string
	OrderID     string
	CheckoutURL string
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CheckoutInput is what the handler knows about the order being paid.
type CheckoutInput struct {
	Order      *model.Order
	ClientKey  string
	SuccessURL string
	FailURL    string
	Lang       string
}

func NewCheckoutPage(cfg *config.Widget, in CheckoutInput) *CheckoutPage {
	o := in.Order
	return &CheckoutPage{
		Lang:           in.Lang,
		Text:           texts(in.Lang),
		OrderID:        o.OrderID,
		OrderName:      o.OrderName,
		FormattedPrice: payment.FormatPrice(o.Price, o.Currency),
		Status:         o.Status,
		Payable:        o.Status == model.OrderPending || o.Status == model.OrderFailed,
		Config: Config{
			ClientKey:           in.ClientKey,
			CustomerKey:         o.CustomerKey,
			Amount:              o.Price,
			Currency:            o.Currency,
			OrderID:             o.OrderID,
			OrderName:           o.OrderName,
			SuccessURL:          in.SuccessURL,
			FailURL:             in.FailURL,
			CustomerEmail:       o.Email,
			CustomerName:        o.Name,
			CustomerMobilePhone: digitsOnly(o.Phone),
			SDKURL:              cfg.SDKURL,
			SDKPoll:             Poll{MaxAttempts: cfg.PollAttempts, IntervalMs: cfg.PollInterval.Milliseconds(), ErrorMessage: errSDKNotLoaded},
			DOMPoll:             Poll{MaxAttempts: cfg.DOMPollAttempts, IntervalMs: cfg.DOMPollInterval.Milliseconds(), ErrorMessage: errDOMNotFound},
			Transitions:         Transitions(),
		},
	}
}

func NewSuccessPage(lang string, o *model.Order) *SuccessPage {
	p := &SuccessPage{
		Lang:           lang,
		Text:           texts(lang),
		OrderID:        o.OrderID,
		OrderName:      o.OrderName,
		FormattedPrice: payment.FormatPrice(o.Price, o.Currency),
		Method:         o.Method,
		RedirectAfter:  15,
	}
	if o.ApprovedAt != nil {
		p.ApprovedAt = o.ApprovedAt.Format(time.RFC3339)
	}
	return p
}

func NewFailPage(lang, code, gatewayMessage, orderID, checkoutURL string) *FailPage {
	msg := payment.ErrorMessage(code, lang)
	if code == "" && gatewayMessage != "" {
		msg = gatewayMessage
	}
	return &FailPage{
		Lang:        lang,
		Text:        texts(lang),
		Code:        code,
		Message:     msg,
		OrderID:     orderID,
		CheckoutURL: checkoutURL,
	}
}

// Renderer serves the embedded pages through echo's c.Render.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{
		templates: template.Must(template.ParseFS(templatesFS, "templates/*.html")),
	}
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
