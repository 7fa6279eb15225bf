package handler

import (
	"errors"
	"net/http"
	"net/url"
	"totaro-checkout/internal/client"
	"totaro-checkout/internal/config"
	"totaro-checkout/internal/dto"
	"totaro-checkout/internal/payment"
	"totaro-checkout/internal/service"
	"totaro-checkout/internal/widget"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// PageHandler serves the browser side of the flow: the widget page and the
// success and fail redirects the gateway sends the customer to.
type PageHandler struct {
	checkoutService service.CheckoutService
	paymentService  service.PaymentService
	widgetCfg       *config.Widget
}

func NewPageHandler(checkoutService service.CheckoutService, paymentService service.PaymentService, widgetCfg *config.Widget) *PageHandler {
	return &PageHandler{
		checkoutService: checkoutService,
		paymentService:  paymentService,
		widgetCfg:       widgetCfg,
	}
}

func (h *PageHandler) Checkout(c echo.Context) error {
	order, err := h.checkoutService.GetOrder(c.Request().Context(), c.Param("orderId"))
	if err != nil {
		return err
	}

	session := h.checkoutService.Session(order)
	page := widget.NewCheckoutPage(h.widgetCfg, widget.CheckoutInput{
		Order:      order,
		ClientKey:  session.ClientKey,
		SuccessURL: session.SuccessURL,
		FailURL:    session.FailURL,
		Lang:       requestLang(c),
	})
	return c.Render(http.StatusOK, "checkout.html", page)
}

// Success confirms the payment the gateway redirected back with, then shows
// the result. Any failure sends the customer to the fail page instead.
func (h *PageHandler) Success(c echo.Context) error {
	ctx := c.Request().Context()

	req := dto.ConfirmRequest{
		PaymentKey: c.QueryParam("paymentKey"),
		OrderID:    c.QueryParam("orderId"),
		Amount:     dto.NewAmount(c.QueryParam("amount")),
	}

	amount, err := req.Validate()
	if err == nil {
		_, err = h.paymentService.Confirm(ctx, service.ConfirmInput{
			PaymentKey: req.PaymentKey,
			OrderID:    req.OrderID,
			Amount:     amount,
		})
	}
	if err != nil {
		log.WithError(err).WithField("order_id", req.OrderID).Warn("Confirm from success redirect failed")
		return c.Redirect(http.StatusFound, failURL(err, req.OrderID, requestLang(c)))
	}

	order, err := h.checkoutService.GetOrder(ctx, req.OrderID)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "success.html", widget.NewSuccessPage(requestLang(c), order))
}

func failURL(err error, orderID, lang string) string {
	_, code := classify(err)
	message := payment.ErrorMessage(code, lang)

	var gwErr *client.GatewayError
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		message = gwErr.Message
	}

	q := url.Values{}
	q.Set("code", code)
	q.Set("message", message)
	if orderID != "" {
		q.Set("orderId", orderID)
	}
	return "/payment/fail?" + q.Encode()
}

func (h *PageHandler) Fail(c echo.Context) error {
	ctx := c.Request().Context()

	code := c.QueryParam("code")
	message := c.QueryParam("message")
	orderID := c.QueryParam("orderId")

	var checkoutURL string
	if orderID != "" {
		if code != "" {
			if err := h.paymentService.Fail(ctx, orderID, code, message); err != nil {
				log.WithError(err).WithField("order_id", orderID).Warn("Could not record payment failure")
			}
		}
		if order, err := h.checkoutService.GetOrder(ctx, orderID); err == nil {
			checkoutURL = h.checkoutService.Session(order).CheckoutURL
		}
	}

	page := widget.NewFailPage(requestLang(c), code, message, orderID, checkoutURL)
	return c.Render(http.StatusOK, "fail.html", page)
}
