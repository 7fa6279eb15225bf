package handler

import (
	"encoding/json"
	"net/http"
	"totaro-checkout/internal/dto"
	"totaro-checkout/internal/middleware"
	"totaro-checkout/internal/service"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) Confirm(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ConfirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	amount, err := req.Validate()
	if err != nil {
		return err
	}

	result, err := h.paymentService.Confirm(ctx, service.ConfirmInput{
		PaymentKey: req.PaymentKey,
		OrderID:    req.OrderID,
		Amount:     amount,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.ConfirmResponse{
		Success: true,
		OrderID: result.OrderID,
		Payment: asRaw(result.Payment),
	})
}

func (h *PaymentHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CancelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	amount, err := req.Validate()
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"payment_key": req.PaymentKey,
		"admin":       c.Get(middleware.ContextSubject),
		"partial":     amount != nil,
	}).Info("Cancel requested")

	result, err := h.paymentService.Cancel(ctx, service.CancelInput{
		PaymentKey:           req.PaymentKey,
		CancelReason:         req.CancelReason,
		CancelAmount:         amount,
		RefundReceiveAccount: req.RefundAccount(),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.CancelResponse{
		Status:  result.Status,
		Cancels: result.Cancels,
	})
}

func (h *PaymentHandler) GetPayment(c echo.Context) error {
	p, err := h.paymentService.GetPayment(c.Request().Context(), c.Param("paymentKey"))
	if err != nil {
		return err
	}
	if len(p.Raw) > 0 {
		return c.JSONBlob(http.StatusOK, p.Raw)
	}
	return c.JSON(http.StatusOK, p)
}

// asRaw keeps a nil confirmation from rendering as an empty body.
func asRaw(b json.RawMessage) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("null")
	}
	return b
}
