package handler

import (
	"net/http"
	"totaro-checkout/internal/dto"
	"totaro-checkout/internal/payment"
	"totaro-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	checkoutService service.CheckoutService
}

func NewOrderHandler(checkoutService service.CheckoutService) *OrderHandler {
	return &OrderHandler{checkoutService: checkoutService}
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	price, err := req.Validate()
	if err != nil {
		return err
	}

	session, err := h.checkoutService.CreateOrder(ctx, service.CreateOrderInput{
		Name:      req.Name,
		Email:     req.Email,
		Company:   req.Company,
		Phone:     req.Phone,
		Plan:      req.Plan,
		OrderName: req.OrderName,
		Price:     price,
		Currency:  req.Currency,
		Message:   req.Message,
	})
	if err != nil {
		return err
	}

	o := session.Order
	return c.JSON(http.StatusCreated, &dto.CreateOrderResponse{
		OrderID:        o.OrderID,
		OrderName:      o.OrderName,
		Amount:         o.Price,
		Currency:       o.Currency,
		FormattedPrice: payment.FormatPrice(o.Price, o.Currency),
		CustomerKey:    o.CustomerKey,
		ClientKey:      session.ClientKey,
		SuccessURL:     session.SuccessURL,
		FailURL:        session.FailURL,
		CheckoutURL:    session.CheckoutURL,
	})
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	order, err := h.checkoutService.GetOrder(c.Request().Context(), c.Param("orderId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewOrderStatusResponse(order))
}
