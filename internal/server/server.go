package server

import (
	"context"
	"net/http"
	"totaro-checkout/internal/config"
	"totaro-checkout/internal/handler"
	"totaro-checkout/internal/middleware"
	"totaro-checkout/internal/service"
	"totaro-checkout/internal/widget"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo           *echo.Echo
	orderHandler   *handler.OrderHandler
	pageHandler    *handler.PageHandler
	paymentHandler *handler.PaymentHandler
	webhookHandler *handler.WebhookHandler
	adminSecret    string
}

func NewServer(
	cfg *config.Config,
	checkoutService service.CheckoutService,
	paymentService service.PaymentService,
	webhookService service.WebhookService,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = widget.NewRenderer()
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:           e,
		orderHandler:   handler.NewOrderHandler(checkoutService),
		pageHandler:    handler.NewPageHandler(checkoutService, paymentService, &cfg.Widget),
		paymentHandler: handler.NewPaymentHandler(paymentService),
		webhookHandler: handler.NewWebhookHandler(webhookService),
		adminSecret:    cfg.Admin.JWTSecret,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// -------- pages --------
	s.echo.GET("/checkout/:orderId", s.pageHandler.Checkout)
	s.echo.GET("/payment/success", s.pageHandler.Success)
	s.echo.GET("/payment/fail", s.pageHandler.Fail)

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api.POST("/orders", s.orderHandler.CreateOrder)
	api.GET("/orders/:orderId", s.orderHandler.GetOrder)

	// -------- payments --------
	payments := api.Group("/payments")
	payments.POST("/confirm", s.paymentHandler.Confirm)

	adminOnly := middleware.AdminAuth(s.adminSecret)
	payments.POST("/cancel", s.paymentHandler.Cancel, adminOnly)
	payments.GET("/:paymentKey", s.paymentHandler.GetPayment, adminOnly)

	// -------- webhooks --------
	api.POST("/webhooks/toss", s.webhookHandler.TossWebhook)
}

// Handler exposes the router for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
