package handler

import (
	"io"
	"net/http"
	"totaro-checkout/internal/dto"
	"totaro-checkout/internal/service"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// maxWebhookBody caps what is read from the gateway.
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	webhookService service.WebhookService
}

func NewWebhookHandler(webhookService service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// TossWebhook always answers 200 so the gateway does not keep redelivering;
// failures are logged and kept on the webhook event row.
func (h *WebhookHandler) TossWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		log.WithError(err).Warn("Failed to read webhook body")
		return c.JSON(http.StatusOK, &dto.WebhookResponse{Success: true})
	}

	if err := h.webhookService.HandleWebhook(ctx, c.Request().Header, body); err != nil {
		log.WithError(err).Error("Handle webhook failed")
	}

	return c.JSON(http.StatusOK, &dto.WebhookResponse{Success: true})
}
