package handler

import (
	"errors"
	"net/http"
	"totaro-checkout/internal/client"
	"totaro-checkout/internal/dto"
	"totaro-checkout/internal/payment"
	"totaro-checkout/internal/repository"
	"totaro-checkout/internal/service"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeConfig            = "CONFIG_ERROR"
	CodeInternal          = "INTERNAL_ERROR"
	CodeOrderNotFound     = "ORDER_NOT_FOUND"
	CodeOrderNotPayable   = "ORDER_NOT_PAYABLE"
	CodeConfirmInProgress = "CONFIRM_IN_PROGRESS"
	CodeInvalidAmount     = "INVALID_AMOUNT"
)

func requestLang(c echo.Context) string {
	return payment.Lang(c.Request().Header.Get("Accept-Language"), c.QueryParam("lang"))
}

// classify maps err to the HTTP status and error code the API reports.
func classify(err error) (int, string) {
	var (
		valErr  *dto.ValidationError
		gwErr   *client.GatewayError
		httpErr *echo.HTTPError
	)
	switch {
	case errors.As(err, &valErr):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, service.ErrMissingSecretKey):
		return http.StatusInternalServerError, CodeConfig
	case errors.As(err, &gwErr):
		status := gwErr.Status
		if status < 400 {
			status = http.StatusBadGateway
		}
		return status, gwErr.Code
	case errors.Is(err, service.ErrConfirmInProgress):
		return http.StatusConflict, CodeConfirmInProgress
	case errors.Is(err, service.ErrOrderNotPayable):
		return http.StatusConflict, CodeOrderNotPayable
	case errors.Is(err, repository.ErrOrderNotFound):
		return http.StatusNotFound, CodeOrderNotFound
	case errors.Is(err, payment.ErrInvalidAmount):
		return http.StatusBadRequest, CodeInvalidAmount
	case errors.As(err, &httpErr):
		return httpErr.Code, http.StatusText(httpErr.Code)
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// NewErrorResponse renders err the way every API route reports failures.
func NewErrorResponse(err error, lang string) (int, *dto.ErrorResponse) {
	status, code := classify(err)
	resp := &dto.ErrorResponse{Success: false, Error: code}

	var (
		valErr  *dto.ValidationError
		gwErr   *client.GatewayError
		httpErr *echo.HTTPError
	)
	switch {
	case errors.As(err, &valErr):
		resp.Message = valErr.Error()
		resp.Fields = valErr.Fields
	case errors.As(err, &gwErr):
		resp.Message = payment.ErrorMessage(gwErr.Code, lang)
	case errors.As(err, &httpErr):
		resp.Message = http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			resp.Message = msg
		}
	case code == CodeInternal:
		resp.Message = payment.ErrorMessage(code, lang)
	default:
		resp.Message = err.Error()
	}
	return status, resp
}

// ErrorHandler is the echo HTTPErrorHandler for the whole server.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, resp := NewErrorResponse(err, requestLang(c))

	entry := log.WithError(err).WithFields(log.Fields{
		"status": status,
		"code":   resp.Error,
		"uri":    c.Request().RequestURI,
	})
	if status >= 500 {
		entry.Error("Request failed")
	} else {
		entry.Info("Request rejected")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, resp)
	}
	if err != nil {
		log.WithError(err).Warn("Failed to write error response")
	}
}
