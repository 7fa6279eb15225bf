package service

import (
	"errors"
	"totaro-checkout/internal/client"
)

var (
	ErrMissingSecretKey  = client.ErrMissingSecretKey
	ErrConfirmInProgress = errors.New("payment confirmation already in progress")
	ErrOrderNotPayable   = errors.New("order can no longer be paid")
	ErrUnknownStatus     = errors.New("unknown payment status")
)
