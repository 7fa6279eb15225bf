package service

import "totaro-checkout/internal/model"

// OrderStatusFor maps a gateway payment status onto the order lifecycle.
// current is needed because a full cancel of a paid order is a refund,
// while a cancel before payment just closes the order.
func OrderStatusFor(ps model.PaymentStatus, current model.OrderStatus) (model.OrderStatus, bool) {
	switch ps {
	case model.PaymentDone, model.PaymentPartialCanceled:
		return model.OrderPaid, true
	case model.PaymentCanceled:
		if current == model.OrderPaid || current == model.OrderRefunded {
			return model.OrderRefunded, true
		}
		return model.OrderCancelled, true
	case model.PaymentAborted:
		return model.OrderFailed, true
	case model.PaymentExpired:
		return model.OrderCancelled, true
	case model.PaymentReady, model.PaymentInProgress, model.PaymentWaitingForDeposit:
		return model.OrderPending, true
	}
	return "", false
}
