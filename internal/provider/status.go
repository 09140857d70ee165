package provider

import (
	"github.com/vendrhub/klarna-hpp/internal/klarna"
	"github.com/vendrhub/klarna-hpp/internal/order"
)

// TranslateOrderStatus maps a Klarna order state onto the host payment
// status. Total over all inputs: unknown statuses fall through to Authorized.
func TranslateOrderStatus(o *klarna.Order) order.PaymentStatus {
	switch o.Status {
	case klarna.OrderStatusCancelled, klarna.OrderStatusExpired:
		return order.PaymentStatusCancelled
	case klarna.OrderStatusCaptured, klarna.OrderStatusPartCaptured:
		if o.RefundedAmount > 0 {
			return order.PaymentStatusRefunded
		}
		return order.PaymentStatusCaptured
	case klarna.OrderStatusRefunded:
		return order.PaymentStatusRefunded
	case klarna.OrderStatusClosed:
		return order.PaymentStatusError
	default:
		return order.PaymentStatusAuthorized
	}
}
