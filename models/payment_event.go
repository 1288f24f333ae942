package models

import "time"

// Event types published on authoritative order transitions.
const (
	EventPaymentSucceeded = "payment_succeeded"
	EventPaymentFailed    = "payment_failed"
	EventPaymentExpired   = "payment_expired"
)

// PaymentEvent is the message emitted to the payment-events topic whenever an
// order reaches a terminal state.
type PaymentEvent struct {
	Type            string    `json:"type"`
	MerchantOrderNo string    `json:"merchant_order_no"`
	UserID          string    `json:"user_id,omitempty"`
	PlanName        string    `json:"plan_name,omitempty"`
	Amount          int       `json:"amount"`
	Timestamp       time.Time `json:"timestamp"` // UTC event time
}
