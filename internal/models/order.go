package models

import "time"

// AttemptState tracks local checkout progress. It is distinct from the
// backend-owned order status: the backend is the sole owner of persisted
// status, this service only observes and requests transitions.
type AttemptState string

const (
	StateSubmitting      AttemptState = "submitting"
	StateAwaitingGateway AttemptState = "awaiting_gateway"
	StateVerifying       AttemptState = "verifying"
	StateConfirmed       AttemptState = "confirmed"
	StateCancelling      AttemptState = "cancelling"
	StateCancelled       AttemptState = "cancelled"
	StateCancelFailed    AttemptState = "cancel_failed"
	StateSubmitFailed    AttemptState = "submit_failed"
	StateVerifyFailed    AttemptState = "verify_failed"
)

// backend order status, observed only
const (
	OrderStatusPendingPayment = "pendingPayment"
	OrderStatusInProgress     = "inProgress"
	OrderStatusOnTheWay       = "onTheWay"
	OrderStatusDelivered      = "delivered"
	OrderStatusFailed         = "failed"
)

// CheckoutOrder is a checkout attempt: the priced order intent plus its
// local orchestration state. OrderID is the provisional id allocated by the
// backend of record; ConfirmedID is the authoritative id returned at
// verification time and may differ.
type CheckoutOrder struct {
	OrderID        string
	ConfirmedID    string
	UserID         string
	Type           OrderType
	CollectorName  string
	CollectorPhone string
	Address        string
	Lines          []CartLine
	Bill           Bill
	State          AttemptState
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CheckoutEvent is a terminal checkout outcome published for downstream
// notification.
type CheckoutEvent struct {
	EventID    string    `json:"eventId"`
	OrderID    string    `json:"orderId"`
	UserID     string    `json:"userId"`
	Status     string    `json:"status"`
	Amount     int64     `json:"amount"`
	OccurredAt time.Time `json:"occurredAt"`
}
