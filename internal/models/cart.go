package models

import (
	"fmt"
	"strings"
	"time"
)

// OrderType determines which fees apply to a checkout.
type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypeTakeaway OrderType = "takeaway"
	OrderTypeDineIn   OrderType = "dinein"
)

// Valid reports whether t is a known order type.
func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeDelivery, OrderTypeTakeaway, OrderTypeDineIn:
		return true
	}
	return false
}

// CartLine is a single cart position snapshotted at checkout time.
// It is owned by the caller and read-only to the checkout core.
type CartLine struct {
	ItemID   string
	Name     string
	Price    int64 // unit price in paise
	Quantity int64
	Packable bool
	Category string
}

// Cart is the active cart record binding a user to a vendor.
type Cart struct {
	UserID    string    `json:"userId"`
	VendorID  string    `json:"vendorId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Vendor is a campus food venue belonging to a university.
type Vendor struct {
	VendorID     string
	Name         string
	UniversityID string
}

// CheckoutRequest is the caller-owned checkout submission: order type,
// collector fields and the cart snapshot.
type CheckoutRequest struct {
	Type           OrderType
	CollectorName  string
	CollectorPhone string
	Address        string
	Lines          []CartLine
}

// Validate checks required collector fields. It is purely local and runs
// before any network call. Address is required only for delivery orders.
func (r *CheckoutRequest) Validate() error {
	if !r.Type.Valid() {
		return fmt.Errorf("%w: unknown order type %q", ErrValidation, r.Type)
	}
	if strings.TrimSpace(r.CollectorName) == "" {
		return fmt.Errorf("%w: collector name", ErrValidation)
	}
	if strings.TrimSpace(r.CollectorPhone) == "" {
		return fmt.Errorf("%w: collector phone", ErrValidation)
	}
	if r.Type == OrderTypeDelivery && strings.TrimSpace(r.Address) == "" {
		return fmt.Errorf("%w: delivery address", ErrValidation)
	}
	if len(r.Lines) == 0 {
		return fmt.Errorf("%w: cart is empty", ErrValidation)
	}
	return nil
}
