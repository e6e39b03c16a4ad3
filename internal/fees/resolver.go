package fees

import (
	"context"

	"github.com/campusbites/checkout/internal/logger"
	"github.com/campusbites/checkout/internal/models"
	"go.uber.org/zap"
)

// CartStore returns the active cart record for a user.
type CartStore interface {
	// GetCart returns the active cart record of userID
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
}

// VenueStore resolves vendors and their university charges.
type VenueStore interface {
	// GetVendor returns vendor by id
	GetVendor(ctx context.Context, vendorID string) (*models.Vendor, error)
	// GetUniversityCharges returns the fee schedule of a university
	GetUniversityCharges(ctx context.Context, universityID string) (models.FeeSchedule, error)
}

// Resolver resolves per-venue fee schedules through the cart owner → vendor
// → university chain.
type Resolver struct {
	carts  CartStore
	venues VenueStore
}

// NewResolver creates new Resolver instance
func NewResolver(carts CartStore, venues VenueStore) *Resolver {
	return &Resolver{
		carts:  carts,
		venues: venues,
	}
}

// Resolve returns the fee schedule for a cart owner. Each lookup is a single
// call with no retry; any miss or error is logged and short-circuits to the
// default schedule so checkout stays available when fee data is not.
func (r *Resolver) Resolve(ctx context.Context, userID string) models.FeeSchedule {
	cart, err := r.carts.GetCart(ctx, userID)
	if err != nil || cart == nil || cart.VendorID == "" {
		logger.Log.Debug("cart lookup missed, using default charges",
			zap.String("user", userID), zap.Error(err))
		return models.DefaultFeeSchedule()
	}

	vendor, err := r.venues.GetVendor(ctx, cart.VendorID)
	if err != nil || vendor == nil || vendor.UniversityID == "" {
		logger.Log.Debug("vendor lookup missed, using default charges",
			zap.String("vendor", cart.VendorID), zap.Error(err))
		return models.DefaultFeeSchedule()
	}

	schedule, err := r.venues.GetUniversityCharges(ctx, vendor.UniversityID)
	if err != nil {
		logger.Log.Debug("university charges lookup missed, using default charges",
			zap.String("university", vendor.UniversityID), zap.Error(err))
		return models.DefaultFeeSchedule()
	}

	// absent charges fall back per field
	if schedule.Packaging <= 0 {
		schedule.Packaging = models.DefaultPackagingFee
	}
	if schedule.Delivery <= 0 {
		schedule.Delivery = models.DefaultDeliveryFee
	}

	return schedule
}
