package models

// default charges applied whenever fee resolution fails
const (
	DefaultPackagingFee = 5
	DefaultDeliveryFee  = 50
)

// FeeSchedule holds per-venue charges: packaging per packable unit and a
// flat delivery fee. Amounts are in paise.
type FeeSchedule struct {
	Packaging int64
	Delivery  int64
}

// DefaultFeeSchedule returns the fallback schedule used when resolution
// fails or a charge is absent. Checkout stays available on defaults.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		Packaging: DefaultPackagingFee,
		Delivery:  DefaultDeliveryFee,
	}
}

// Bill is the billable breakdown of a cart. Derived, never persisted.
type Bill struct {
	ItemTotal  int64
	Packaging  int64
	Delivery   int64
	GrandTotal int64
}
