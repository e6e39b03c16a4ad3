package billing

import (
	"fmt"

	"github.com/campusbites/checkout/internal/models"
)

// Calculate prices a cart snapshot against a fee schedule for the given
// order type. All arithmetic is in integer paise. Packaging applies per
// packable unit for delivery and takeaway orders, never for dine-in; the
// delivery fee applies only for delivery orders.
func Calculate(lines []models.CartLine, fees models.FeeSchedule, orderType models.OrderType) (models.Bill, error) {
	if !orderType.Valid() {
		return models.Bill{}, fmt.Errorf("%w: unknown order type %q", models.ErrValidation, orderType)
	}
	if len(lines) == 0 {
		return models.Bill{}, fmt.Errorf("%w: cart is empty", models.ErrValidation)
	}

	bill := models.Bill{}

	for _, line := range lines {
		if line.Price < 0 {
			return models.Bill{}, fmt.Errorf("%w: negative price for item %q", models.ErrValidation, line.ItemID)
		}
		if line.Quantity < 1 {
			return models.Bill{}, fmt.Errorf("%w: invalid quantity for item %q", models.ErrValidation, line.ItemID)
		}

		bill.ItemTotal += line.Price * line.Quantity

		if line.Packable && orderType != models.OrderTypeDineIn {
			bill.Packaging += fees.Packaging * line.Quantity
		}
	}

	if orderType == models.OrderTypeDelivery {
		bill.Delivery = fees.Delivery
	}

	bill.GrandTotal = bill.ItemTotal + bill.Packaging + bill.Delivery

	return bill, nil
}
