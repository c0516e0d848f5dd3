package order

import (
	"fmt"

	"github.com/apexquant/apexbt/common"
	"github.com/shopspring/decimal"
)

// IsOrder returns whether the event is an order event
func (o *Order) IsOrder() bool {
	return true
}

// GetID returns the ID
func (o *Order) GetID() string {
	return o.ID
}

// SetID sets the order id
func (o *Order) SetID(id string) {
	o.ID = id
}

// SetSide sets the side of the order
func (o *Order) SetSide(s common.Side) {
	o.Side = s
}

// GetSide returns the side of the order
func (o *Order) GetSide() common.Side {
	return o.Side
}

// GetOrderType returns how the order is to be executed
func (o *Order) GetOrderType() common.OrderType {
	return o.OrderType
}

// GetQuantity returns the quantity
func (o *Order) GetQuantity() decimal.Decimal {
	return o.Quantity
}

// GetPrice returns the limit or stop trigger price
func (o *Order) GetPrice() decimal.Decimal {
	return o.Price
}

// Validate ensures the order is well formed before submission
func (o *Order) Validate() error {
	if o.Side != common.Buy && o.Side != common.Sell {
		return fmt.Errorf("%w, received '%v'", common.ErrInvalidSide, o.Side)
	}
	if o.Quantity.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w, received %v", ErrNonPositiveQuantity, o.Quantity)
	}
	switch o.OrderType {
	case common.Market:
		if !o.Price.IsZero() {
			return fmt.Errorf("%w, received %v", ErrUnexpectedPrice, o.Price)
		}
	case common.Limit, common.Stop:
		if o.Price.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w, received %v", ErrMissingPrice, o.Price)
		}
	default:
		return fmt.Errorf("%w, received '%v'", ErrInvalidOrderType, o.OrderType)
	}
	return nil
}
