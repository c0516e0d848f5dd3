package fill

import (
	"github.com/apexquant/apexbt/common"
	"github.com/shopspring/decimal"
)

// IsFill returns whether the event is a fill type
func (f *Fill) IsFill() bool {
	return true
}

// GetOrderID returns the id of the order which produced the fill
func (f *Fill) GetOrderID() string {
	return f.OrderID
}

// SetSide sets the side of the fill
func (f *Fill) SetSide(s common.Side) {
	f.Side = s
}

// GetSide returns the side of the fill
func (f *Fill) GetSide() common.Side {
	return f.Side
}

// GetQuantity returns the filled quantity
func (f *Fill) GetQuantity() decimal.Decimal {
	return f.Quantity
}

// GetPrice returns the fill price after all friction adjustments
func (f *Fill) GetPrice() decimal.Decimal {
	return f.Price
}

// GetCommission returns the commission charged on the fill
func (f *Fill) GetCommission() decimal.Decimal {
	return f.Commission
}

// GetSlippage returns the slippage cost embedded in the fill price
func (f *Fill) GetSlippage() decimal.Decimal {
	return f.Slippage
}

// GetSpreadCost returns the half-spread cost embedded in the fill price
func (f *Fill) GetSpreadCost() decimal.Decimal {
	return f.SpreadCost
}

// IsLiquidated returns whether the fill came from a forced margin closeout
// rather than a strategy decision
func (f *Fill) IsLiquidated() bool {
	return f.Liquidated
}
