package fill

import (
	"github.com/apexquant/apexbt/common"
	"github.com/apexquant/apexbt/eventtypes/event"
	"github.com/shopspring/decimal"
)

// Fill is an event that details the realized outcome of an order. The three
// friction components are itemized separately and must never be pre-netted,
// as downstream accounting and analytics attribute cost by type
type Fill struct {
	*event.Base
	OrderID    string          `json:"order-id"`
	Side       common.Side     `json:"side"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Commission decimal.Decimal `json:"commission"`
	Slippage   decimal.Decimal `json:"slippage"`
	SpreadCost decimal.Decimal `json:"spread-cost"`
	Liquidated bool            `json:"liquidated"`
}

// Event holds all functions required to handle a fill event
type Event interface {
	common.Event
	common.Directioner
	GetOrderID() string
	GetQuantity() decimal.Decimal
	GetPrice() decimal.Decimal
	GetCommission() decimal.Decimal
	GetSlippage() decimal.Decimal
	GetSpreadCost() decimal.Decimal
	IsLiquidated() bool
	IsFill() bool
}
