package order

import (
	"errors"

	"github.com/apexquant/apexbt/common"
	"github.com/apexquant/apexbt/eventtypes/event"
	"github.com/shopspring/decimal"
)

var (
	// ErrNonPositiveQuantity occurs when an order quantity is zero or below
	ErrNonPositiveQuantity = errors.New("order quantity must be positive")
	// ErrMissingPrice occurs when a limit or stop order has no price
	ErrMissingPrice = errors.New("limit and stop orders require a positive price")
	// ErrUnexpectedPrice occurs when a market order carries a price
	ErrUnexpectedPrice = errors.New("market orders must not carry a price")
	// ErrInvalidOrderType occurs on an unrecognised order type
	ErrInvalidOrderType = errors.New("order type must be market, limit or stop")
)

// Order contains all details for an order event. Price is the limit or stop
// trigger price and is the zero value for market orders
type Order struct {
	*event.Base
	ID        string
	Side      common.Side
	OrderType common.OrderType
	Quantity  decimal.Decimal
	Price     decimal.Decimal
}

// Event inherits common event interfaces along with extra functions related
// to handling orders
type Event interface {
	common.Event
	common.Directioner
	GetID() string
	SetID(string)
	GetOrderType() common.OrderType
	GetQuantity() decimal.Decimal
	GetPrice() decimal.Decimal
	IsOrder() bool
}
