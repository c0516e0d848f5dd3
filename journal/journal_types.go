package journal

import (
	"database/sql"
	"errors"
	"time"

	"github.com/apexquant/apexbt/common"
	"github.com/shopspring/decimal"
)

var (
	errDatabaseUnset = errors.New("journal database unset")
	errEmptyRunID    = errors.New("run id cannot be empty")
)

// Trade is one completed round trip, an entry fill matched against an exit
// fill front-first. Partial closes produce one row per matched parcel
type Trade struct {
	RunID       string
	Symbol      string
	Side        common.Side
	Quantity    decimal.Decimal
	EntryTime   time.Time
	ExitTime    time.Time
	EntryPrice  decimal.Decimal
	ExitPrice   decimal.Decimal
	Commission  decimal.Decimal
	Slippage    decimal.Decimal
	SpreadCost  decimal.Decimal
	RealizedPnL decimal.Decimal
	Liquidated  bool
}

// Store persists completed trades to SQLite. Monetary values are stored as
// TEXT, the database is a record, never a calculator
type Store struct {
	db *sql.DB
}
