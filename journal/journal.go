// Package journal persists completed round-trip trades to SQLite so runs can
// be inspected and compared after the fact
package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/apexquant/apexbt/common"
	"github.com/apexquant/apexbt/eventtypes/fill"
	"github.com/shopspring/decimal"

	// sqlite3 driver registration
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS trades (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity TEXT NOT NULL,
	entry_time TEXT NOT NULL,
	exit_time TEXT NOT NULL,
	entry_price TEXT NOT NULL,
	exit_price TEXT NOT NULL,
	commission TEXT NOT NULL,
	slippage TEXT NOT NULL,
	spread_cost TEXT NOT NULL,
	realized_pnl TEXT NOT NULL,
	liquidated INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trades_run_id ON trades(run_id);
`

// Open connects to the SQLite database at path, creating it and the schema
// when absent. WAL mode keeps concurrent sweep runs from blocking each other
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal database: %w", err)
	}
	if _, err = db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return errDatabaseUnset
	}
	return s.db.Close()
}

// InsertTrades writes all trades in one transaction
func (s *Store) InsertTrades(trades []Trade) error {
	if s == nil || s.db == nil {
		return errDatabaseUnset
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO trades
		(run_id, symbol, side, quantity, entry_time, exit_time, entry_price,
		 exit_price, commission, slippage, spread_cost, realized_pnl, liquidated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for i := range trades {
		if trades[i].RunID == "" {
			tx.Rollback()
			return errEmptyRunID
		}
		liquidated := 0
		if trades[i].Liquidated {
			liquidated = 1
		}
		_, err = stmt.Exec(
			trades[i].RunID,
			trades[i].Symbol,
			string(trades[i].Side),
			trades[i].Quantity.String(),
			trades[i].EntryTime.UTC().Format(time.RFC3339Nano),
			trades[i].ExitTime.UTC().Format(time.RFC3339Nano),
			trades[i].EntryPrice.String(),
			trades[i].ExitPrice.String(),
			trades[i].Commission.String(),
			trades[i].Slippage.String(),
			trades[i].SpreadCost.String(),
			trades[i].RealizedPnL.String(),
			liquidated,
		)
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// TradesByRun returns all trades recorded for a run in insertion order
func (s *Store) TradesByRun(runID string) ([]Trade, error) {
	if s == nil || s.db == nil {
		return nil, errDatabaseUnset
	}
	if runID == "" {
		return nil, errEmptyRunID
	}
	rows, err := s.db.Query(`SELECT run_id, symbol, side, quantity, entry_time,
		exit_time, entry_price, exit_price, commission, slippage, spread_cost,
		realized_pnl, liquidated
		FROM trades WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []Trade
	for rows.Next() {
		var tr Trade
		var side, quantity, entryTime, exitTime, entryPrice, exitPrice string
		var commission, slippage, spreadCost, realized string
		var liquidated int
		err = rows.Scan(&tr.RunID, &tr.Symbol, &side, &quantity, &entryTime,
			&exitTime, &entryPrice, &exitPrice, &commission, &slippage,
			&spreadCost, &realized, &liquidated)
		if err != nil {
			return nil, err
		}
		tr.Side = common.Side(side)
		tr.Liquidated = liquidated != 0
		if tr.Quantity, err = decimal.NewFromString(quantity); err != nil {
			return nil, err
		}
		if tr.EntryTime, err = time.Parse(time.RFC3339Nano, entryTime); err != nil {
			return nil, err
		}
		if tr.ExitTime, err = time.Parse(time.RFC3339Nano, exitTime); err != nil {
			return nil, err
		}
		if tr.EntryPrice, err = decimal.NewFromString(entryPrice); err != nil {
			return nil, err
		}
		if tr.ExitPrice, err = decimal.NewFromString(exitPrice); err != nil {
			return nil, err
		}
		if tr.Commission, err = decimal.NewFromString(commission); err != nil {
			return nil, err
		}
		if tr.Slippage, err = decimal.NewFromString(slippage); err != nil {
			return nil, err
		}
		if tr.SpreadCost, err = decimal.NewFromString(spreadCost); err != nil {
			return nil, err
		}
		if tr.RealizedPnL, err = decimal.NewFromString(realized); err != nil {
			return nil, err
		}
		trades = append(trades, tr)
	}
	return trades, rows.Err()
}

// openParcel is one unmatched entry fill parcel awaiting its exit
type openParcel struct {
	side       common.Side
	quantity   decimal.Decimal
	price      decimal.Decimal
	time       time.Time
	commission decimal.Decimal
	slippage   decimal.Decimal
	spreadCost decimal.Decimal
}

// BuildTrades pairs a run's fills into round trips front-first, mirroring how
// the portfolio consumes lots. Frictions are split pro rata by quantity
func BuildTrades(runID string, fills []fill.Event) []Trade {
	open := make(map[string][]openParcel)
	var trades []Trade
	for _, f := range fills {
		symbol := f.GetSymbol()
		queue := open[symbol]
		if len(queue) == 0 || queue[0].side == f.GetSide() {
			open[symbol] = append(queue, openParcel{
				side:       f.GetSide(),
				quantity:   f.GetQuantity(),
				price:      f.GetPrice(),
				time:       f.GetTime(),
				commission: f.GetCommission(),
				slippage:   f.GetSlippage(),
				spreadCost: f.GetSpreadCost(),
			})
			continue
		}
		remaining := f.GetQuantity()
		for remaining.IsPositive() && len(queue) > 0 {
			parcel := &queue[0]
			matched := decimal.Min(parcel.quantity, remaining)
			entryFrac := matched.Div(parcel.quantity)
			exitFrac := matched.Div(f.GetQuantity())

			var gross decimal.Decimal
			if parcel.side == common.Buy {
				gross = f.GetPrice().Sub(parcel.price).Mul(matched)
			} else {
				gross = parcel.price.Sub(f.GetPrice()).Mul(matched)
			}
			commission := parcel.commission.Mul(entryFrac).Add(f.GetCommission().Mul(exitFrac))
			trades = append(trades, Trade{
				RunID:       runID,
				Symbol:      symbol,
				Side:        parcel.side,
				Quantity:    matched,
				EntryTime:   parcel.time,
				ExitTime:    f.GetTime(),
				EntryPrice:  parcel.price,
				ExitPrice:   f.GetPrice(),
				Commission:  commission,
				Slippage:    parcel.slippage.Mul(entryFrac).Add(f.GetSlippage().Mul(exitFrac)),
				SpreadCost:  parcel.spreadCost.Mul(entryFrac).Add(f.GetSpreadCost().Mul(exitFrac)),
				RealizedPnL: gross.Sub(commission),
				Liquidated:  f.IsLiquidated(),
			})

			parcel.commission = parcel.commission.Sub(parcel.commission.Mul(entryFrac))
			parcel.slippage = parcel.slippage.Sub(parcel.slippage.Mul(entryFrac))
			parcel.spreadCost = parcel.spreadCost.Sub(parcel.spreadCost.Mul(entryFrac))
			parcel.quantity = parcel.quantity.Sub(matched)
			remaining = remaining.Sub(matched)
			if parcel.quantity.IsZero() {
				queue = queue[1:]
			}
		}
		open[symbol] = queue
	}
	return trades
}
