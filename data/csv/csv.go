// Package csv loads OHLCV bars from CSV files. All prices are parsed with
// decimal.NewFromString so no binary floating point representation ever
// touches a monetary value
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/apexquant/apexbt/common"
	"github.com/apexquant/apexbt/eventtypes/event"
	"github.com/apexquant/apexbt/eventtypes/kline"
	"github.com/shopspring/decimal"
)

// expected header: timestamp,open,high,low,close,volume
const expectedColumns = 6

var (
	// ErrBadRow occurs when a CSV row cannot be parsed into a bar
	ErrBadRow = errors.New("could not parse csv row")
)

// LoadBars reads a CSV file into a bar stream. Timestamps are RFC3339.
// When skipZeroVolume is set, zero volume bars are dropped at ingestion so
// they never feed the engine
func LoadBars(path, symbol string, interval common.Interval, skipZeroVolume bool) ([]kline.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadBars(f, symbol, interval, skipZeroVolume)
}

// ReadBars parses CSV bar data from a reader, see LoadBars
func ReadBars(r io.Reader, symbol string, interval common.Interval, skipZeroVolume bool) ([]kline.Event, error) {
	c := csv.NewReader(r)
	c.FieldsPerRecord = expectedColumns

	var stream []kline.Event
	for row := 1; ; row++ {
		record, err := c.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if row == 1 && record[0] == "timestamp" {
			continue
		}
		k, err := parseRow(record, symbol, interval)
		if err != nil {
			return nil, fmt.Errorf("%w %v: %v", ErrBadRow, row, err)
		}
		if skipZeroVolume && k.Volume == 0 {
			continue
		}
		stream = append(stream, k)
	}
	return stream, nil
}

func parseRow(record []string, symbol string, interval common.Interval) (*kline.Kline, error) {
	ts, err := time.Parse(time.RFC3339, record[0])
	if err != nil {
		return nil, err
	}
	prices := make([]decimal.Decimal, 4)
	for i := range prices {
		prices[i], err = decimal.NewFromString(record[i+1])
		if err != nil {
			return nil, err
		}
	}
	volume, err := strconv.ParseInt(record[5], 10, 64)
	if err != nil {
		return nil, err
	}
	return &kline.Kline{
		Base: &event.Base{
			Symbol:   symbol,
			Time:     ts,
			Interval: interval,
		},
		Open:   prices[0],
		High:   prices[1],
		Low:    prices[2],
		Close:  prices[3],
		Volume: volume,
	}, nil
}
