package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar represents one OHLCV bar built from ticks.
// Time is the bucket start (or the tick time for TRADE bars).
type Bar struct {
	Time      time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    int64
	AdjClose  *decimal.Decimal // always nil: tick files carry no adjusted prices
	Frequency Frequency
}
