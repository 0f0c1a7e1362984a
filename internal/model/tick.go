package model

import "github.com/shopspring/decimal"

// Tick is one bid/ask quote from a tick file.
// TimeOffsetMs counts milliseconds from midnight of the day the file covers.
type Tick struct {
	TimeOffsetMs int32
	Ask          decimal.Decimal
	Bid          decimal.Decimal
}
