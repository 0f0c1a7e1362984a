package saver

import "tickbars/internal/model"

// Row is the flat DTO written to packets (CSV/Parquet/JSON).
// Prices are float64 here; bars keep exact decimals until this point.
type Row struct {
	Timestamp int64    `json:"t" parquet:"t"` // Unix timestamp in milliseconds
	Open      float64  `json:"o" parquet:"o"`
	High      float64  `json:"h" parquet:"h"`
	Low       float64  `json:"l" parquet:"l"`
	Close     float64  `json:"c" parquet:"c"`
	Volume    int64    `json:"v" parquet:"v"`
	AdjClose  *float64 `json:"adj,omitempty" parquet:"adj,optional"`
	Frequency int64    `json:"f" parquet:"f"` // seconds, -1 for trade bars
}

// RowsFromBars converts bars to packet rows.
func RowsFromBars(bars []model.Bar) []Row {
	rows := make([]Row, len(bars))
	for i, b := range bars {
		rows[i] = Row{
			Timestamp: b.Time.UnixMilli(),
			Open:      b.Open.InexactFloat64(),
			High:      b.High.InexactFloat64(),
			Low:       b.Low.InexactFloat64(),
			Close:     b.Close.InexactFloat64(),
			Volume:    b.Volume,
			Frequency: int64(b.Frequency),
		}
		if b.AdjClose != nil {
			v := b.AdjClose.InexactFloat64()
			rows[i].AdjClose = &v
		}
	}
	return rows
}
