package saver

import (
	"encoding/csv"
	"os"
	"strconv"
)

// CSVSaver writes packets as CSV (header: t,o,h,l,c,v,adj,f).
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(rows []Row, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)

	if err := w.Write([]string{"t", "o", "h", "l", "c", "v", "adj", "f"}); err != nil {
		return err
	}
	for _, r := range rows {
		adj := ""
		if r.AdjClose != nil {
			adj = floatStr(*r.AdjClose)
		}
		if err := w.Write([]string{
			strconv.FormatInt(r.Timestamp, 10),
			floatStr(r.Open),
			floatStr(r.High),
			floatStr(r.Low),
			floatStr(r.Close),
			strconv.FormatInt(r.Volume, 10),
			adj,
			strconv.FormatInt(r.Frequency, 10),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
