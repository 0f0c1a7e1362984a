package saver

import (
	"strings"
)

// PacketSaver writes one packet (the bars of one instrument-day) to a file.
// The convert pipeline depends only on this interface; main picks the format.
type PacketSaver interface {
	Save(rows []Row, path string) error
	Extension() string
}

// Formats lists the supported SAVE_FORMAT values.
var Formats = []string{"csv", "parquet", "json"}

// NewPacketSaver creates implementation by format (csv, parquet, json).
// Returns nil if format not supported.
func NewPacketSaver(format string) PacketSaver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	case "json":
		return JSONSaver{}
	default:
		return nil
	}
}
