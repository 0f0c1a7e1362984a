// Package tickdata decodes raw tick files: fixed 20-byte big-endian records
// (time ms since midnight, ask, bid, 8 unused bytes). Files must already be decompressed.
package tickdata

import (
	"encoding/binary"

	"github.com/shopspring/decimal"

	"tickbars/internal/model"
)

const (
	// RecordSize is the size of one tick record in bytes.
	RecordSize = 20

	// DefaultDigits is the price scale of the files: raw / 10^5.
	DefaultDigits = 5

	// MaxDigits bounds the configurable price scale.
	MaxDigits = 10
)

// Decoder turns tick buffers into ticks. The zero value uses DefaultDigits.
type Decoder struct {
	digits int32
}

// NewDecoder returns a Decoder with the given price scale (number of decimal digits).
// Most pairs use 5; JPY crosses use 3.
func NewDecoder(digits int) (Decoder, error) {
	if digits < 1 || digits > MaxDigits {
		return Decoder{}, &model.ConfigurationError{Field: "price digits", Value: digits, Reason: "must be between 1 and 10"}
	}
	return Decoder{digits: int32(digits)}, nil
}

// Digits returns the price scale in use.
func (d Decoder) Digits() int {
	if d.digits == 0 {
		return DefaultDigits
	}
	return int(d.digits)
}

// Decode parses buf into ticks in file order. A trailing partial record is a
// *model.FormatError and nothing is returned. Prices are passed through unvalidated.
func (d Decoder) Decode(buf []byte) ([]model.Tick, error) {
	if len(buf)%RecordSize != 0 {
		return nil, &model.FormatError{Len: len(buf), RecordSize: RecordSize}
	}
	exp := -int32(d.Digits())
	ticks := make([]model.Tick, 0, len(buf)/RecordSize)
	for off := 0; off < len(buf); off += RecordSize {
		rec := buf[off : off+RecordSize]
		ticks = append(ticks, model.Tick{
			TimeOffsetMs: int32(binary.BigEndian.Uint32(rec[0:4])),
			Ask:          decimal.New(int64(int32(binary.BigEndian.Uint32(rec[4:8]))), exp),
			Bid:          decimal.New(int64(int32(binary.BigEndian.Uint32(rec[8:12]))), exp),
		})
		// rec[12:20] is unused
	}
	return ticks, nil
}

// Decode parses buf with DefaultDigits.
func Decode(buf []byte) ([]model.Tick, error) {
	return Decoder{}.Decode(buf)
}

// Encode is the inverse of Decode for the given ticks; the unused bytes are zero.
// Prices are truncated to the decoder's scale.
func (d Decoder) Encode(ticks []model.Tick) []byte {
	buf := make([]byte, len(ticks)*RecordSize)
	scale := decimal.New(1, int32(d.Digits()))
	for i, t := range ticks {
		rec := buf[i*RecordSize : (i+1)*RecordSize]
		binary.BigEndian.PutUint32(rec[0:4], uint32(t.TimeOffsetMs))
		binary.BigEndian.PutUint32(rec[4:8], uint32(int32(t.Ask.Mul(scale).IntPart())))
		binary.BigEndian.PutUint32(rec[8:12], uint32(int32(t.Bid.Mul(scale).IntPart())))
	}
	return buf
}
