package tickdata

import (
	"fmt"
	"os"

	"tickbars/internal/model"
)

// LoadFile reads a whole decompressed tick file and decodes it.
func LoadFile(path string, d Decoder) ([]model.Tick, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tick file: %w", err)
	}
	ticks, err := d.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return ticks, nil
}
