package feed

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickbars/internal/aggregate"
	"tickbars/internal/model"
	"tickbars/internal/tickdata"
)

func ticksBuf(offsets ...int32) []byte {
	ticks := make([]model.Tick, len(offsets))
	for i, ms := range offsets {
		bid := decimal.New(110000+int64(i), -5)
		ticks[i] = model.Tick{TimeOffsetMs: ms, Bid: bid, Ask: bid}
	}
	return tickdata.Decoder{}.Encode(ticks)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestNewValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero frequency", Config{}},
		{"unknown frequency", Config{Frequency: model.Frequency(120)}},
		{"negative max len", Config{Frequency: model.Minute, MaxLen: -1}},
		{"bad digits", Config{Frequency: model.Minute, Digits: 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.cfg)
			assert.Nil(t, f)
			assert.True(t, errors.Is(err, model.ErrConfiguration), err)
		})
	}

	for _, freq := range model.Frequencies {
		f, err := New(Config{Frequency: freq})
		require.NoError(t, err)
		assert.Equal(t, freq, f.Frequency())
		assert.True(t, f.BarsHaveAdjClose())
	}
}

func TestParseDate(t *testing.T) {
	d := mustDate(t, "2024.03.01")
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), d)
	_, err := ParseDate("2024-03-01")
	assert.Error(t, err)
}

func TestAddBarsFromBytes(t *testing.T) {
	f, err := New(Config{Frequency: model.Minute})
	require.NoError(t, err)
	day := mustDate(t, "2024.03.01")

	bars, err := f.AddBarsFromBytes("EURUSD", day, ticksBuf(0, 30_000, 60_000, 125_000))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, day, bars[0].Time)
	assert.Equal(t, day.Add(time.Minute), bars[1].Time)
	assert.Equal(t, bars, f.Bars("EURUSD"))
	assert.Equal(t, []string{"EURUSD"}, f.Instruments())
	assert.Equal(t, 2, f.Len("EURUSD"))
}

func TestAddBarsFromBytesFlushLast(t *testing.T) {
	f, err := New(Config{Frequency: model.Minute, FlushMode: aggregate.FlushLast})
	require.NoError(t, err)
	bars, err := f.AddBarsFromBytes("EURUSD", mustDate(t, "2024.03.01"), ticksBuf(0, 1_000))
	require.NoError(t, err)
	assert.Len(t, bars, 1)
}

func TestAddBarsFromBytesErrors(t *testing.T) {
	f, err := New(Config{Frequency: model.Trade})
	require.NoError(t, err)

	_, err = f.AddBarsFromBytes("EURUSD", time.Time{}, make([]byte, 21))
	assert.True(t, errors.Is(err, model.ErrFormat))
	assert.Empty(t, f.Instruments())

	_, err = f.AddBarsFromBytes("", time.Time{}, nil)
	assert.Error(t, err)
}

func TestAddBarsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2024.03.01.bin")
	require.NoError(t, os.WriteFile(path, ticksBuf(0, 1, 2), 0644))

	f, err := New(Config{Frequency: model.Trade})
	require.NoError(t, err)
	bars, err := f.AddBarsFromFile("GBPUSD", mustDate(t, "2024.03.01"), path)
	require.NoError(t, err)
	assert.Len(t, bars, 3)
	assert.Equal(t, 3, f.Len("GBPUSD"))

	_, err = f.AddBarsFromFile("GBPUSD", time.Time{}, path+".missing")
	assert.Error(t, err)
}

func TestBeforeRegisterErrorRegistersNothing(t *testing.T) {
	f, err := New(Config{Frequency: model.Trade})
	require.NoError(t, err)
	boom := errors.New("boom")
	var seen int
	_, err = f.AddBarsFromBytes("EURUSD", mustDate(t, "2024.03.01"), ticksBuf(0, 1),
		func(ticks []model.Tick, bars []model.Bar) error {
			seen = len(ticks)
			return boom
		})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, seen)
	assert.Zero(t, f.Len("EURUSD"))
	assert.Empty(t, f.Instruments())

	bars, err := f.AddBarsFromBytes("EURUSD", mustDate(t, "2024.03.01"), ticksBuf(0, 1),
		func([]model.Tick, []model.Bar) error { return nil })
	require.NoError(t, err)
	assert.Len(t, bars, 2)
	assert.Equal(t, 2, f.Len("EURUSD"))
}

func TestEmptyFileRegistersInstrument(t *testing.T) {
	f, err := New(Config{Frequency: model.Hour})
	require.NoError(t, err)
	bars, err := f.AddBarsFromBytes("USDJPY", mustDate(t, "2024.03.01"), nil)
	require.NoError(t, err)
	assert.Empty(t, bars)
	assert.Equal(t, []string{"USDJPY"}, f.Instruments())
	assert.Zero(t, f.Len("USDJPY"))
}

func TestSeriesSortedAcrossDays(t *testing.T) {
	f, err := New(Config{Frequency: model.Trade})
	require.NoError(t, err)
	_, err = f.AddBarsFromBytes("EURUSD", mustDate(t, "2024.03.02"), ticksBuf(5, 6))
	require.NoError(t, err)
	_, err = f.AddBarsFromBytes("EURUSD", mustDate(t, "2024.03.01"), ticksBuf(5, 6))
	require.NoError(t, err)

	bars := f.Bars("EURUSD")
	require.Len(t, bars, 4)
	for i := 1; i < len(bars); i++ {
		assert.False(t, bars[i].Time.Before(bars[i-1].Time))
	}
	assert.Equal(t, 1, bars[0].Time.Day())
}

func TestSeriesBoundedByMaxLen(t *testing.T) {
	f, err := New(Config{Frequency: model.Trade, MaxLen: 3})
	require.NoError(t, err)
	day := mustDate(t, "2024.03.01")
	_, err = f.AddBarsFromBytes("EURUSD", day, ticksBuf(1, 2, 3, 4, 5))
	require.NoError(t, err)

	bars := f.Bars("EURUSD")
	require.Len(t, bars, 3)
	assert.Equal(t, day.Add(3*time.Millisecond), bars[0].Time)
	assert.Equal(t, day.Add(5*time.Millisecond), bars[2].Time)
}

func TestBarsReturnsCopy(t *testing.T) {
	f, err := New(Config{Frequency: model.Trade})
	require.NoError(t, err)
	_, err = f.AddBarsFromBytes("EURUSD", mustDate(t, "2024.03.01"), ticksBuf(1))
	require.NoError(t, err)

	bars := f.Bars("EURUSD")
	bars[0].Volume = 1
	assert.Equal(t, aggregate.SyntheticVolume, f.Bars("EURUSD")[0].Volume)
}

func TestConcurrentRegistration(t *testing.T) {
	f, err := New(Config{Frequency: model.Second})
	require.NoError(t, err)
	buf := ticksBuf(0, 1_000, 2_000, 3_000)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			day := time.Date(2024, 3, 1+i, 0, 0, 0, 0, time.UTC)
			_, err := f.AddBarsFromBytes("EURUSD", day, buf)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 8*3, f.Len("EURUSD"))
}
