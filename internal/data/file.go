package data

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"sector-rotation-bot/internal/interfaces"
	"sector-rotation-bot/internal/types"
)

// FileProvider reads daily bars from <dir>/<symbol>.csv. Columns:
// date,open,high,low,close,volume with dates in 2006-01-02 order,
// oldest first. A missing file maps to types.ErrDataUnavailable so the
// batch runner can skip the symbol.
type FileProvider struct {
	dir string
}

var _ interfaces.PriceProvider = (*FileProvider)(nil)

func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{dir: dir}
}

func (p *FileProvider) History(ctx context.Context, symbol string, bars int) (types.PriceSeries, error) {
	path := filepath.Join(p.dir, symbol+".csv")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.PriceSeries{}, fmt.Errorf("%s: %w", symbol, types.ErrDataUnavailable)
		}
		return types.PriceSeries{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 6

	rows, err := r.ReadAll()
	if err != nil {
		return types.PriceSeries{}, fmt.Errorf("read %s: %w", path, err)
	}

	out := make([]types.PriceBar, 0, len(rows))
	for i, row := range rows {
		if i == 0 && row[0] == "date" {
			continue // header
		}
		bar, err := parseBar(row)
		if err != nil {
			return types.PriceSeries{}, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
		out = append(out, bar)
	}

	if bars > 0 && len(out) > bars {
		out = out[len(out)-bars:]
	}

	return types.PriceSeries{Symbol: symbol, Bars: out}, nil
}

func parseBar(row []string) (types.PriceBar, error) {
	date, err := time.Parse("2006-01-02", row[0])
	if err != nil {
		return types.PriceBar{}, fmt.Errorf("bad date %q: %w", row[0], err)
	}

	vals := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(row[i+1], 64)
		if err != nil {
			return types.PriceBar{}, fmt.Errorf("bad field %q: %w", row[i+1], err)
		}
		vals[i] = v
	}

	return types.PriceBar{
		Date:   date,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}
