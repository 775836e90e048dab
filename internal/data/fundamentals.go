package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"sector-rotation-bot/internal/interfaces"
	"sector-rotation-bot/internal/types"
)

// StaticFundamentals serves fundamentals snapshots loaded once from a JSON
// file keyed by symbol. Unknown symbols get an empty snapshot, which the
// rubric scores at its neutral midpoints.
type StaticFundamentals struct {
	snapshots map[string]types.FundamentalSnapshot
}

var _ interfaces.FundamentalsProvider = (*StaticFundamentals)(nil)

func NewStaticFundamentals(snapshots map[string]types.FundamentalSnapshot) *StaticFundamentals {
	if snapshots == nil {
		snapshots = make(map[string]types.FundamentalSnapshot)
	}
	return &StaticFundamentals{snapshots: snapshots}
}

// LoadFundamentals reads a symbol->snapshot JSON map from path. A missing
// file is not an error: analysis degrades to neutral fundamentals.
func LoadFundamentals(path string) (*StaticFundamentals, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewStaticFundamentals(nil), nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var snapshots map[string]types.FundamentalSnapshot
	if err := json.Unmarshal(raw, &snapshots); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return NewStaticFundamentals(snapshots), nil
}

func (p *StaticFundamentals) Fundamentals(ctx context.Context, symbol string) (types.FundamentalSnapshot, error) {
	snap, ok := p.snapshots[symbol]
	if !ok {
		return types.FundamentalSnapshot{}, nil
	}
	return snap, nil
}
