package engine

import (
	"context"
	"math"
	"testing"

	"sector-rotation-bot/internal/types"
)

func TestFixedStopTriggered(t *testing.T) {
	e := NewStopLossEngine(0.07, 0.10, 0)
	state := e.Evaluate(context.Background(), "TEST", 100000, 92000, 100000)

	if state.Mode != types.StopFixed {
		t.Errorf("Expected FIXED mode, got %s", state.Mode)
	}
	if math.Abs(state.StopPrice-93000) > 1e-6 {
		t.Errorf("Expected stop at 93000, got %f", state.StopPrice)
	}
	if !state.Triggered {
		t.Error("Expected stop to be triggered at 92000")
	}
	if math.Abs(state.LossRate+0.08) > 1e-9 {
		t.Errorf("Expected loss rate -0.08, got %f", state.LossRate)
	}
}

func TestFixedStopNotTriggeredAbove(t *testing.T) {
	e := NewStopLossEngine(0.07, 0.10, 0)
	state := e.Evaluate(context.Background(), "TEST", 100000, 95000, 100000)

	if state.Triggered {
		t.Error("Expected no trigger at 95000 against a 93000 stop")
	}
}

func TestTrailingStopTakesOverWhenHigher(t *testing.T) {
	e := NewStopLossEngine(0.07, 0.10, 0)
	state := e.Evaluate(context.Background(), "TEST", 100000, 107000, 120000)

	if state.Mode != types.StopTrailing {
		t.Fatalf("Expected TRAILING mode, got %s", state.Mode)
	}
	if math.Abs(state.TrailingStopPrice-108000) > 1e-6 {
		t.Errorf("Expected trailing stop 108000, got %f", state.TrailingStopPrice)
	}
	if !state.Triggered {
		t.Error("Expected trigger at 107000 against a 108000 trailing stop")
	}
}

func TestTrailingModeOnSmallProfitKeepsFixedStop(t *testing.T) {
	// Any trade above entry is trailing mode, even while the fixed stop is
	// still the higher of the two.
	e := NewStopLossEngine(0.07, 0.10, 0)
	state := e.Evaluate(context.Background(), "TEST", 100000, 101000, 102000)

	if state.Mode != types.StopTrailing {
		t.Fatalf("Expected TRAILING mode once price traded above entry, got %s", state.Mode)
	}
	if math.Abs(state.TrailingStopPrice-91800) > 1e-6 {
		t.Errorf("Expected trailing stop 91800, got %f", state.TrailingStopPrice)
	}
	if math.Abs(state.StopPrice-93000) > 1e-6 {
		t.Errorf("Expected effective stop to stay at the fixed 93000, got %f", state.StopPrice)
	}
	if state.Triggered {
		t.Error("Expected no trigger at 101000")
	}
}

func TestTrailingInactiveBelowEntry(t *testing.T) {
	// The position never traded above entry: only the fixed stop applies.
	e := NewStopLossEngine(0.07, 0.10, 0)
	state := e.Evaluate(context.Background(), "TEST", 100000, 98000, 99000)

	if state.Mode != types.StopFixed {
		t.Errorf("Expected FIXED mode below entry, got %s", state.Mode)
	}
	if state.Triggered {
		t.Error("Expected no trigger at 98000")
	}
}

func TestHighestLiftedToCurrent(t *testing.T) {
	e := NewStopLossEngine(0.07, 0.10, 0)
	state := e.Evaluate(context.Background(), "TEST", 100000, 130000, 120000)

	if state.HighestPrice != 130000 {
		t.Errorf("Expected highest lifted to 130000, got %f", state.HighestPrice)
	}
	if math.Abs(state.StopPrice-117000) > 1e-6 {
		t.Errorf("Expected trailing stop 117000, got %f", state.StopPrice)
	}
	if state.Triggered {
		t.Error("Expected no trigger at a fresh high")
	}
}

func TestStopRoundsToTick(t *testing.T) {
	e := NewStopLossEngine(0.07, 0.10, 100)
	state := e.Evaluate(context.Background(), "TEST", 99990, 99000, 99990)

	if math.Mod(state.StopPrice, 100) != 0 {
		t.Errorf("Expected stop rounded to the 100 tick, got %f", state.StopPrice)
	}
}

func TestStopInvalidInputs(t *testing.T) {
	e := NewStopLossEngine(0.07, 0.10, 0)
	state := e.Evaluate(context.Background(), "TEST", 0, 95000, 0)

	if state.Mode != types.StopNone {
		t.Errorf("Expected NONE mode without a buy price, got %s", state.Mode)
	}
	if state.Triggered {
		t.Error("Expected no trigger without a buy price")
	}
}
