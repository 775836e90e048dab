package report

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sector-rotation-bot/internal/types"
)

func useTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	SetDir(dir)
	t.Cleanup(func() { SetDir("") })
	return dir
}

func TestFromResult(t *testing.T) {
	total := types.RubricScore{Total: 72.5, Grade: types.GradeBuy}
	r := types.AnalysisResult{
		Symbol:         "005930",
		Name:           "Samsung Electronics",
		CurrentPrice:   71000,
		Action:         "BUY",
		Recommendation: "STRONG BUY",
		Buy:            types.BuyAnalysis{SignalScore: types.SignalScore{AdjustedScore: 75}},
		Sell:           types.SellAnalysis{SignalScore: types.SignalScore{AdjustedScore: 10}},
		Rubric:         &total,
		Regime:         types.RegimeState{Trend: types.TrendBull},
	}

	e := FromResult(r)
	if e.Symbol != "005930" || e.Price != 71000 {
		t.Errorf("Expected symbol/price carried over, got %s/%f", e.Symbol, e.Price)
	}
	if e.RubricTotal != 72.5 || e.Grade != string(types.GradeBuy) {
		t.Errorf("Expected rubric fields carried over, got %f/%s", e.RubricTotal, e.Grade)
	}
	if e.Regime != string(types.TrendBull) {
		t.Errorf("Expected regime BULL, got %s", e.Regime)
	}
}

func TestAppendWritesJSONL(t *testing.T) {
	dir := useTempDir(t)

	if err := Append(Entry{Symbol: "005930", Action: "BUY"}); err != nil {
		t.Fatalf("Expected append to succeed, got %v", err)
	}
	if err := Append(Entry{Symbol: "000660", Action: "WAIT"}); err != nil {
		t.Fatalf("Expected second append to succeed, got %v", err)
	}

	name := time.Now().In(kst).Format("2006-01-02") + ".txt"
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("Expected the daily file, got %v", err)
	}
	defer f.Close()

	var lines []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("Expected valid JSON per line, got %v", err)
		}
		lines = append(lines, e)
	}
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if lines[0].Symbol != "005930" || lines[1].Symbol != "000660" {
		t.Errorf("Expected append order preserved, got %s/%s", lines[0].Symbol, lines[1].Symbol)
	}
	if lines[0].Time == "" {
		t.Error("Expected a timestamp to be stamped on append")
	}
}

func TestAppendRanking(t *testing.T) {
	dir := useTempDir(t)

	result := types.RankingResult{
		FinalTop: []types.Candidate{
			{Symbol: "005930"}, {Symbol: "000660"},
		},
		Merged:             make([]types.Candidate, 7),
		ContributingGroups: []string{"g1", "g2"},
	}
	if err := AppendRanking(result); err != nil {
		t.Fatalf("Expected ranking append to succeed, got %v", err)
	}

	name := time.Now().In(kst).Format("2006-01-02") + ".txt"
	b, err := os.ReadFile(filepath.Join(dir, "rankings", name))
	if err != nil {
		t.Fatalf("Expected the ranking file, got %v", err)
	}

	var e RankingEntry
	if err := json.Unmarshal(b[:len(b)-1], &e); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if len(e.TopSymbols) != 2 || e.TopSymbols[0] != "005930" {
		t.Errorf("Expected top symbols recorded, got %v", e.TopSymbols)
	}
	if e.MergedCount != 7 {
		t.Errorf("Expected merged count 7, got %d", e.MergedCount)
	}
}

func TestCompressOlderNoRetentionIsNoop(t *testing.T) {
	useTempDir(t)
	if err := CompressOlder(0); err != nil {
		t.Errorf("Expected zero retention to be a no-op, got %v", err)
	}
}
