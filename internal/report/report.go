// Package report persists analysis and ranking history as daily JSONL
// files, one line per record, with gzip compaction of old days.
package report

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"sector-rotation-bot/internal/types"
)

var mu sync.Mutex

// kst is the market timezone; daily files roll over on KST midnight.
var kst = time.FixedZone("KST", 32400)

// Entry is one per-symbol analysis record.
type Entry struct {
	Time           string   `json:"time"`
	Symbol         string   `json:"symbol"`
	Name           string   `json:"name,omitempty"`
	Price          float64  `json:"price"`
	Action         string   `json:"action"`
	Recommendation string   `json:"recommendation"`
	BuyScore       float64  `json:"buy_score"`
	SellScore      float64  `json:"sell_score"`
	RubricTotal    float64  `json:"rubric_total"`
	Grade          string   `json:"grade"`
	Regime         string   `json:"regime"`
	Warnings       []string `json:"warnings,omitempty"`
	Extra          map[string]any `json:"extra,omitempty"`
}

// RankingEntry is one ranking-run record.
type RankingEntry struct {
	Time               string   `json:"time"`
	TopSymbols         []string `json:"top_symbols"`
	MergedCount        int      `json:"merged_count"`
	ContributingGroups []string `json:"contributing_groups"`
	EmptyGroups        []string `json:"empty_groups,omitempty"`
}

var dirOverride string

// SetDir overrides the output directory, taking precedence over the
// ANALYZER_REPORT_DIR environment variable.
func SetDir(dir string) {
	mu.Lock()
	defer mu.Unlock()
	dirOverride = dir
}

func logDir() string {
	if dirOverride != "" {
		return dirOverride
	}
	if v := os.Getenv("ANALYZER_REPORT_DIR"); v != "" {
		return v
	}
	return "reports"
}

func dailyFilepath(t time.Time) string {
	d := t.In(kst).Format("2006-01-02")
	return filepath.Join(logDir(), d+".txt")
}

func rankingFilepath(t time.Time) string {
	d := t.In(kst).Format("2006-01-02")
	return filepath.Join(logDir(), "rankings", d+".txt")
}

// FromResult builds an Entry from a full analysis result.
func FromResult(r types.AnalysisResult) Entry {
	e := Entry{
		Symbol:         r.Symbol,
		Name:           r.Name,
		Price:          r.CurrentPrice,
		Action:         r.Action,
		Recommendation: r.Recommendation,
		BuyScore:       r.Buy.AdjustedScore,
		SellScore:      r.Sell.AdjustedScore,
		Regime:         string(r.Regime.Trend),
		Warnings:       r.Warnings,
	}
	if r.Rubric != nil {
		e.RubricTotal = r.Rubric.Total
		e.Grade = string(r.Rubric.Grade)
	}
	return e
}

// Append writes one analysis record to today's file.
func Append(e Entry) error {
	mu.Lock()
	defer mu.Unlock()
	now := time.Now().In(kst)
	e.Time = now.Format("2006-01-02 15:04:05")
	return appendLine(dailyFilepath(now), e)
}

// AppendRanking writes one ranking-run record.
func AppendRanking(result types.RankingResult) error {
	mu.Lock()
	defer mu.Unlock()
	now := time.Now().In(kst)
	e := RankingEntry{
		Time:               now.Format("2006-01-02 15:04:05"),
		MergedCount:        len(result.Merged),
		ContributingGroups: result.ContributingGroups,
		EmptyGroups:        result.EmptyGroups,
	}
	for _, c := range result.FinalTop {
		e.TopSymbols = append(e.TopSymbols, c.Symbol)
	}
	return appendLine(rankingFilepath(now), e)
}

func appendLine(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, _ := json.Marshal(v)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips report files older than the retention window and
// removes the originals.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	root := logDir()
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(p) != ".txt" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil {
			return nil
		}
		cutoff := time.Now().AddDate(0, 0, -retentionDays)
		if info.ModTime().Before(cutoff) {
			gz := p + ".gz"
			if _, e2 := os.Stat(gz); e2 == nil {
				_ = os.Remove(p)
				return nil
			}

			in, e3 := os.Open(p)
			if e3 != nil {
				return nil
			}
			defer in.Close()

			out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
			if e4 != nil {
				return nil
			}
			gw := gzip.NewWriter(out)
			if _, e5 := io.Copy(gw, in); e5 == nil {
				_ = gw.Close()
				_ = out.Close()
				_ = os.Remove(p)
			} else {
				_ = gw.Close()
				_ = out.Close()
			}
		}
		return nil
	})
}
