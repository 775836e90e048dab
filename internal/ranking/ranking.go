// Package ranking merges the candidate slates produced by the screening
// groups into one deduplicated list and selects the final short-list. The
// whole pass is deterministic: identical slates always yield identical
// output.
package ranking

import (
	"sort"

	"sector-rotation-bot/internal/types"
)

// Config tunes the aggregator.
type Config struct {
	MergedCap     int     // cap on the merged candidate list
	TopN          int     // size of the final short-list
	TotalWeight   float64 // weight of the rubric total in the final score
	SupplyWeight  float64 // weight of the supply category
	FundWeight    float64 // weight of the fundamental category
	DiversityBand float64 // final-score band treated as a near-tie for sector diversity
	SectorDiverse bool    // prefer unrepresented sectors inside the band
}

// DefaultConfig returns the default aggregator configuration.
func DefaultConfig() Config {
	return Config{
		MergedCap:     18,
		TopN:          3,
		TotalWeight:   0.70,
		SupplyWeight:  0.15,
		FundWeight:    0.15,
		DiversityBand: 1.0,
		SectorDiverse: true,
	}
}

// Aggregator ranks candidates across screening groups.
type Aggregator struct {
	cfg Config
}

// NewAggregator creates an aggregator; zero config fields fall back to
// defaults.
func NewAggregator(cfg Config) *Aggregator {
	def := DefaultConfig()
	if cfg.MergedCap <= 0 {
		cfg.MergedCap = def.MergedCap
	}
	if cfg.TopN <= 0 {
		cfg.TopN = def.TopN
	}
	if cfg.TotalWeight == 0 && cfg.SupplyWeight == 0 && cfg.FundWeight == 0 {
		cfg.TotalWeight = def.TotalWeight
		cfg.SupplyWeight = def.SupplyWeight
		cfg.FundWeight = def.FundWeight
	}
	if cfg.DiversityBand == 0 {
		cfg.DiversityBand = def.DiversityBand
	}
	return &Aggregator{cfg: cfg}
}

// FinalScore blends the rubric total with its supply and fundamental
// category scores. Category scores are already normalized to 0-100, so the
// result stays in [0, 100].
func (a *Aggregator) FinalScore(c types.Candidate) float64 {
	return c.Rubric.Total*a.cfg.TotalWeight +
		c.Rubric.CategoryScoreValue(types.CategorySupply)*a.cfg.SupplyWeight +
		c.Rubric.CategoryScoreValue(types.CategoryFundamental)*a.cfg.FundWeight
}

// Rank merges all group slates, deduplicates by symbol, and selects the
// final short-list. Empty slates are recorded but never block the run.
func (a *Aggregator) Rank(slates []types.GroupSlate) types.RankingResult {
	result := types.RankingResult{}

	// Dedup policy: a symbol seen in several groups keeps its
	// higher-scoring occurrence; on an exact total tie the first-seen
	// group wins.
	index := make(map[string]int)
	var merged []types.Candidate
	for _, slate := range slates {
		if len(slate.Candidates) == 0 {
			result.EmptyGroups = append(result.EmptyGroups, slate.Group)
			continue
		}
		result.ContributingGroups = append(result.ContributingGroups, slate.Group)
		for _, c := range slate.Candidates {
			if i, seen := index[c.Symbol]; seen {
				if c.Rubric.Total > merged[i].Rubric.Total {
					merged[i] = c
				}
				continue
			}
			index[c.Symbol] = len(merged)
			merged = append(merged, c)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Rubric.Total != merged[j].Rubric.Total {
			return merged[i].Rubric.Total > merged[j].Rubric.Total
		}
		si := merged[i].Rubric.CategoryScoreValue(types.CategorySupply)
		sj := merged[j].Rubric.CategoryScoreValue(types.CategorySupply)
		if si != sj {
			return si > sj
		}
		return merged[i].MarketCap > merged[j].MarketCap
	})
	if len(merged) > a.cfg.MergedCap {
		merged = merged[:a.cfg.MergedCap]
	}
	result.Merged = merged

	result.FinalTop = a.selectTop(merged)
	return result
}

// selectTop orders candidates by final score and picks the short-list.
// Sector diversity is a soft preference: inside the near-tie band an
// unrepresented sector beats a repeated one.
func (a *Aggregator) selectTop(merged []types.Candidate) []types.Candidate {
	if len(merged) == 0 {
		return nil
	}
	pool := make([]types.Candidate, len(merged))
	copy(pool, merged)
	sort.SliceStable(pool, func(i, j int) bool {
		fi, fj := a.FinalScore(pool[i]), a.FinalScore(pool[j])
		if fi != fj {
			return fi > fj
		}
		si := pool[i].Rubric.CategoryScoreValue(types.CategorySupply)
		sj := pool[j].Rubric.CategoryScoreValue(types.CategorySupply)
		if si != sj {
			return si > sj
		}
		return pool[i].MarketCap > pool[j].MarketCap
	})

	n := a.cfg.TopN
	if n > len(pool) {
		n = len(pool)
	}
	if !a.cfg.SectorDiverse {
		return pool[:n]
	}

	var top []types.Candidate
	taken := make([]bool, len(pool))
	sectors := make(map[string]bool)
	for len(top) < n {
		pick := -1
		for i, c := range pool {
			if taken[i] {
				continue
			}
			if pick == -1 {
				pick = i
				continue
			}
			// swap only within the near-tie band, and only to gain a
			// new sector
			if a.FinalScore(pool[pick])-a.FinalScore(c) > a.cfg.DiversityBand {
				break
			}
			if c.Sector != "" && !sectors[c.Sector] && pool[pick].Sector != "" && sectors[pool[pick].Sector] {
				pick = i
			}
		}
		if pick == -1 {
			break
		}
		taken[pick] = true
		sectors[pool[pick].Sector] = true
		top = append(top, pool[pick])
	}
	return top
}
