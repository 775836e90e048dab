package ranking

import (
	"reflect"
	"testing"

	"sector-rotation-bot/internal/types"
)

func candidate(symbol, sector, group string, total, supply, fund float64) types.Candidate {
	return types.Candidate{
		Symbol: symbol,
		Sector: sector,
		Group:  group,
		Rubric: types.RubricScore{
			Symbol: symbol,
			Total:  total,
			Categories: map[types.Category]types.CategoryScore{
				types.CategorySupply:      {Name: types.CategorySupply, Score: supply},
				types.CategoryFundamental: {Name: types.CategoryFundamental, Score: fund},
			},
		},
	}
}

func TestFinalScoreWeights(t *testing.T) {
	a := NewAggregator(DefaultConfig())
	c := candidate("005930", "semi", "g1", 80, 60, 40)

	want := 80*0.70 + 60*0.15 + 40*0.15
	if got := a.FinalScore(c); got != want {
		t.Errorf("Expected final score %f, got %f", want, got)
	}
}

func TestRankDeduplicatesAcrossGroups(t *testing.T) {
	a := NewAggregator(DefaultConfig())
	slates := []types.GroupSlate{
		{Group: "g1", Candidates: []types.Candidate{
			candidate("005930", "semi", "g1", 70, 50, 50),
			candidate("000660", "semi", "g1", 65, 50, 50),
		}},
		{Group: "g2", Candidates: []types.Candidate{
			candidate("005930", "semi", "g2", 75, 50, 50), // higher total wins
			candidate("035420", "platform", "g2", 60, 50, 50),
		}},
	}

	result := a.Rank(slates)

	if len(result.Merged) != 3 {
		t.Fatalf("Expected 4 entries deduplicated to 3, got %d", len(result.Merged))
	}
	for _, c := range result.Merged {
		if c.Symbol == "005930" {
			if c.Rubric.Total != 75 || c.Group != "g2" {
				t.Errorf("Expected the higher-scoring duplicate to win, got total %f from %s", c.Rubric.Total, c.Group)
			}
		}
	}
}

func TestRankDedupTieKeepsFirstSeen(t *testing.T) {
	a := NewAggregator(DefaultConfig())
	slates := []types.GroupSlate{
		{Group: "g1", Candidates: []types.Candidate{candidate("005930", "semi", "g1", 70, 50, 50)}},
		{Group: "g2", Candidates: []types.Candidate{candidate("005930", "semi", "g2", 70, 50, 50)}},
	}

	result := a.Rank(slates)

	if len(result.Merged) != 1 {
		t.Fatalf("Expected 1 merged entry, got %d", len(result.Merged))
	}
	if result.Merged[0].Group != "g1" {
		t.Errorf("Expected the first-seen group to win the tie, got %s", result.Merged[0].Group)
	}
}

func TestRankRecordsEmptyGroups(t *testing.T) {
	a := NewAggregator(DefaultConfig())
	slates := []types.GroupSlate{
		{Group: "g1", Candidates: []types.Candidate{candidate("005930", "semi", "g1", 70, 50, 50)}},
		{Group: "g2"},
	}

	result := a.Rank(slates)

	if !reflect.DeepEqual(result.ContributingGroups, []string{"g1"}) {
		t.Errorf("Expected contributing [g1], got %v", result.ContributingGroups)
	}
	if !reflect.DeepEqual(result.EmptyGroups, []string{"g2"}) {
		t.Errorf("Expected empty [g2], got %v", result.EmptyGroups)
	}
}

func TestRankCapsMergedList(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergedCap = 5
	a := NewAggregator(cfg)

	var cands []types.Candidate
	for i := 0; i < 12; i++ {
		cands = append(cands, candidate(string(rune('A'+i)), "s", "g1", float64(90-i), 50, 50))
	}
	result := a.Rank([]types.GroupSlate{{Group: "g1", Candidates: cands}})

	if len(result.Merged) != 5 {
		t.Fatalf("Expected merged list capped at 5, got %d", len(result.Merged))
	}
	if result.Merged[0].Symbol != "A" {
		t.Errorf("Expected highest total first, got %s", result.Merged[0].Symbol)
	}
}

func TestSelectTopOrdersByFinalScore(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SectorDiverse = false
	a := NewAggregator(cfg)

	slates := []types.GroupSlate{{Group: "g1", Candidates: []types.Candidate{
		candidate("A", "s1", "g1", 70, 90, 50), // final 70.0
		candidate("B", "s1", "g1", 75, 40, 40), // final 64.5
		candidate("C", "s1", "g1", 60, 95, 95), // final 70.5
		candidate("D", "s1", "g1", 50, 50, 50), // final 50.0
	}}}

	result := a.Rank(slates)

	if len(result.FinalTop) != 3 {
		t.Fatalf("Expected top 3, got %d", len(result.FinalTop))
	}
	want := []string{"C", "A", "B"}
	for i, c := range result.FinalTop {
		if c.Symbol != want[i] {
			t.Errorf("Expected %s at rank %d, got %s", want[i], i, c.Symbol)
		}
	}
}

func TestSelectTopPrefersNewSectorInsideBand(t *testing.T) {
	a := NewAggregator(DefaultConfig())

	slates := []types.GroupSlate{{Group: "g1", Candidates: []types.Candidate{
		candidate("A", "semi", "g1", 80, 50, 50),
		candidate("B", "semi", "g1", 79.5, 50, 50), // near-tie with C
		candidate("C", "bio", "g1", 79.3, 50, 50),  // new sector inside the band
	}}}

	result := a.Rank(slates)

	if len(result.FinalTop) != 3 {
		t.Fatalf("Expected top 3, got %d", len(result.FinalTop))
	}
	if result.FinalTop[0].Symbol != "A" {
		t.Errorf("Expected A first, got %s", result.FinalTop[0].Symbol)
	}
	if result.FinalTop[1].Symbol != "C" {
		t.Errorf("Expected the new sector C to jump B inside the band, got %s", result.FinalTop[1].Symbol)
	}
}

func TestRankDeterministic(t *testing.T) {
	a := NewAggregator(DefaultConfig())
	slates := []types.GroupSlate{{Group: "g1", Candidates: []types.Candidate{
		candidate("A", "s1", "g1", 70, 60, 50),
		candidate("B", "s2", "g1", 68, 55, 52),
		candidate("C", "s3", "g1", 66, 53, 51),
	}}}

	first := a.Rank(slates)
	for i := 0; i < 5; i++ {
		again := a.Rank(slates)
		if !reflect.DeepEqual(first, again) {
			t.Fatal("Expected identical slates to rank identically")
		}
	}
}
