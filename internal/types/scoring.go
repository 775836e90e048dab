package types

// Category names one rubric scoring dimension.
type Category string

const (
	CategoryTechnical        Category = "technical"
	CategorySupply           Category = "supply"
	CategoryFundamental      Category = "fundamental"
	CategoryMarket           Category = "market"
	CategoryRisk             Category = "risk"
	CategoryRelativeStrength Category = "relative_strength"
)

// Grade is the rubric investment grade label.
type Grade string

const (
	GradeStrongBuy  Grade = "Strong Buy"
	GradeBuy        Grade = "Buy"
	GradeHold       Grade = "Hold"
	GradeSell       Grade = "Sell"
	GradeStrongSell Grade = "Strong Sell"
)

// CategoryScore is one weighted rubric dimension. Score is normalized to
// 0-100 regardless of the category's weight; Weighted is the contribution to
// the 0-100 total.
type CategoryScore struct {
	Name     Category           `json:"name"`
	Score    float64            `json:"score"`
	Weight   int                `json:"weight"`
	Weighted float64            `json:"weighted"`
	Details  map[string]float64 `json:"details,omitempty"`
}

// RubricScore is the weighted multi-category evaluation of one symbol.
type RubricScore struct {
	Symbol     string                     `json:"symbol"`
	Name       string                     `json:"name,omitempty"`
	Version    string                     `json:"version"` // "v1" or "v2"
	Categories map[Category]CategoryScore `json:"categories"`
	Total      float64                    `json:"total"`
	Grade      Grade                      `json:"grade"`
}

// CategoryScoreValue returns the normalized 0-100 score of a category, or
// the neutral midpoint when the category is absent from this table version.
func (r RubricScore) CategoryScoreValue(c Category) float64 {
	if cs, ok := r.Categories[c]; ok {
		return cs.Score
	}
	return 50.0
}

// Candidate is one symbol nominated by a screening group, carrying its full
// rubric score for audit.
type Candidate struct {
	Symbol    string      `json:"symbol"`
	Name      string      `json:"name,omitempty"`
	Sector    string      `json:"sector,omitempty"`
	Group     string      `json:"group"`
	MarketCap float64     `json:"market_cap,omitempty"`
	Rubric    RubricScore `json:"rubric"`
}

// GroupSlate is one origin group's contribution to a ranking run. An empty
// Candidates slice represents a failed or dry group.
type GroupSlate struct {
	Group      string      `json:"group"`
	Candidates []Candidate `json:"candidates"`
}

// RankingResult is the merged, deduplicated outcome of one ranking run.
type RankingResult struct {
	Merged             []Candidate `json:"merged"`
	FinalTop           []Candidate `json:"final_top"`
	ContributingGroups []string    `json:"contributing_groups"`
	EmptyGroups        []string    `json:"empty_groups,omitempty"`
}
