package news

import (
	"strings"
	"time"

	"sector-rotation-bot/internal/types"
)

// Keyword tables for headline classification. Matching is substring-based
// and case-insensitive; Korean terms carry the bulk of the signal, English
// aliases cover wire-service headlines.
var positiveKeywords = []string{
	"수주", "계약", "공급", "흑자", "흑자전환", "호실적", "최대 실적",
	"실적 개선", "증설", "신제품", "출시", "승인", "허가", "특허",
	"자사주 매입", "배당 확대", "목표가 상향", "신고가",
	"contract win", "record earnings", "beats estimates", "upgrade",
	"buyback", "approval",
}

var negativeKeywords = []string{
	"적자", "적자전환", "실적 악화", "어닝쇼크", "리콜", "소송", "제재",
	"횡령", "배임", "감자", "유상증자", "전환사채", "신주인수권",
	"목표가 하향", "신저가", "공매도", "상장폐지", "거래정지",
	"lawsuit", "recall", "downgrade", "misses estimates", "delisting",
}

// SentimentAnalyzer classifies scraped articles with keyword matching and
// aggregates them into one sentiment scalar per symbol.
type SentimentAnalyzer struct {
	positive []string
	negative []string
	now      func() time.Time
}

// NewSentimentAnalyzer creates an analyzer with the default keyword tables.
func NewSentimentAnalyzer() *SentimentAnalyzer {
	return &SentimentAnalyzer{
		positive: positiveKeywords,
		negative: negativeKeywords,
		now:      time.Now,
	}
}

// ClassifyArticle scores one article: +1 positive, -1 negative, 0 neutral.
// An article that matches both tables counts as negative; bad news
// dominates.
func (a *SentimentAnalyzer) ClassifyArticle(article types.NewsArticle) int {
	text := strings.ToLower(article.Title + " " + article.Content)

	matched := 0
	for _, kw := range a.positive {
		if strings.Contains(text, strings.ToLower(kw)) {
			matched = 1
			break
		}
	}
	for _, kw := range a.negative {
		if strings.Contains(text, strings.ToLower(kw)) {
			return -1
		}
	}
	return matched
}

// Aggregate reduces a set of articles to the symbol's NewsSentiment. No
// articles yields a neutral score of 0 with a zero article count.
func (a *SentimentAnalyzer) Aggregate(symbol string, articles []types.NewsArticle) types.NewsSentiment {
	sentiment := types.NewsSentiment{
		Symbol:    symbol,
		FetchedAt: a.now(),
	}
	for _, article := range articles {
		switch a.ClassifyArticle(article) {
		case 1:
			sentiment.Positive++
		case -1:
			sentiment.Negative++
		default:
			sentiment.Neutral++
		}
	}
	sentiment.ArticleCount = len(articles)
	if classified := sentiment.Positive + sentiment.Negative; classified > 0 {
		sentiment.AvgScore = float64(sentiment.Positive-sentiment.Negative) / float64(classified)
	}
	return sentiment
}
