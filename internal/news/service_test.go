package news

import (
	"context"
	"testing"
	"time"

	"sector-rotation-bot/internal/types"
)

func TestSentimentCache(t *testing.T) {
	cache := newSentimentCache(1 * time.Second)

	symbol := "005930"
	sentiment := types.NewsSentiment{
		Symbol:       symbol,
		AvgScore:     0.8,
		ArticleCount: 5,
		FetchedAt:    time.Now(),
	}

	cache.set(symbol, sentiment)

	retrieved, found := cache.get(symbol)
	if !found {
		t.Fatal("Expected to find cached sentiment")
	}
	if retrieved.Symbol != symbol {
		t.Errorf("Expected symbol %s, got %s", symbol, retrieved.Symbol)
	}
	if retrieved.AvgScore != 0.8 {
		t.Errorf("Expected score 0.8, got %f", retrieved.AvgScore)
	}

	time.Sleep(2 * time.Second)
	if _, found = cache.get(symbol); found {
		t.Error("Expected cache entry to be expired")
	}
}

func TestServiceConfig(t *testing.T) {
	cfg := DefaultServiceConfig()

	if cfg.MaxArticles != 15 {
		t.Errorf("Expected MaxArticles to be 15, got %d", cfg.MaxArticles)
	}
	if cfg.CacheDuration != 1*time.Hour {
		t.Errorf("Expected CacheDuration to be 1 hour, got %v", cfg.CacheDuration)
	}
	if !cfg.Enabled {
		t.Error("Expected Enabled to be true")
	}
}

func TestNewService(t *testing.T) {
	svc := NewService(DefaultServiceConfig())

	if svc == nil {
		t.Fatal("Expected service to be created")
	}
	if svc.scraper == nil {
		t.Error("Expected scraper to be initialized")
	}
	if svc.analyzer == nil {
		t.Error("Expected analyzer to be initialized")
	}
	if svc.cache == nil {
		t.Error("Expected cache to be initialized")
	}
}

func TestServiceDisabledReturnsNeutral(t *testing.T) {
	svc := NewService(&ServiceConfig{Enabled: false})

	sentiment, err := svc.Sentiment(context.Background(), "005930")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if sentiment.AvgScore != 0 {
		t.Errorf("Expected neutral score when disabled, got %f", sentiment.AvgScore)
	}
	if sentiment.ArticleCount != 0 {
		t.Errorf("Expected zero articles when disabled, got %d", sentiment.ArticleCount)
	}
}

func TestClassifyArticle(t *testing.T) {
	a := NewSentimentAnalyzer()

	cases := []struct {
		title string
		want  int
	}{
		{"삼성전자, 대규모 수주 계약 체결", 1},
		{"흑자전환에 목표가 상향", 1},
		{"유상증자 결정에 주가 급락", -1},
		{"경영진 횡령 혐의로 소송", -1},
		{"오늘의 시황 정리", 0},
		{"Company beats estimates in Q2", 1},
		{"Regulator announces recall", -1},
	}
	for _, c := range cases {
		got := a.ClassifyArticle(types.NewsArticle{Title: c.title})
		if got != c.want {
			t.Errorf("ClassifyArticle(%q): expected %d, got %d", c.title, c.want, got)
		}
	}
}

func TestClassifyArticleNegativeDominates(t *testing.T) {
	a := NewSentimentAnalyzer()

	got := a.ClassifyArticle(types.NewsArticle{Title: "수주 소식에도 소송 리스크 부각"})
	if got != -1 {
		t.Errorf("Expected negative to dominate a mixed headline, got %d", got)
	}
}

func TestAggregate(t *testing.T) {
	a := NewSentimentAnalyzer()
	articles := []types.NewsArticle{
		{Title: "대규모 수주"},
		{Title: "신제품 출시"},
		{Title: "적자전환 우려"},
		{Title: "시황 정리"},
	}

	got := a.Aggregate("005930", articles)

	if got.ArticleCount != 4 {
		t.Errorf("Expected 4 articles, got %d", got.ArticleCount)
	}
	if got.Positive != 2 || got.Negative != 1 || got.Neutral != 1 {
		t.Errorf("Expected 2/1/1 split, got %d/%d/%d", got.Positive, got.Negative, got.Neutral)
	}
	want := float64(2-1) / float64(3)
	if got.AvgScore != want {
		t.Errorf("Expected average %f, got %f", want, got.AvgScore)
	}
}

func TestAggregateNoArticles(t *testing.T) {
	a := NewSentimentAnalyzer()
	got := a.Aggregate("005930", nil)

	if got.AvgScore != 0 || got.ArticleCount != 0 {
		t.Errorf("Expected neutral empty aggregate, got score=%f count=%d", got.AvgScore, got.ArticleCount)
	}
}
