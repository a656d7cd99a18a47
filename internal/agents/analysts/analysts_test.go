package analysts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/marketmind-ai/marketmind/internal/agents"
	"github.com/marketmind-ai/marketmind/internal/dataflows"
	"github.com/marketmind-ai/marketmind/internal/models"
)

type scriptedGenerator struct {
	response string
	err      error
}

func (g *scriptedGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	return g.response, g.err
}

func testContext(symbol string) *agents.AnalysisContext {
	return &agents.AnalysisContext{
		Symbol: symbol,
		News: []*dataflows.NewsArticle{
			{Title: "Company beats earnings, shares surge on strong growth", PublishedAt: time.Now()},
			{Title: "Analysts upgrade stock after record quarter", PublishedAt: time.Now()},
			{Title: "Minor lawsuit filed against supplier", PublishedAt: time.Now()},
		},
	}
}

func TestFundamentalsAnalystParsesPayload(t *testing.T) {
	gen := &scriptedGenerator{response: "Looks undervalued.\n```json\n{\"thesis\": \"bullish\", \"confidence\": 0.75, \"intrinsic_value\": 210.0, \"key_points\": [\"strong margins\"]}\n```"}
	a := NewFundamentalsAnalyst(gen)

	report, err := a.Analyze(context.Background(), testContext("AAPL"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.Role != models.RoleFundamentalsAnalyst {
		t.Fatalf("unexpected role %s", report.Role)
	}
	if report.Fundamentals == nil || report.Fundamentals.Thesis != models.SentimentBullish {
		t.Fatalf("unexpected details: %+v", report.Fundamentals)
	}
	if report.Confidence != 0.75 {
		t.Fatalf("expected confidence 0.75, got %v", report.Confidence)
	}
}

func TestFundamentalsAnalystMalformedOutputFallsBack(t *testing.T) {
	gen := &scriptedGenerator{response: "I cannot decide. No JSON today."}
	a := NewFundamentalsAnalyst(gen)

	report, err := a.Analyze(context.Background(), testContext("AAPL"))
	if err != nil {
		t.Fatalf("malformed output must not error: %v", err)
	}
	if report.Fundamentals.Thesis != models.SentimentNeutral {
		t.Fatalf("expected neutral fallback, got %s", report.Fundamentals.Thesis)
	}
	if report.Confidence != 0.3 {
		t.Fatalf("expected conservative confidence, got %v", report.Confidence)
	}
}

func TestAnalystConfidenceClamped(t *testing.T) {
	gen := &scriptedGenerator{response: "```json\n{\"sentiment\": \"bullish\", \"score\": 0.9, \"confidence\": 3.5}\n```"}
	a := NewSentimentAnalyst(gen)

	report, err := a.Analyze(context.Background(), testContext("AAPL"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.Confidence != 1.0 {
		t.Fatalf("expected clamped confidence 1.0, got %v", report.Confidence)
	}
}

func TestAnalystPropagatesGeneratorError(t *testing.T) {
	sentinel := errors.New("provider down")
	a := NewTechnicalAnalyst(&scriptedGenerator{err: sentinel})

	if _, err := a.Analyze(context.Background(), testContext("AAPL")); !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped generator error, got %v", err)
	}
}

func TestTechnicalAnalystUnknownTrendDefaultsSideways(t *testing.T) {
	gen := &scriptedGenerator{response: "```json\n{\"trend\": \"to the moon\", \"confidence\": 0.5}\n```"}
	a := NewTechnicalAnalyst(gen)

	report, err := a.Analyze(context.Background(), testContext("AAPL"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.Technical.Trend != models.TrendSideways {
		t.Fatalf("expected sideways fallback, got %s", report.Technical.Trend)
	}
}

func TestNewsNLPAnalystDeterministic(t *testing.T) {
	a := NewNewsNLPAnalyst()
	actx := testContext("AAPL")

	first, err := a.Analyze(context.Background(), actx)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	second, err := a.Analyze(context.Background(), actx)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if first.NewsNLP.Score != second.NewsNLP.Score {
		t.Fatalf("lexicon scoring must be deterministic: %v vs %v", first.NewsNLP.Score, second.NewsNLP.Score)
	}
	if first.NewsNLP.PositiveHits <= first.NewsNLP.NegativeHits {
		t.Fatalf("expected net positive hits, got %+v", first.NewsNLP)
	}
	if first.NewsNLP.Sentiment == models.SentimentBearish || first.NewsNLP.Sentiment == models.SentimentVeryBearish {
		t.Fatalf("unexpected bearish read on positive headlines: %s", first.NewsNLP.Sentiment)
	}
}

func TestNewsNLPAnalystNoNews(t *testing.T) {
	a := NewNewsNLPAnalyst()
	report, err := a.Analyze(context.Background(), &agents.AnalysisContext{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.NewsNLP.Sentiment != models.SentimentNeutral {
		t.Fatalf("no news must read neutral, got %s", report.NewsNLP.Sentiment)
	}
	if report.NewsNLP.TextsAnalyzed != 0 {
		t.Fatalf("expected 0 texts analyzed, got %d", report.NewsNLP.TextsAnalyzed)
	}
}

func TestScoreToSentimentBounds(t *testing.T) {
	cases := []struct {
		score float64
		want  models.Sentiment
	}{
		{-1, models.SentimentVeryBearish},
		{-0.4, models.SentimentBearish},
		{0, models.SentimentNeutral},
		{0.4, models.SentimentBullish},
		{1, models.SentimentVeryBullish},
	}
	for _, tc := range cases {
		if got := scoreToSentiment(tc.score); got != tc.want {
			t.Fatalf("score %v: expected %s, got %s", tc.score, tc.want, got)
		}
	}
}
