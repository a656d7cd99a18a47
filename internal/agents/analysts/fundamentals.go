package analysts

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/marketmind-ai/marketmind/consts"
	"github.com/marketmind-ai/marketmind/internal/agents"
	"github.com/marketmind-ai/marketmind/internal/llm"
	"github.com/marketmind-ai/marketmind/internal/models"
)

// FundamentalsAnalyst evaluates valuation and earnings quality.
type FundamentalsAnalyst struct {
	gen llm.Generator
}

func NewFundamentalsAnalyst(gen llm.Generator) *FundamentalsAnalyst {
	return &FundamentalsAnalyst{gen: gen}
}

func (a *FundamentalsAnalyst) Slot() string { return consts.AnalystFundamentals }

func (a *FundamentalsAnalyst) Analyze(ctx context.Context, actx *agents.AnalysisContext) (*models.AgentReport, error) {
	user := fmt.Sprintf("Symbol: %s\n\n%s\n\nRecent price action:\n%s\n%s",
		actx.Symbol, actx.FundamentalsSummary(), actx.PriceSummary(10), actx.LessonsSummary())

	text, err := a.gen.Generate(ctx, agents.FundamentalsPrompt, user)
	if err != nil {
		return nil, fmt.Errorf("fundamentals analysis for %s: %w", actx.Symbol, err)
	}

	payload := struct {
		Thesis         string   `json:"thesis"`
		Confidence     float64  `json:"confidence"`
		IntrinsicValue float64  `json:"intrinsic_value"`
		KeyPoints      []string `json:"key_points"`
	}{Thesis: string(models.SentimentNeutral), Confidence: 0.3}

	if raw, ok := llm.ExtractJSON(text); ok {
		if err := json.Unmarshal(raw, &payload); err != nil {
			log.Printf("[FundamentalsAnalyst] malformed payload for %s: %v", actx.Symbol, err)
		}
	} else {
		log.Printf("[FundamentalsAnalyst] no JSON payload for %s, using defaults", actx.Symbol)
	}

	currentPrice := 0.0
	if actx.Quote != nil {
		currentPrice, _ = actx.Quote.Close.Float64()
	}
	var peRatio float64
	if actx.Fundamentals != nil {
		peRatio = actx.Fundamentals.PERatio
	}

	return &models.AgentReport{
		Role:       models.RoleFundamentalsAnalyst,
		Symbol:     actx.Symbol,
		Summary:    text,
		Confidence: models.ClampConfidence(payload.Confidence),
		Timestamp:  time.Now(),
		Fundamentals: &models.FundamentalsDetails{
			PERatio:        peRatio,
			IntrinsicValue: payload.IntrinsicValue,
			CurrentPrice:   currentPrice,
			Thesis:         normalizeSentiment(payload.Thesis),
			KeyPoints:      payload.KeyPoints,
		},
	}, nil
}

// normalizeSentiment coerces a free-form sentiment string to a known value,
// defaulting to neutral.
func normalizeSentiment(s string) models.Sentiment {
	switch models.Sentiment(s) {
	case models.SentimentVeryBearish, models.SentimentBearish, models.SentimentNeutral,
		models.SentimentBullish, models.SentimentVeryBullish:
		return models.Sentiment(s)
	default:
		return models.SentimentNeutral
	}
}
