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

// SentimentAnalyst gauges social and retail sentiment from headlines.
type SentimentAnalyst struct {
	gen llm.Generator
}

func NewSentimentAnalyst(gen llm.Generator) *SentimentAnalyst {
	return &SentimentAnalyst{gen: gen}
}

func (a *SentimentAnalyst) Slot() string { return consts.AnalystSentiment }

func (a *SentimentAnalyst) Analyze(ctx context.Context, actx *agents.AnalysisContext) (*models.AgentReport, error) {
	user := fmt.Sprintf("Symbol: %s\n\nRecent headlines:\n%s", actx.Symbol, actx.NewsDigest(15))

	text, err := a.gen.Generate(ctx, agents.SentimentPrompt, user)
	if err != nil {
		return nil, fmt.Errorf("sentiment analysis for %s: %w", actx.Symbol, err)
	}

	payload := struct {
		Sentiment      string   `json:"sentiment"`
		Score          float64  `json:"score"`
		Confidence     float64  `json:"confidence"`
		TrendingTopics []string `json:"trending_topics"`
	}{Sentiment: string(models.SentimentNeutral), Confidence: 0.3}

	if raw, ok := llm.ExtractJSON(text); ok {
		if err := json.Unmarshal(raw, &payload); err != nil {
			log.Printf("[SentimentAnalyst] malformed payload for %s: %v", actx.Symbol, err)
		}
	} else {
		log.Printf("[SentimentAnalyst] no JSON payload for %s, using defaults", actx.Symbol)
	}

	return &models.AgentReport{
		Role:       models.RoleSentimentAnalyst,
		Symbol:     actx.Symbol,
		Summary:    text,
		Confidence: models.ClampConfidence(payload.Confidence),
		Timestamp:  time.Now(),
		Sentiment: &models.SentimentDetails{
			Social:         normalizeSentiment(payload.Sentiment),
			Score:          payload.Score,
			TrendingTopics: payload.TrendingTopics,
		},
	}, nil
}
