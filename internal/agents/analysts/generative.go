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

// GenerativeAnalyst produces the open-ended cross-domain view. It runs on the
// deep-think model tier.
type GenerativeAnalyst struct {
	gen llm.Generator
}

func NewGenerativeAnalyst(gen llm.Generator) *GenerativeAnalyst {
	return &GenerativeAnalyst{gen: gen}
}

func (a *GenerativeAnalyst) Slot() string { return consts.AnalystGenerative }

func (a *GenerativeAnalyst) Analyze(ctx context.Context, actx *agents.AnalysisContext) (*models.AgentReport, error) {
	user := fmt.Sprintf("Symbol: %s\n\n%s\n\nRecent price action:\n%s\nNews flow:\n%s\n%s",
		actx.Symbol, actx.FundamentalsSummary(), actx.PriceSummary(20),
		actx.NewsDigest(10), actx.LessonsSummary())

	text, err := a.gen.Generate(ctx, agents.GenerativePrompt, user)
	if err != nil {
		return nil, fmt.Errorf("generative analysis for %s: %w", actx.Symbol, err)
	}

	payload := struct {
		Confidence    float64  `json:"confidence"`
		KeyInsights   []string `json:"key_insights"`
		Risks         []string `json:"risks"`
		Opportunities []string `json:"opportunities"`
	}{Confidence: 0.3}

	if raw, ok := llm.ExtractJSON(text); ok {
		if err := json.Unmarshal(raw, &payload); err != nil {
			log.Printf("[GenerativeAnalyst] malformed payload for %s: %v", actx.Symbol, err)
		}
	} else {
		log.Printf("[GenerativeAnalyst] no JSON payload for %s, using defaults", actx.Symbol)
	}

	return &models.AgentReport{
		Role:       models.RoleGenerativeAnalyst,
		Symbol:     actx.Symbol,
		Summary:    text,
		Confidence: models.ClampConfidence(payload.Confidence),
		Timestamp:  time.Now(),
		Generative: &models.GenerativeDetails{
			KeyInsights:   payload.KeyInsights,
			Risks:         payload.Risks,
			Opportunities: payload.Opportunities,
		},
	}, nil
}
