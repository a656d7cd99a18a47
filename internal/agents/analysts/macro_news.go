package analysts

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/marketmind-ai/marketmind/consts"
	"github.com/marketmind-ai/marketmind/internal/agents"
	"github.com/marketmind-ai/marketmind/internal/llm"
	"github.com/marketmind-ai/marketmind/internal/models"
)

// MacroNewsAnalyst reads the news flow for macro themes and events, folding
// in insider sentiment when available.
type MacroNewsAnalyst struct {
	gen llm.Generator
}

func NewMacroNewsAnalyst(gen llm.Generator) *MacroNewsAnalyst {
	return &MacroNewsAnalyst{gen: gen}
}

func (a *MacroNewsAnalyst) Slot() string { return consts.AnalystMacroNews }

func (a *MacroNewsAnalyst) Analyze(ctx context.Context, actx *agents.AnalysisContext) (*models.AgentReport, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Symbol: %s\n\nNews flow:\n%s", actx.Symbol, actx.NewsDigest(20))
	if len(actx.Insider) > 0 {
		sb.WriteString("\nInsider sentiment (monthly MSPR):\n")
		for _, row := range actx.Insider {
			fmt.Fprintf(&sb, "- %04d-%02d: change=%d mspr=%s\n",
				row.Year, row.Month, row.Change, row.MSPR.StringFixed(2))
		}
	}

	text, err := a.gen.Generate(ctx, agents.MacroNewsPrompt, sb.String())
	if err != nil {
		return nil, fmt.Errorf("macro news analysis for %s: %w", actx.Symbol, err)
	}

	payload := struct {
		MarketSentiment string   `json:"market_sentiment"`
		Confidence      float64  `json:"confidence"`
		KeyEvents       []string `json:"key_events"`
		MacroThemes     []string `json:"macro_themes"`
	}{MarketSentiment: string(models.SentimentNeutral), Confidence: 0.3}

	if raw, ok := llm.ExtractJSON(text); ok {
		if err := json.Unmarshal(raw, &payload); err != nil {
			log.Printf("[MacroNewsAnalyst] malformed payload for %s: %v", actx.Symbol, err)
		}
	} else {
		log.Printf("[MacroNewsAnalyst] no JSON payload for %s, using defaults", actx.Symbol)
	}

	return &models.AgentReport{
		Role:       models.RoleMacroNewsAnalyst,
		Symbol:     actx.Symbol,
		Summary:    text,
		Confidence: models.ClampConfidence(payload.Confidence),
		Timestamp:  time.Now(),
		MacroNews: &models.MacroNewsDetails{
			MarketSentiment: normalizeSentiment(payload.MarketSentiment),
			KeyEvents:       payload.KeyEvents,
			MacroThemes:     payload.MacroThemes,
		},
	}, nil
}
