package analysts

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/marketmind-ai/marketmind/consts"
	"github.com/marketmind-ai/marketmind/internal/agents"
	"github.com/marketmind-ai/marketmind/internal/llm"
	"github.com/marketmind-ai/marketmind/internal/models"
)

// TechnicalAnalyst classifies trend and key levels from daily bars.
type TechnicalAnalyst struct {
	gen llm.Generator
}

func NewTechnicalAnalyst(gen llm.Generator) *TechnicalAnalyst {
	return &TechnicalAnalyst{gen: gen}
}

func (a *TechnicalAnalyst) Slot() string { return consts.AnalystTechnical }

func (a *TechnicalAnalyst) Analyze(ctx context.Context, actx *agents.AnalysisContext) (*models.AgentReport, error) {
	user := fmt.Sprintf("Symbol: %s\n\nDaily bars (%s to %s):\n%s",
		actx.Symbol, actx.StartDate, actx.EndDate, actx.PriceSummary(60))

	text, err := a.gen.Generate(ctx, agents.TechnicalPrompt, user)
	if err != nil {
		return nil, fmt.Errorf("technical analysis for %s: %w", actx.Symbol, err)
	}

	payload := struct {
		Trend            string    `json:"trend"`
		Confidence       float64   `json:"confidence"`
		SupportLevels    []float64 `json:"support_levels"`
		ResistanceLevels []float64 `json:"resistance_levels"`
		ChartPatterns    []string  `json:"chart_patterns"`
	}{Trend: string(models.TrendSideways), Confidence: 0.3}

	if raw, ok := llm.ExtractJSON(text); ok {
		if err := json.Unmarshal(raw, &payload); err != nil {
			log.Printf("[TechnicalAnalyst] malformed payload for %s: %v", actx.Symbol, err)
		}
	} else {
		log.Printf("[TechnicalAnalyst] no JSON payload for %s, using defaults", actx.Symbol)
	}

	return &models.AgentReport{
		Role:       models.RoleTechnicalAnalyst,
		Symbol:     actx.Symbol,
		Summary:    text,
		Confidence: models.ClampConfidence(payload.Confidence),
		Timestamp:  time.Now(),
		Technical: &models.TechnicalDetails{
			Trend:            normalizeTrend(payload.Trend),
			SupportLevels:    payload.SupportLevels,
			ResistanceLevels: payload.ResistanceLevels,
			ChartPatterns:    payload.ChartPatterns,
			Volatility:       dailyVolatility(actx),
		},
	}, nil
}

func normalizeTrend(s string) models.TrendDirection {
	switch models.TrendDirection(s) {
	case models.TrendStrongDown, models.TrendDown, models.TrendSideways,
		models.TrendUp, models.TrendStrongUp:
		return models.TrendDirection(s)
	default:
		return models.TrendSideways
	}
}

// dailyVolatility is the stddev of daily close-to-close returns over the
// provided history.
func dailyVolatility(actx *agents.AnalysisContext) float64 {
	if len(actx.History) < 3 {
		return 0
	}

	returns := make([]float64, 0, len(actx.History)-1)
	for i := 1; i < len(actx.History); i++ {
		prev, _ := actx.History[i-1].Close.Float64()
		curr, _ := actx.History[i].Close.Float64()
		if prev == 0 {
			continue
		}
		returns = append(returns, curr/prev-1)
	}
	if len(returns) < 2 {
		return 0
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)
	return math.Sqrt(variance)
}
