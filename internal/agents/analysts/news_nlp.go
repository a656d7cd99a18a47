package analysts

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/marketmind-ai/marketmind/consts"
	"github.com/marketmind-ai/marketmind/internal/agents"
	"github.com/marketmind-ai/marketmind/internal/models"
)

// NewsNLPAnalyst scores news text with a fixed finance lexicon. It is fully
// deterministic and needs no model call.
type NewsNLPAnalyst struct {
	positive *regexp.Regexp
	negative *regexp.Regexp
}

func NewNewsNLPAnalyst() *NewsNLPAnalyst {
	return &NewsNLPAnalyst{
		positive: regexp.MustCompile(`(?i)\b(beat|beats|surge|surged|rally|rallies|upgrade|upgraded|outperform|growth|record|strong|bullish|gain|gains|profit|soar|soared|exceed|exceeded|raise|raised|buyback|dividend increase)\b`),
		negative: regexp.MustCompile(`(?i)\b(miss|missed|plunge|plunged|slump|downgrade|downgraded|underperform|decline|weak|bearish|loss|losses|drop|dropped|fall|fell|lawsuit|probe|recall|layoff|layoffs|cut|warning|bankruptcy)\b`),
	}
}

func (a *NewsNLPAnalyst) Slot() string { return consts.AnalystNewsNLP }

func (a *NewsNLPAnalyst) Analyze(ctx context.Context, actx *agents.AnalysisContext) (*models.AgentReport, error) {
	positiveHits := 0
	negativeHits := 0
	analyzed := 0

	for _, article := range actx.News {
		text := article.Title + " " + article.Content
		positiveHits += len(a.positive.FindAllString(text, -1))
		negativeHits += len(a.negative.FindAllString(text, -1))
		analyzed++
	}

	score := 0.0
	if total := positiveHits + negativeHits; total > 0 {
		score = float64(positiveHits-negativeHits) / float64(total)
	}

	sentiment := scoreToSentiment(score)

	// Confidence grows with evidence volume but saturates.
	confidence := 0.2
	if analyzed > 0 {
		confidence = 0.2 + 0.05*float64(positiveHits+negativeHits)
		if confidence > 0.8 {
			confidence = 0.8
		}
	}

	return &models.AgentReport{
		Role:   models.RoleNewsNLPAnalyst,
		Symbol: actx.Symbol,
		Summary: fmt.Sprintf("Lexicon scan over %d articles: %d positive hits, %d negative hits, score %.2f (%s).",
			analyzed, positiveHits, negativeHits, score, sentiment),
		Confidence: models.ClampConfidence(confidence),
		Timestamp:  time.Now(),
		NewsNLP: &models.NewsNLPDetails{
			Sentiment:     sentiment,
			Score:         score,
			PositiveHits:  positiveHits,
			NegativeHits:  negativeHits,
			TextsAnalyzed: analyzed,
		},
	}, nil
}

func scoreToSentiment(score float64) models.Sentiment {
	switch {
	case score <= -0.6:
		return models.SentimentVeryBearish
	case score <= -0.2:
		return models.SentimentBearish
	case score < 0.2:
		return models.SentimentNeutral
	case score < 0.6:
		return models.SentimentBullish
	default:
		return models.SentimentVeryBullish
	}
}
