package strategist

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/marketmind-ai/marketmind/config"
	"github.com/marketmind-ai/marketmind/internal/agents"
	"github.com/marketmind-ai/marketmind/internal/llm"
	"github.com/marketmind-ai/marketmind/internal/models"
)

// Strategist converts the finished debate into a single sized trade proposal.
type Strategist struct {
	gen llm.Generator
	cfg *config.Config
}

func New(gen llm.Generator, cfg *config.Config) *Strategist {
	return &Strategist{gen: gen, cfg: cfg}
}

// Propose synthesizes the debate and analyst reports into a proposal. The
// position size is always clamped into the configured bounds regardless of
// what the model suggests.
func (s *Strategist) Propose(ctx context.Context, symbol, reportsSummary string, debate []models.DebateArgument) (*models.StrategyProposal, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Symbol: %s\n\nAnalyst reports:\n%s\n\nDebate transcript:\n", symbol, reportsSummary)
	for _, arg := range debate {
		fmt.Fprintf(&sb, "[round %d] %s (%s, confidence %.2f): %s\n",
			arg.Round, arg.Role, arg.Position, arg.Confidence, arg.Argument)
	}
	fmt.Fprintf(&sb, "\nPosition size must be between %.4f and %.4f of the portfolio.\n",
		s.cfg.MinPositionSize, s.cfg.MaxPositionSize)

	text, err := s.gen.Generate(ctx, agents.StrategistPrompt, sb.String())
	if err != nil {
		return nil, fmt.Errorf("strategy proposal for %s: %w", symbol, err)
	}

	payload := struct {
		Kind            string   `json:"kind"`
		Direction       string   `json:"direction"`
		Rationale       string   `json:"rationale"`
		EntryConditions []string `json:"entry_conditions"`
		ExitConditions  []string `json:"exit_conditions"`
		PositionSizePct float64  `json:"position_size_pct"`
		ExpectedReturn  float64  `json:"expected_return"`
		MaxLoss         float64  `json:"max_loss"`
		TimeHorizonDays int      `json:"time_horizon_days"`
		Confidence      float64  `json:"confidence"`
	}{
		Kind:            string(models.StrategyLongEquity),
		Direction:       string(models.DirectionLong),
		PositionSizePct: s.cfg.MinPositionSize,
		Confidence:      0.3,
	}

	if raw, ok := llm.ExtractJSON(text); ok {
		if err := json.Unmarshal(raw, &payload); err != nil {
			log.Printf("[Strategist] malformed payload for %s: %v", symbol, err)
		}
	} else {
		log.Printf("[Strategist] no JSON payload for %s, using conservative defaults", symbol)
	}

	if strings.TrimSpace(payload.Rationale) == "" {
		payload.Rationale = summarizeDebate(debate)
	}

	return &models.StrategyProposal{
		Symbol:          symbol,
		Kind:            normalizeKind(payload.Kind),
		Direction:       normalizeDirection(payload.Direction),
		Rationale:       payload.Rationale,
		EntryConditions: payload.EntryConditions,
		ExitConditions:  payload.ExitConditions,
		PositionSizePct: s.clampPositionSize(payload.PositionSizePct),
		ExpectedReturn:  payload.ExpectedReturn,
		MaxLoss:         payload.MaxLoss,
		TimeHorizonDays: payload.TimeHorizonDays,
		Confidence:      models.ClampConfidence(payload.Confidence),
		DebateSummary:   summarizeDebate(debate),
		Timestamp:       time.Now(),
	}, nil
}

func (s *Strategist) clampPositionSize(size float64) float64 {
	if size < s.cfg.MinPositionSize {
		return s.cfg.MinPositionSize
	}
	if size > s.cfg.MaxPositionSize {
		return s.cfg.MaxPositionSize
	}
	return size
}

// summarizeDebate counts which side argued with more conviction.
func summarizeDebate(debate []models.DebateArgument) string {
	var bullConfidence, bearConfidence float64
	var bullCount, bearCount int
	for _, arg := range debate {
		switch arg.Role {
		case models.RoleBullResearcher:
			bullConfidence += arg.Confidence
			bullCount++
		case models.RoleBearResearcher:
			bearConfidence += arg.Confidence
			bearCount++
		}
	}
	return fmt.Sprintf("Debate: %d bull arguments (total confidence %.2f) vs %d bear arguments (total confidence %.2f).",
		bullCount, bullConfidence, bearCount, bearConfidence)
}

func normalizeKind(s string) models.StrategyKind {
	switch models.StrategyKind(s) {
	case models.StrategyLongEquity, models.StrategyShortEquity, models.StrategyCoveredCall,
		models.StrategyProtectivePut, models.StrategyBullCallSpread, models.StrategyBearPutSpread,
		models.StrategyIronCondor, models.StrategyStraddle, models.StrategyStrangle:
		return models.StrategyKind(s)
	default:
		return models.StrategyLongEquity
	}
}

func normalizeDirection(s string) models.TradeDirection {
	switch models.TradeDirection(s) {
	case models.DirectionLong, models.DirectionShort, models.DirectionNeutral:
		return models.TradeDirection(s)
	default:
		return models.DirectionLong
	}
}
