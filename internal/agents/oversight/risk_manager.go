package oversight

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/marketmind-ai/marketmind/config"
	"github.com/marketmind-ai/marketmind/internal/agents"
	"github.com/marketmind-ai/marketmind/internal/llm"
	"github.com/marketmind-ai/marketmind/internal/models"
)

// RiskManager runs the first approval gate: deterministic limit checks plus a
// qualitative model judgment. Approval requires BOTH; the gate is fail-closed,
// so an unavailable or unparseable judgment rejects rather than errors.
type RiskManager struct {
	gen llm.Generator
	cfg *config.Config
}

func NewRiskManager(gen llm.Generator, cfg *config.Config) *RiskManager {
	return &RiskManager{gen: gen, cfg: cfg}
}

// RiskInputs carries the proposal plus the portfolio context the limits are
// checked against.
type RiskInputs struct {
	Proposal *models.StrategyProposal
	// Volatility is the daily return stddev from the technical analyst;
	// zero means unknown and a conservative default applies.
	Volatility float64
	// SectorExposure is the portfolio's existing concentration in the
	// symbol's sector, before this trade.
	SectorExposure float64
}

const defaultDailyVolatility = 0.02

// z-score for 95% one-day VaR.
const varZScore = 1.65

func (rm *RiskManager) Assess(ctx context.Context, in RiskInputs) *models.RiskAssessment {
	p := in.Proposal
	if p == nil {
		return &models.RiskAssessment{
			Approved:       false,
			Warnings:       []string{"no proposal to assess"},
			Recommendation: "reject: nothing to evaluate",
			Timestamp:      time.Now(),
		}
	}

	vol := in.Volatility
	if vol <= 0 {
		vol = defaultDailyVolatility
	}

	positionValue := rm.cfg.PortfolioValue * p.PositionSizePct
	projectedVaR := positionValue * vol * varZScore
	sectorAfter := in.SectorExposure + p.PositionSizePct

	assessment := &models.RiskAssessment{
		Symbol:              p.Symbol,
		PositionSizeOK:      p.PositionSizePct >= rm.cfg.MinPositionSize && p.PositionSizePct <= rm.cfg.MaxPositionSize,
		VaROK:               projectedVaR <= rm.cfg.PortfolioValue*rm.cfg.MaxPortfolioRisk,
		SectorOK:            sectorAfter <= rm.cfg.MaxSectorConcentration,
		PositionValue:       positionValue,
		ProjectedVaR:        projectedVaR,
		SectorConcentration: sectorAfter,
		Timestamp:           time.Now(),
	}

	if !assessment.PositionSizeOK {
		assessment.Warnings = append(assessment.Warnings,
			fmt.Sprintf("position size %.4f outside [%.4f, %.4f]",
				p.PositionSizePct, rm.cfg.MinPositionSize, rm.cfg.MaxPositionSize))
	}
	if !assessment.VaROK {
		assessment.Warnings = append(assessment.Warnings,
			fmt.Sprintf("projected VaR %.2f exceeds limit %.2f",
				projectedVaR, rm.cfg.PortfolioValue*rm.cfg.MaxPortfolioRisk))
	}
	if !assessment.SectorOK {
		assessment.Warnings = append(assessment.Warnings,
			fmt.Sprintf("sector concentration %.4f exceeds limit %.4f",
				sectorAfter, rm.cfg.MaxSectorConcentration))
	}

	softApprove, softScore, softWarnings, recommendation := rm.softJudgment(ctx, p, assessment)
	assessment.RiskScore = softScore
	assessment.Warnings = append(assessment.Warnings, softWarnings...)
	assessment.Recommendation = recommendation

	// A favorable judgment never overrides a failed hard check.
	assessment.Approved = assessment.HardChecksPassed() && softApprove
	if assessment.Recommendation == "" {
		if assessment.Approved {
			assessment.Recommendation = "approve within stated limits"
		} else {
			assessment.Recommendation = "reject"
		}
	}
	return assessment
}

// softJudgment asks the model for risks the limits cannot see. Any failure
// rejects.
func (rm *RiskManager) softJudgment(ctx context.Context, p *models.StrategyProposal, hard *models.RiskAssessment) (approve bool, score float64, warnings []string, recommendation string) {
	user := fmt.Sprintf(
		"Symbol: %s\nStrategy: %s (%s)\nRationale: %s\nPosition: %.4f of portfolio (value %.2f)\nProjected VaR: %.2f\nSector concentration after trade: %.4f\nHard checks: size=%t var=%t sector=%t",
		p.Symbol, p.Kind, p.Direction, p.Rationale,
		p.PositionSizePct, hard.PositionValue, hard.ProjectedVaR, hard.SectorConcentration,
		hard.PositionSizeOK, hard.VaROK, hard.SectorOK)

	text, err := rm.gen.Generate(ctx, agents.RiskJudgmentPrompt, user)
	if err != nil {
		log.Printf("[RiskManager] qualitative review failed for %s, rejecting: %v", p.Symbol, err)
		return false, 1.0, []string{fmt.Sprintf("qualitative review unavailable: %v", err)}, "reject: risk review could not be completed"
	}

	payload := struct {
		Approve        bool     `json:"approve"`
		RiskScore      float64  `json:"risk_score"`
		Warnings       []string `json:"warnings"`
		Recommendation string   `json:"recommendation"`
	}{}

	raw, ok := llm.ExtractJSON(text)
	if !ok {
		log.Printf("[RiskManager] no JSON payload for %s, rejecting", p.Symbol)
		return false, 1.0, []string{"qualitative review returned no structured verdict"}, "reject: unreadable risk review"
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Printf("[RiskManager] malformed payload for %s, rejecting: %v", p.Symbol, err)
		return false, 1.0, []string{"qualitative review verdict was malformed"}, "reject: unreadable risk review"
	}

	return payload.Approve, models.ClampConfidence(payload.RiskScore), payload.Warnings, payload.Recommendation
}
