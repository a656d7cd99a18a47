package oversight

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/marketmind-ai/marketmind/internal/agents"
	"github.com/marketmind-ai/marketmind/internal/llm"
	"github.com/marketmind-ai/marketmind/internal/models"
)

// PortfolioManager runs the final approval gate. A risk rejection cascades:
// the manager can veto an approved trade but can never resurrect a rejected
// one. Like the risk gate it is fail-closed.
type PortfolioManager struct {
	gen llm.Generator
}

func NewPortfolioManager(gen llm.Generator) *PortfolioManager {
	return &PortfolioManager{gen: gen}
}

func (pm *PortfolioManager) Decide(ctx context.Context, proposal *models.StrategyProposal, risk *models.RiskAssessment) *models.PortfolioDecision {
	now := time.Now()

	if proposal == nil {
		return &models.PortfolioDecision{
			Approved:  false,
			Rationale: "rejected: no proposal reached the portfolio gate",
			Timestamp: now,
		}
	}

	if risk == nil || !risk.Approved {
		rationale := "rejected: risk manager rejected the trade"
		if risk != nil && risk.Recommendation != "" {
			rationale = fmt.Sprintf("rejected: risk manager rejected the trade (%s)", risk.Recommendation)
		}
		return &models.PortfolioDecision{
			Symbol:    proposal.Symbol,
			Approved:  false,
			Rationale: rationale,
			Timestamp: now,
		}
	}

	user := fmt.Sprintf(
		"Symbol: %s\nStrategy: %s (%s)\nRationale: %s\nPosition: %.4f of portfolio\nConfidence: %.2f\n\nRisk manager approved with score %.2f. Warnings: %v",
		proposal.Symbol, proposal.Kind, proposal.Direction, proposal.Rationale,
		proposal.PositionSizePct, proposal.Confidence, risk.RiskScore, risk.Warnings)

	text, err := pm.gen.Generate(ctx, agents.PortfolioManagerPrompt, user)
	if err != nil {
		log.Printf("[PortfolioManager] review failed for %s, rejecting: %v", proposal.Symbol, err)
		return &models.PortfolioDecision{
			Symbol:    proposal.Symbol,
			Approved:  false,
			Rationale: fmt.Sprintf("rejected: portfolio review could not be completed (%v)", err),
			Timestamp: now,
		}
	}

	payload := struct {
		Approve      bool     `json:"approve"`
		Rationale    string   `json:"rationale"`
		Monitoring   []string `json:"monitoring"`
		ExitTriggers []string `json:"exit_triggers"`
	}{}

	raw, ok := llm.ExtractJSON(text)
	if !ok {
		log.Printf("[PortfolioManager] no JSON payload for %s, rejecting", proposal.Symbol)
		return &models.PortfolioDecision{
			Symbol:    proposal.Symbol,
			Approved:  false,
			Rationale: "rejected: portfolio review returned no structured verdict",
			Timestamp: now,
		}
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Printf("[PortfolioManager] malformed payload for %s, rejecting: %v", proposal.Symbol, err)
		return &models.PortfolioDecision{
			Symbol:    proposal.Symbol,
			Approved:  false,
			Rationale: "rejected: portfolio review verdict was malformed",
			Timestamp: now,
		}
	}

	rationale := payload.Rationale
	if rationale == "" {
		if payload.Approve {
			rationale = "approved: consistent with portfolio objectives"
		} else {
			rationale = "rejected by portfolio manager"
		}
	}

	return &models.PortfolioDecision{
		Symbol:       proposal.Symbol,
		Approved:     payload.Approve,
		Rationale:    rationale,
		Monitoring:   payload.Monitoring,
		ExitTriggers: payload.ExitTriggers,
		Timestamp:    now,
	}
}
