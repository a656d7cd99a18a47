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

// ReflectiveAgent reviews closed trades offline and distills lessons that
// future runs feed back into analysis.
type ReflectiveAgent struct {
	gen llm.Generator
}

func NewReflectiveAgent(gen llm.Generator) *ReflectiveAgent {
	return &ReflectiveAgent{gen: gen}
}

func (ra *ReflectiveAgent) Reflect(ctx context.Context, trade *models.TradeOutcome, originalAnalysis string) (*models.Reflection, error) {
	if trade == nil {
		return nil, fmt.Errorf("no trade to reflect on")
	}

	user := fmt.Sprintf(
		"Trade %s on %s (%s)\nEntry %.2f on %s, exit %.2f on %s\nQuantity %d, realized PnL %.2f (%.2f%%), outcome: %s\n\nOriginal analysis:\n%s",
		trade.TradeID, trade.Symbol, trade.Kind,
		trade.EntryPrice, trade.EntryDate.Format("2006-01-02"),
		trade.ExitPrice, trade.ExitDate.Format("2006-01-02"),
		trade.Quantity, trade.RealizedPnL, trade.ReturnPct*100, trade.Outcome,
		originalAnalysis)

	text, err := ra.gen.Generate(ctx, agents.ReflectivePrompt, user)
	if err != nil {
		return nil, fmt.Errorf("reflect on trade %s: %w", trade.TradeID, err)
	}

	payload := struct {
		AnalysisSummary string   `json:"analysis_summary"`
		WhatWorked      []string `json:"what_worked"`
		WhatFailed      []string `json:"what_failed"`
		Lessons         []string `json:"lessons"`
	}{}

	if raw, ok := llm.ExtractJSON(text); ok {
		if err := json.Unmarshal(raw, &payload); err != nil {
			log.Printf("[ReflectiveAgent] malformed payload for trade %s: %v", trade.TradeID, err)
		}
	} else {
		log.Printf("[ReflectiveAgent] no JSON payload for trade %s, keeping raw text", trade.TradeID)
	}
	if payload.AnalysisSummary == "" {
		payload.AnalysisSummary = text
	}

	return &models.Reflection{
		TradeID:         trade.TradeID,
		Symbol:          trade.Symbol,
		AnalysisSummary: payload.AnalysisSummary,
		WhatWorked:      payload.WhatWorked,
		WhatFailed:      payload.WhatFailed,
		Lessons:         payload.Lessons,
		Timestamp:       time.Now(),
	}, nil
}
