package models

import "time"

// StrategyKind enumerates the trade structures the strategist may propose.
type StrategyKind string

const (
	StrategyLongEquity     StrategyKind = "long_equity"
	StrategyShortEquity    StrategyKind = "short_equity"
	StrategyCoveredCall    StrategyKind = "covered_call"
	StrategyProtectivePut  StrategyKind = "protective_put"
	StrategyBullCallSpread StrategyKind = "bull_call_spread"
	StrategyBearPutSpread  StrategyKind = "bear_put_spread"
	StrategyIronCondor     StrategyKind = "iron_condor"
	StrategyStraddle       StrategyKind = "straddle"
	StrategyStrangle       StrategyKind = "strangle"
)

// TradeDirection is the net exposure of a strategy.
type TradeDirection string

const (
	DirectionLong    TradeDirection = "long"
	DirectionShort   TradeDirection = "short"
	DirectionNeutral TradeDirection = "neutral"
)

// StrategyProposal is the strategist's synthesis of the debate outcome.
type StrategyProposal struct {
	Symbol          string         `json:"symbol"`
	Kind            StrategyKind   `json:"kind"`
	Direction       TradeDirection `json:"direction"`
	Rationale       string         `json:"rationale"`
	EntryConditions []string       `json:"entry_conditions,omitempty"`
	ExitConditions  []string       `json:"exit_conditions,omitempty"`
	PositionSizePct float64        `json:"position_size_pct"`
	ExpectedReturn  float64        `json:"expected_return"`
	MaxLoss         float64        `json:"max_loss"`
	TimeHorizonDays int            `json:"time_horizon_days"`
	Confidence      float64        `json:"confidence"`
	DebateSummary   string         `json:"debate_summary,omitempty"`
	Timestamp       time.Time      `json:"timestamp"`
}

// IsShort reports whether the proposal sells the underlying.
func (p *StrategyProposal) IsShort() bool {
	return p.Kind == StrategyShortEquity || p.Direction == DirectionShort
}
