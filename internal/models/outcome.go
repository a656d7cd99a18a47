package models

import "time"

// TradeOutcome records a simulated trade for later reflection. Outcome stays
// "pending" until real results are known out-of-band.
type TradeOutcome struct {
	TradeID     string       `json:"trade_id"`
	Symbol      string       `json:"symbol"`
	Kind        StrategyKind `json:"kind"`
	EntryDate   time.Time    `json:"entry_date"`
	ExitDate    time.Time    `json:"exit_date,omitempty"`
	EntryPrice  float64      `json:"entry_price"`
	ExitPrice   float64      `json:"exit_price,omitempty"`
	Quantity    int64        `json:"quantity"`
	RealizedPnL float64      `json:"realized_pnl,omitempty"`
	ReturnPct   float64      `json:"return_pct,omitempty"`
	Outcome     string       `json:"outcome"` // win, loss, breakeven, pending
	Notes       string       `json:"notes,omitempty"`
}

// StrategyPattern is a playbook that made it through both approval gates.
// Wins counts how often the closed trade behind it ended profitably.
type StrategyPattern struct {
	TradeID    string         `json:"trade_id"`
	Symbol     string         `json:"symbol"`
	Kind       StrategyKind   `json:"kind"`
	Direction  TradeDirection `json:"direction"`
	Confidence float64        `json:"confidence"`
	Rationale  string         `json:"rationale"`
	Wins       int            `json:"wins"`
	Timestamp  time.Time      `json:"timestamp"`
}

// Reflection is the reflective agent's post-mortem on a closed trade.
type Reflection struct {
	TradeID         string    `json:"trade_id"`
	Symbol          string    `json:"symbol"`
	AnalysisSummary string    `json:"analysis_summary"`
	WhatWorked      []string  `json:"what_worked,omitempty"`
	WhatFailed      []string  `json:"what_failed,omitempty"`
	Lessons         []string  `json:"lessons,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}
