package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderSide string

const (
	OrderBuy  OrderSide = "buy"
	OrderSell OrderSide = "sell"
)

type OrderType string

const (
	OrderMarket    OrderType = "market"
	OrderLimit     OrderType = "limit"
	OrderStop      OrderType = "stop"
	OrderStopLimit OrderType = "stop_limit"
)

// Order is a single simulated order leg.
type Order struct {
	Symbol     string          `json:"symbol"`
	Side       OrderSide       `json:"side"`
	Quantity   int64           `json:"quantity"`
	Type       OrderType       `json:"type"`
	LimitPrice decimal.Decimal `json:"limit_price,omitempty"`
	StopPrice  decimal.Decimal `json:"stop_price,omitempty"`
}

// ExecutionPlan holds the order legs for an approved strategy. A plan with no
// orders is legal; the simulator treats it as a completed no-op.
type ExecutionPlan struct {
	Symbol        string          `json:"symbol"`
	Kind          StrategyKind    `json:"kind"`
	Orders        []Order         `json:"orders"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	SlippagePct   float64         `json:"slippage_pct"`
	TimingNote    string          `json:"timing_note,omitempty"`
	Contingencies []string        `json:"contingencies,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

// ExecutionDecision is the fast executor's verdict for pacing an approved
// plan. Source records whether the external model or the local rule answered.
type ExecutionDecision struct {
	Action     string        `json:"action"` // buy, sell, hold
	Confidence float64       `json:"confidence"`
	Source     string        `json:"source"` // model, fallback
	Latency    time.Duration `json:"latency"`
}
