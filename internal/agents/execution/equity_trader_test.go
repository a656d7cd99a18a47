package execution

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marketmind-ai/marketmind/config"
	"github.com/marketmind-ai/marketmind/internal/dataflows"
	"github.com/marketmind-ai/marketmind/internal/models"
)

func testQuote(symbol string, price float64) *dataflows.MarketData {
	return &dataflows.MarketData{
		Symbol: symbol,
		Date:   time.Now(),
		Close:  decimal.NewFromFloat(price),
	}
}

func TestBuildPlanSizesFromBudget(t *testing.T) {
	cfg := config.DefaultConfigWithRoot("/tmp/marketmind-test")
	cfg.PortfolioValue = 100000
	trader := NewEquityTrader(cfg)

	proposal := &models.StrategyProposal{
		Symbol:          "AAPL",
		Kind:            models.StrategyLongEquity,
		Direction:       models.DirectionLong,
		PositionSizePct: 0.05,
	}

	plan, err := trader.BuildPlan(proposal, testQuote("AAPL", 200))
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if len(plan.Orders) != 2 {
		t.Fatalf("expected entry plus stop, got %d orders", len(plan.Orders))
	}

	entry := plan.Orders[0]
	if entry.Side != models.OrderBuy || entry.Quantity != 25 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	stop := plan.Orders[1]
	if stop.Side != models.OrderSell || stop.Type != models.OrderStop {
		t.Fatalf("unexpected stop: %+v", stop)
	}
	if !plan.EstimatedCost.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("unexpected cost %s", plan.EstimatedCost)
	}
}

func TestBuildPlanShortDirection(t *testing.T) {
	trader := NewEquityTrader(config.DefaultConfigWithRoot("/tmp/marketmind-test"))

	proposal := &models.StrategyProposal{
		Symbol:          "TSLA",
		Kind:            models.StrategyShortEquity,
		Direction:       models.DirectionShort,
		PositionSizePct: 0.05,
	}

	plan, err := trader.BuildPlan(proposal, testQuote("TSLA", 250))
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if plan.Orders[0].Side != models.OrderSell {
		t.Fatalf("short proposal must sell, got %s", plan.Orders[0].Side)
	}
	if plan.Orders[1].Side != models.OrderBuy {
		t.Fatalf("short stop must buy back, got %s", plan.Orders[1].Side)
	}
}

func TestBuildPlanBudgetBelowOneShare(t *testing.T) {
	cfg := config.DefaultConfigWithRoot("/tmp/marketmind-test")
	cfg.PortfolioValue = 1000
	trader := NewEquityTrader(cfg)

	proposal := &models.StrategyProposal{
		Symbol:          "BRK.A",
		Kind:            models.StrategyLongEquity,
		PositionSizePct: 0.001,
	}

	plan, err := trader.BuildPlan(proposal, testQuote("BRK.A", 600000))
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if len(plan.Orders) != 0 {
		t.Fatalf("expected empty plan, got %d orders", len(plan.Orders))
	}
	if len(plan.Contingencies) == 0 {
		t.Fatalf("expected contingency note for empty plan")
	}
}

func TestBuildPlanRejectsBadInputs(t *testing.T) {
	trader := NewEquityTrader(config.DefaultConfigWithRoot("/tmp/marketmind-test"))

	if _, err := trader.BuildPlan(nil, testQuote("AAPL", 100)); err == nil {
		t.Fatalf("nil proposal must error")
	}
	proposal := &models.StrategyProposal{Symbol: "AAPL", PositionSizePct: 0.01}
	if _, err := trader.BuildPlan(proposal, nil); err == nil {
		t.Fatalf("nil quote must error")
	}
	if _, err := trader.BuildPlan(proposal, testQuote("AAPL", 0)); err == nil {
		t.Fatalf("zero price must error")
	}
}
