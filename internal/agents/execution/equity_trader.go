package execution

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marketmind-ai/marketmind/config"
	"github.com/marketmind-ai/marketmind/internal/dataflows"
	"github.com/marketmind-ai/marketmind/internal/models"
)

// EquityTrader turns an approved proposal into concrete order legs. Sizing is
// deterministic: dollar budget from the portfolio value, share count floored
// at the current price.
type EquityTrader struct {
	cfg *config.Config
}

func NewEquityTrader(cfg *config.Config) *EquityTrader {
	return &EquityTrader{cfg: cfg}
}

// BuildPlan sizes the position and lays out the orders. A budget too small
// for a single share yields an empty plan, which downstream treats as a
// completed no-op.
func (t *EquityTrader) BuildPlan(proposal *models.StrategyProposal, quote *dataflows.MarketData) (*models.ExecutionPlan, error) {
	if proposal == nil {
		return nil, fmt.Errorf("no proposal to plan")
	}
	if quote == nil {
		return nil, fmt.Errorf("no quote available for %s", proposal.Symbol)
	}

	price := quote.Close
	if price.IsZero() || price.IsNegative() {
		return nil, fmt.Errorf("invalid price %s for %s", price, proposal.Symbol)
	}

	budget := decimal.NewFromFloat(t.cfg.PortfolioValue * proposal.PositionSizePct)
	quantity := budget.Div(price).IntPart()

	plan := &models.ExecutionPlan{
		Symbol:      proposal.Symbol,
		Kind:        proposal.Kind,
		SlippagePct: 0.001,
		TimingNote:  timingNote(proposal),
		Timestamp:   time.Now(),
	}

	if quantity < 1 {
		plan.Contingencies = []string{"position budget below one share, no orders placed"}
		return plan, nil
	}

	side := models.OrderBuy
	if proposal.IsShort() {
		side = models.OrderSell
	}

	entry := models.Order{
		Symbol:   proposal.Symbol,
		Side:     side,
		Quantity: quantity,
		Type:     models.OrderLimit,
		// Limit a touch through the market so the entry fills without chasing.
		LimitPrice: limitThrough(price, side),
	}
	plan.Orders = []models.Order{entry}
	plan.EstimatedCost = price.Mul(decimal.NewFromInt(quantity))

	if stop := stopPrice(price, side); !stop.IsZero() {
		plan.Orders = append(plan.Orders, models.Order{
			Symbol:    proposal.Symbol,
			Side:      oppositeSide(side),
			Quantity:  quantity,
			Type:      models.OrderStop,
			StopPrice: stop,
		})
	}

	plan.Contingencies = append(plan.Contingencies, proposal.ExitConditions...)
	return plan, nil
}

func timingNote(proposal *models.StrategyProposal) string {
	if proposal.TimeHorizonDays > 0 {
		return fmt.Sprintf("target horizon %d days", proposal.TimeHorizonDays)
	}
	return "no explicit horizon"
}

func limitThrough(price decimal.Decimal, side models.OrderSide) decimal.Decimal {
	pad := price.Mul(decimal.NewFromFloat(0.002))
	if side == models.OrderBuy {
		return price.Add(pad).Round(2)
	}
	return price.Sub(pad).Round(2)
}

// stopPrice places a protective stop 5% against the entry.
func stopPrice(price decimal.Decimal, side models.OrderSide) decimal.Decimal {
	pad := price.Mul(decimal.NewFromFloat(0.05))
	if side == models.OrderBuy {
		return price.Sub(pad).Round(2)
	}
	return price.Add(pad).Round(2)
}

func oppositeSide(side models.OrderSide) models.OrderSide {
	if side == models.OrderBuy {
		return models.OrderSell
	}
	return models.OrderBuy
}
