package strategist

import (
	"context"
	"testing"

	"github.com/marketmind-ai/marketmind/config"
	"github.com/marketmind-ai/marketmind/internal/models"
)

type scriptedGenerator struct {
	response string
	err      error
}

func (g *scriptedGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	return g.response, g.err
}

func testConfig() *config.Config {
	return config.DefaultConfigWithRoot("/tmp/marketmind-test")
}

func TestProposeParsesPayload(t *testing.T) {
	gen := &scriptedGenerator{response: "Bulls won.\n```json\n{\"kind\": \"bull_call_spread\", \"direction\": \"long\", \"rationale\": \"momentum plus cheap vol\", \"position_size_pct\": 0.03, \"expected_return\": 0.12, \"max_loss\": 0.02, \"time_horizon_days\": 30, \"confidence\": 0.7}\n```"}
	s := New(gen, testConfig())

	proposal, err := s.Propose(context.Background(), "AAPL", "reports", nil)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if proposal.Kind != models.StrategyBullCallSpread {
		t.Fatalf("unexpected kind %s", proposal.Kind)
	}
	if proposal.PositionSizePct != 0.03 {
		t.Fatalf("unexpected size %v", proposal.PositionSizePct)
	}
}

func TestProposeClampsPositionSize(t *testing.T) {
	cfg := testConfig()
	gen := &scriptedGenerator{response: "```json\n{\"kind\": \"long_equity\", \"direction\": \"long\", \"rationale\": \"x\", \"position_size_pct\": 0.5, \"confidence\": 0.9}\n```"}
	s := New(gen, cfg)

	proposal, err := s.Propose(context.Background(), "AAPL", "reports", nil)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if proposal.PositionSizePct != cfg.MaxPositionSize {
		t.Fatalf("expected clamp to %v, got %v", cfg.MaxPositionSize, proposal.PositionSizePct)
	}

	gen.response = "```json\n{\"kind\": \"long_equity\", \"direction\": \"long\", \"rationale\": \"x\", \"position_size_pct\": 0.00001, \"confidence\": 0.9}\n```"
	proposal, err = s.Propose(context.Background(), "AAPL", "reports", nil)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if proposal.PositionSizePct != cfg.MinPositionSize {
		t.Fatalf("expected clamp to %v, got %v", cfg.MinPositionSize, proposal.PositionSizePct)
	}
}

func TestProposeMalformedOutputDefaults(t *testing.T) {
	gen := &scriptedGenerator{response: "nothing structured here"}
	s := New(gen, testConfig())

	debate := []models.DebateArgument{
		{Role: models.RoleBullResearcher, Position: models.SentimentBullish, Round: 1, Confidence: 0.8},
		{Role: models.RoleBearResearcher, Position: models.SentimentBearish, Round: 1, Confidence: 0.4},
	}
	proposal, err := s.Propose(context.Background(), "AAPL", "reports", debate)
	if err != nil {
		t.Fatalf("malformed output must not error: %v", err)
	}
	if proposal.Kind != models.StrategyLongEquity {
		t.Fatalf("expected default kind, got %s", proposal.Kind)
	}
	if proposal.Rationale == "" {
		t.Fatalf("expected debate-derived rationale")
	}
	if proposal.DebateSummary == "" {
		t.Fatalf("expected debate summary")
	}
}

func TestNormalizeKindUnknown(t *testing.T) {
	if got := normalizeKind("yolo_calls"); got != models.StrategyLongEquity {
		t.Fatalf("unexpected kind %s", got)
	}
}
