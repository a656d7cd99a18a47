package memory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/marketmind-ai/marketmind/internal/models"
)

func newTestProceduralStore(t *testing.T) *ProceduralStore {
	t.Helper()
	store, err := NewProceduralStore(filepath.Join(t.TempDir(), "procedural.db"))
	if err != nil {
		t.Fatalf("NewProceduralStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestProceduralStorePatternRoundTrip(t *testing.T) {
	store := newTestProceduralStore(t)
	ctx := context.Background()

	pattern := &models.StrategyPattern{
		TradeID:    "AAPL-1",
		Symbol:     "AAPL",
		Kind:       models.StrategyLongEquity,
		Direction:  models.DirectionLong,
		Confidence: 0.72,
		Rationale:  "momentum entry confirmed by fundamentals",
	}
	if err := store.RecordPattern(ctx, pattern); err != nil {
		t.Fatalf("RecordPattern: %v", err)
	}

	patterns, err := store.PatternsBySymbol(ctx, "AAPL", 10)
	if err != nil {
		t.Fatalf("PatternsBySymbol: %v", err)
	}
	if len(patterns) != 1 {
		t.Fatalf("expected 1 pattern, got %d", len(patterns))
	}
	got := patterns[0]
	if got.TradeID != "AAPL-1" || got.Kind != models.StrategyLongEquity || got.Direction != models.DirectionLong {
		t.Fatalf("unexpected pattern: %+v", got)
	}
	if got.Wins != 0 {
		t.Fatalf("new pattern must start with 0 wins, got %d", got.Wins)
	}
}

func TestProceduralStoreReinforcementOrdersRetrieval(t *testing.T) {
	store := newTestProceduralStore(t)
	ctx := context.Background()

	for _, id := range []string{"MSFT-1", "MSFT-2"} {
		pattern := &models.StrategyPattern{
			TradeID:    id,
			Symbol:     "MSFT",
			Kind:       models.StrategyLongEquity,
			Direction:  models.DirectionLong,
			Confidence: 0.6,
		}
		if err := store.RecordPattern(ctx, pattern); err != nil {
			t.Fatalf("RecordPattern %s: %v", id, err)
		}
	}

	if err := store.ReinforcePattern(ctx, "MSFT-2"); err != nil {
		t.Fatalf("ReinforcePattern: %v", err)
	}
	if err := store.ReinforcePattern(ctx, "MSFT-2"); err != nil {
		t.Fatalf("ReinforcePattern: %v", err)
	}

	patterns, err := store.PatternsBySymbol(ctx, "MSFT", 10)
	if err != nil {
		t.Fatalf("PatternsBySymbol: %v", err)
	}
	if len(patterns) != 2 {
		t.Fatalf("expected 2 patterns, got %d", len(patterns))
	}
	if patterns[0].TradeID != "MSFT-2" || patterns[0].Wins != 2 {
		t.Fatalf("most reinforced pattern must come first: %+v", patterns[0])
	}
}

func TestProceduralStoreRecordKeepsWinCount(t *testing.T) {
	store := newTestProceduralStore(t)
	ctx := context.Background()

	pattern := &models.StrategyPattern{
		TradeID:    "NVDA-1",
		Symbol:     "NVDA",
		Kind:       models.StrategyBullCallSpread,
		Direction:  models.DirectionLong,
		Confidence: 0.55,
	}
	if err := store.RecordPattern(ctx, pattern); err != nil {
		t.Fatalf("RecordPattern: %v", err)
	}
	if err := store.ReinforcePattern(ctx, "NVDA-1"); err != nil {
		t.Fatalf("ReinforcePattern: %v", err)
	}

	pattern.Confidence = 0.8
	if err := store.RecordPattern(ctx, pattern); err != nil {
		t.Fatalf("RecordPattern rewrite: %v", err)
	}

	patterns, err := store.PatternsBySymbol(ctx, "NVDA", 1)
	if err != nil {
		t.Fatalf("PatternsBySymbol: %v", err)
	}
	if len(patterns) != 1 {
		t.Fatalf("expected 1 pattern, got %d", len(patterns))
	}
	if patterns[0].Confidence != 0.8 {
		t.Fatalf("rewrite must update fields, got confidence %v", patterns[0].Confidence)
	}
	if patterns[0].Wins != 1 {
		t.Fatalf("rewrite must keep the win count, got %d", patterns[0].Wins)
	}
}

func TestProceduralStoreRejectsEmptyTradeID(t *testing.T) {
	store := newTestProceduralStore(t)

	err := store.RecordPattern(context.Background(), &models.StrategyPattern{Symbol: "AAPL"})
	if err == nil {
		t.Fatalf("expected an error for a pattern without a trade id")
	}
}

func TestProceduralStoreReinforceUnknownIsNoOp(t *testing.T) {
	store := newTestProceduralStore(t)
	ctx := context.Background()

	if err := store.ReinforcePattern(ctx, "missing"); err != nil {
		t.Fatalf("ReinforcePattern on unknown id: %v", err)
	}
	patterns, err := store.PatternsBySymbol(ctx, "missing", 10)
	if err != nil {
		t.Fatalf("PatternsBySymbol: %v", err)
	}
	if len(patterns) != 0 {
		t.Fatalf("expected no patterns, got %d", len(patterns))
	}
}
