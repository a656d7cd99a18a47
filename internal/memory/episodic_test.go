package memory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/marketmind-ai/marketmind/internal/models"
)

func newTestStore(t *testing.T) *EpisodicStore {
	t.Helper()
	store, err := NewEpisodicStore(filepath.Join(t.TempDir(), "episodic.db"))
	if err != nil {
		t.Fatalf("NewEpisodicStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestEpisodicStoreTradeRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	outcome := &models.TradeOutcome{
		TradeID:    "trade-1",
		Symbol:     "AAPL",
		Kind:       models.StrategyLongEquity,
		EntryDate:  time.Now().Add(-24 * time.Hour),
		EntryPrice: 182.50,
		Quantity:   25,
	}
	if err := store.RecordTrade(ctx, outcome); err != nil {
		t.Fatalf("RecordTrade: %v", err)
	}

	trades, err := store.TradesBySymbol(ctx, "AAPL", 10)
	if err != nil {
		t.Fatalf("TradesBySymbol: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	got := trades[0]
	if got.TradeID != "trade-1" || got.Quantity != 25 {
		t.Fatalf("unexpected trade: %+v", got)
	}
	if got.Outcome != "pending" {
		t.Fatalf("new trade must default to pending, got %q", got.Outcome)
	}
}

func TestEpisodicStoreOutcomeUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	outcome := &models.TradeOutcome{
		TradeID:    "trade-2",
		Symbol:     "MSFT",
		Kind:       models.StrategyLongEquity,
		EntryDate:  time.Now().Add(-48 * time.Hour),
		EntryPrice: 410,
		Quantity:   10,
	}
	if err := store.RecordTrade(ctx, outcome); err != nil {
		t.Fatalf("RecordTrade: %v", err)
	}

	pending, err := store.PendingTrades(ctx)
	if err != nil {
		t.Fatalf("PendingTrades: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending trade, got %d", len(pending))
	}

	outcome.ExitDate = time.Now()
	outcome.ExitPrice = 425
	outcome.RealizedPnL = 150
	outcome.ReturnPct = 0.0366
	outcome.Outcome = "win"
	if err := store.RecordTrade(ctx, outcome); err != nil {
		t.Fatalf("RecordTrade update: %v", err)
	}

	pending, err = store.PendingTrades(ctx)
	if err != nil {
		t.Fatalf("PendingTrades after update: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("closed trade still pending: %+v", pending)
	}
}

func TestEpisodicStoreReflections(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trade := &models.TradeOutcome{
		TradeID:    "trade-3",
		Symbol:     "NVDA",
		Kind:       models.StrategyLongEquity,
		EntryDate:  time.Now(),
		EntryPrice: 120,
		Quantity:   50,
	}
	if err := store.RecordTrade(ctx, trade); err != nil {
		t.Fatalf("RecordTrade: %v", err)
	}

	reflection := &models.Reflection{
		TradeID:         "trade-3",
		Symbol:          "NVDA",
		AnalysisSummary: "entered on momentum after earnings",
		WhatWorked:      []string{"technical entry timing"},
		WhatFailed:      []string{"ignored sector concentration warning"},
		Lessons:         []string{"weight macro signals higher near earnings"},
	}
	if err := store.RecordReflection(ctx, reflection); err != nil {
		t.Fatalf("RecordReflection: %v", err)
	}

	got, err := store.ReflectionsBySymbol(ctx, "NVDA", 5)
	if err != nil {
		t.Fatalf("ReflectionsBySymbol: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 reflection, got %d", len(got))
	}
	if len(got[0].Lessons) != 1 || got[0].Lessons[0] != "weight macro signals higher near earnings" {
		t.Fatalf("unexpected lessons: %v", got[0].Lessons)
	}
}

func TestWorkingMemoryTTL(t *testing.T) {
	wm := NewWorkingMemory(50 * time.Millisecond)

	wm.Put("analysis:AAPL", "cached context")
	if _, ok := wm.Get("analysis:AAPL"); !ok {
		t.Fatalf("expected fresh entry to be present")
	}

	time.Sleep(80 * time.Millisecond)
	if _, ok := wm.Get("analysis:AAPL"); ok {
		t.Fatalf("expected entry to expire")
	}
	if wm.Len() != 0 {
		t.Fatalf("expired entry not removed, len=%d", wm.Len())
	}
}

func TestWorkingMemorySweep(t *testing.T) {
	wm := NewWorkingMemory(10 * time.Millisecond)
	wm.Put("a", 1)
	wm.Put("b", 2)

	time.Sleep(25 * time.Millisecond)
	if removed := wm.Sweep(); removed != 2 {
		t.Fatalf("expected sweep to remove 2, removed %d", removed)
	}
}
