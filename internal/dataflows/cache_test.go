package dataflows

import (
	"errors"
	"testing"
	"time"
)

func TestCacheManagerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cm := NewCacheManager(dir, time.Hour, true)

	params := map[string]any{"symbol": "AAPL"}
	in := []string{"a", "b", "c"}
	if err := cm.Set("test", "items", params, in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out []string
	if !cm.Get("test", "items", params, &out) {
		t.Fatalf("expected cache hit")
	}
	if len(out) != 3 || out[0] != "a" {
		t.Fatalf("unexpected cached value: %v", out)
	}
}

func TestCacheManagerMissOnDifferentParams(t *testing.T) {
	dir := t.TempDir()
	cm := NewCacheManager(dir, time.Hour, true)

	if err := cm.Set("test", "items", "AAPL", []int{1}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out []int
	if cm.Get("test", "items", "MSFT", &out) {
		t.Fatalf("expected miss for different params")
	}
}

func TestCacheManagerDisabled(t *testing.T) {
	dir := t.TempDir()
	cm := NewCacheManager(dir, time.Hour, false)

	if err := cm.Set("test", "items", "AAPL", []int{1}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	var out []int
	if cm.Get("test", "items", "AAPL", &out) {
		t.Fatalf("disabled cache must always miss")
	}
}

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2.0}

	calls := 0
	err := WithRetry(cfg, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithRetry: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetryExhausts(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Multiplier: 2.0}

	sentinel := errors.New("always fails")
	err := WithRetry(cfg, func() error { return sentinel })
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped sentinel, got %v", err)
	}
}

func TestValidateSymbol(t *testing.T) {
	if err := ValidateSymbol("aapl"); err != nil {
		t.Fatalf("valid symbol rejected: %v", err)
	}
	if err := ValidateSymbol(""); err == nil {
		t.Fatalf("empty symbol accepted")
	}
	if err := ValidateSymbol("WAYTOOLONGSYM"); err == nil {
		t.Fatalf("oversized symbol accepted")
	}
}

func TestParseDateString(t *testing.T) {
	got, err := ParseDateString("2026-01-15")
	if err != nil {
		t.Fatalf("ParseDateString: %v", err)
	}
	if got.Year() != 2026 || got.Month() != time.January || got.Day() != 15 {
		t.Fatalf("unexpected date: %v", got)
	}
	if _, err := ParseDateString("not-a-date"); err == nil {
		t.Fatalf("expected parse error")
	}
}
