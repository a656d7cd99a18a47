package execution

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marketmind-ai/marketmind/config"
)

func executorConfig(endpoint string, enabled bool) *config.Config {
	cfg := config.DefaultConfigWithRoot("/tmp/marketmind-test")
	cfg.ExecutorEnabled = enabled
	cfg.ExecutorEndpoint = endpoint
	cfg.ExecutorTimeoutSeconds = 1
	return cfg
}

func TestFastExecutorUsesModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/decide" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"action": "buy", "confidence": 0.82}`))
	}))
	defer srv.Close()

	fe := NewFastExecutor(executorConfig(srv.URL, true))
	decision := fe.Decide("AAPL", 0.5)

	if decision.Source != "model" {
		t.Fatalf("expected model decision, got %s", decision.Source)
	}
	if decision.Action != "buy" || decision.Confidence != 0.82 {
		t.Fatalf("unexpected decision: %+v", decision)
	}
}

func TestFastExecutorFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	fe := NewFastExecutor(executorConfig(srv.URL, true))
	decision := fe.Decide("AAPL", 0.5)

	if decision.Source != "fallback" {
		t.Fatalf("expected fallback, got %s", decision.Source)
	}
	if decision.Action != "buy" {
		t.Fatalf("signal 0.5 must map to buy, got %s", decision.Action)
	}
}

func TestFastExecutorFallsBackOnBadAction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"action": "yolo", "confidence": 0.9}`))
	}))
	defer srv.Close()

	fe := NewFastExecutor(executorConfig(srv.URL, true))
	decision := fe.Decide("AAPL", -0.6)

	if decision.Source != "fallback" || decision.Action != "sell" {
		t.Fatalf("unexpected decision: %+v", decision)
	}
}

func TestFastExecutorDisabledUsesRule(t *testing.T) {
	fe := NewFastExecutor(executorConfig("http://localhost:1", false))

	cases := []struct {
		signal float64
		action string
	}{
		{0.5, "buy"},
		{0.3, "hold"},
		{0.0, "hold"},
		{-0.3, "hold"},
		{-0.5, "sell"},
	}
	for _, tc := range cases {
		decision := fe.Decide("AAPL", tc.signal)
		if decision.Action != tc.action {
			t.Fatalf("signal %v: expected %s, got %s", tc.signal, tc.action, decision.Action)
		}
		if decision.Source != "fallback" {
			t.Fatalf("disabled executor must use fallback, got %s", decision.Source)
		}
	}
}

func TestRuleDecisionConfidence(t *testing.T) {
	if d := ruleDecision(-0.7); d.Confidence != 0.7 {
		t.Fatalf("expected |signal| confidence, got %v", d.Confidence)
	}
	if d := ruleDecision(1.5); d.Confidence != 1.0 {
		t.Fatalf("expected clamped confidence, got %v", d.Confidence)
	}
}
