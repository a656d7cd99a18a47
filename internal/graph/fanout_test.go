package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/marketmind-ai/marketmind/internal/models"
)

func TestRunAnalystTasksAllSucceed(t *testing.T) {
	tasks := []AnalystTask{
		{Key: "a", Run: func(ctx context.Context) (*models.AgentReport, error) {
			return &models.AgentReport{Symbol: "AAPL"}, nil
		}},
		{Key: "b", Run: func(ctx context.Context) (*models.AgentReport, error) {
			return &models.AgentReport{Symbol: "AAPL"}, nil
		}},
	}

	for _, concurrent := range []bool{true, false} {
		reports, errs := RunAnalystTasks(context.Background(), tasks, concurrent)
		if len(errs) != 0 {
			t.Fatalf("concurrent=%v: unexpected errors %v", concurrent, errs)
		}
		if reports["a"] == nil || reports["b"] == nil {
			t.Fatalf("concurrent=%v: missing reports", concurrent)
		}
	}
}

func TestRunAnalystTasksFailureIsolation(t *testing.T) {
	sentinel := errors.New("feed down")
	tasks := []AnalystTask{
		{Key: "ok", Run: func(ctx context.Context) (*models.AgentReport, error) {
			return &models.AgentReport{Symbol: "AAPL"}, nil
		}},
		{Key: "fails", Run: func(ctx context.Context) (*models.AgentReport, error) {
			return nil, sentinel
		}},
		{Key: "panics", Run: func(ctx context.Context) (*models.AgentReport, error) {
			panic("boom")
		}},
	}

	reports, errs := RunAnalystTasks(context.Background(), tasks, true)

	if reports["ok"] == nil {
		t.Fatalf("healthy task must still report")
	}
	if reports["fails"] != nil || reports["panics"] != nil {
		t.Fatalf("failed tasks must yield nil reports")
	}
	if !errors.Is(errs["fails"], sentinel) {
		t.Fatalf("expected sentinel error, got %v", errs["fails"])
	}
	if errs["panics"] == nil {
		t.Fatalf("panic must surface as that slot's error")
	}
}

func TestRunAnalystTasksNilReportIsError(t *testing.T) {
	tasks := []AnalystTask{
		{Key: "empty", Run: func(ctx context.Context) (*models.AgentReport, error) {
			return nil, nil
		}},
	}

	reports, errs := RunAnalystTasks(context.Background(), tasks, false)
	if reports["empty"] != nil {
		t.Fatalf("expected nil report")
	}
	if errs["empty"] == nil {
		t.Fatalf("nil report without error must be flagged")
	}
}
