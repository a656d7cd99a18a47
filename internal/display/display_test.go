package display

import (
	"strings"
	"testing"
	"time"

	"github.com/marketmind-ai/marketmind/internal/models"
)

func TestRenderRunSummaryListsAllErrors(t *testing.T) {
	state := models.NewPipelineState("AAPL", "2026-01-02", "2026-02-02")
	state.RecordError("analysis", errFixture("quote feed timeout"))
	state.RecordError("debate", errFixture("bull round 2 failed"))

	out := RenderRunSummary(state)

	if !strings.Contains(out, "Recorded errors (2)") {
		t.Fatalf("summary must count recorded errors:\n%s", out)
	}
	for _, want := range []string{"quote feed timeout", "bull round 2 failed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing error %q:\n%s", want, out)
		}
	}
}

func TestRenderRunSummaryVerdicts(t *testing.T) {
	state := models.NewPipelineState("AAPL", "", "")
	state.Risk = &models.RiskAssessment{Recommendation: "reject: VaR over budget", Timestamp: time.Now()}
	state.RiskApproved = false

	out := RenderRunSummary(state)

	if !strings.Contains(out, "REJECTED") {
		t.Fatalf("rejected risk gate must show in the summary:\n%s", out)
	}
	if !strings.Contains(out, "not reached") {
		t.Fatalf("unreached portfolio gate must be labeled:\n%s", out)
	}
	if !strings.Contains(out, "none") {
		t.Fatalf("a clean run shows an explicit empty error list:\n%s", out)
	}
}

type errFixture string

func (e errFixture) Error() string { return string(e) }
