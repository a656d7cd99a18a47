package oversight

import (
	"context"
	"errors"
	"strings"
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

const approveJudgment = "Looks fine.\n```json\n{\"approve\": true, \"risk_score\": 0.2, \"warnings\": [], \"recommendation\": \"approve with monitoring\"}\n```"
const rejectJudgment = "Too risky.\n```json\n{\"approve\": false, \"risk_score\": 0.8, \"warnings\": [\"crowded trade\"], \"recommendation\": \"reject on crowding\"}\n```"

func riskConfig() *config.Config {
	cfg := config.DefaultConfigWithRoot("/tmp/marketmind-test")
	cfg.PortfolioValue = 100000
	cfg.MaxPositionSize = 0.05
	cfg.MaxPortfolioRisk = 0.02
	cfg.MaxSectorConcentration = 0.25
	return cfg
}

func okProposal() *models.StrategyProposal {
	return &models.StrategyProposal{
		Symbol:          "AAPL",
		Kind:            models.StrategyLongEquity,
		Direction:       models.DirectionLong,
		Rationale:       "momentum with fundamental support",
		PositionSizePct: 0.03,
		Confidence:      0.7,
	}
}

func TestRiskManagerApprovesWithinLimits(t *testing.T) {
	rm := NewRiskManager(&scriptedGenerator{response: approveJudgment}, riskConfig())

	assessment := rm.Assess(context.Background(), RiskInputs{Proposal: okProposal(), Volatility: 0.01})
	if !assessment.HardChecksPassed() {
		t.Fatalf("hard checks should pass: %+v", assessment)
	}
	if !assessment.Approved {
		t.Fatalf("expected approval: %+v", assessment)
	}
}

func TestRiskManagerRejectsOversizedPosition(t *testing.T) {
	rm := NewRiskManager(&scriptedGenerator{response: approveJudgment}, riskConfig())

	proposal := okProposal()
	proposal.PositionSizePct = 0.10

	assessment := rm.Assess(context.Background(), RiskInputs{Proposal: proposal, Volatility: 0.01})
	if assessment.PositionSizeOK {
		t.Fatalf("oversized position must fail the size check")
	}
	if assessment.Approved {
		t.Fatalf("favorable judgment must not override failed hard check")
	}
	if len(assessment.Warnings) == 0 {
		t.Fatalf("expected a size warning")
	}
}

func TestRiskManagerRejectsHighVaR(t *testing.T) {
	rm := NewRiskManager(&scriptedGenerator{response: approveJudgment}, riskConfig())

	assessment := rm.Assess(context.Background(), RiskInputs{Proposal: okProposal(), Volatility: 0.50})
	if assessment.VaROK {
		t.Fatalf("extreme volatility must fail the VaR check, got VaR %.2f", assessment.ProjectedVaR)
	}
	if assessment.Approved {
		t.Fatalf("expected rejection")
	}
}

func TestRiskManagerRejectsSectorConcentration(t *testing.T) {
	rm := NewRiskManager(&scriptedGenerator{response: approveJudgment}, riskConfig())

	assessment := rm.Assess(context.Background(), RiskInputs{
		Proposal:       okProposal(),
		Volatility:     0.01,
		SectorExposure: 0.24,
	})
	if assessment.SectorOK {
		t.Fatalf("sector limit must fail at %.4f", assessment.SectorConcentration)
	}
	if assessment.Approved {
		t.Fatalf("expected rejection")
	}
}

func TestRiskManagerSoftVeto(t *testing.T) {
	rm := NewRiskManager(&scriptedGenerator{response: rejectJudgment}, riskConfig())

	assessment := rm.Assess(context.Background(), RiskInputs{Proposal: okProposal(), Volatility: 0.01})
	if !assessment.HardChecksPassed() {
		t.Fatalf("hard checks should pass")
	}
	if assessment.Approved {
		t.Fatalf("soft rejection must veto")
	}
}

func TestRiskManagerFailsClosedOnModelError(t *testing.T) {
	rm := NewRiskManager(&scriptedGenerator{err: errors.New("provider down")}, riskConfig())

	assessment := rm.Assess(context.Background(), RiskInputs{Proposal: okProposal(), Volatility: 0.01})
	if assessment.Approved {
		t.Fatalf("model failure must reject, not approve")
	}
	if len(assessment.Warnings) == 0 {
		t.Fatalf("expected a warning about the failed review")
	}
}

func TestRiskManagerFailsClosedOnMalformedOutput(t *testing.T) {
	rm := NewRiskManager(&scriptedGenerator{response: "no structure at all"}, riskConfig())

	assessment := rm.Assess(context.Background(), RiskInputs{Proposal: okProposal(), Volatility: 0.01})
	if assessment.Approved {
		t.Fatalf("unparseable judgment must reject")
	}
}

const pmApprove = "```json\n{\"approve\": true, \"rationale\": \"fits the book\", \"monitoring\": [\"earnings date\"], \"exit_triggers\": [\"close below stop\"]}\n```"
const pmReject = "```json\n{\"approve\": false, \"rationale\": \"too correlated with existing positions\"}\n```"

func approvedRisk() *models.RiskAssessment {
	return &models.RiskAssessment{
		Symbol: "AAPL", Approved: true,
		PositionSizeOK: true, VaROK: true, SectorOK: true,
		RiskScore: 0.2, Recommendation: "approve with monitoring",
	}
}

func TestPortfolioManagerApproves(t *testing.T) {
	pm := NewPortfolioManager(&scriptedGenerator{response: pmApprove})

	decision := pm.Decide(context.Background(), okProposal(), approvedRisk())
	if !decision.Approved {
		t.Fatalf("expected approval: %+v", decision)
	}
	if len(decision.Monitoring) == 0 || len(decision.ExitTriggers) == 0 {
		t.Fatalf("expected monitoring and exit triggers: %+v", decision)
	}
}

func TestPortfolioManagerVeto(t *testing.T) {
	pm := NewPortfolioManager(&scriptedGenerator{response: pmReject})

	decision := pm.Decide(context.Background(), okProposal(), approvedRisk())
	if decision.Approved {
		t.Fatalf("expected veto")
	}
}

func TestPortfolioManagerCascadesRiskRejection(t *testing.T) {
	// The generator approves, but the upstream rejection must cascade.
	pm := NewPortfolioManager(&scriptedGenerator{response: pmApprove})

	risk := approvedRisk()
	risk.Approved = false
	risk.Recommendation = "reject on VaR"

	decision := pm.Decide(context.Background(), okProposal(), risk)
	if decision.Approved {
		t.Fatalf("portfolio gate must never override a risk rejection")
	}
	if !strings.Contains(decision.Rationale, "risk manager rejected") {
		t.Fatalf("rationale must reference the upstream rejection: %q", decision.Rationale)
	}
}

func TestPortfolioManagerFailsClosedOnModelError(t *testing.T) {
	pm := NewPortfolioManager(&scriptedGenerator{err: errors.New("provider down")})

	decision := pm.Decide(context.Background(), okProposal(), approvedRisk())
	if decision.Approved {
		t.Fatalf("model failure must reject")
	}
}

func TestPortfolioManagerNilRiskRejects(t *testing.T) {
	pm := NewPortfolioManager(&scriptedGenerator{response: pmApprove})

	decision := pm.Decide(context.Background(), okProposal(), nil)
	if decision.Approved {
		t.Fatalf("missing risk assessment must reject")
	}
}

func TestReflectiveAgentParsesPayload(t *testing.T) {
	gen := &scriptedGenerator{response: "Post-mortem.\n```json\n{\"analysis_summary\": \"entry thesis held\", \"what_worked\": [\"sizing\"], \"what_failed\": [\"exit timing\"], \"lessons\": [\"trail the stop sooner\"]}\n```"}
	ra := NewReflectiveAgent(gen)

	trade := &models.TradeOutcome{TradeID: "t1", Symbol: "AAPL", Kind: models.StrategyLongEquity, Outcome: "win"}
	reflection, err := ra.Reflect(context.Background(), trade, "original analysis text")
	if err != nil {
		t.Fatalf("Reflect: %v", err)
	}
	if len(reflection.Lessons) != 1 || reflection.Lessons[0] != "trail the stop sooner" {
		t.Fatalf("unexpected lessons: %v", reflection.Lessons)
	}
}

func TestReflectiveAgentPropagatesError(t *testing.T) {
	ra := NewReflectiveAgent(&scriptedGenerator{err: errors.New("provider down")})
	trade := &models.TradeOutcome{TradeID: "t1", Symbol: "AAPL"}
	if _, err := ra.Reflect(context.Background(), trade, ""); err == nil {
		t.Fatalf("expected error")
	}
}
