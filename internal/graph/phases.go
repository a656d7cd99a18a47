package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/marketmind-ai/marketmind/config"
	"github.com/marketmind-ai/marketmind/consts"
	"github.com/marketmind-ai/marketmind/internal/agents"
	"github.com/marketmind-ai/marketmind/internal/agents/execution"
	"github.com/marketmind-ai/marketmind/internal/agents/oversight"
	"github.com/marketmind-ai/marketmind/internal/agents/researchers"
	"github.com/marketmind-ai/marketmind/internal/agents/strategist"
	"github.com/marketmind-ai/marketmind/internal/dataflows"
	"github.com/marketmind-ai/marketmind/internal/memory"
	"github.com/marketmind-ai/marketmind/internal/models"
)

// FundamentalsProvider supplies the valuation snapshot for the fundamentals
// analyst.
type FundamentalsProvider interface {
	Fundamentals(ctx context.Context, symbol string) (*dataflows.FundamentalsSnapshot, error)
}

// PhaseDeps wires the agents and providers the phases run against. Market,
// News and Fundamentals are interfaces so tests can substitute fixtures.
type PhaseDeps struct {
	Config           *config.Config
	Analysts         []agents.Analyst
	Bull             *researchers.Researcher
	Bear             *researchers.Researcher
	Strategist       *strategist.Strategist
	Trader           *execution.EquityTrader
	FastExecutor     *execution.FastExecutor
	RiskManager      *oversight.RiskManager
	PortfolioManager *oversight.PortfolioManager
	Market           dataflows.MarketDataProvider
	News             dataflows.NewsProvider
	Fundamentals     FundamentalsProvider
	Episodic         *memory.EpisodicStore
	Procedural       *memory.ProceduralStore
	Working          *memory.WorkingMemory
}

// Phases holds the per-phase logic of the decision graph. Every phase is
// total: it always hands the state forward and converts its own failures into
// recorded errors.
type Phases struct {
	deps PhaseDeps
}

func NewPhases(deps PhaseDeps) *Phases {
	if deps.Working == nil {
		deps.Working = memory.NewWorkingMemory(30 * time.Minute)
	}
	return &Phases{deps: deps}
}

// runPhase wraps a phase body with the totality guarantee: the state always
// comes back, panics included. The results are named so the recover path
// still returns the state instead of the zero values.
func runPhase(phase string, state *models.PipelineState, body func() error) (st *models.PipelineState, _ error) {
	st = state
	state.CurrentPhase = phase
	defer func() {
		if r := recover(); r != nil {
			state.RecordError(phase, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := body(); err != nil {
		state.RecordError(phase, err)
	}
	return state, nil
}

// Analysis runs the analyst fan-out. Every slot key lands in Reports; failed
// analysts leave a nil marker and a recorded error, and the phase completes
// regardless.
func (p *Phases) Analysis(ctx context.Context, state *models.PipelineState) (*models.PipelineState, error) {
	return runPhase(consts.PhaseAnalysis, state, func() error {
		actx := p.gatherContext(ctx, state)
		p.deps.Working.Put("context:"+state.Symbol, actx)

		tasks := make([]AnalystTask, 0, len(p.deps.Analysts))
		for _, analyst := range p.deps.Analysts {
			analyst := analyst
			tasks = append(tasks, AnalystTask{
				Key: analyst.Slot(),
				Run: func(ctx context.Context) (*models.AgentReport, error) {
					return analyst.Analyze(ctx, actx)
				},
			})
		}

		reports, errs := RunAnalystTasks(ctx, tasks, p.deps.Config.ConcurrentAnalysis)
		for _, task := range tasks {
			state.Reports[task.Key] = reports[task.Key]
			if err, ok := errs[task.Key]; ok {
				state.RecordError(consts.PhaseAnalysis, fmt.Errorf("%s: %w", task.Key, err))
			}
		}
		state.AnalysisComplete = true

		log.Printf("[Pipeline] analysis complete for %s: %d/%d analysts reported",
			state.Symbol, len(reports)-len(errs), len(tasks))
		return nil
	})
}

// gatherContext assembles the shared analyst inputs. Provider failures are
// recorded but never block the fan-out; analysts work with what arrived.
func (p *Phases) gatherContext(ctx context.Context, state *models.PipelineState) *agents.AnalysisContext {
	actx := &agents.AnalysisContext{
		Symbol:    state.Symbol,
		StartDate: state.StartDate,
		EndDate:   state.EndDate,
	}

	start, end := p.dateWindow(state)

	if p.deps.Market != nil {
		if quote, err := p.deps.Market.Quote(ctx, state.Symbol); err != nil {
			state.RecordError(consts.PhaseAnalysis, fmt.Errorf("quote: %w", err))
		} else {
			actx.Quote = quote
		}
		if bars, err := p.deps.Market.Historical(ctx, state.Symbol, start, end); err != nil {
			state.RecordError(consts.PhaseAnalysis, fmt.Errorf("historical: %w", err))
		} else {
			actx.History = bars
		}
	}
	if p.deps.Fundamentals != nil {
		if snapshot, err := p.deps.Fundamentals.Fundamentals(ctx, state.Symbol); err != nil {
			state.RecordError(consts.PhaseAnalysis, fmt.Errorf("fundamentals: %w", err))
		} else {
			actx.Fundamentals = snapshot
		}
	}
	if p.deps.News != nil {
		if news, err := p.deps.News.CompanyNews(ctx, state.Symbol, start, end); err != nil {
			state.RecordError(consts.PhaseAnalysis, fmt.Errorf("news: %w", err))
		} else {
			actx.News = news
		}
	}
	if p.deps.Episodic != nil {
		if lessons, err := p.deps.Episodic.ReflectionsBySymbol(ctx, state.Symbol, 5); err == nil {
			actx.Lessons = lessons
		}
	}

	return actx
}

func (p *Phases) dateWindow(state *models.PipelineState) (time.Time, time.Time) {
	end := time.Now()
	if t, err := dataflows.ParseDateString(state.EndDate); err == nil {
		end = t
	}
	start := end.AddDate(0, 0, -p.deps.Config.NewsLookbackDays)
	if t, err := dataflows.ParseDateString(state.StartDate); err == nil {
		start = t
	}
	return start, end
}

// Debate runs the fixed-round bull/bear protocol: R rounds, bull first, over
// a monotonically growing shared transcript. A failed turn substitutes a
// low-confidence placeholder so the transcript shape stays exactly 2R.
func (p *Phases) Debate(ctx context.Context, state *models.PipelineState) (*models.PipelineState, error) {
	return runPhase(consts.PhaseDebate, state, func() error {
		rounds := p.deps.Config.MaxDebateRounds
		summary := reportsSummary(state)

		for round := 1; round <= rounds; round++ {
			for _, r := range []*researchers.Researcher{p.deps.Bull, p.deps.Bear} {
				arg, err := r.Argue(ctx, summary, round, state.DebateArguments)
				if err != nil {
					state.RecordError(consts.PhaseDebate, err)
					arg = substituteArgument(r, round, err)
				}
				state.DebateArguments = append(state.DebateArguments, *arg)
			}
		}

		state.DebateRounds = rounds
		state.DebateComplete = true
		return nil
	})
}

func substituteArgument(r *researchers.Researcher, round int, err error) *models.DebateArgument {
	return &models.DebateArgument{
		Role:       r.Role(),
		Position:   r.Position(),
		Round:      round,
		Argument:   fmt.Sprintf("(argument unavailable: %v)", err),
		Confidence: 0.1,
		Timestamp:  time.Now(),
	}
}

// Strategy synthesizes the proposal. On failure the proposal stays nil and
// the downstream gates reject it.
func (p *Phases) Strategy(ctx context.Context, state *models.PipelineState) (*models.PipelineState, error) {
	return runPhase(consts.PhaseStrategy, state, func() error {
		summary := reportsSummary(state)
		if playbooks := p.pastPlaybooks(ctx, state.Symbol); playbooks != "" {
			summary += "\n" + playbooks
		}

		proposal, err := p.deps.Strategist.Propose(ctx, state.Symbol, summary, state.DebateArguments)
		if err != nil {
			state.StrategyComplete = true
			return err
		}
		state.Proposal = proposal
		state.StrategyComplete = true
		return nil
	})
}

// pastPlaybooks renders the symbol's previously approved playbooks so the
// strategist can weigh what already made it through both gates. Missing or
// failing store reads just leave the section out.
func (p *Phases) pastPlaybooks(ctx context.Context, symbol string) string {
	if p.deps.Procedural == nil {
		return ""
	}
	patterns, err := p.deps.Procedural.PatternsBySymbol(ctx, symbol, 3)
	if err != nil || len(patterns) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Previously approved playbooks:\n")
	for _, pat := range patterns {
		fmt.Fprintf(&sb, "- %s %s (confidence %.2f, %d wins): %s\n",
			pat.Kind, pat.Direction, pat.Confidence, pat.Wins, pat.Rationale)
	}
	return sb.String()
}

// ExecutionPlanning turns the proposal into order legs.
func (p *Phases) ExecutionPlanning(ctx context.Context, state *models.PipelineState) (*models.PipelineState, error) {
	return runPhase(consts.PhaseExecutionPlanning, state, func() error {
		state.PlanComplete = true
		if state.Proposal == nil {
			return fmt.Errorf("no proposal to plan")
		}

		quote := p.cachedQuote(state)
		plan, err := p.deps.Trader.BuildPlan(state.Proposal, quote)
		if err != nil {
			return err
		}
		state.Plan = plan
		return nil
	})
}

func (p *Phases) cachedQuote(state *models.PipelineState) *dataflows.MarketData {
	if v, ok := p.deps.Working.Get("context:" + state.Symbol); ok {
		if actx, ok := v.(*agents.AnalysisContext); ok {
			return actx.Quote
		}
	}
	return nil
}

// RiskAssessment runs the first gate.
func (p *Phases) RiskAssessment(ctx context.Context, state *models.PipelineState) (*models.PipelineState, error) {
	return runPhase(consts.PhaseRiskAssessment, state, func() error {
		assessment := p.deps.RiskManager.Assess(ctx, oversight.RiskInputs{
			Proposal:   state.Proposal,
			Volatility: technicalVolatility(state),
		})
		state.Risk = assessment
		state.RiskApproved = assessment.Approved
		if !assessment.Approved {
			log.Printf("[Pipeline] risk gate rejected %s: %s", state.Symbol, assessment.Recommendation)
		}
		return nil
	})
}

func technicalVolatility(state *models.PipelineState) float64 {
	if report, ok := state.Report(consts.AnalystTechnical); ok && report.Technical != nil {
		return report.Technical.Volatility
	}
	return 0
}

// PortfolioDecision runs the final gate.
func (p *Phases) PortfolioDecision(ctx context.Context, state *models.PipelineState) (*models.PipelineState, error) {
	return runPhase(consts.PhasePortfolioDecision, state, func() error {
		decision := p.deps.PortfolioManager.Decide(ctx, state.Proposal, state.Risk)
		state.Decision = decision
		state.FinalApproval = decision.Approved
		return nil
	})
}

// Execution paces the approved plan through the fast executor. An empty plan
// is a completed no-op.
func (p *Phases) Execution(ctx context.Context, state *models.PipelineState) (*models.PipelineState, error) {
	return runPhase(consts.PhaseExecution, state, func() error {
		state.ExecutionComplete = true

		if state.Plan == nil || len(state.Plan.Orders) == 0 {
			log.Printf("[Pipeline] nothing to execute for %s", state.Symbol)
			return nil
		}

		decision := p.deps.FastExecutor.Decide(state.Symbol, compositeSignal(state))
		state.ExecDecision = decision
		if decision.Action != "hold" {
			state.OrdersSubmitted = true
		}
		log.Printf("[Pipeline] execution decision for %s: %s (%.2f via %s, %s)",
			state.Symbol, decision.Action, decision.Confidence, decision.Source, decision.Latency)
		return nil
	})
}

// compositeSignal maps the proposal's conviction and direction onto [-1, 1].
func compositeSignal(state *models.PipelineState) float64 {
	if state.Proposal == nil {
		return 0
	}
	switch state.Proposal.Direction {
	case models.DirectionShort:
		return -state.Proposal.Confidence
	case models.DirectionNeutral:
		return 0
	default:
		return state.Proposal.Confidence
	}
}

// Learning finalizes the run: records a pending trade for submitted orders,
// stores the approved playbook, and persists the run artifact.
func (p *Phases) Learning(ctx context.Context, state *models.PipelineState) (*models.PipelineState, error) {
	return runPhase(consts.PhaseLearning, state, func() error {
		if state.OrdersSubmitted && state.Plan != nil && p.deps.Episodic != nil {
			outcome := tradeOutcomeFromPlan(state)
			if err := p.deps.Episodic.RecordTrade(ctx, outcome); err != nil {
				state.RecordError(consts.PhaseLearning, err)
			}
		}

		if state.FinalApproval && state.Proposal != nil && p.deps.Procedural != nil {
			if err := p.deps.Procedural.RecordPattern(ctx, patternFromProposal(state)); err != nil {
				state.RecordError(consts.PhaseLearning, err)
			}
		}

		if err := p.persistRun(state); err != nil {
			state.RecordError(consts.PhaseLearning, err)
		}

		state.CurrentPhase = "complete"
		return nil
	})
}

// runTradeID names the run's trade. The trade log and the playbook store
// share it so a closed win can reinforce the playbook that produced it.
func runTradeID(state *models.PipelineState) string {
	return fmt.Sprintf("%s-%d", state.Symbol, state.StartTime.UnixNano())
}

func tradeOutcomeFromPlan(state *models.PipelineState) *models.TradeOutcome {
	entry := state.Plan.Orders[0]
	price, _ := entry.LimitPrice.Float64()
	return &models.TradeOutcome{
		TradeID:    runTradeID(state),
		Symbol:     state.Symbol,
		Kind:       state.Plan.Kind,
		EntryDate:  time.Now(),
		EntryPrice: price,
		Quantity:   entry.Quantity,
		Outcome:    "pending",
	}
}

func patternFromProposal(state *models.PipelineState) *models.StrategyPattern {
	return &models.StrategyPattern{
		TradeID:    runTradeID(state),
		Symbol:     state.Symbol,
		Kind:       state.Proposal.Kind,
		Direction:  state.Proposal.Direction,
		Confidence: state.Proposal.Confidence,
		Rationale:  state.Proposal.Rationale,
		Timestamp:  time.Now(),
	}
}

func (p *Phases) persistRun(state *models.PipelineState) error {
	dir := filepath.Join(p.deps.Config.ResultsDir, state.Symbol)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run state: %w", err)
	}

	name := fmt.Sprintf("run_%s.json", state.StartTime.Format("20060102_150405"))
	return os.WriteFile(filepath.Join(dir, name), data, 0o644)
}

// reportsSummary renders the analyst reports for downstream prompts. Failed
// slots are named explicitly so later agents know what is missing.
func reportsSummary(state *models.PipelineState) string {
	var sb strings.Builder
	for _, key := range []string{
		consts.AnalystFundamentals, consts.AnalystTechnical, consts.AnalystSentiment,
		consts.AnalystMacroNews, consts.AnalystNewsNLP, consts.AnalystGenerative,
	} {
		report, ok := state.Report(key)
		if !ok {
			fmt.Fprintf(&sb, "[%s] unavailable\n", key)
			continue
		}
		fmt.Fprintf(&sb, "[%s] (confidence %.2f) %s\n", key, report.Confidence, report.Summary)
	}
	return sb.String()
}
