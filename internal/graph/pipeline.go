package graph

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/cloudwego/eino/compose"

	"github.com/marketmind-ai/marketmind/config"
	"github.com/marketmind-ai/marketmind/internal/agents"
	"github.com/marketmind-ai/marketmind/internal/agents/analysts"
	"github.com/marketmind-ai/marketmind/internal/agents/execution"
	"github.com/marketmind-ai/marketmind/internal/agents/oversight"
	"github.com/marketmind-ai/marketmind/internal/agents/researchers"
	"github.com/marketmind-ai/marketmind/internal/agents/strategist"
	"github.com/marketmind-ai/marketmind/internal/dataflows"
	"github.com/marketmind-ai/marketmind/internal/llm"
	"github.com/marketmind-ai/marketmind/internal/memory"
	"github.com/marketmind-ai/marketmind/internal/models"
)

// Pipeline owns one compiled decision graph plus the stores behind it.
type Pipeline struct {
	cfg        *config.Config
	runnable   compose.Runnable[*models.PipelineState, *models.PipelineState]
	episodic   *memory.EpisodicStore
	procedural *memory.ProceduralStore
	client     *llm.Client
}

// NewPipeline wires the full production dependency set: chat models, market
// data, news, memory, agents, and the compiled graph.
func NewPipeline(ctx context.Context, cfg *config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	client, err := llm.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	yahoo := dataflows.NewYahooClient(cfg)
	var market dataflows.MarketDataProvider = yahoo
	if lp, err := dataflows.NewLongportClient(cfg); err == nil {
		log.Printf("[Pipeline] using Longport market data")
		market = lp
	}

	var news dataflows.NewsProvider
	if cfg.FinnhubAPIKey != "" {
		news = dataflows.NewFinnhubClient(cfg)
	} else {
		log.Printf("[Pipeline] no Finnhub key, falling back to news scraper")
		news = dataflows.NewNewsScraper(cfg)
	}

	episodic, err := memory.NewEpisodicStore(filepath.Join(cfg.DataDir, "episodic.db"))
	if err != nil {
		return nil, err
	}
	procedural, err := memory.NewProceduralStore(filepath.Join(cfg.DataDir, "procedural.db"))
	if err != nil {
		episodic.Close()
		return nil, err
	}

	quick := client.QuickThink()
	deep := client.DeepThink()

	phases := NewPhases(PhaseDeps{
		Config: cfg,
		Analysts: []agents.Analyst{
			analysts.NewFundamentalsAnalyst(quick),
			analysts.NewTechnicalAnalyst(quick),
			analysts.NewSentimentAnalyst(quick),
			analysts.NewMacroNewsAnalyst(quick),
			analysts.NewNewsNLPAnalyst(),
			analysts.NewGenerativeAnalyst(deep),
		},
		Bull:             researchers.NewBullResearcher(deep),
		Bear:             researchers.NewBearResearcher(deep),
		Strategist:       strategist.New(deep, cfg),
		Trader:           execution.NewEquityTrader(cfg),
		FastExecutor:     execution.NewFastExecutor(cfg),
		RiskManager:      oversight.NewRiskManager(deep, cfg),
		PortfolioManager: oversight.NewPortfolioManager(deep),
		Market:           market,
		News:             news,
		Fundamentals:     yahoo,
		Episodic:         episodic,
		Procedural:       procedural,
		Working:          memory.NewWorkingMemory(30 * time.Minute),
	})

	runnable, err := BuildDecisionGraph(ctx, phases)
	if err != nil {
		episodic.Close()
		procedural.Close()
		return nil, err
	}

	return &Pipeline{
		cfg:        cfg,
		runnable:   runnable,
		episodic:   episodic,
		procedural: procedural,
		client:     client,
	}, nil
}

// NewPipelineFromPhases compiles a graph over preassembled phases. Tests and
// the reflect command use this to substitute dependencies.
func NewPipelineFromPhases(ctx context.Context, cfg *config.Config, phases *Phases) (*Pipeline, error) {
	runnable, err := BuildDecisionGraph(ctx, phases)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:        cfg,
		runnable:   runnable,
		episodic:   phases.deps.Episodic,
		procedural: phases.deps.Procedural,
	}, nil
}

// Run drives one symbol through the whole graph. The returned state is
// always complete: phase failures surface in state.Errors, not here.
func (p *Pipeline) Run(ctx context.Context, symbol, startDate, endDate string) (*models.PipelineState, error) {
	symbol = dataflows.NormalizeSymbol(symbol)
	if err := dataflows.ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	state := models.NewPipelineState(symbol, startDate, endDate)
	log.Printf("[Pipeline] starting run for %s (%s to %s)", symbol, startDate, endDate)

	result, err := p.runnable.Invoke(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("decision graph: %w", err)
	}

	log.Printf("[Pipeline] run for %s finished in %s with %d recorded errors",
		symbol, time.Since(state.StartTime).Round(time.Millisecond), len(result.Errors))
	return result, nil
}

// Episodic exposes the trade log for the reflect command.
func (p *Pipeline) Episodic() *memory.EpisodicStore {
	return p.episodic
}

func (p *Pipeline) Close() error {
	var firstErr error
	if p.episodic != nil {
		firstErr = p.episodic.Close()
	}
	if p.procedural != nil {
		if err := p.procedural.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
