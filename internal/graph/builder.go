package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"github.com/marketmind-ai/marketmind/consts"
	"github.com/marketmind-ai/marketmind/internal/models"
)

// BuildDecisionGraph compiles the eight-phase decision graph. The spine is
// linear; two branches gate the back half. A risk rejection routes straight
// to learning so execution is never attempted, and a portfolio veto does the
// same.
func BuildDecisionGraph(ctx context.Context, phases *Phases) (compose.Runnable[*models.PipelineState, *models.PipelineState], error) {
	g := compose.NewGraph[*models.PipelineState, *models.PipelineState](
		compose.WithGenLocalState(func(ctx context.Context) *models.PipelineState {
			return &models.PipelineState{}
		}),
	)

	_ = g.AddLambdaNode(consts.PhaseAnalysis, compose.InvokableLambda(phases.Analysis))
	_ = g.AddLambdaNode(consts.PhaseDebate, compose.InvokableLambda(phases.Debate))
	_ = g.AddLambdaNode(consts.PhaseStrategy, compose.InvokableLambda(phases.Strategy))
	_ = g.AddLambdaNode(consts.PhaseExecutionPlanning, compose.InvokableLambda(phases.ExecutionPlanning))
	_ = g.AddLambdaNode(consts.PhaseRiskAssessment, compose.InvokableLambda(phases.RiskAssessment))
	_ = g.AddLambdaNode(consts.PhasePortfolioDecision, compose.InvokableLambda(phases.PortfolioDecision))
	_ = g.AddLambdaNode(consts.PhaseExecution, compose.InvokableLambda(phases.Execution))
	_ = g.AddLambdaNode(consts.PhaseLearning, compose.InvokableLambda(phases.Learning))

	_ = g.AddEdge(compose.START, consts.PhaseAnalysis)
	_ = g.AddEdge(consts.PhaseAnalysis, consts.PhaseDebate)
	_ = g.AddEdge(consts.PhaseDebate, consts.PhaseStrategy)
	_ = g.AddEdge(consts.PhaseStrategy, consts.PhaseExecutionPlanning)
	_ = g.AddEdge(consts.PhaseExecutionPlanning, consts.PhaseRiskAssessment)

	_ = g.AddBranch(consts.PhaseRiskAssessment, compose.NewGraphBranch(
		func(ctx context.Context, state *models.PipelineState) (string, error) {
			if state.RiskApproved {
				return consts.PhasePortfolioDecision, nil
			}
			return consts.PhaseLearning, nil
		},
		map[string]bool{
			consts.PhasePortfolioDecision: true,
			consts.PhaseLearning:          true,
		},
	))

	_ = g.AddBranch(consts.PhasePortfolioDecision, compose.NewGraphBranch(
		func(ctx context.Context, state *models.PipelineState) (string, error) {
			if state.FinalApproval {
				return consts.PhaseExecution, nil
			}
			return consts.PhaseLearning, nil
		},
		map[string]bool{
			consts.PhaseExecution: true,
			consts.PhaseLearning:  true,
		},
	))

	_ = g.AddEdge(consts.PhaseExecution, consts.PhaseLearning)
	_ = g.AddEdge(consts.PhaseLearning, compose.END)

	r, err := g.Compile(ctx,
		compose.WithGraphName("marketmind-decision"),
		compose.WithNodeTriggerMode(compose.AnyPredecessor),
	)
	if err != nil {
		return nil, fmt.Errorf("compile decision graph: %w", err)
	}
	return r, nil
}
