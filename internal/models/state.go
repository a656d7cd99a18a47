package models

import (
	"fmt"
	"time"
)

// PipelineState is the single run context threaded through every phase of the
// decision graph. The engine owns it for the lifetime of one run; phases
// mutate only the slots they produce and hand it back. It moves forward only,
// never rolled back.
type PipelineState struct {
	Symbol    string `json:"symbol"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`

	// Analysis phase. Reports is keyed by the stable analyst slot keys; a key
	// present with a nil value marks an analyst that failed.
	Reports          map[string]*AgentReport `json:"reports"`
	AnalysisComplete bool                    `json:"analysis_complete"`

	// Debate phase.
	DebateArguments []DebateArgument `json:"debate_arguments"`
	DebateRounds    int              `json:"debate_rounds"`
	DebateComplete  bool             `json:"debate_complete"`

	// Strategy phase.
	Proposal         *StrategyProposal `json:"proposal,omitempty"`
	StrategyComplete bool              `json:"strategy_complete"`

	// Execution planning phase.
	Plan         *ExecutionPlan `json:"plan,omitempty"`
	PlanComplete bool           `json:"plan_complete"`

	// Risk gate.
	Risk         *RiskAssessment `json:"risk,omitempty"`
	RiskApproved bool            `json:"risk_approved"`

	// Portfolio gate.
	Decision      *PortfolioDecision `json:"decision,omitempty"`
	FinalApproval bool               `json:"final_approval"`

	// Execution phase.
	ExecDecision      *ExecutionDecision `json:"exec_decision,omitempty"`
	OrdersSubmitted   bool               `json:"orders_submitted"`
	ExecutionComplete bool               `json:"execution_complete"`

	// Metadata.
	StartTime    time.Time `json:"start_time"`
	CurrentPhase string    `json:"current_phase"`
	Errors       []string  `json:"errors"`
}

// NewPipelineState builds the initial state for one run.
func NewPipelineState(symbol, startDate, endDate string) *PipelineState {
	return &PipelineState{
		Symbol:       symbol,
		StartDate:    startDate,
		EndDate:      endDate,
		Reports:      make(map[string]*AgentReport),
		StartTime:    time.Now(),
		CurrentPhase: "initialization",
		Errors:       []string{},
	}
}

// Report returns the report for a slot key. ok is false when the slot is
// absent or holds the explicit failed-analyst marker.
func (s *PipelineState) Report(key string) (*AgentReport, bool) {
	r, present := s.Reports[key]
	if !present || r == nil {
		return nil, false
	}
	return r, true
}

// RecordError appends a phase-scoped error to the run's ordered error list.
func (s *PipelineState) RecordError(phase string, err error) {
	if err == nil {
		return
	}
	s.Errors = append(s.Errors, fmt.Sprintf("%s: %v", phase, err))
}
