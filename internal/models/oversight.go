package models

import "time"

// RiskAssessment is the risk gate's output. Approved can only be true when
// every hard check passed and the soft judgment agreed; a favorable soft
// judgment never overrides a failed hard check.
type RiskAssessment struct {
	Symbol              string    `json:"symbol"`
	Approved            bool      `json:"approved"`
	PositionSizeOK      bool      `json:"position_size_ok"`
	VaROK               bool      `json:"var_ok"`
	SectorOK            bool      `json:"sector_ok"`
	PositionValue       float64   `json:"position_value"`
	ProjectedVaR        float64   `json:"projected_var"`
	SectorConcentration float64   `json:"sector_concentration"`
	RiskScore           float64   `json:"risk_score"`
	Warnings            []string  `json:"warnings,omitempty"`
	Recommendation      string    `json:"recommendation"`
	Timestamp           time.Time `json:"timestamp"`
}

// HardChecksPassed reports whether every deterministic limit check passed.
func (r *RiskAssessment) HardChecksPassed() bool {
	return r.PositionSizeOK && r.VaROK && r.SectorOK
}

// PortfolioDecision is the final gate's output. If the preceding risk gate
// rejected, Approved must be false and Rationale must reference the upstream
// rejection.
type PortfolioDecision struct {
	Symbol       string    `json:"symbol"`
	Approved     bool      `json:"approved"`
	Rationale    string    `json:"rationale"`
	Monitoring   []string  `json:"monitoring,omitempty"`
	ExitTriggers []string  `json:"exit_triggers,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
