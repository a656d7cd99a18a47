package models

import "time"

// DebateArgument is one side's contribution to a debate round. Position is
// fixed per role and never swapped mid-run.
type DebateArgument struct {
	Role          Role      `json:"role"`
	Position      Sentiment `json:"position"`
	Round         int       `json:"round"`
	Argument      string    `json:"argument"`
	Evidence      []string  `json:"evidence,omitempty"`
	Counterpoints []string  `json:"counterpoints,omitempty"`
	Confidence    float64   `json:"confidence"`
	Timestamp     time.Time `json:"timestamp"`
}
