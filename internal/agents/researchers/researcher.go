package researchers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/marketmind-ai/marketmind/internal/llm"
	"github.com/marketmind-ai/marketmind/internal/models"
)

// Researcher argues one fixed side of the debate. The position is set at
// construction and never changes mid-run.
type Researcher struct {
	role     models.Role
	position models.Sentiment
	prompt   string
	gen      llm.Generator
}

// Argue produces this side's contribution for one round. The shared history
// grows monotonically; each call sees everything said so far.
func (r *Researcher) Argue(ctx context.Context, reportsSummary string, round int, history []models.DebateArgument) (*models.DebateArgument, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Round %d of the debate.\n\nAnalyst reports:\n%s\n", round, reportsSummary)
	if len(history) > 0 {
		sb.WriteString("\nDebate so far:\n")
		for _, arg := range history {
			fmt.Fprintf(&sb, "[round %d] %s (%s, confidence %.2f): %s\n",
				arg.Round, arg.Role, arg.Position, arg.Confidence, arg.Argument)
		}
	}

	text, err := r.gen.Generate(ctx, r.prompt, sb.String())
	if err != nil {
		return nil, fmt.Errorf("%s round %d: %w", r.role, round, err)
	}

	payload := struct {
		Argument      string   `json:"argument"`
		Evidence      []string `json:"evidence"`
		Counterpoints []string `json:"counterpoints"`
		Confidence    float64  `json:"confidence"`
	}{Confidence: 0.3}

	if raw, ok := llm.ExtractJSON(text); ok {
		if err := json.Unmarshal(raw, &payload); err != nil {
			log.Printf("[%s] malformed payload in round %d: %v", r.role, round, err)
		}
	} else {
		log.Printf("[%s] no JSON payload in round %d, using raw text", r.role, round)
	}
	if strings.TrimSpace(payload.Argument) == "" {
		payload.Argument = strings.TrimSpace(text)
	}
	if payload.Argument == "" {
		payload.Argument = "(no argument provided)"
	}

	return &models.DebateArgument{
		Role:          r.role,
		Position:      r.position,
		Round:         round,
		Argument:      payload.Argument,
		Evidence:      payload.Evidence,
		Counterpoints: payload.Counterpoints,
		Confidence:    models.ClampConfidence(payload.Confidence),
		Timestamp:     time.Now(),
	}, nil
}

// Role returns the researcher's debate identity.
func (r *Researcher) Role() models.Role { return r.role }

// Position returns the fixed side this researcher argues.
func (r *Researcher) Position() models.Sentiment { return r.position }
