package researchers

import (
	"github.com/marketmind-ai/marketmind/internal/agents"
	"github.com/marketmind-ai/marketmind/internal/llm"
	"github.com/marketmind-ai/marketmind/internal/models"
)

// NewBullResearcher builds the researcher arguing for the position.
func NewBullResearcher(gen llm.Generator) *Researcher {
	return &Researcher{
		role:     models.RoleBullResearcher,
		position: models.SentimentBullish,
		prompt:   agents.BullResearcherPrompt,
		gen:      gen,
	}
}
