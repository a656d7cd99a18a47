package researchers

import (
	"github.com/marketmind-ai/marketmind/internal/agents"
	"github.com/marketmind-ai/marketmind/internal/llm"
	"github.com/marketmind-ai/marketmind/internal/models"
)

// NewBearResearcher builds the researcher arguing against the position.
func NewBearResearcher(gen llm.Generator) *Researcher {
	return &Researcher{
		role:     models.RoleBearResearcher,
		position: models.SentimentBearish,
		prompt:   agents.BearResearcherPrompt,
		gen:      gen,
	}
}
