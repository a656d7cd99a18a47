package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/marketmind-ai/marketmind/config"
)

// Generator is the single seam between agents and the underlying chat model.
// Agents depend on this interface so tests can substitute scripted responses.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

type modelGenerator struct {
	cm model.BaseChatModel
}

func (g *modelGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	msgs := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	}
	out, err := g.cm.Generate(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("chat model generate: %w", err)
	}
	return out.Content, nil
}

// Client bundles the two model tiers. Deep handles reasoning-heavy phases
// (debate, strategy, oversight); Quick handles the analyst fan-out.
type Client struct {
	deep  Generator
	quick Generator
}

// NewClient builds chat models for the configured provider. A missing API key
// is a setup error, not a per-run degradation.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.APIKey() == "" {
		return nil, fmt.Errorf("api key for provider %q is required", cfg.LLMProvider)
	}

	deep, err := newChatModel(ctx, cfg, cfg.DeepThinkModel)
	if err != nil {
		return nil, fmt.Errorf("create deep-think model: %w", err)
	}
	quick, err := newChatModel(ctx, cfg, cfg.QuickThinkModel)
	if err != nil {
		return nil, fmt.Errorf("create quick-think model: %w", err)
	}

	return &Client{
		deep:  &modelGenerator{cm: deep},
		quick: &modelGenerator{cm: quick},
	}, nil
}

func (c *Client) DeepThink() Generator  { return c.deep }
func (c *Client) QuickThink() Generator { return c.quick }

func newChatModel(ctx context.Context, cfg *config.Config, modelName string) (model.BaseChatModel, error) {
	switch cfg.LLMProvider {
	case "openai":
		maxTokens := 8192
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:    cfg.OpenAIAPIKey,
			Model:     modelName,
			MaxTokens: &maxTokens,
		})
	default:
		return deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:    cfg.DeepSeekAPIKey,
			Model:     modelName,
			MaxTokens: 4000,
		})
	}
}
