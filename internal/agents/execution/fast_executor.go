package execution

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/marketmind-ai/marketmind/config"
	"github.com/marketmind-ai/marketmind/internal/models"
)

// FastExecutor asks the low-latency execution service how to pace an approved
// plan. The service call is strictly bounded; any failure falls back to the
// local threshold rule so execution never blocks on the model.
type FastExecutor struct {
	client   *resty.Client
	endpoint string
	enabled  bool
}

func NewFastExecutor(cfg *config.Config) *FastExecutor {
	client := resty.New()
	client.SetTimeout(time.Duration(cfg.ExecutorTimeoutSeconds) * time.Second)

	return &FastExecutor{
		client:   client,
		endpoint: cfg.ExecutorEndpoint,
		enabled:  cfg.ExecutorEnabled,
	}
}

type executorRequest struct {
	Symbol string  `json:"symbol"`
	Signal float64 `json:"signal"`
}

type executorResponse struct {
	Action     string  `json:"action"`
	Confidence float64 `json:"confidence"`
}

// Decide returns the pacing decision for a composite signal in [-1, 1].
func (fe *FastExecutor) Decide(symbol string, signal float64) *models.ExecutionDecision {
	start := time.Now()

	if fe.enabled {
		if decision, err := fe.callModel(symbol, signal); err == nil {
			decision.Latency = time.Since(start)
			return decision
		} else {
			log.Printf("[FastExecutor] model unavailable for %s, using rule fallback: %v", symbol, err)
		}
	}

	decision := ruleDecision(signal)
	decision.Latency = time.Since(start)
	return decision
}

func (fe *FastExecutor) callModel(symbol string, signal float64) (*models.ExecutionDecision, error) {
	resp, err := fe.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(executorRequest{Symbol: symbol, Signal: signal}).
		Post(fe.endpoint + "/decide")
	if err != nil {
		return nil, fmt.Errorf("call executor service: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("executor service error %d: %s", resp.StatusCode(), resp.String())
	}

	var out executorResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("parse executor response: %w", err)
	}

	switch out.Action {
	case "buy", "sell", "hold":
	default:
		return nil, fmt.Errorf("unknown executor action %q", out.Action)
	}

	return &models.ExecutionDecision{
		Action:     out.Action,
		Confidence: models.ClampConfidence(out.Confidence),
		Source:     "model",
	}, nil
}

// ruleDecision is the local threshold fallback.
func ruleDecision(signal float64) *models.ExecutionDecision {
	action := "hold"
	switch {
	case signal > 0.3:
		action = "buy"
	case signal < -0.3:
		action = "sell"
	}

	confidence := signal
	if confidence < 0 {
		confidence = -confidence
	}

	return &models.ExecutionDecision{
		Action:     action,
		Confidence: models.ClampConfidence(confidence),
		Source:     "fallback",
	}
}
