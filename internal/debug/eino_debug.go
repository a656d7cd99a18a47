package debug

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino-ext/devops"

	"github.com/marketmind-ai/marketmind/config"
)

// GraphDebugger hosts the eino visual debug server so compiled decision
// graphs can be inspected while a run is in flight.
type GraphDebugger struct {
	cfg *config.Config
}

func NewGraphDebugger(cfg *config.Config) *GraphDebugger {
	return &GraphDebugger{cfg: cfg}
}

// Initialize starts the debug plugin when enabled. Call it before compiling
// any graph so the artifacts register.
func (d *GraphDebugger) Initialize(ctx context.Context) error {
	if !d.cfg.EinoDebugEnabled {
		return nil
	}

	if err := devops.Init(ctx); err != nil {
		return fmt.Errorf("init eino debug plugin: %w", err)
	}

	if d.cfg.Debug {
		log.Printf("[GraphDebug] debug server listening at %s", d.URL())
	}
	return nil
}

func (d *GraphDebugger) Enabled() bool {
	return d.cfg.EinoDebugEnabled
}

// URL returns the local debug endpoint, or empty when disabled.
func (d *GraphDebugger) URL() string {
	if !d.cfg.EinoDebugEnabled {
		return ""
	}
	return fmt.Sprintf("http://localhost:%d", d.cfg.EinoDebugPort)
}
