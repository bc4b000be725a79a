// Package backend picks, once per process, what answers a user request: the
// native orchestrator or an external agent framework.
package backend

import (
	"context"
	"fmt"

	"Mathagent/internal/agent"
	"Mathagent/internal/config"
	"Mathagent/internal/engine"
	"Mathagent/internal/logging"
	"Mathagent/internal/tools"
	"Mathagent/pkg/types"
)

// Runner answers one user request
type Runner interface {
	Run(ctx context.Context, text string, maxSteps int) types.Outcome
}

// New builds the runner selected by cfg. The native backend dispatches to
// registry; nil means the built-in tools.
func New(cfg config.Config, registry *tools.Registry, logger *logging.Logger) (Runner, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	switch backend := cfg.EffectiveBackend(); backend {
	case config.BackendNative:
		return NewNative(cfg, registry, logger)
	case config.BackendExternal:
		completer, err := NewCompleter(cfg)
		if err != nil {
			return nil, err
		}
		logger.Debug("external backend selected", "provider", cfg.ExternalProvider, "model", cfg.Model)
		return &External{Completer: completer, Logger: logger}, nil
	default:
		return nil, fmt.Errorf("invalid backend %q", backend)
	}
}

// NewNative wires the orchestrator to either the mock or the remote model client
func NewNative(cfg config.Config, registry *tools.Registry, logger *logging.Logger) (*engine.Orchestrator, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if registry == nil {
		registry = tools.DefaultRegistry()
	}

	var client agent.LLMClient
	if cfg.Mock {
		client = &agent.MockClient{}
		logger.Debug("mock model client selected")
	} else {
		dialects, err := agent.DialectsByName(cfg.Dialects)
		if err != nil {
			return nil, err
		}
		c := agent.NewClient(cfg.ModelURL, cfg.Model, cfg.APIKey, dialects)
		c.Timeout = cfg.Timeout
		c.Logger = logger
		client = c
		logger.Debug("native backend selected", "url", cfg.ModelURL, "model", cfg.Model)
	}

	o := engine.NewOrchestrator(client, registry)
	o.MaxSteps = cfg.MaxSteps
	o.FastPath = cfg.FastPath
	o.Logger = logger
	return o, nil
}
