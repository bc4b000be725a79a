package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"Mathagent/internal/agent"
	"Mathagent/internal/logging"
	"Mathagent/internal/mathexpr"
	"Mathagent/internal/nlmath"
	"Mathagent/internal/tools"
	"Mathagent/pkg/types"

	"github.com/google/uuid"
)

// DefaultMaxSteps is the step budget used when none is given
const DefaultMaxSteps = 3

var (
	// ErrModelCallFailed wraps a model client failure
	ErrModelCallFailed = errors.New("LLM call failed")
	// ErrStepBudgetExceeded is returned when no answer arrives within the budget
	ErrStepBudgetExceeded = errors.New("step budget exceeded")
	// ErrUnknownTool is returned when the model requests a tool that is not registered
	ErrUnknownTool = tools.ErrUnknownTool
)

// Orchestrator drives a conversation between a model and the tool registry
type Orchestrator struct {
	Client   agent.LLMClient
	Tools    *tools.Registry
	MaxSteps int
	FastPath bool
	Logger   *logging.Logger
}

// Result is the full report of one run
type Result struct {
	RunID      string
	Outcome    types.Outcome
	State      *State
	Transcript []types.Message
	Stats      *RunStats
}

func NewOrchestrator(client agent.LLMClient, registry *tools.Registry) *Orchestrator {
	if registry == nil {
		registry = tools.DefaultRegistry()
	}
	return &Orchestrator{
		Client:   client,
		Tools:    registry,
		MaxSteps: DefaultMaxSteps,
		FastPath: true,
		Logger:   logging.Nop(),
	}
}

// Run processes text and returns only the outcome
func (o *Orchestrator) Run(ctx context.Context, text string, maxSteps int) types.Outcome {
	return o.Execute(ctx, text, maxSteps).Outcome
}

// Execute processes text to completion or failure. maxSteps <= 0 uses the
// orchestrator's default budget.
func (o *Orchestrator) Execute(ctx context.Context, text string, maxSteps int) *Result {
	if maxSteps <= 0 {
		maxSteps = o.MaxSteps
	}
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	run := &Result{
		RunID: uuid.NewString(),
		State: NewState(maxSteps),
		Stats: NewRunStats(),
	}
	log := o.Logger.With("run_id", run.RunID)

	if o.FastPath && nlmath.LooksLikeMath(text) {
		o.fastPath(run, text, log)
	} else {
		o.loop(ctx, run, text, log)
	}

	run.Stats.Finish()
	log.LogOutcome(run.Outcome.OK, outcomeText(run.Outcome), run.Stats.GetElapsedTime())
	return run
}

// fastPath sends obvious arithmetic straight to the evaluator
func (o *Orchestrator) fastPath(run *Result, text string, log *logging.Logger) {
	run.Stats.FastPath = true
	expression := nlmath.ExtractExpression(text)
	log.Debug("fast path", "expression", expression)

	n, err := mathexpr.Eval(expression)
	run.Stats.RecordToolCall()
	if err != nil {
		log.LogToolCall("math", expression, err.Error())
		o.fail(run, err)
		return
	}
	log.LogToolCall("math", expression, n.String())
	run.Outcome = types.Success(n.String())
	run.State.Complete()
}

func (o *Orchestrator) loop(ctx context.Context, run *Result, text string, log *logging.Logger) {
	state := run.State
	run.Transcript = []types.Message{
		{Role: types.RoleSystem, Content: SystemPrompt(o.Tools)},
		{Role: types.RoleUser, Content: text},
	}

	for state.HasBudget() {
		state.NextStep()

		state.Enter(StateAwaitModel)
		log.LogStep(state.CurrentStep, state.Status.String())
		started := time.Now()
		out, err := o.Client.Chat(ctx, slices.Clone(run.Transcript))
		run.Stats.RecordModelCall(time.Since(started))
		if err != nil {
			o.fail(run, fmt.Errorf("%w: %w", ErrModelCallFailed, err))
			return
		}

		state.Enter(StateInterpret)
		log.LogStep(state.CurrentStep, state.Status.String())
		r := interpret(out)
		if r.kind == replyAnswer {
			run.Outcome = types.Success(r.answer)
			state.Complete()
			return
		}

		state.Enter(StateDispatchTool)
		log.LogStep(state.CurrentStep, state.Status.String())
		result, err := o.Tools.Dispatch(r.call)
		if err != nil {
			o.fail(run, err)
			return
		}
		run.Stats.RecordToolCall()
		log.LogToolCall(r.call.Name, r.call.Input, result.Text())

		run.Transcript = append(run.Transcript,
			types.Message{Role: types.RoleAssistant, Content: encode(r.parsed)},
			types.Message{Role: types.RoleAssistant, Content: encode(map[string]any{"tool_result": result})},
		)
	}

	o.fail(run, fmt.Errorf("%w: no final answer after %d steps", ErrStepBudgetExceeded, state.MaxSteps))
}

func (o *Orchestrator) fail(run *Result, err error) {
	run.Outcome = types.Failure(err)
	run.State.Fail(err)
}

func outcomeText(o types.Outcome) string {
	if o.OK {
		return o.Response
	}
	return o.Error
}
