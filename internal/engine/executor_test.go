package engine

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"testing"

	"Mathagent/internal/agent"
	"Mathagent/internal/mathexpr"
	"Mathagent/internal/tools"
	"Mathagent/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient replies with the given texts in order, repeating the last one
type scriptedClient struct {
	replies []string
	err     error
	seen    [][]types.Message
}

func (c *scriptedClient) Chat(ctx context.Context, messages []types.Message) (string, error) {
	c.seen = append(c.seen, messages)
	if c.err != nil {
		return "", c.err
	}
	i := min(len(c.seen)-1, len(c.replies)-1)
	return c.replies[i], nil
}

func newTestOrchestrator(client agent.LLMClient) *Orchestrator {
	return NewOrchestrator(client, tools.DefaultRegistry())
}

func TestFastPathScenarios(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2 + 2", "4"},
		{"quanto é 12 * (3 + 4)", "84"},
		{"raiz quadrada de 16", "4.0"},
		{"quanto é 5 mais 3", "8"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			client := &scriptedClient{replies: []string{`{"response":"model should not be called"}`}}
			res := newTestOrchestrator(client).Execute(context.Background(), tt.input, 3)

			assert.Equal(t, types.Outcome{OK: true, Response: tt.expected}, res.Outcome)
			assert.Empty(t, client.seen)
			assert.Equal(t, StateDone, res.State.Status)
			assert.True(t, res.Stats.FastPath)
		})
	}
}

func TestFastPathEvaluationError(t *testing.T) {
	client := &scriptedClient{replies: []string{`{"response":"unused"}`}}
	out := newTestOrchestrator(client).Run(context.Background(), "quanto é 10 / 0", 3)

	assert.False(t, out.OK)
	assert.Equal(t, "division by zero", out.Error)
	assert.ErrorIs(t, out.Err, mathexpr.ErrEvaluation)
	assert.Empty(t, client.seen)
}

func TestFastPathRejectsFloorDivision(t *testing.T) {
	for _, input := range []string{"quanto é 7 // 2", "100 // 3"} {
		client := &scriptedClient{replies: []string{`{"response":"unused"}`}}
		out := newTestOrchestrator(client).Run(context.Background(), input, 3)

		assert.False(t, out.OK, input)
		assert.Equal(t, `unsupported operator: "//"`, out.Error, input)
		assert.ErrorIs(t, out.Err, mathexpr.ErrUnsupported, input)
		assert.Empty(t, client.seen, input)
	}
}

func TestToolRoundTrip(t *testing.T) {
	client := &scriptedClient{replies: []string{
		`{"tool":{"name":"math","input":"10/0"}}`,
		`{"response":"cannot divide by zero"}`,
	}}
	res := newTestOrchestrator(client).Execute(context.Background(), "please divide ten by zero", 3)

	assert.Equal(t, types.Success("cannot divide by zero"), res.Outcome)
	assert.Equal(t, []RunState{
		StateStart,
		StateAwaitModel, StateInterpret, StateDispatchTool,
		StateAwaitModel, StateInterpret, StateDone,
	}, res.State.History)
	assert.Equal(t, 2, res.Stats.ModelCalls)
	assert.Equal(t, 1, res.Stats.ToolCalls)

	require.Len(t, client.seen, 2)
	assert.Len(t, client.seen[0], 2)
	second := client.seen[1]
	require.Len(t, second, 4)
	assert.Equal(t, types.RoleSystem, second[0].Role)
	assert.Equal(t, types.Message{Role: types.RoleUser, Content: "please divide ten by zero"}, second[1])
	assert.Equal(t, types.RoleAssistant, second[2].Role)
	assert.JSONEq(t, `{"tool":{"name":"math","input":"10/0"}}`, second[2].Content)
	assert.Equal(t, types.RoleAssistant, second[3].Role)
	assert.JSONEq(t, `{"tool_result":{"ok":false,"error":"division by zero"}}`, second[3].Content)

	assert.Equal(t, second, res.Transcript)
}

func TestToolResultNumber(t *testing.T) {
	client := &scriptedClient{replies: []string{
		`{"tool":{"name":"math","input":"sqrt(16)"}}`,
		`{"response":"four"}`,
	}}
	res := newTestOrchestrator(client).Execute(context.Background(), "what is the root of sixteen", 3)

	require.True(t, res.Outcome.OK)
	assert.Equal(t, `{"tool_result":{"ok":true,"result":4.0}}`, res.Transcript[3].Content)
}

func TestUnknownTool(t *testing.T) {
	client := &scriptedClient{replies: []string{`{"tool":{"name":"weather","input":"Lisbon"}}`}}
	res := newTestOrchestrator(client).Execute(context.Background(), "weather in Lisbon", 3)

	assert.False(t, res.Outcome.OK)
	assert.Equal(t, "Unknown tool: weather", res.Outcome.Error)
	assert.ErrorIs(t, res.Outcome.Err, ErrUnknownTool)
	assert.Equal(t, StateFailed, res.State.Status)
	assert.Len(t, res.Transcript, 2)
}

func TestStepBudgetExceeded(t *testing.T) {
	client := &scriptedClient{replies: []string{`{"tool":{"name":"math","input":"1+1"}}`}}
	res := newTestOrchestrator(client).Execute(context.Background(), "keep calling tools", 1)

	assert.False(t, res.Outcome.OK)
	assert.ErrorIs(t, res.Outcome.Err, ErrStepBudgetExceeded)
	assert.Contains(t, res.Outcome.Error, "step budget exceeded")
	assert.Equal(t, StateFailed, res.State.Status)
	assert.Len(t, client.seen, 1)
}

func TestDefaultStepBudget(t *testing.T) {
	client := &scriptedClient{replies: []string{`{"tool":{"name":"math","input":"1+1"}}`}}
	out := newTestOrchestrator(client).Run(context.Background(), "loop forever", 0)

	assert.ErrorIs(t, out.Err, ErrStepBudgetExceeded)
	assert.Len(t, client.seen, DefaultMaxSteps)
}

func TestModelCallFailed(t *testing.T) {
	client := &scriptedClient{err: &agent.EndpointError{Attempts: 4, Last: errors.New("500 from http://x/api/generate: boom")}}
	out := newTestOrchestrator(client).Run(context.Background(), "hello", 3)

	assert.False(t, out.OK)
	assert.Equal(t, "LLM call failed: 500 from http://x/api/generate: boom", out.Error)
	assert.ErrorIs(t, out.Err, ErrModelCallFailed)
	assert.ErrorIs(t, out.Err, agent.ErrEndpointUnavailable)
	assert.Len(t, client.seen, 1)
}

func TestInterpretReplies(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		expected string
	}{
		{"prose", "  The answer is 42.\n", "The answer is 42."},
		{"response", `{"response":"hi"}`, "hi"},
		{"structured response", `{"response":{"value":1}}`, `{"value":1}`},
		{"response wins over tool", `{"response":"a","tool":{"name":"weather"}}`, "a"},
		{"other object", `{"answer":42}`, `{"answer":42}`},
		{"array", `[1, 2]`, `[1,2]`},
		{"number", `42`, `42`},
		{"fenced", "```json\n{\"response\": \"fenced\"}\n```", "fenced"},
		{"trailing comma", `{"response": "repaired",}`, "repaired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &scriptedClient{replies: []string{tt.reply}}
			out := newTestOrchestrator(client).Run(context.Background(), "hello there", 3)
			require.True(t, out.OK, out.Error)
			assert.Equal(t, tt.expected, out.Response)
		})
	}
}

func TestInterpretToolShapes(t *testing.T) {
	tests := []struct {
		reply string
		call  types.ToolCall
	}{
		{`{"tool":{"name":"math","input":"2+2"}}`, types.ToolCall{Name: "math", Input: "2+2"}},
		{`{"tool":{"name":"math","input":42}}`, types.ToolCall{Name: "math", Input: "42"}},
		{`{"tool":"math","input":"3*3"}`, types.ToolCall{Name: "math", Input: "3*3"}},
		{`{"tool":{"input":"1"}}`, types.ToolCall{Name: "", Input: "1"}},
	}

	for _, tt := range tests {
		r := interpret(tt.reply)
		assert.Equal(t, replyTool, r.kind, tt.reply)
		assert.Equal(t, tt.call, r.call, tt.reply)
	}
}

func TestFastPathDisabled(t *testing.T) {
	client := &scriptedClient{replies: []string{`{"response":"four"}`}}
	o := newTestOrchestrator(client)
	o.FastPath = false

	out := o.Run(context.Background(), "2 + 2", 3)
	assert.Equal(t, "four", out.Response)
	assert.Len(t, client.seen, 1)
}

func TestMockClientRun(t *testing.T) {
	res := newTestOrchestrator(&agent.MockClient{}).Execute(context.Background(), "hello", 3)

	assert.Equal(t, types.Success("(mock) resultado do cálculo: 84"), res.Outcome)
	assert.Len(t, res.Transcript, 4)
}

func TestConcurrentRunsAreIndependent(t *testing.T) {
	o := newTestOrchestrator(&agent.MockClient{})

	var wg sync.WaitGroup
	results := make([]*Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = o.Execute(context.Background(), "hello", 3)
		}(i)
	}
	wg.Wait()

	ids := make([]string, 0, len(results))
	for _, res := range results {
		assert.True(t, res.Outcome.OK)
		assert.Len(t, res.Transcript, 4)
		ids = append(ids, res.RunID)
	}
	slices.Sort(ids)
	assert.Len(t, slices.Compact(ids), len(results))
}

func TestOutcomeSerialization(t *testing.T) {
	client := &scriptedClient{replies: []string{`{"tool":{"name":"weather"}}`}}
	out := newTestOrchestrator(client).Run(context.Background(), "weather?", 3)

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":false,"error":"Unknown tool: weather"}`, string(data))
}

func TestSystemPrompt(t *testing.T) {
	prompt := SystemPrompt(tools.DefaultRegistry())
	assert.Contains(t, prompt, `{"response": "..."}`)
	assert.Contains(t, prompt, `{"tool": {"name": "math", "input": "2+2"}}`)
	assert.Contains(t, prompt, "- math: ")
}

func TestStateIgnoresTransitionsAfterEnd(t *testing.T) {
	s := NewState(1)
	s.Enter(StateAwaitModel)
	s.Fail(ErrStepBudgetExceeded)
	s.Complete()

	assert.Equal(t, StateFailed, s.Status)
	assert.Equal(t, "failed", s.Status.String())
	assert.Equal(t, []RunState{StateStart, StateAwaitModel, StateFailed}, s.History)
}
