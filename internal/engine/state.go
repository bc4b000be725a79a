package engine

// RunState is a state of the tool-use loop
type RunState int

const (
	StateStart RunState = iota
	StateAwaitModel
	StateInterpret
	StateDispatchTool
	StateDone
	StateFailed
)

func (s RunState) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateAwaitModel:
		return "await_model"
	case StateInterpret:
		return "interpret"
	case StateDispatchTool:
		return "dispatch_tool"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State tracks one run through the loop. History holds every state entered.
type State struct {
	Status      RunState
	CurrentStep int
	MaxSteps    int
	Error       error
	History     []RunState
}

func NewState(maxSteps int) *State {
	return &State{
		Status:   StateStart,
		MaxSteps: maxSteps,
		History:  []RunState{StateStart},
	}
}

// Enter moves to next unless the run has already ended
func (s *State) Enter(next RunState) {
	if s.IsTerminal() {
		return
	}
	s.Status = next
	s.History = append(s.History, next)
}

func (s *State) Complete() {
	s.Enter(StateDone)
}

func (s *State) Fail(err error) {
	if s.IsTerminal() {
		return
	}
	s.Error = err
	s.Enter(StateFailed)
}

func (s *State) NextStep() {
	s.CurrentStep++
}

// HasBudget reports whether another model round is allowed
func (s *State) HasBudget() bool {
	return s.CurrentStep < s.MaxSteps
}

func (s *State) IsTerminal() bool {
	return s.Status == StateDone || s.Status == StateFailed
}
