package reagent

// Step is one cycle of the agent loop: the model's reasoning, the
// action it requested (if any), the observation produced by executing
// that action, or the final answer that terminates the run.
//
// Exactly one of ActionName or FinalAnswer is meaningfully populated.
// A step with neither is a parse failure; the loop treats it as a
// non-terminal step and re-prompts the model with a format-correction
// observation.
type Step struct {
	// Reasoning is the free-text rationale. Empty when the model's
	// output carried no reasoning marker.
	Reasoning string

	// ActionName is the requested tool's name. Empty on terminal and
	// malformed steps.
	ActionName string

	// ActionArgs are the parsed arguments for the action, in the order
	// they appeared in the model's output.
	ActionArgs Args

	// Observation is the result of executing the action, or an error
	// description. Empty until execution completes, and on terminal
	// steps.
	Observation string

	// IsFinal is true exactly when the model supplied a terminal
	// answer instead of an action.
	IsFinal bool

	// FinalAnswer is the terminal answer. Set iff IsFinal is true.
	FinalAnswer string
}

// IsAction reports whether this step requested a tool call.
func (s *Step) IsAction() bool {
	return s.ActionName != ""
}

// IsMalformed reports whether this step carries neither an action nor
// a final answer. Malformed steps are produced when the model's output
// did not match the expected grammar.
func (s *Step) IsMalformed() bool {
	return !s.IsFinal && s.ActionName == ""
}

// State describes where a run is in its lifecycle.
type State int

const (
	// StateRunning means the loop is accumulating steps.
	StateRunning State = iota

	// StateTerminatedAnswer means a terminal step with a final answer
	// was appended. Absorbing.
	StateTerminatedAnswer

	// StateTerminatedBudget means the step budget was exhausted before
	// a terminal step appeared. Absorbing.
	StateTerminatedBudget
)

// String returns a short identifier for the state.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateTerminatedAnswer:
		return "terminated_answer"
	case StateTerminatedBudget:
		return "terminated_budget"
	default:
		return "unknown"
	}
}
