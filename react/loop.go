package react

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/tmc/langchaingo/llms"

	"github.com/reagent-dev/reagent"
	"github.com/reagent-dev/reagent/executor"
	"github.com/reagent-dev/reagent/parse"
)

// DefaultMaxSteps is the step budget when none is configured.
const DefaultMaxSteps = 10

// BudgetExceededAnswer is the final answer of the synthetic terminal
// step appended when the step budget runs out.
const BudgetExceededAnswer = "Could not complete task within step limit"

// FormatCorrection is the observation fed back when a completion
// carried neither a valid action nor a final answer.
const FormatCorrection = "No valid action found. Re-read the required output format and respond again."

// observationPrefix heads every observation message fed back to the
// model. Part of the deterministic conversation encoding; changing it
// invalidates in-flight runs.
const observationPrefix = "Observation:\n"

// Executor converts one parsed action into an observation string. It
// must contain all failures; the loop feeds whatever comes back
// straight to the model.
type Executor interface {
	Execute(ctx context.Context, name string, args reagent.Args) string
}

// Loop drives the think-act-observe cycle for one question at a time.
//
// A Loop is not safe for concurrent use: one Run owns the trace
// exclusively. Run independent Loop instances for concurrent
// questions; they may share a registry, which is read-only to the
// loop.
type Loop struct {
	session          reagent.Session
	registry         reagent.Registry
	exec             Executor
	maxSteps         int
	systemTemplate   *template.Template
	userSystemPrompt string
	observers        []reagent.StepObserver

	trace []*reagent.Step
	state reagent.State
}

// NewLoop creates a Loop with the default executor, system template,
// and step budget.
func NewLoop(session reagent.Session, registry reagent.Registry) *Loop {
	return &Loop{
		session:        session,
		registry:       registry,
		exec:           executor.New(registry),
		maxSteps:       DefaultMaxSteps,
		systemTemplate: DefaultSystemTemplate,
		state:          reagent.StateRunning,
	}
}

// WithMaxSteps sets the step budget. Values below one are ignored.
func (l *Loop) WithMaxSteps(n int) *Loop {
	if n >= 1 {
		l.maxSteps = n
	}
	return l
}

// WithSystemPrompt adds behavioral context to the system message.
// This is appended into the default instructions, not a replacement;
// use WithSystemTemplate to replace the prompt wholesale.
func (l *Loop) WithSystemPrompt(prompt string) *Loop {
	l.userSystemPrompt = prompt
	return l
}

// WithSystemTemplate replaces the system prompt template. The
// template receives [TemplateData].
func (l *Loop) WithSystemTemplate(tmpl *template.Template) *Loop {
	l.systemTemplate = tmpl
	return l
}

// WithSystemTemplateString parses tmplStr and replaces the system
// prompt template. Returns an error when the template is invalid.
func (l *Loop) WithSystemTemplateString(tmplStr string) (*Loop, error) {
	tmpl, err := template.New("react_system").Parse(tmplStr)
	if err != nil {
		return l, fmt.Errorf("parse system template: %w", err)
	}
	l.systemTemplate = tmpl
	return l, nil
}

// WithExecutor replaces the action executor.
func (l *Loop) WithExecutor(exec Executor) *Loop {
	l.exec = exec
	return l
}

// WithObserver registers a step observer. Observers fire in
// registration order.
func (l *Loop) WithObserver(o reagent.StepObserver) *Loop {
	l.observers = append(l.observers, o)
	return l
}

// State reports where the last (or current) run is in its lifecycle.
func (l *Loop) State() reagent.State {
	return l.state
}

// Trace returns a read-only snapshot of the steps recorded so far.
func (l *Loop) Trace() []*reagent.Step {
	out := make([]*reagent.Step, len(l.trace))
	copy(out, l.trace)
	return out
}

// Reset discards the trace and returns the loop to its initial state,
// ready for another Run. Run does this implicitly; Reset exists for
// callers who want to release a finished trace early.
func (l *Loop) Reset() {
	l.trace = nil
	l.state = reagent.StateRunning
}

// Run drives the loop until the model produces a final answer or the
// step budget is exhausted, returning the terminal step either way.
//
// Model call failures are the one error path: they propagate to the
// caller with the trace so far left intact for diagnostics. Parse
// failures and execution failures never error; they become
// observations the model can self-correct against.
func (l *Loop) Run(ctx context.Context, question string) (*reagent.Step, error) {
	l.Reset()

	for i := 0; i < l.maxSteps; i++ {
		for _, o := range l.observers {
			o.BeforeStep(i)
		}

		raw, err := l.session.Chat(ctx, l.BuildConversation(question))
		if err != nil {
			return nil, fmt.Errorf("model call (step %d): %w", i, err)
		}

		step := parse.Parse(raw)
		if step.IsFinal {
			l.trace = append(l.trace, step)
			l.state = reagent.StateTerminatedAnswer
			l.finish(i, step)
			return step, nil
		}

		if step.IsAction() {
			step.Observation = l.exec.Execute(ctx, step.ActionName, step.ActionArgs)
		} else {
			step.Observation = FormatCorrection
		}
		l.trace = append(l.trace, step)
		for _, o := range l.observers {
			o.AfterStep(i, step)
		}
	}

	final := &reagent.Step{IsFinal: true, FinalAnswer: BudgetExceededAnswer}
	l.trace = append(l.trace, final)
	l.state = reagent.StateTerminatedBudget
	l.finish(len(l.trace)-1, final)
	return final, nil
}

// finish fires the terminal observer notifications.
func (l *Loop) finish(index int, final *reagent.Step) {
	for _, o := range l.observers {
		o.AfterStep(index, final)
		o.AfterRun(l.state, final)
	}
}

// BuildConversation reconstructs the full message history for the
// next model call: the system message with the behavioral contract
// and tool catalog, the original question, then one assistant message
// per recorded step interleaved with the observation that followed
// it. The reconstruction is deterministic given the same trace.
func (l *Loop) BuildConversation(question string) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, 2+2*len(l.trace))
	messages = append(messages,
		reagent.TextMessage(llms.ChatMessageTypeSystem, l.systemMessage()),
		reagent.TextMessage(llms.ChatMessageTypeHuman, question),
	)

	for _, step := range l.trace {
		messages = append(messages,
			reagent.TextMessage(llms.ChatMessageTypeAI, ReconstructStep(step)))
		if step.Observation != "" {
			messages = append(messages,
				reagent.TextMessage(llms.ChatMessageTypeHuman, observationPrefix+step.Observation))
		}
	}
	return messages
}

// systemMessage renders the system prompt. A failing custom template
// falls back to the bare tool catalog so the run can proceed.
func (l *Loop) systemMessage() string {
	data := TemplateData{
		SystemPrompt: l.userSystemPrompt,
		Tools:        l.registry.Describe(),
	}
	content, err := executeTemplate(l.systemTemplate, data)
	if err != nil {
		return data.Tools
	}
	return content
}

// ReconstructStep renders a recorded step back into the marker
// grammar, as the assistant message for rebuilt history. A malformed
// step renders as its bare reasoning line; the format-correction
// observation that follows it carries the context.
func ReconstructStep(s *reagent.Step) string {
	var sb strings.Builder
	sb.WriteString(parse.MarkerThought)
	if s.Reasoning != "" {
		sb.WriteString(" ")
		sb.WriteString(s.Reasoning)
	}

	switch {
	case s.IsFinal:
		fmt.Fprintf(&sb, "\n%s %s", parse.MarkerAnswer, s.FinalAnswer)
	case s.IsAction():
		fmt.Fprintf(&sb, "\n%s %s(%s)", parse.MarkerAction, s.ActionName, s.ActionArgs.String())
	}
	return sb.String()
}
