// Package loggers provides reusable step observers for integration
// testing.
package loggers

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reagent-dev/reagent"
)

// StepLogger logs every step of a run as it happens. Steps are logged
// as YAML with block scalars for easy reading. Nothing is truncated.
type StepLogger struct {
	out io.Writer
}

// NewStepLogger creates a StepLogger that writes to stdout.
func NewStepLogger() *StepLogger {
	return &StepLogger{out: os.Stdout}
}

// NewStepLoggerWithWriter creates a StepLogger that writes to the
// given writer.
func NewStepLoggerWithWriter(w io.Writer) *StepLogger {
	return &StepLogger{out: w}
}

// logEvent logs an event header with timestamp.
func (l *StepLogger) logEvent(name string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	fmt.Fprintf(l.out, "\n>>> [%s]: %s\n", name, timestamp)
}

// log writes a line without any prefix.
func (l *StepLogger) log(format string, args ...any) {
	fmt.Fprintf(l.out, format+"\n", args...)
}

func (l *StepLogger) logYAML(v any) {
	data, err := yaml.Marshal(v)
	if err != nil {
		l.log("(failed to marshal: %v)", err)
		return
	}
	fmt.Fprint(l.out, string(data))
}

// BeforeStep logs the step start.
func (l *StepLogger) BeforeStep(index int) {
	l.logEvent(fmt.Sprintf("BeforeStep %d", index))
	l.log(strings.Repeat("-", 80))
	l.log("STEP %d START", index)
	l.log(strings.Repeat("-", 80))
}

// AfterStep logs the recorded step, including its observation.
func (l *StepLogger) AfterStep(index int, step *reagent.Step) {
	l.logEvent(fmt.Sprintf("AfterStep %d", index))

	data := map[string]any{}
	if step.Reasoning != "" {
		data["thought"] = step.Reasoning
	}
	switch {
	case step.IsFinal:
		data["final_answer"] = step.FinalAnswer
	case step.IsAction():
		data["action"] = fmt.Sprintf("%s(%s)", step.ActionName, step.ActionArgs.String())
	default:
		data["malformed"] = true
	}
	if step.Observation != "" {
		data["observation"] = step.Observation
	}
	l.logYAML(data)
}

// AfterRun logs how the run terminated.
func (l *StepLogger) AfterRun(state reagent.State, final *reagent.Step) {
	l.logEvent("AfterRun")
	l.log(strings.Repeat("=", 80))
	l.log("RUN COMPLETED")
	l.log(strings.Repeat("=", 80))
	l.logYAML(map[string]any{
		"state":        state.String(),
		"final_answer": final.FinalAnswer,
	})
}

// Compile-time check that StepLogger implements the observer interface.
var _ reagent.StepObserver = (*StepLogger)(nil)
