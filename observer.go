package reagent

// StepObserver receives lifecycle notifications from a running loop.
// Observers are for logging and diagnostics only; they cannot alter
// the step or the loop's control flow.
//
// Calls arrive from the loop's own goroutine, strictly in step order.
type StepObserver interface {
	// BeforeStep fires before the model call for step index (0-based).
	BeforeStep(index int)

	// AfterStep fires once the step is complete: parsed, and with its
	// observation filled in when the step carried an action.
	AfterStep(index int, step *Step)

	// AfterRun fires once per Run with the terminal step and the
	// state the loop ended in. It does not fire when the model call
	// itself fails, since no terminal step exists then.
	AfterRun(state State, final *Step)
}
