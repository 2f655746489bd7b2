package parse

import (
	"strings"

	"github.com/reagent-dev/reagent"
)

// Section markers. Matched case-insensitively at line starts;
// "Answer:" is accepted as a lenient alias for the terminal marker.
const (
	MarkerThought = "Thought:"
	MarkerAction  = "Action:"
	MarkerAnswer  = "Final Answer:"
)

type markerKind int

const (
	markerNone markerKind = iota
	markerThought
	markerAction
	markerAnswer
)

// classify recognizes a marker at the start of a line. The remainder
// of the line after the marker is returned alongside.
func classify(line string) (markerKind, string) {
	t := strings.TrimLeft(line, " \t")
	lower := strings.ToLower(t)
	switch {
	case strings.HasPrefix(lower, "final answer:"):
		return markerAnswer, t[len("final answer:"):]
	case strings.HasPrefix(lower, "answer:"):
		return markerAnswer, t[len("answer:"):]
	case strings.HasPrefix(lower, "thought:"):
		return markerThought, t[len("thought:"):]
	case strings.HasPrefix(lower, "action:"):
		return markerAction, t[len("action:"):]
	}
	return markerNone, ""
}

// marker is one recognized marker line, with the text that followed
// it on the same line.
type marker struct {
	kind markerKind
	line int
	rest string
}

// Parse extracts a Step from one raw completion. It never fails:
// output that matches nothing in the grammar produces a non-terminal
// step with empty reasoning and no action, which the loop re-prompts
// against.
func Parse(raw string) *reagent.Step {
	lines := strings.Split(raw, "\n")

	var markers []marker
	for i, line := range lines {
		if kind, rest := classify(line); kind != markerNone {
			markers = append(markers, marker{kind: kind, line: i, rest: rest})
		}
	}

	step := &reagent.Step{}

	// Reasoning: first thought marker, captured up to the next
	// recognized marker or end of text.
	for i, m := range markers {
		if m.kind == markerThought {
			step.Reasoning = sectionText(lines, markers, i)
			break
		}
	}

	// An answer marker anywhere makes the step terminal; no action is
	// parsed even when action-shaped text surrounds it. Everything
	// after the marker is the answer.
	for _, m := range markers {
		if m.kind == markerAnswer {
			step.IsFinal = true
			step.FinalAnswer = trailingText(lines, m)
			return step
		}
	}

	// Action: first action marker, a well-formed `name(args)` call.
	// Without a well-formed call the step stays malformed and the
	// loop's re-prompt policy takes over.
	for i, m := range markers {
		if m.kind == markerAction {
			sc := newScanner(sectionText(lines, markers, i))
			if name, args, ok := sc.scanCall(); ok {
				step.ActionName = name
				step.ActionArgs = args
			}
			break
		}
	}

	return step
}

// sectionText returns the content of the idx-th marker's section: the
// remainder of the marker line plus all lines up to the next marker,
// trimmed.
func sectionText(lines []string, markers []marker, idx int) string {
	m := markers[idx]
	end := len(lines)
	if idx+1 < len(markers) {
		end = markers[idx+1].line
	}
	parts := append([]string{m.rest}, lines[m.line+1:end]...)
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// trailingText returns everything after the marker to the end of the
// completion, trimmed.
func trailingText(lines []string, m marker) string {
	parts := append([]string{m.rest}, lines[m.line+1:]...)
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
