package react

import (
	"bytes"
	"text/template"
)

// TemplateData is the data passed to the system prompt template.
type TemplateData struct {
	// SystemPrompt is additional behavioral context from
	// [Loop.WithSystemPrompt]. May be empty.
	SystemPrompt string

	// Tools is the tool catalog from the registry's Describe.
	Tools string
}

const defaultSystemTemplate = `You are an assistant that solves tasks by reasoning and acting in turns.
{{- if .SystemPrompt}}

{{.SystemPrompt}}
{{- end}}

Each turn, respond in exactly this format:

Thought: your reasoning about what to do next.
Action: tool_name(param="value", count=3, verbose=true)

When you know the answer to the task, respond with:

Thought: your reasoning about the answer.
Final Answer: your answer to the task.

Rules:
- Emit exactly one Action or one Final Answer per turn, never both.
- String arguments must be double-quoted; numbers and booleans are written bare.
- After each Action you will receive an Observation with the result.
- Only call tools listed in the catalog below.

{{.Tools}}`

// DefaultSystemTemplate explains the think-act-observe cycle and the
// required output format to the model. Replace it wholesale with
// [Loop.WithSystemTemplate] for full control over prompting.
var DefaultSystemTemplate = template.Must(
	template.New("react_system").Parse(defaultSystemTemplate),
)

// executeTemplate renders a system prompt template with the given data.
func executeTemplate(tmpl *template.Template, data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
