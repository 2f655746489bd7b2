// Package parse extracts a structured [reagent.Step] from one raw
// model completion.
//
// The expected grammar is three labeled sections in a fixed
// vocabulary, markers recognized case-insensitively at line starts:
//
//	Thought: <free-text reasoning>
//	Action: <identifier>(key=value, key="quoted value", ...)
//	Final Answer: <terminal answer>
//
// An answer marker always wins: when a completion contains both an
// action and an answer, the step is terminal and no action is parsed.
// Extraction is deliberately forgiving - a malformed argument pair is
// dropped on its own rather than failing the whole parse, and a
// completion with no recognizable markers yields a non-terminal step
// with empty reasoning that the loop re-prompts against. Parse never
// returns an error.
//
// The argument list is handled by a small hand-written tokenizer
// rather than regular expressions, so quoted commas, escaped quotes,
// and stray parentheses don't derail extraction.
package parse
