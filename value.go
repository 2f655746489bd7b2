package reagent

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the concrete type held by a [Value].
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
)

// Value is a tagged argument value: string, integer, float, or
// boolean. Tool arguments are modeled this way instead of raw `any`
// so that schema validation and conversation reconstruction are
// structural checks rather than reflection.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
}

// StringValue creates a string Value.
func StringValue(s string) Value {
	return Value{kind: KindString, s: s}
}

// IntValue creates an integer Value.
func IntValue(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// FloatValue creates a floating point Value.
func FloatValue(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// BoolValue creates a boolean Value.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// CoerceToken converts a bare (unquoted) token into a Value. Coercion
// priority: boolean literal, then integer, then float, then string.
// Quoted values must not pass through here; they stay strings.
func CoerceToken(tok string) Value {
	if strings.EqualFold(tok, "true") {
		return BoolValue(true)
	}
	if strings.EqualFold(tok, "false") {
		return BoolValue(false)
	}
	if isAllDigits(tok) {
		if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
			return IntValue(i)
		}
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return FloatValue(f)
	}
	return StringValue(tok)
}

// isAllDigits reports whether s is a non-empty digit run with an
// optional leading sign.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Kind returns the concrete type of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// Interface returns the value as a plain Go value: string, int64,
// float64, or bool. This is the shape handlers and schema validation
// receive.
func (v Value) Interface() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	default:
		return v.s
	}
}

// String renders the value the way it would appear in an action
// argument list: strings double-quoted, everything else bare. The
// rendering is deterministic, which conversation reconstruction
// depends on.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return strconv.Quote(v.s)
	}
}

// Arg is a single key/value argument pair.
type Arg struct {
	Key   string
	Value Value
}

// Args is an ordered list of argument pairs. Order is preserved from
// the model's output so rebuilt conversations are byte-for-byte
// stable across turns.
type Args []Arg

// Get returns the value for key and whether it was present. The first
// occurrence wins when the model repeats a key.
func (a Args) Get(key string) (Value, bool) {
	for _, arg := range a {
		if arg.Key == key {
			return arg.Value, true
		}
	}
	return Value{}, false
}

// Map converts the arguments into the map shape used for schema
// validation and handler invocation.
func (a Args) Map() map[string]any {
	if a == nil {
		return nil
	}
	m := make(map[string]any, len(a))
	for _, arg := range a {
		if _, dup := m[arg.Key]; dup {
			continue
		}
		m[arg.Key] = arg.Value.Interface()
	}
	return m
}

// String renders the arguments as a comma-separated key=value list.
func (a Args) String() string {
	var sb strings.Builder
	for i, arg := range a {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%s", arg.Key, arg.Value.String())
	}
	return sb.String()
}
