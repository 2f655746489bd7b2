package parse

import (
	"strings"

	"github.com/reagent-dev/reagent"
)

// scanner walks the text of one action section. It is a plain
// byte-position tokenizer; the grammar is small enough that no
// lookahead beyond one byte is needed.
type scanner struct {
	src string
	pos int
}

func newScanner(src string) *scanner {
	return &scanner{src: src}
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) next() byte {
	ch := s.peek()
	s.pos++
	return ch
}

// skipSpace consumes whitespace, including newlines. Argument lists
// may be wrapped across lines by the model.
func (s *scanner) skipSpace() {
	for !s.eof() {
		switch s.src[s.pos] {
		case ' ', '\t', '\r', '\n':
			s.pos++
		default:
			return
		}
	}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}

// ident consumes an identifier. Returns "" when the next byte cannot
// start one.
func (s *scanner) ident() string {
	if s.eof() || !isIdentStart(s.peek()) {
		return ""
	}
	start := s.pos
	for !s.eof() && isIdentPart(s.peek()) {
		s.pos++
	}
	return s.src[start:s.pos]
}

// scanCall parses `name(key=value, ...)` from the current position.
// ok is false when there is no well-formed call head (identifier
// followed by an opening parenthesis); arguments inside the list are
// recovered individually and never fail the call as a whole.
func (s *scanner) scanCall() (name string, args reagent.Args, ok bool) {
	s.skipSpace()
	name = s.ident()
	if name == "" {
		return "", nil, false
	}
	s.skipSpace()
	if s.peek() != '(' {
		return "", nil, false
	}
	s.next()
	args = s.scanArgs()
	return name, args, true
}

// scanArgs parses the argument list up to the closing parenthesis or
// end of input. A pair that cannot be parsed (missing '=', unbalanced
// quote, trailing junk) is dropped and scanning resumes at the next
// top-level comma.
func (s *scanner) scanArgs() reagent.Args {
	var args reagent.Args
	for {
		s.skipSpace()
		if s.eof() {
			return args
		}
		if s.peek() == ')' {
			s.next()
			return args
		}
		if s.peek() == ',' {
			s.next()
			continue
		}

		key := s.ident()
		if key == "" {
			if !s.recoverPair() {
				return args
			}
			continue
		}
		s.skipSpace()
		if s.peek() != '=' {
			if !s.recoverPair() {
				return args
			}
			continue
		}
		s.next()
		s.skipSpace()

		val, ok := s.scanValue()
		if !ok {
			if !s.recoverPair() {
				return args
			}
			continue
		}

		// A well-formed pair must be followed by a separator or the
		// list end; anything else marks the whole pair as junk.
		s.skipSpace()
		switch s.peek() {
		case ',':
			s.next()
			args = append(args, reagent.Arg{Key: key, Value: val})
		case ')':
			s.next()
			args = append(args, reagent.Arg{Key: key, Value: val})
			return args
		case 0:
			args = append(args, reagent.Arg{Key: key, Value: val})
			return args
		default:
			if !s.recoverPair() {
				return args
			}
		}
	}
}

// scanValue parses a single argument value: a double-quoted string, a
// single-quoted string, or a bare token coerced by priority.
func (s *scanner) scanValue() (reagent.Value, bool) {
	switch s.peek() {
	case '"', '\'':
		text, ok := s.scanQuoted(s.next())
		if !ok {
			return reagent.Value{}, false
		}
		// Quoted values are never coerced.
		return reagent.StringValue(text), true
	default:
		tok := s.scanBareToken()
		if tok == "" {
			return reagent.Value{}, false
		}
		return reagent.CoerceToken(tok), true
	}
}

// scanQuoted consumes a quoted string body after the opening quote has
// already been consumed. Backslash escapes the quote character and
// itself; \n and \t produce the usual control characters. ok is false
// when the closing quote is missing.
func (s *scanner) scanQuoted(quote byte) (string, bool) {
	var sb strings.Builder
	for !s.eof() {
		ch := s.next()
		switch ch {
		case quote:
			return sb.String(), true
		case '\\':
			if s.eof() {
				return "", false
			}
			esc := s.next()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(esc)
			}
		default:
			sb.WriteByte(ch)
		}
	}
	return "", false
}

// scanBareToken consumes characters up to the next separator,
// list end, or whitespace.
func (s *scanner) scanBareToken() string {
	start := s.pos
	for !s.eof() {
		switch s.peek() {
		case ',', ')', ' ', '\t', '\r', '\n':
			return s.src[start:s.pos]
		}
		s.pos++
	}
	return s.src[start:s.pos]
}

// recoverPair skips the remainder of a malformed pair: everything up
// to the next top-level comma, the closing parenthesis, or end of
// input. Quoted regions are skipped wholesale so a comma inside a
// broken string doesn't resynchronize too early. Returns false when
// the argument list is finished.
func (s *scanner) recoverPair() bool {
	for !s.eof() {
		switch ch := s.next(); ch {
		case ',':
			return true
		case ')':
			return false
		case '"', '\'':
			s.skipQuoted(ch)
		}
	}
	return false
}

// skipQuoted consumes up to and including the closing quote, honoring
// backslash escapes. An unbalanced quote consumes to end of input.
func (s *scanner) skipQuoted(quote byte) {
	for !s.eof() {
		switch s.next() {
		case quote:
			return
		case '\\':
			if !s.eof() {
				s.next()
			}
		}
	}
}
