package netlist

import "strings"

// Field is one whitespace-delimited token of a logical line, with the
// byte span it occupies in that line. Balanced braces, parentheses and
// quotes keep embedded spaces inside a single field, so `PULSE(0 5 1n)`
// and `val={2*R}` each come back as one Field.
type Field struct {
	Text  string
	Start int
	End   int // exclusive
}

// SplitFields splits a logical line into fields with their spans.
func SplitFields(s string) []Field {
	var fields []Field

	depth := 0     // {...} and (...) nesting
	quote := byte(0) // active quote character, 0 if none
	start := -1

	flush := func(end int) {
		if start >= 0 {
			fields = append(fields, Field{Text: s[start:end], Start: start, End: end})
			start = -1
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]

		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}

		switch c {
		case ' ', '\t':
			if depth == 0 {
				flush(i)
			}
		case '{', '(':
			if start < 0 {
				start = i
			}
			depth++
		case '}', ')':
			if start < 0 {
				start = i
			}
			if depth > 0 {
				depth--
			}
		case '\'', '"':
			if start < 0 {
				start = i
			}
			quote = c
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(s))

	return fields
}

// splitAssignment splits a `key=value` field at the first top-level '='.
// Returns ok=false when the field has no '=' outside a balanced group.
func splitAssignment(f Field) (key, val Field, ok bool) {
	depth := 0
	quote := byte(0)
	for i := 0; i < len(f.Text); i++ {
		c := f.Text[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '{', '(':
			depth++
		case '}', ')':
			depth--
		case '\'', '"':
			quote = c
		case '=':
			if depth == 0 {
				key = Field{Text: f.Text[:i], Start: f.Start, End: f.Start + i}
				val = Field{Text: f.Text[i+1:], Start: f.Start + i + 1, End: f.End}
				return key, val, true
			}
		}
	}
	return Field{}, Field{}, false
}

func isAssignment(f Field) bool {
	_, _, ok := splitAssignment(f)
	return ok
}

// isName reports whether s is a bare designator or node token.
func isName(s string) bool {
	if s == "" {
		return false
	}
	return !strings.ContainsAny(s, " \t={}()'\"")
}
