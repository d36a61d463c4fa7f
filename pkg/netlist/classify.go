package netlist

import "strings"

type LineKind int

const (
	LineComment LineKind = iota
	LineComponent
	LineDirective
	LineBeginSubckt
	LineEndSubckt
	LineBeginControl
	LineEndControl
	LineEnd
	LineInvalid
)

// Line is one folded logical line: continuations are already appended to
// their predecessor, and the original physical lines are kept verbatim.
type Line struct {
	Kind LineKind
	Text string   // trimmed, folded
	Raw  []string // physical lines as read
	Num  int      // first physical line number, 1-based

	// Err holds the classification failure for LineInvalid. Raised by
	// the scope builder unless the line sits inside an anonymous
	// block, where content is kept verbatim and never parsed.
	Err error
}

// scope-boundary keywords, longest first so ".ends" and ".endc" win
// over ".end".
var boundaryKeywords = []struct {
	word string
	kind LineKind
}{
	{".subckt", LineBeginSubckt},
	{".ends", LineEndSubckt},
	{".control", LineBeginControl},
	{".endc", LineEndControl},
	{".end", LineEnd},
}

// Classify folds continuation lines and classifies every logical line.
// numBase is the physical line number of lines[0].
func Classify(lines []string, numBase int) ([]*Line, error) {
	var out []*Line

	for i, raw := range lines {
		num := numBase + i
		text := strings.TrimSpace(raw)

		if strings.HasPrefix(text, "+") {
			// Continuation: fold into the previous logical line
			// before any classification.
			if len(out) == 0 {
				return nil, structuralErr(num, "continuation line with no preceding line")
			}
			prev := out[len(out)-1]
			prev.Text += " " + strings.TrimSpace(text[1:])
			prev.Raw = append(prev.Raw, raw)
			continue
		}

		line := &Line{Text: text, Raw: []string{raw}, Num: num}

		switch {
		case text == "" || text[0] == '*' || text[0] == ';':
			line.Kind = LineComment

		case text[0] == '.':
			line.Kind = LineDirective
			word := strings.ToLower(strings.Fields(text)[0])
			for _, kw := range boundaryKeywords {
				if word == kw.word {
					line.Kind = kw.kind
					break
				}
			}

		default:
			c := text[0]
			if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
				if knownPrefix(upperByte(c)) {
					line.Kind = LineComponent
				} else {
					line.Kind = LineInvalid
					line.Err = syntaxErr(num, text, "unsupported device prefix %q", string(c))
				}
			} else {
				line.Kind = LineInvalid
				line.Err = syntaxErr(num, text, "unrecognized line")
			}
		}

		out = append(out, line)
	}

	return out, nil
}

func upperByte(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
