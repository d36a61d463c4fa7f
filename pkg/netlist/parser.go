package netlist

import "strings"

// File is one parsed netlist: a title line, the root scope, and any
// text trailing the .end marker, all kept verbatim for serialization.
type File struct {
	Title    string
	TitleRaw string
	Root     *Scope
	Trailing []string

	// FinalNewline records whether the input ended with a newline, so
	// serialization reproduces the last byte exactly.
	FinalNewline bool
}

type Options struct {
	// Strict requires the top-level .end marker. Documents parse
	// strict; library files parse lenient because vendor libraries
	// routinely omit .end.
	Strict bool

	// Library skips the title line and marks every scope read-only.
	Library bool
}

// Parse builds the scope tree from netlist text. Input must use "\n"
// terminators; newline normalization happens at the file layer.
func Parse(input string, opts Options) (*File, error) {
	lines := strings.Split(input, "\n")
	// A trailing newline yields one empty last element; drop it so it
	// does not round-trip as an extra blank line.
	finalNewline := strings.HasSuffix(input, "\n")
	if n := len(lines); n > 0 && finalNewline {
		lines = lines[:n-1]
	}

	file := &File{Root: &Scope{}, FinalNewline: finalNewline}

	numBase := 1
	if !opts.Library {
		if len(lines) == 0 {
			return nil, structuralErr(0, "empty document")
		}
		file.TitleRaw = lines[0]
		file.Title = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[0]), "*"))
		lines = lines[1:]
		numBase = 2
	}

	classified, err := Classify(lines, numBase)
	if err != nil {
		return nil, err
	}

	stack := []*Scope{file.Root}
	var block *Entry // open anonymous block
	ended := false

	for _, line := range classified {
		if ended {
			// Everything after .end is opaque trailing text.
			file.Trailing = append(file.Trailing, line.Raw...)
			continue
		}
		top := stack[len(stack)-1]

		if block != nil {
			// Block content is stored verbatim, never parsed.
			block.Raw = append(block.Raw, line.Raw...)
			if line.Kind == LineEndControl {
				top.Entries = append(top.Entries, block)
				block = nil
			}
			continue
		}

		switch line.Kind {
		case LineComment:
			top.Entries = append(top.Entries, &Entry{Kind: EntryComment, Text: line.Text, Raw: line.Raw, Line: line.Num})

		case LineDirective:
			top.Entries = append(top.Entries, &Entry{Kind: EntryDirective, Text: line.Text, Raw: line.Raw, Line: line.Num})

		case LineComponent:
			// Structured fields are filled in when the enclosing
			// scope closes, after all continuations are folded.
			top.Entries = append(top.Entries, &Entry{Kind: EntryComponent, Text: line.Text, Raw: line.Raw, Line: line.Num})

		case LineBeginSubckt:
			sub, err := parseSubcktHeader(line)
			if err != nil {
				return nil, err
			}
			for _, s := range stack {
				if s.Definition(sub.Name) != nil {
					return nil, structuralErr(line.Num, "duplicate definition %s", sub.Name)
				}
			}
			stack = append(stack, sub)

		case LineEndSubckt:
			if len(stack) == 1 {
				return nil, structuralErr(line.Num, ".ends without matching .subckt")
			}
			if fields := strings.Fields(line.Text); len(fields) > 1 && !strings.EqualFold(fields[1], top.Name) {
				return nil, structuralErr(line.Num, ".ends %s does not close .subckt %s", fields[1], top.Name)
			}
			top.EndText = line.Text
			top.EndRaw = line.Raw
			if err := finalizeScope(top); err != nil {
				return nil, err
			}
			stack = stack[:len(stack)-1]
			parent := stack[len(stack)-1]
			parent.Entries = append(parent.Entries, &Entry{Kind: EntryScope, Scope: top, Line: line.Num})

		case LineBeginControl:
			block = &Entry{Kind: EntryBlock, Text: line.Text, Raw: append([]string(nil), line.Raw...), Line: line.Num}

		case LineEndControl:
			return nil, structuralErr(line.Num, ".endc without matching .control")

		case LineEnd:
			if len(stack) > 1 {
				return nil, structuralErr(line.Num, "missing .ends for .subckt %s", top.Name)
			}
			file.Root.EndText = line.Text
			file.Root.EndRaw = line.Raw
			ended = true

		case LineInvalid:
			return nil, line.Err
		}
	}

	if block != nil {
		return nil, structuralErr(block.Line, "missing .endc for control block")
	}
	if len(stack) > 1 {
		return nil, structuralErr(0, "missing .ends for .subckt %s", stack[len(stack)-1].Name)
	}
	if !ended && opts.Strict {
		return nil, structuralErr(0, "missing .end marker")
	}
	if err := finalizeScope(file.Root); err != nil {
		return nil, err
	}
	if opts.Library {
		markReadOnly(file.Root)
	}

	return file, nil
}

// finalizeScope runs the grammar table over every component entry of a
// freshly closed scope and enforces designator uniqueness among the
// scope's direct entries.
func finalizeScope(s *Scope) error {
	seen := make(map[string]int)
	for _, e := range s.Entries {
		if e.Kind != EntryComponent || e.Comp != nil {
			continue
		}
		comp, err := buildComponent(&Line{Text: e.Text, Raw: e.Raw, Num: e.Line})
		if err != nil {
			return err
		}
		key := strings.ToUpper(comp.Name)
		if prev, dup := seen[key]; dup {
			return structuralErr(e.Line, "duplicate designator %s (first at line %d)", comp.Name, prev)
		}
		seen[key] = e.Line
		e.Comp = comp
	}
	return nil
}

func parseSubcktHeader(line *Line) (*Scope, error) {
	fields := SplitFields(line.Text)
	if len(fields) < 2 || !isName(fields[1].Text) {
		return nil, syntaxErr(line.Num, line.Text, ".subckt requires a definition name")
	}

	s := &Scope{
		Name:     fields[1].Text,
		HeadText: line.Text,
		HeadRaw:  line.Raw,
	}
	for _, f := range fields[2:] {
		if key, val, ok := splitAssignment(f); ok {
			s.Params = append(s.Params, Param{Key: key.Text, Value: val.Text, Typed: TypedValue(val.Text)})
			continue
		}
		if len(s.Params) > 0 {
			return nil, syntaxErr(line.Num, line.Text, "stray token %q after .subckt parameters", f.Text)
		}
		if !isName(f.Text) {
			return nil, syntaxErr(line.Num, line.Text, "invalid .subckt node %q", f.Text)
		}
		s.Nodes = append(s.Nodes, f.Text)
	}

	return s, nil
}

func markReadOnly(s *Scope) {
	s.ReadOnly = true
	for _, e := range s.Entries {
		if e.Kind == EntryScope {
			markReadOnly(e.Scope)
		}
	}
}
