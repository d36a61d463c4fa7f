package deck

import (
	"sort"
	"strings"

	"github.com/edp1096/netdeck/pkg/netlist"
	"github.com/edp1096/netdeck/pkg/util"
)

// String serializes the document. Entries nothing touched reproduce
// their original bytes; edited components have only the changed field
// spans spliced.
func (d *Document) String() (string, error) {
	var lines []string
	lines = append(lines, d.file.TitleRaw)
	if err := renderScope(d.file.Root, &lines); err != nil {
		return "", err
	}
	lines = append(lines, d.file.Trailing...)

	out := strings.Join(lines, "\n")
	if d.file.FinalNewline {
		out += "\n"
	}
	return out, nil
}

// Save writes the document back with its original encoding and line
// terminator. An empty path reuses the load path.
func (d *Document) Save(path string) error {
	if path == "" {
		path = d.path
	}
	text, err := d.String()
	if err != nil {
		return err
	}
	tf := d.source
	if tf == nil {
		tf = &util.TextFile{Encoding: "utf-8", Newline: "\n"}
	}
	return util.WriteTextFile(path, tf, text)
}

func renderScope(s *netlist.Scope, lines *[]string) error {
	if s.HeadText != "" || len(s.HeadRaw) > 0 {
		*lines = append(*lines, renderBoundary(s.HeadText, s.HeadRaw, s)...)
	}

	for _, e := range s.Entries {
		switch e.Kind {
		case netlist.EntryComponent:
			line, err := renderComponent(e.Comp)
			if err != nil {
				return err
			}
			*lines = append(*lines, line...)

		case netlist.EntryScope:
			if err := renderScope(e.Scope, lines); err != nil {
				return err
			}

		default:
			if e.Raw != nil {
				*lines = append(*lines, e.Raw...)
			} else {
				*lines = append(*lines, e.Text)
			}
		}
	}

	// Shadow scopes go just before the enclosing end marker, not at
	// their instance's point of use.
	for _, e := range s.Entries {
		if e.Kind == netlist.EntryComponent && e.Comp.Shadow != nil {
			if err := renderScope(e.Comp.Shadow, lines); err != nil {
				return err
			}
		}
	}

	if s.EndText != "" || len(s.EndRaw) > 0 {
		*lines = append(*lines, renderBoundary(s.EndText, s.EndRaw, s)...)
	}
	return nil
}

// renderBoundary writes a .subckt/.ends line, splicing in the new name
// when the scope was renamed by copy-on-write.
func renderBoundary(text string, raw []string, s *netlist.Scope) []string {
	if !s.Renamed {
		if raw != nil {
			return raw
		}
		return []string{text}
	}
	fields := netlist.SplitFields(text)
	if len(fields) < 2 {
		return []string{text}
	}
	name := fields[1]
	return []string{text[:name.Start] + s.Name + text[name.End:]}
}

type splice struct {
	start, end int
	text       string
}

// renderComponent re-runs the grammar match against the original line
// text and splices every field whose in-memory value differs. A
// component with no changed field serializes byte-identical.
func renderComponent(c *netlist.Component) ([]string, error) {
	if !c.Dirty && c.Raw != nil {
		return c.Raw, nil
	}

	m, err := netlist.MatchComponent(c.Text, c.Line)
	if err != nil {
		return nil, err
	}

	var edits []splice

	if m.Designator.Text != c.Name {
		edits = append(edits, splice{m.Designator.Start, m.Designator.End, c.Name})
	}
	for i, n := range m.Nodes {
		if i < len(c.Nodes) && n.Text != c.Nodes[i] {
			edits = append(edits, splice{n.Start, n.End, c.Nodes[i]})
		}
	}
	if m.HasValue {
		if m.Value.Text != c.Value {
			edits = append(edits, splice{m.Value.Start, m.Value.End, c.Value})
		}
	} else if c.Value != "" && len(m.Nodes) > 0 {
		at := m.Nodes[len(m.Nodes)-1].End
		edits = append(edits, splice{at, at, " " + c.Value})
	}

	matched := make(map[string]bool)
	for _, pm := range m.Params {
		matched[strings.ToLower(pm.Key.Text)] = true
		p := c.Param(pm.Key.Text)
		if p != nil && p.Value != pm.Value.Text {
			edits = append(edits, splice{pm.Value.Start, pm.Value.End, p.Value})
		}
	}
	for _, p := range c.Params {
		if !matched[strings.ToLower(p.Key)] {
			end := len(c.Text)
			edits = append(edits, splice{end, end, " " + p.Key + "=" + p.Value})
		}
	}

	sort.SliceStable(edits, func(i, j int) bool { return edits[i].start < edits[j].start })
	var b strings.Builder
	prev := 0
	for _, e := range edits {
		b.WriteString(c.Text[prev:e.start])
		b.WriteString(e.text)
		prev = e.end
	}
	b.WriteString(c.Text[prev:])
	return []string{b.String()}, nil
}
