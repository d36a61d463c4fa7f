package deck

import (
	"strings"

	"github.com/edp1096/netdeck/pkg/netlist"
)

// DocParameter reads a document-level .param value by name.
func (d *Document) DocParameter(name string) (string, error) {
	for _, e := range d.file.Root.Entries {
		if e.Kind != netlist.EntryDirective || e.Keyword() != ".param" {
			continue
		}
		for _, pm := range netlist.DirectiveAssignments(e.Text) {
			if strings.EqualFold(pm.Key.Text, name) {
				return pm.Value.Text, nil
			}
		}
	}
	return "", refErr(NotFound, "", "document parameter %s not found", name)
}

// SetDocParameter writes a document-level .param, editing the existing
// directive in place or appending a new one.
func (d *Document) SetDocParameter(name, value string) error {
	if d.readOnly {
		return refErr(ReadOnly, "", "document is read only")
	}

	for _, e := range d.file.Root.Entries {
		if e.Kind != netlist.EntryDirective || e.Keyword() != ".param" {
			continue
		}
		for _, pm := range netlist.DirectiveAssignments(e.Text) {
			if !strings.EqualFold(pm.Key.Text, name) {
				continue
			}
			if pm.Value.Text == value {
				return nil
			}
			e.Text = e.Text[:pm.Value.Start] + value + e.Text[pm.Value.End:]
			e.Raw = nil // regenerated from Text on save
			d.journal.Record(pm.Key.Text, value, KindDocParameter)
			return nil
		}
	}

	d.file.Root.Entries = append(d.file.Root.Entries, &netlist.Entry{
		Kind: netlist.EntryDirective,
		Text: ".param " + name + "=" + value,
	})
	d.journal.Record(name, value, KindDocParameter)
	return nil
}

// AddInstruction appends a directive line (analysis setup, options,
// models) to the document. Adding an instruction that is already
// present is a no-op.
func (d *Document) AddInstruction(text string) error {
	if d.readOnly {
		return refErr(ReadOnly, "", "document is read only")
	}
	text = strings.TrimSpace(text)

	classified, err := netlist.Classify([]string{text}, 0)
	if err != nil {
		return err
	}
	if len(classified) != 1 || classified[0].Kind != netlist.LineDirective {
		return refErr(Unsupported, "", "not an instruction line: %q", text)
	}
	if classified[0].Err != nil {
		return classified[0].Err
	}

	for _, e := range d.file.Root.Entries {
		if e.Kind == netlist.EntryDirective && strings.EqualFold(e.Text, text) {
			return nil
		}
	}

	d.file.Root.Entries = append(d.file.Root.Entries, &netlist.Entry{
		Kind: netlist.EntryDirective,
		Text: text,
	})
	d.journal.Record(keywordOf(text), text, KindAddInstruction)
	return nil
}

// RemoveInstruction deletes a directive line matched by its full text,
// case-insensitively. Removing a directive that is not present fails
// with a not-found error and leaves the journal unchanged.
func (d *Document) RemoveInstruction(text string) error {
	if d.readOnly {
		return refErr(ReadOnly, "", "document is read only")
	}
	text = strings.TrimSpace(text)

	entries := d.file.Root.Entries
	for i, e := range entries {
		if e.Kind != netlist.EntryDirective || !strings.EqualFold(e.Text, text) {
			continue
		}
		d.file.Root.Entries = append(entries[:i], entries[i+1:]...)
		d.journal.Record(keywordOf(text), text, KindRemoveInstruction)
		return nil
	}
	return refErr(NotFound, "", "instruction not found: %q", text)
}

func keywordOf(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
