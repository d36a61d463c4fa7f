package deck

import "fmt"

type MutationKind int

const (
	KindValue MutationKind = iota
	KindModel
	KindParameter
	KindDocParameter
	KindAddInstruction
	KindRemoveInstruction
	KindClone
	KindRetarget
)

func (k MutationKind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindModel:
		return "model"
	case KindParameter:
		return "parameter"
	case KindDocParameter:
		return "doc-parameter"
	case KindAddInstruction:
		return "add-instruction"
	case KindRemoveInstruction:
		return "remove-instruction"
	case KindClone:
		return "clone"
	case KindRetarget:
		return "retarget"
	}
	return "unknown"
}

// JournalEntry is one replayable mutation fact.
type JournalEntry struct {
	Name  string
	Value string
	Kind  MutationKind
}

// Journal is the ordered, deduplicating log of every externally visible
// mutation. A later record with the same (name, kind) overwrites the
// existing entry's value in place; instruction kinds key on
// (name, kind, value) since distinct instructions coexist. Iteration
// order is insertion order of first occurrence; entries are never
// reordered. The journal is cleared only by a whole-document Reset.
type Journal struct {
	entries []*JournalEntry
	index   map[string]*JournalEntry
}

func NewJournal() *Journal {
	return &Journal{index: make(map[string]*JournalEntry)}
}

func dedupKey(name string, kind MutationKind, value string) string {
	if kind == KindAddInstruction || kind == KindRemoveInstruction {
		return fmt.Sprintf("%d\x00%s\x00%s", kind, name, value)
	}
	return fmt.Sprintf("%d\x00%s", kind, name)
}

// Record appends a new entry or updates the value of the matching one.
func (j *Journal) Record(name, value string, kind MutationKind) {
	key := dedupKey(name, kind, value)
	if e, ok := j.index[key]; ok {
		e.Value = value
		return
	}
	e := &JournalEntry{Name: name, Value: value, Kind: kind}
	j.entries = append(j.entries, e)
	j.index[key] = e
}

// Value reads back the recorded value for (name, kind).
func (j *Journal) Value(name string, kind MutationKind) (string, bool) {
	if e, ok := j.index[dedupKey(name, kind, "")]; ok {
		return e.Value, true
	}
	return "", false
}

// ByKind returns the entries of one kind, in insertion order.
func (j *Journal) ByKind(kind MutationKind) []*JournalEntry {
	var out []*JournalEntry
	for _, e := range j.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Entries returns the full log in insertion order.
func (j *Journal) Entries() []*JournalEntry {
	return append([]*JournalEntry(nil), j.entries...)
}

func (j *Journal) Len() int { return len(j.entries) }

func (j *Journal) clear() {
	j.entries = nil
	j.index = make(map[string]*JournalEntry)
}

// Replay applies the journaled edits, in order, onto another document.
// Clone and retarget facts are skipped: the target document recreates
// its own shadows when the replayed writes reach through instances.
func (j *Journal) Replay(d *Document) error {
	for _, e := range j.entries {
		var err error
		switch e.Kind {
		case KindValue:
			err = d.SetValue(e.Name, e.Value)
		case KindModel:
			err = d.SetModel(e.Name, e.Value)
		case KindParameter:
			path, key, ok := splitParamName(e.Name)
			if !ok {
				return fmt.Errorf("malformed parameter name %q in journal", e.Name)
			}
			err = d.SetParameter(path, key, e.Value)
		case KindDocParameter:
			err = d.SetDocParameter(e.Name, e.Value)
		case KindAddInstruction:
			err = d.AddInstruction(e.Value)
		case KindRemoveInstruction:
			err = d.RemoveInstruction(e.Value)
		case KindClone, KindRetarget:
			continue
		}
		if err != nil {
			return fmt.Errorf("replaying %s %s: %w", e.Kind, e.Name, err)
		}
	}
	return nil
}
