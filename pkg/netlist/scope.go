package netlist

import (
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Param is one key=value pair of a component or scope header. Keys keep
// their written case; lookups compare case-insensitively. Typed carries
// the opportunistic numeric conversion: cty.Number when the raw text
// parses as a plain value, cty.String otherwise.
type Param struct {
	Key   string
	Value string
	Typed cty.Value
}

// TypedValue converts a raw parameter string to its typed form.
func TypedValue(raw string) cty.Value {
	if v, err := ParseValue(raw); err == nil {
		return cty.NumberFloatVal(v)
	}
	return cty.StringVal(raw)
}

type EntryKind int

const (
	EntryComponent EntryKind = iota
	EntryDirective
	EntryComment
	EntryScope
	EntryBlock
)

// Entry is one element of a Scope. Exactly one of Comp or Scope is set
// for the component and nested-scope kinds; the other kinds live in
// Text/Raw alone.
type Entry struct {
	Kind  EntryKind
	Comp  *Component
	Scope *Scope

	Text string   // folded logical text (components, directives)
	Raw  []string // original physical lines, verbatim; nil for entries added later
	Line int      // first physical line number, 1-based
}

// Keyword returns the lowercased leading token of a directive entry.
func (e *Entry) Keyword() string {
	fields := strings.Fields(e.Text)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// Component is one structured circuit element line.
type Component struct {
	Name   string  // designator as written
	Prefix byte    // upper-cased type letter
	Nodes  []string
	Value  string  // value-or-model field, raw text
	Params []Param // insertion order preserved

	// Target is the referenced definition name for subcircuit
	// instances (X prefix); empty otherwise.
	Target string

	// Shadow is the instance's private copy of its target definition,
	// created on first write through this instance. Owned here, never
	// shared.
	Shadow *Scope

	// Original line text, kept for span-preserving serialization.
	Text string
	Raw  []string
	Line int

	Dirty bool
}

// Param returns the parameter with the given key, matched
// case-insensitively, or nil.
func (c *Component) Param(key string) *Param {
	for i := range c.Params {
		if strings.EqualFold(c.Params[i].Key, key) {
			return &c.Params[i]
		}
	}
	return nil
}

// Scope is an ordered sequence of entries: either the document root
// (empty Name) or a named .subckt definition.
type Scope struct {
	Name    string
	Nodes   []string // subckt interface nodes
	Params  []Param  // subckt header defaults
	Entries []*Entry

	// ReadOnly marks scopes sourced from library files. Mutation entry
	// points fail on them; copy-on-write clears the flag on the copy.
	ReadOnly bool

	// Boundary lines, verbatim. Empty for the root scope.
	HeadText string
	HeadRaw  []string
	EndText  string
	EndRaw   []string

	// Renamed is set when the scope was renamed after parse (shadow
	// scopes); the serializer then splices the new name into the
	// boundary lines.
	Renamed bool
}

// Component finds a direct component entry by designator,
// case-insensitively. Returns nil when absent.
func (s *Scope) Component(name string) *Component {
	for _, e := range s.Entries {
		if e.Kind == EntryComponent && strings.EqualFold(e.Comp.Name, name) {
			return e.Comp
		}
	}
	return nil
}

// Definition finds a directly nested scope definition by name,
// case-insensitively. Returns nil when absent.
func (s *Scope) Definition(name string) *Scope {
	for _, e := range s.Entries {
		if e.Kind == EntryScope && strings.EqualFold(e.Scope.Name, name) {
			return e.Scope
		}
	}
	return nil
}

// Clone deep-copies the scope and everything it owns.
func (s *Scope) Clone() *Scope {
	out := &Scope{
		Name:     s.Name,
		Nodes:    append([]string(nil), s.Nodes...),
		Params:   append([]Param(nil), s.Params...),
		ReadOnly: s.ReadOnly,
		HeadText: s.HeadText,
		HeadRaw:  append([]string(nil), s.HeadRaw...),
		EndText:  s.EndText,
		EndRaw:   append([]string(nil), s.EndRaw...),
		Renamed:  s.Renamed,
	}
	for _, e := range s.Entries {
		ce := &Entry{
			Kind: e.Kind,
			Text: e.Text,
			Raw:  append([]string(nil), e.Raw...),
			Line: e.Line,
		}
		if e.Comp != nil {
			ce.Comp = e.Comp.clone()
		}
		if e.Scope != nil {
			ce.Scope = e.Scope.Clone()
		}
		out.Entries = append(out.Entries, ce)
	}
	return out
}

func (c *Component) clone() *Component {
	out := *c
	out.Nodes = append([]string(nil), c.Nodes...)
	out.Params = append([]Param(nil), c.Params...)
	out.Raw = append([]string(nil), c.Raw...)
	if c.Shadow != nil {
		out.Shadow = c.Shadow.Clone()
	}
	return &out
}
