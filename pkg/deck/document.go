package deck

import (
	"path/filepath"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/edp1096/netdeck/pkg/netlist"
	"github.com/edp1096/netdeck/pkg/util"
)

// Document is one editable netlist. It is single-threaded: no internal
// locking, one instance per worker when used concurrently.
type Document struct {
	file     *netlist.File
	source   *util.TextFile // nil when built from a string
	path     string
	original string // normalized text, for Reset
	journal  *Journal
	libs     *LibraryCache
	readOnly bool
}

type LoadOptions struct {
	// Encoding is the fallback when auto-detection fails.
	Encoding string
	// ReadOnly rejects every mutation entry point.
	ReadOnly bool
	// Libraries shares a cache between documents; nil makes a fresh one.
	Libraries *LibraryCache
}

// Load reads, decodes and parses a netlist file.
func Load(path string, opts *LoadOptions) (*Document, error) {
	if opts == nil {
		opts = &LoadOptions{}
	}
	tf, err := util.ReadTextFile(path, opts.Encoding)
	if err != nil {
		return nil, err
	}
	d, err := parseText(tf.Text, opts)
	if err != nil {
		return nil, err
	}
	d.source = tf
	d.path = path
	return d, nil
}

// Parse builds a document from netlist text.
func Parse(text string, opts *LoadOptions) (*Document, error) {
	if opts == nil {
		opts = &LoadOptions{}
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return parseText(text, opts)
}

func parseText(text string, opts *LoadOptions) (*Document, error) {
	file, err := netlist.Parse(text, netlist.Options{Strict: true})
	if err != nil {
		return nil, err
	}
	libs := opts.Libraries
	if libs == nil {
		libs = NewLibraryCache()
	}
	return &Document{
		file:     file,
		original: text,
		journal:  NewJournal(),
		libs:     libs,
		readOnly: opts.ReadOnly,
	}, nil
}

func (d *Document) Title() string     { return d.file.Title }
func (d *Document) Journal() *Journal { return d.journal }
func (d *Document) Root() *netlist.Scope { return d.file.Root }

// Libraries exposes the cache for explicit invalidation.
func (d *Document) Libraries() *LibraryCache { return d.libs }

// Reset discards every edit: the original text is reparsed and the
// journal cleared.
func (d *Document) Reset() error {
	file, err := netlist.Parse(d.original, netlist.Options{Strict: true})
	if err != nil {
		return err
	}
	d.file = file
	d.journal.clear()
	return nil
}

func (d *Document) baseDir() string {
	if d.path == "" {
		return "."
	}
	return filepath.Dir(d.path)
}

// Value reads a component's value-or-model field.
func (d *Document) Value(path string) (string, error) {
	r, err := d.resolve(path, false)
	if err != nil {
		return "", err
	}
	return r.comp.Value, nil
}

// SetValue writes a component's value field. Writing the current value
// is a no-op: nothing is journaled, nothing is cloned.
func (d *Document) SetValue(path, value string) error {
	return d.setValueField(path, value, KindValue, false)
}

// Model reads the model (or target definition) of a component whose
// family takes one.
func (d *Document) Model(path string) (string, error) {
	r, err := d.resolve(path, false)
	if err != nil {
		return "", err
	}
	if !netlist.HasModel(r.comp.Prefix) {
		return "", refErr(Unsupported, r.path, "device %s has no model field", r.comp.Name)
	}
	return r.comp.Value, nil
}

// SetModel writes the model field. On a subcircuit instance this
// retargets the instance and discards any shadow it owned.
func (d *Document) SetModel(path, model string) error {
	return d.setValueField(path, model, KindModel, true)
}

func (d *Document) setValueField(path, value string, kind MutationKind, wantModel bool) error {
	r, err := d.resolve(path, false)
	if err != nil {
		return err
	}
	if wantModel && !netlist.HasModel(r.comp.Prefix) {
		return refErr(Unsupported, r.path, "device %s has no model field", r.comp.Name)
	}
	if r.comp.Value == value {
		return nil
	}

	w, err := d.resolve(path, true)
	if err != nil {
		return err
	}
	w.comp.Value = value
	w.comp.Dirty = true
	if w.comp.Prefix == 'X' {
		// Retargeting invalidates the private copy of the old target.
		w.comp.Target = value
		w.comp.Shadow = nil
	}
	d.journal.Record(w.path, value, kind)
	return nil
}

// Parameter reads one component parameter, key matched
// case-insensitively.
func (d *Document) Parameter(path, key string) (string, error) {
	r, err := d.resolve(path, false)
	if err != nil {
		return "", err
	}
	p := r.comp.Param(key)
	if p == nil {
		return "", refErr(NotFound, r.path, "parameter %s not found", key)
	}
	return p.Value, nil
}

// TypedParameter reads one component parameter in its typed form:
// cty.Number when the text parses as a plain value, cty.String else.
func (d *Document) TypedParameter(path, key string) (cty.Value, error) {
	r, err := d.resolve(path, false)
	if err != nil {
		return cty.NilVal, err
	}
	p := r.comp.Param(key)
	if p == nil {
		return cty.NilVal, refErr(NotFound, r.path, "parameter %s not found", key)
	}
	return p.Typed, nil
}

// SetParameter writes or adds one component parameter.
func (d *Document) SetParameter(path, key, value string) error {
	r, err := d.resolve(path, false)
	if err != nil {
		return err
	}
	if p := r.comp.Param(key); p != nil && p.Value == value {
		return nil
	}

	w, err := d.resolve(path, true)
	if err != nil {
		return err
	}
	name := key
	if p := w.comp.Param(key); p != nil {
		name = p.Key
		p.Value = value
		p.Typed = netlist.TypedValue(value)
	} else {
		w.comp.Params = append(w.comp.Params, netlist.Param{
			Key:   key,
			Value: value,
			Typed: netlist.TypedValue(value),
		})
	}
	w.comp.Dirty = true
	d.journal.Record(w.path+"."+name, value, KindParameter)
	return nil
}

// Assignment is one key=value pair for multi-parameter writes.
type Assignment struct {
	Key   string
	Value string
}

// SetParameters applies several parameter writes in order. There is no
// rollback: a failure leaves the earlier keys applied (callers needing
// atomicity snapshot the document externally).
func (d *Document) SetParameters(path string, params []Assignment) error {
	for _, a := range params {
		if err := d.SetParameter(path, a.Key, a.Value); err != nil {
			return err
		}
	}
	return nil
}

// splitParamName splits a journaled parameter name into component path
// and parameter key.
func splitParamName(name string) (path, key string, ok bool) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return "", "", false
	}
	return name[:i], name[i+1:], true
}
