package deck

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/edp1096/netdeck/pkg/netlist"
	"github.com/edp1096/netdeck/pkg/util"
)

// LibraryCache holds parsed library files for the lifetime of the
// process. It is passed explicitly into documents rather than living as
// package state; Invalidate drops everything when library files change
// on disk (the cache is not coherent under external edits).
type LibraryCache struct {
	logger   *slog.Logger
	fallback string // fallback encoding for library files
	files    map[string]*libraryFile
}

type libraryFile struct {
	path string
	defs map[string]*netlist.Scope // lowercased definition name
}

func NewLibraryCache() *LibraryCache {
	return &LibraryCache{
		logger:   slog.Default(),
		fallback: "windows-1252",
		files:    make(map[string]*libraryFile),
	}
}

// Invalidate forgets every cached file; the next lookup re-reads disk.
func (c *LibraryCache) Invalidate() {
	c.files = make(map[string]*libraryFile)
}

// Lookup finds a definition in a library file, loading and caching the
// file on first use. A missing definition is (nil, nil): the resolver
// keeps searching other libraries.
func (c *LibraryCache) Lookup(path, defName string) (*netlist.Scope, error) {
	lf, ok := c.files[path]
	if !ok {
		var err error
		lf, err = c.load(path)
		if err != nil {
			return nil, err
		}
		c.files[path] = lf
	}
	return lf.defs[strings.ToLower(defName)], nil
}

func (c *LibraryCache) load(path string) (*libraryFile, error) {
	tf, err := util.ReadTextFile(path, c.fallback)
	if err != nil {
		return nil, fmt.Errorf("library %s: %w", path, err)
	}
	file, err := netlist.Parse(tf.Text, netlist.Options{Library: true})
	if err != nil {
		return nil, fmt.Errorf("library %s: %w", path, err)
	}

	lf := &libraryFile{path: path, defs: make(map[string]*netlist.Scope)}
	collectDefs(file.Root, lf.defs)

	c.logger.Debug("library loaded", "path", path, "definitions", len(lf.defs))
	return lf, nil
}

// collectDefs indexes definitions recursively; the outermost definition
// wins on a name clash.
func collectDefs(s *netlist.Scope, defs map[string]*netlist.Scope) {
	var nested []*netlist.Scope
	for _, e := range s.Entries {
		if e.Kind == netlist.EntryScope {
			name := strings.ToLower(e.Scope.Name)
			if _, ok := defs[name]; !ok {
				defs[name] = e.Scope
			}
			nested = append(nested, e.Scope)
		}
	}
	for _, sub := range nested {
		collectDefs(sub, defs)
	}
}

// libraryPaths lists the files referenced by .include/.lib directives
// of a scope, innermost caller first, resolved against the document
// directory.
func libraryPaths(s *netlist.Scope, baseDir string) []string {
	var out []string
	for _, e := range s.Entries {
		if e.Kind != netlist.EntryDirective {
			continue
		}
		kw := e.Keyword()
		if kw != ".include" && kw != ".inc" && kw != ".lib" {
			continue
		}
		fields := netlist.SplitFields(e.Text)
		if len(fields) < 2 {
			continue
		}
		path := strings.Trim(fields[1].Text, `"'`)
		if path == "" {
			continue
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		out = append(out, path)
	}
	return out
}
