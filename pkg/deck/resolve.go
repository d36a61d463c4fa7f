package deck

import (
	"strings"

	"github.com/edp1096/netdeck/pkg/netlist"
)

// resolved is the outcome of walking a colon-delimited path.
type resolved struct {
	comp  *netlist.Component
	scope *netlist.Scope // scope owning the component
	path  string         // canonical path, designators as written
}

func splitPath(path string) ([]string, error) {
	segs := strings.Split(path, ":")
	for i := range segs {
		segs[i] = strings.TrimSpace(segs[i])
		if segs[i] == "" {
			return nil, refErr(NotFound, path, "empty path segment")
		}
	}
	return segs, nil
}

// resolve walks a path to its component. With write set it creates
// shadow scopes on the way down (copy-on-write) and rejects read-only
// targets. Mutating callers resolve for read first, so a failing write
// path never half-applies: no clone happens unless the full path is
// known to exist.
func (d *Document) resolve(path string, write bool) (*resolved, error) {
	if write && d.readOnly {
		return nil, refErr(ReadOnly, path, "document is read only")
	}
	segs, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	scope := d.file.Root
	chain := []*netlist.Scope{scope}
	var canon []string

	for i, seg := range segs {
		comp := scope.Component(seg)
		if comp == nil {
			return nil, refErr(NotFound, path, "component %s not found", seg)
		}
		canon = append(canon, comp.Name)

		if i == len(segs)-1 {
			if write && scope.ReadOnly {
				return nil, refErr(ReadOnly, path, "scope %s is read only", scope.Name)
			}
			return &resolved{comp: comp, scope: scope, path: strings.Join(canon, ":")}, nil
		}

		if comp.Prefix != 'X' {
			return nil, refErr(NotAContainer, path, "component %s is not a subcircuit instance", comp.Name)
		}

		var next *netlist.Scope
		switch {
		case comp.Shadow != nil:
			// The shadow is authoritative once it exists.
			next = comp.Shadow
		case write:
			next, err = d.ensureShadow(comp, canon, chain, path)
		default:
			next, err = d.findDefinition(comp.Target, chain, path)
		}
		if err != nil {
			return nil, err
		}

		scope = next
		chain = append(chain, next)
	}

	return nil, refErr(NotFound, path, "empty path")
}

// findDefinition resolves a definition name: first the already-parsed
// scope chain, innermost first, then library files named by
// .include/.lib directives anywhere on the chain, loaded lazily.
func (d *Document) findDefinition(name string, chain []*netlist.Scope, path string) (*netlist.Scope, error) {
	if name == "" {
		return nil, refErr(NotFound, path, "instance has no target definition")
	}

	for i := len(chain) - 1; i >= 0; i-- {
		if def := chain[i].Definition(name); def != nil {
			return def, nil
		}
	}

	var loadErr error
	for i := len(chain) - 1; i >= 0; i-- {
		for _, libPath := range libraryPaths(chain[i], d.baseDir()) {
			def, err := d.libs.Lookup(libPath, name)
			if err != nil {
				if loadErr == nil {
					loadErr = err
				}
				continue
			}
			if def != nil {
				return def, nil
			}
		}
	}
	if loadErr != nil {
		return nil, refErr(NotFound, path, "subcircuit %s not found: %v", name, loadErr)
	}
	return nil, refErr(NotFound, path, "subcircuit %s not found", name)
}
