package deck

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/edp1096/netdeck/pkg/netlist"
)

// ensureShadow gives an instance its private copy of the resolved
// target definition: a deep copy, renamed uniquely from the target name
// and the instance path, journaled as a clone plus the instance
// retarget. Happens at most once per instance; reads never get here.
// Other instances of the same target keep seeing the shared original.
func (d *Document) ensureShadow(comp *netlist.Component, canon []string, chain []*netlist.Scope, path string) (*netlist.Scope, error) {
	target, err := d.findDefinition(comp.Target, chain, path)
	if err != nil {
		return nil, err
	}

	shadow := target.Clone()
	clearReadOnly(shadow)
	shadow.Name = d.uniqueShadowName(comp.Target, canon)
	shadow.Renamed = true

	comp.Shadow = shadow
	comp.Target = shadow.Name
	comp.Value = shadow.Name
	comp.Dirty = true

	instPath := strings.Join(canon, ":")
	d.journal.Record(instPath, shadow.Name, KindClone)
	d.journal.Record(instPath, shadow.Name, KindRetarget)
	slog.Debug("cloned definition", "instance", instPath, "shadow", shadow.Name)
	return shadow, nil
}

// uniqueShadowName combines the original definition name with the
// instance path and suffixes a counter on collision.
func (d *Document) uniqueShadowName(target string, canon []string) string {
	base := strings.ToUpper(target + "_" + strings.Join(canon, "_"))
	taken := make(map[string]bool)
	collectScopeNames(d.file.Root, taken)

	name := base
	for i := 1; taken[name]; i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}
	return name
}

func collectScopeNames(s *netlist.Scope, names map[string]bool) {
	for _, e := range s.Entries {
		switch e.Kind {
		case netlist.EntryScope:
			names[strings.ToUpper(e.Scope.Name)] = true
			collectScopeNames(e.Scope, names)
		case netlist.EntryComponent:
			if e.Comp.Shadow != nil {
				names[strings.ToUpper(e.Comp.Shadow.Name)] = true
				collectScopeNames(e.Comp.Shadow, names)
			}
		}
	}
}

func clearReadOnly(s *netlist.Scope) {
	s.ReadOnly = false
	for _, e := range s.Entries {
		if e.Kind == netlist.EntryScope {
			clearReadOnly(e.Scope)
		}
	}
}
