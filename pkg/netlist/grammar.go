package netlist

import "fmt"

type valueKind int

const (
	valueLiteral valueKind = iota // numeric, {expr} or quoted value
	valueModel                    // model name
	valueSource                   // source spec: DC 5, SIN(...), PULSE(...)
	valueTarget                   // subcircuit definition name
)

// pattern is one entry of the per-prefix grammar table: declared node
// arity plus the shape of the value-or-model field.
type pattern struct {
	prefix   byte
	family   string
	minNodes int
	maxNodes int // -1: unbounded
	value    valueKind
	optional bool // value field may be omitted
}

func (p *pattern) String() string {
	nodes := fmt.Sprintf("%d", p.minNodes)
	if p.maxNodes < 0 {
		nodes = fmt.Sprintf("%d or more", p.minNodes)
	} else if p.maxNodes != p.minNodes {
		nodes = fmt.Sprintf("%d..%d", p.minNodes, p.maxNodes)
	}
	what := "a value"
	switch p.value {
	case valueModel:
		what = "a model"
	case valueSource:
		what = "a source spec"
	case valueTarget:
		what = "a definition name"
	}
	return fmt.Sprintf("%s: %s nodes and %s", p.family, nodes, what)
}

var patterns = map[byte]*pattern{
	'R': {prefix: 'R', family: "resistor", minNodes: 2, maxNodes: 2, value: valueLiteral},
	'C': {prefix: 'C', family: "capacitor", minNodes: 2, maxNodes: 2, value: valueLiteral},
	'L': {prefix: 'L', family: "inductor", minNodes: 2, maxNodes: 2, value: valueLiteral, optional: true},
	'V': {prefix: 'V', family: "voltage source", minNodes: 2, maxNodes: 2, value: valueSource},
	'I': {prefix: 'I', family: "current source", minNodes: 2, maxNodes: 2, value: valueSource},
	'D': {prefix: 'D', family: "diode", minNodes: 2, maxNodes: 2, value: valueModel, optional: true},
	'Q': {prefix: 'Q', family: "BJT", minNodes: 3, maxNodes: 4, value: valueModel},
	'M': {prefix: 'M', family: "MOSFET", minNodes: 3, maxNodes: 4, value: valueModel},
	'J': {prefix: 'J', family: "JFET", minNodes: 3, maxNodes: 3, value: valueModel},
	// B takes its expression as V=/I= parameter as often as inline.
	'B': {prefix: 'B', family: "behavioral source", minNodes: 2, maxNodes: 2, value: valueLiteral, optional: true},
	'E': {prefix: 'E', family: "VCVS", minNodes: 4, maxNodes: 4, value: valueLiteral},
	'G': {prefix: 'G', family: "VCCS", minNodes: 4, maxNodes: 4, value: valueLiteral},
	// K names coupled inductors instead of circuit nodes.
	'K': {prefix: 'K', family: "mutual coupling", minNodes: 2, maxNodes: -1, value: valueLiteral},
	'X': {prefix: 'X', family: "subcircuit instance", minNodes: 1, maxNodes: -1, value: valueTarget},
}

func knownPrefix(c byte) bool {
	return patterns[c] != nil
}

// HasModel reports whether the prefix's value-or-model field names a
// model or definition rather than a literal value.
func HasModel(prefix byte) bool {
	p := patterns[upperByte(prefix)]
	return p != nil && (p.value == valueModel || p.value == valueTarget)
}

// DirectiveAssignments extracts the key=value pairs of a directive
// line, with spans, in written order.
func DirectiveAssignments(text string) []ParamMatch {
	fields := SplitFields(text)
	var out []ParamMatch
	for _, f := range fields {
		if key, val, ok := splitAssignment(f); ok {
			out = append(out, ParamMatch{Key: key, Value: val, All: f})
		}
	}
	return out
}

// ParamMatch is one matched key=value pair with the spans of its key and
// value parts.
type ParamMatch struct {
	Key   Field
	Value Field
	All   Field
}

// Match is the structured decomposition of a component line, with the
// byte span of every field. The serializer re-runs the match against the
// original text and splices changed spans only.
type Match struct {
	Designator Field
	Nodes      []Field
	Value      Field // zero End when the value field is absent
	HasValue   bool
	Params     []ParamMatch
}

// MatchComponent runs the grammar extractor for the line's prefix.
// num is the physical line number used in errors.
func MatchComponent(text string, num int) (*Match, error) {
	fields := SplitFields(text)
	if len(fields) == 0 {
		return nil, syntaxErr(num, text, "empty component line")
	}

	desig := fields[0]
	if !isName(desig.Text) {
		return nil, syntaxErr(num, text, "invalid designator %q", desig.Text)
	}
	p := patterns[upperByte(desig.Text[0])]
	if p == nil {
		return nil, syntaxErr(num, text, "unsupported device prefix %q", string(desig.Text[0]))
	}

	// Leading plain tokens, then the trailing key=value parameter list.
	rest := fields[1:]
	var plain []Field
	var params []ParamMatch
	for i, f := range rest {
		if key, val, ok := splitAssignment(f); ok {
			params = append(params, ParamMatch{Key: key, Value: val, All: f})
			continue
		}
		if len(params) > 0 {
			return nil, syntaxErr(num, text, "stray token %q after parameter list (%s)", rest[i].Text, p)
		}
		plain = append(plain, f)
	}
	for _, pm := range params {
		if !isName(pm.Key.Text) {
			return nil, syntaxErr(num, text, "invalid parameter key %q (%s)", pm.Key.Text, p)
		}
	}

	m := &Match{Designator: desig}

	switch p.value {
	case valueSource:
		if len(plain) < p.minNodes+1 {
			return nil, syntaxErr(num, text, "too few fields (%s)", p)
		}
		m.Nodes = plain[:p.minNodes]
		first, last := plain[p.minNodes], plain[len(plain)-1]
		m.Value = Field{Text: text[first.Start:last.End], Start: first.Start, End: last.End}
		m.HasValue = true

	case valueTarget:
		if len(plain) < p.minNodes+1 {
			return nil, syntaxErr(num, text, "too few fields (%s)", p)
		}
		m.Nodes = plain[:len(plain)-1]
		m.Value = plain[len(plain)-1]
		m.HasValue = true
		if !isName(m.Value.Text) {
			return nil, syntaxErr(num, text, "invalid definition name %q (%s)", m.Value.Text, p)
		}

	default:
		nodes := plain
		if len(plain) > 0 && (!p.optional || len(plain) > p.minNodes) {
			nodes = plain[:len(plain)-1]
			m.Value = plain[len(plain)-1]
			m.HasValue = true
		}
		if len(nodes) < p.minNodes || (p.maxNodes >= 0 && len(nodes) > p.maxNodes) {
			return nil, syntaxErr(num, text, "wrong node count %d (%s)", len(nodes), p)
		}
		if !p.optional && !m.HasValue {
			return nil, syntaxErr(num, text, "missing value field (%s)", p)
		}
		m.Nodes = nodes
		if p.value == valueModel && m.HasValue && !isName(m.Value.Text) {
			return nil, syntaxErr(num, text, "invalid model name %q (%s)", m.Value.Text, p)
		}
	}

	for _, n := range m.Nodes {
		if !isName(n.Text) {
			return nil, syntaxErr(num, text, "invalid node %q (%s)", n.Text, p)
		}
	}

	return m, nil
}

// buildComponent turns a classified component line into its structured
// record by running the grammar match.
func buildComponent(line *Line) (*Component, error) {
	m, err := MatchComponent(line.Text, line.Num)
	if err != nil {
		return nil, err
	}

	c := &Component{
		Name:   m.Designator.Text,
		Prefix: upperByte(m.Designator.Text[0]),
		Text:   line.Text,
		Raw:    line.Raw,
		Line:   line.Num,
	}
	for _, n := range m.Nodes {
		c.Nodes = append(c.Nodes, n.Text)
	}
	if m.HasValue {
		c.Value = m.Value.Text
	}
	if c.Prefix == 'X' {
		c.Target = c.Value
	}
	for _, pm := range m.Params {
		c.Params = append(c.Params, Param{
			Key:   pm.Key.Text,
			Value: pm.Value.Text,
			Typed: TypedValue(pm.Value.Text),
		})
	}

	return c, nil
}
