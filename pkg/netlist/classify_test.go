package netlist

import (
	"errors"
	"testing"
)

func TestClassifyKinds(t *testing.T) {
	tests := []struct {
		in   string
		want LineKind
	}{
		{"R1 1 2 10k", LineComponent},
		{"  r1 1 2 10k", LineComponent},
		{"v1 in 0 DC 5", LineComponent},
		{".model DMOD D(is=1e-14)", LineDirective},
		{".param freq=1k", LineDirective},
		{".SUBCKT SUB a b", LineBeginSubckt},
		{".ends", LineEndSubckt},
		{".ends SUB", LineEndSubckt},
		{".control", LineBeginControl},
		{".endc", LineEndControl},
		{".end", LineEnd},
		{"* a comment", LineComment},
		{"; another comment", LineComment},
		{"", LineComment},
		{"   ", LineComment},
	}
	for _, tt := range tests {
		lines, err := Classify([]string{tt.in}, 1)
		if err != nil {
			t.Errorf("Classify(%q): %v", tt.in, err)
			continue
		}
		if len(lines) != 1 || lines[0].Kind != tt.want {
			t.Errorf("Classify(%q) kind = %v, want %v", tt.in, lines[0].Kind, tt.want)
		}
		if lines[0].Err != nil {
			t.Errorf("Classify(%q) unexpected deferred error: %v", tt.in, lines[0].Err)
		}
	}
}

func TestClassifyInvalid(t *testing.T) {
	for _, in := range []string{"@foo", "Z1 1 2 10k", "=bad"} {
		lines, err := Classify([]string{in}, 1)
		if err != nil {
			t.Fatalf("Classify(%q): %v", in, err)
		}
		if lines[0].Kind != LineInvalid || lines[0].Err == nil {
			t.Errorf("Classify(%q): expected deferred invalid, got kind %v", in, lines[0].Kind)
		}
	}
}

func TestClassifyContinuation(t *testing.T) {
	lines, err := Classify([]string{"R1 1 2", "+ 10k", "+ temp=27"}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d logical lines, want 1", len(lines))
	}
	l := lines[0]
	if l.Text != "R1 1 2 10k temp=27" {
		t.Errorf("folded text = %q", l.Text)
	}
	if len(l.Raw) != 3 {
		t.Errorf("raw lines = %d, want 3", len(l.Raw))
	}
	if l.Num != 5 {
		t.Errorf("line number = %d, want 5", l.Num)
	}
}

func TestClassifyContinuationWithoutPredecessor(t *testing.T) {
	_, err := Classify([]string{"+ 10k"}, 1)
	var se *StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("expected StructuralError, got %v", err)
	}
}
