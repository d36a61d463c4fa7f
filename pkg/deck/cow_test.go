package deck

import (
	"strings"
	"testing"
)

const cowDeck = `* cow deck
X1 1 0 SUB
X2 2 0 SUB
X3 3 0 SUB
.subckt SUB p q
R1 p q 1k
C1 q 0 100n
.ends SUB
.end
`

func TestCloneOncePerInstance(t *testing.T) {
	d := mustParse(t, cowDeck)

	if err := d.SetValue("X1:R1", "2k"); err != nil {
		t.Fatal(err)
	}
	if err := d.SetValue("X1:R1", "3k"); err != nil {
		t.Fatal(err)
	}
	if err := d.SetValue("X1:C1", "220n"); err != nil {
		t.Fatal(err)
	}

	clones := d.Journal().ByKind(KindClone)
	if len(clones) != 1 {
		t.Fatalf("clone events = %d, want 1", len(clones))
	}
	if clones[0].Name != "X1" {
		t.Errorf("clone name = %q", clones[0].Name)
	}
	retargets := d.Journal().ByKind(KindRetarget)
	if len(retargets) != 1 {
		t.Fatalf("retarget events = %d, want 1", len(retargets))
	}
}

func TestReadsNeverClone(t *testing.T) {
	d := mustParse(t, cowDeck)

	for i := 0; i < 3; i++ {
		if _, err := d.Value("X1:R1"); err != nil {
			t.Fatal(err)
		}
	}
	if n := d.Journal().Len(); n != 0 {
		t.Errorf("journal after reads = %d, want 0", n)
	}
	if d.Root().Component("X1").Shadow != nil {
		t.Error("read created a shadow")
	}
}

func TestShadowIsolationAcrossInstances(t *testing.T) {
	d := mustParse(t, cowDeck)

	if err := d.SetValue("X1:R1", "2k"); err != nil {
		t.Fatal(err)
	}
	if err := d.SetValue("X2:R1", "4.7k"); err != nil {
		t.Fatal(err)
	}

	for path, want := range map[string]string{
		"X1:R1": "2k",
		"X2:R1": "4.7k",
		"X3:R1": "1k",
	} {
		if got := mustValue(t, d, path); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}

	// Two distinct shadow names, no collision.
	x1 := d.Root().Component("X1")
	x2 := d.Root().Component("X2")
	if x1.Shadow == nil || x2.Shadow == nil {
		t.Fatal("missing shadows")
	}
	if x1.Shadow.Name == x2.Shadow.Name {
		t.Errorf("shadow name collision: %q", x1.Shadow.Name)
	}
	if x1.Target != x1.Shadow.Name {
		t.Errorf("instance target %q not rewired to shadow %q", x1.Target, x1.Shadow.Name)
	}
}

func TestShadowNaming(t *testing.T) {
	d := mustParse(t, cowDeck)
	if err := d.SetValue("X1:R1", "2k"); err != nil {
		t.Fatal(err)
	}
	name := d.Root().Component("X1").Shadow.Name
	if name != "SUB_X1" {
		t.Errorf("shadow name = %q, want SUB_X1", name)
	}
}

func TestNestedInstanceClone(t *testing.T) {
	input := `* nested cow
X1 1 0 OUTER
X2 2 0 OUTER
.subckt OUTER a b
XF a b INNER
.subckt INNER p q
R1 p q 1k
.ends INNER
.ends OUTER
.end
`
	d := mustParse(t, input)

	if err := d.SetValue("X1:XF:R1", "9k"); err != nil {
		t.Fatal(err)
	}

	if got := mustValue(t, d, "X1:XF:R1"); got != "9k" {
		t.Errorf("X1:XF:R1 = %q", got)
	}
	if got := mustValue(t, d, "X2:XF:R1"); got != "1k" {
		t.Errorf("X2:XF:R1 = %q, want 1k", got)
	}

	// One clone per crossed instance boundary.
	if n := len(d.Journal().ByKind(KindClone)); n != 2 {
		t.Errorf("clone events = %d, want 2", n)
	}
}

func TestShadowSerializedBeforeEndMarker(t *testing.T) {
	d := mustParse(t, cowDeck)
	if err := d.SetValue("X1:R1", "2k"); err != nil {
		t.Fatal(err)
	}
	out, err := d.String()
	if err != nil {
		t.Fatal(err)
	}

	shadowAt := strings.Index(out, ".subckt SUB_X1 p q")
	endAt := strings.LastIndex(out, ".end")
	origAt := strings.Index(out, ".subckt SUB p q")
	if shadowAt < 0 {
		t.Fatalf("shadow definition missing:\n%s", out)
	}
	if !(origAt < shadowAt && shadowAt < endAt) {
		t.Errorf("shadow not between original definition and .end:\n%s", out)
	}
	if !strings.Contains(out, "X1 1 0 SUB_X1") {
		t.Errorf("instance not retargeted in output:\n%s", out)
	}
	if !strings.Contains(out, "X2 2 0 SUB") {
		t.Errorf("untouched instance changed:\n%s", out)
	}
	// Shared original keeps its value.
	if !strings.Contains(out, "R1 p q 1k") || !strings.Contains(out, "R1 p q 2k") {
		t.Errorf("original/shadow values wrong:\n%s", out)
	}
}
