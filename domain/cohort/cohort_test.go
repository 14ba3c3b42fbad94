package cohort

import (
	"testing"

	"crisprtme/domain/core"
)

func ids(ss ...string) []core.ModelID {
	out := make([]core.ModelID, len(ss))
	for i, s := range ss {
		out[i] = core.ModelID(s)
	}
	return out
}

func TestSelect_IntersectsThreeSourcesSorted(t *testing.T) {
	s := NewSelector(2)

	c, ok := s.Select("Melanoma",
		ids("ACH-3", "ACH-1", "ACH-2", "ACH-9"),
		ids("ACH-2", "ACH-1", "ACH-3", "ACH-8"),
		ids("ACH-3", "ACH-2", "ACH-1", "ACH-7"),
	)
	if !ok {
		t.Fatal("cohort of 3 should pass minimum 2")
	}
	want := ids("ACH-1", "ACH-2", "ACH-3")
	if len(c.Members) != len(want) {
		t.Fatalf("got %d members, want %d", len(c.Members), len(want))
	}
	for i := range want {
		if c.Members[i] != want[i] {
			t.Fatalf("member %d: got %s, want %s", i, c.Members[i], want[i])
		}
	}
}

func TestSelect_Deterministic(t *testing.T) {
	s := NewSelector(1)

	a, _ := s.Select("X", ids("B", "A", "C"), ids("C", "B", "A"), ids("A", "C", "B"))
	b, _ := s.Select("X", ids("C", "A", "B"), ids("A", "B", "C"), ids("B", "A", "C"))

	if a.Hash != b.Hash {
		t.Fatalf("identical inputs must fingerprint identically: %s vs %s", a.Hash, b.Hash)
	}
	for i := range a.Members {
		if a.Members[i] != b.Members[i] {
			t.Fatal("identical inputs must yield an identical sorted list")
		}
	}
}

func TestSelect_MinimumBoundary(t *testing.T) {
	s := NewSelector(0) // falls back to DefaultMinSize (25)
	if s.MinSize != DefaultMinSize {
		t.Fatalf("expected default minimum %d, got %d", DefaultMinSize, s.MinSize)
	}

	build := func(n int) []core.ModelID {
		out := make([]core.ModelID, n)
		for i := range out {
			out[i] = core.ModelID(string(rune('A'+i/26)) + string(rune('A'+i%26)))
		}
		return out
	}

	under := build(24)
	if c, ok := s.Select("Y", under, under, under); ok {
		t.Fatalf("24 models must not pass (got cohort of %d)", c.Size())
	}
	exact := build(25)
	if _, ok := s.Select("Y", exact, exact, exact); !ok {
		t.Fatal("exactly 25 models must pass")
	}
}

func TestSelect_DeduplicatesAnnotatedModels(t *testing.T) {
	s := NewSelector(1)
	c, _ := s.Select("Z", ids("A", "B"), ids("A", "B"), ids("A", "A", "B", "A"))
	if c.Size() != 2 {
		t.Fatalf("duplicates must collapse, got %d members", c.Size())
	}
}
