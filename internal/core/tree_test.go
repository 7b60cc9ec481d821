package core

import (
	"testing"

	"github.com/pyverinfo/pyverinfo/version"
)

func mustV(s string) version.Version {
	return version.MustParse(s)
}

func newTestTree() *tree {
	releases := map[microKey]release{
		{3, 9, 0}:  {state: releaseDated, date: date("2020-10-05")},
		{3, 9, 1}:  {state: releaseDated, date: date("2020-12-07")},
		{3, 10, 0}: {state: releaseUndated},
		{3, 11, 0}: {state: releaseUnscheduled},
	}
	eol := map[minorKey]EOL{
		{3, 9}: {Kind: EOLOn, Date: date("2025-10-01")},
		{4, 0}: {Kind: EOLUndated},
	}
	return newTree(releases, eol)
}

func TestTreeDerivesHigherLevels(t *testing.T) {
	tr := newTestTree()

	if got := tr.majors; len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Errorf("majors = %v, want [3 4]", got)
	}
	// 4.0 exists only through its EOL marker and still implies major 4.
	if !tr.hasMinor(minorKey{4, 0}) {
		t.Error("EOL-only series 4.0 missing from tree")
	}
	if !tr.hasMajor(4) {
		t.Error("major 4 not implied by EOL-only series")
	}
	// Series present through micros get a default EOL entry.
	if e := tr.eol[minorKey{3, 10}]; e.Kind != NotEOL {
		t.Errorf("default EOL for 3.10 = %v, want NotEOL", e.Kind)
	}
}

func TestTreeFirstMicro(t *testing.T) {
	tr := newTestTree()

	k, ok := tr.firstMicro(mustV("3.9"))
	if !ok || k != (microKey{3, 9, 0}) {
		t.Errorf("firstMicro(3.9) = %v, %v", k, ok)
	}
	k, ok = tr.firstMicro(mustV("3"))
	if !ok || k != (microKey{3, 9, 0}) {
		t.Errorf("firstMicro(3) = %v, %v", k, ok)
	}
	// The smallest series of major 4 has no micros; the date is unknown,
	// not borrowed from a sibling.
	if _, ok := tr.firstMicro(mustV("4")); ok {
		t.Error("firstMicro(4) found a micro under an EOL-only series")
	}
}

func TestTreeReleaseDateOf(t *testing.T) {
	tr := newTestTree()

	r, err := tr.releaseDateOf(mustV("4.0"))
	if err != nil {
		t.Fatalf("releaseDateOf(4.0) failed: %v", err)
	}
	if r.state != releaseUndated {
		t.Errorf("releaseDateOf(4.0).state = %v, want releaseUndated", r.state)
	}

	if _, err := tr.releaseDateOf(mustV("9.9.9")); err == nil {
		t.Error("releaseDateOf(9.9.9) succeeded for unknown version")
	}
}

func TestReleaseStates(t *testing.T) {
	now := date("2021-06-01")
	tests := []struct {
		r    release
		want bool
	}{
		{release{state: releaseDated, date: date("2020-10-05")}, true},
		{release{state: releaseDated, date: now}, true}, // release day counts
		{release{state: releaseDated, date: date("2021-10-04")}, false},
		{release{state: releaseUndated}, true},
		{release{state: releaseUnscheduled}, false},
	}
	for _, tt := range tests {
		if got := tt.r.releasedBy(now); got != tt.want {
			t.Errorf("releasedBy(%+v) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestEOLReachedBy(t *testing.T) {
	now := date("2021-06-01")
	tests := []struct {
		e    EOL
		want bool
	}{
		{EOL{Kind: NotEOL}, false},
		{EOL{Kind: EOLUndated}, true},
		{EOL{Kind: EOLOn, Date: date("2020-01-01")}, true},
		{EOL{Kind: EOLOn, Date: now}, true},
		{EOL{Kind: EOLOn, Date: date("2025-10-01")}, false},
	}
	for _, tt := range tests {
		if got := tt.e.reachedBy(now); got != tt.want {
			t.Errorf("reachedBy(%+v) = %v, want %v", tt.e, got, tt.want)
		}
	}
}
