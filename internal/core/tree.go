package core

import (
	"sort"
	"time"

	"github.com/pyverinfo/pyverinfo/version"
)

// EOLKind tags the three end-of-life states of a version series.
type EOLKind int

const (
	// NotEOL means the series has not reached end-of-life and no EOL date
	// is scheduled.
	NotEOL EOLKind = iota
	// EOLUndated means the series is end-of-life but the date is unknown.
	EOLUndated
	// EOLOn means the series reaches end-of-life on a known date, which
	// may still be in the future.
	EOLOn
)

// EOL is the end-of-life state of a version series. Date is set only when
// Kind is EOLOn. "EOL with unknown date" and "not EOL" are distinct states
// and are never collapsed into one another.
type EOL struct {
	Kind EOLKind
	Date time.Time
}

// reachedBy reports whether the series counts as end-of-life at the given
// instant. An undated EOL marker counts as already reached.
func (e EOL) reachedBy(now time.Time) bool {
	switch e.Kind {
	case EOLOn:
		return !e.Date.After(now)
	case EOLUndated:
		return true
	default:
		return false
	}
}

type releaseState int8

const (
	// releaseDated: the release date is known (and may be in the future).
	releaseDated releaseState = iota
	// releaseUndated: the version is released but its date is unknown.
	releaseUndated
	// releaseUnscheduled: the version is announced but not yet released.
	releaseUnscheduled
)

// release is the per-micro release record.
type release struct {
	state releaseState
	date  time.Time // valid when state == releaseDated
}

func (r release) releasedBy(now time.Time) bool {
	switch r.state {
	case releaseDated:
		return !r.date.After(now)
	case releaseUndated:
		return true
	default:
		return false
	}
}

type minorKey struct{ x, y int }
type microKey struct{ x, y, z int }

// tree is the immutable three-level ordered catalog of one version family:
// majors, their minor series, their micro versions, per-micro release
// records, and per-minor EOL states. It answers structural questions only;
// release/support semantics live in SeriesInfo.
type tree struct {
	majors   []int
	minors   map[int][]int
	micros   map[minorKey][]int
	releases map[microKey]release
	eol      map[minorKey]EOL
}

// newTree builds a tree from per-micro release records and per-minor EOL
// states. Minor series that appear only in the EOL table are retained with
// zero micro children and imply their major. Every minor known to the tree
// gets an EOL entry; series without explicit data default to NotEOL.
func newTree(releases map[microKey]release, eol map[minorKey]EOL) *tree {
	t := &tree{
		minors:   make(map[int][]int),
		micros:   make(map[minorKey][]int),
		releases: releases,
		eol:      make(map[minorKey]EOL),
	}

	majorSet := make(map[int]bool)
	minorSet := make(map[minorKey]bool)
	for mk := range releases {
		majorSet[mk.x] = true
		minorSet[minorKey{mk.x, mk.y}] = true
		nk := minorKey{mk.x, mk.y}
		t.micros[nk] = append(t.micros[nk], mk.z)
	}
	for nk := range eol {
		majorSet[nk.x] = true
		minorSet[nk] = true
	}

	for x := range majorSet {
		t.majors = append(t.majors, x)
	}
	sort.Ints(t.majors)
	for nk := range minorSet {
		t.minors[nk.x] = append(t.minors[nk.x], nk.y)
		if e, ok := eol[nk]; ok {
			t.eol[nk] = e
		} else {
			t.eol[nk] = EOL{Kind: NotEOL}
		}
	}
	for x := range t.minors {
		sort.Ints(t.minors[x])
	}
	for nk := range t.micros {
		sort.Ints(t.micros[nk])
	}
	return t
}

func (t *tree) hasMajor(x int) bool {
	_, ok := t.minors[x]
	return ok
}

func (t *tree) hasMinor(k minorKey) bool {
	_, ok := t.eol[k]
	return ok
}

func (t *tree) hasMicro(k microKey) bool {
	_, ok := t.releases[k]
	return ok
}

// has reports whether v is present in the tree at its own level.
func (t *tree) has(v version.Version) bool {
	switch v.Level() {
	case version.Major:
		return t.hasMajor(v.X())
	case version.Minor:
		return t.hasMinor(minorKey{v.X(), v.Y()})
	default:
		return t.hasMicro(microKey{v.X(), v.Y(), v.Z()})
	}
}

// majorVersions lists all majors in ascending order.
func (t *tree) majorVersions() []version.Version {
	out := make([]version.Version, 0, len(t.majors))
	for _, x := range t.majors {
		out = append(out, version.NewMajor(x))
	}
	return out
}

// minorVersions lists all minor series in ascending order.
func (t *tree) minorVersions() []version.Version {
	var out []version.Version
	for _, x := range t.majors {
		for _, y := range t.minors[x] {
			out = append(out, version.NewMinor(x, y))
		}
	}
	return out
}

// microVersions lists all micro versions in ascending order.
func (t *tree) microVersions() []version.Version {
	var out []version.Version
	for _, x := range t.majors {
		for _, y := range t.minors[x] {
			for _, z := range t.micros[minorKey{x, y}] {
				out = append(out, version.NewMicro(x, y, z))
			}
		}
	}
	return out
}

// childrenOf returns the ordered immediate subversions of v. A known micro
// version has zero children; an unknown version is an error.
func (t *tree) childrenOf(v version.Version) ([]version.Version, error) {
	if !t.has(v) {
		return nil, &UnknownVersionError{Version: v.String()}
	}
	switch v.Level() {
	case version.Major:
		ys := t.minors[v.X()]
		out := make([]version.Version, 0, len(ys))
		for _, y := range ys {
			out = append(out, version.NewMinor(v.X(), y))
		}
		return out, nil
	case version.Minor:
		zs := t.micros[minorKey{v.X(), v.Y()}]
		out := make([]version.Version, 0, len(zs))
		for _, z := range zs {
			out = append(out, version.NewMicro(v.X(), v.Y(), z))
		}
		return out, nil
	default:
		return nil, nil
	}
}

// microsUnder returns, in ascending order, every micro version at or below
// v: v itself at micro level, a minor's micro children, or all micros under
// a major. Unknown versions are an error.
func (t *tree) microsUnder(v version.Version) ([]version.Version, error) {
	if !t.has(v) {
		return nil, &UnknownVersionError{Version: v.String()}
	}
	switch v.Level() {
	case version.Micro:
		return []version.Version{v}, nil
	case version.Minor:
		zs := t.micros[minorKey{v.X(), v.Y()}]
		out := make([]version.Version, 0, len(zs))
		for _, z := range zs {
			out = append(out, version.NewMicro(v.X(), v.Y(), z))
		}
		return out, nil
	default:
		var out []version.Version
		for _, y := range t.minors[v.X()] {
			for _, z := range t.micros[minorKey{v.X(), y}] {
				out = append(out, version.NewMicro(v.X(), y, z))
			}
		}
		return out, nil
	}
}

// releaseDateOf resolves v's release record. For minor and major versions
// this is the record of the numerically smallest micro descendant. A known
// version with no dated descendant resolves to an undated record rather
// than an error; only a version absent from the tree errors.
func (t *tree) releaseDateOf(v version.Version) (release, error) {
	if !t.has(v) {
		return release{}, &UnknownVersionError{Version: v.String()}
	}
	k, ok := t.firstMicro(v)
	if !ok {
		// A series known only from its EOL marker: released, date unknown.
		return release{state: releaseUndated}, nil
	}
	return t.releases[k], nil
}

// firstMicro finds the numerically smallest micro descendant of v. The
// second return is false when v has no micro descendants.
func (t *tree) firstMicro(v version.Version) (microKey, bool) {
	switch v.Level() {
	case version.Micro:
		return microKey{v.X(), v.Y(), v.Z()}, true
	case version.Minor:
		zs := t.micros[minorKey{v.X(), v.Y()}]
		if len(zs) == 0 {
			return microKey{}, false
		}
		return microKey{v.X(), v.Y(), zs[0]}, true
	default:
		// Recurse into the smallest minor series only: if that series has
		// no dated micros, the major's date is unknown, not the next
		// series' date.
		ys := t.minors[v.X()]
		if len(ys) == 0 {
			return microKey{}, false
		}
		zs := t.micros[minorKey{v.X(), ys[0]}]
		if len(zs) == 0 {
			return microKey{}, false
		}
		return microKey{v.X(), ys[0], zs[0]}, true
	}
}

// eolOf returns the EOL state of the minor series enclosing v. Micro
// versions are normalized to their parent series; major versions are not
// accepted here (the engine aggregates over their minors instead).
func (t *tree) eolOf(v version.Version) (EOL, error) {
	k := minorKey{v.X(), v.Y()}
	e, ok := t.eol[k]
	if !ok {
		return EOL{}, &UnknownVersionError{Version: v.String()}
	}
	return e, nil
}
