package core

import (
	"fmt"
	"sort"

	"github.com/pyverinfo/pyverinfo/version"
)

// Filter selects which of a version's micro subversions contribute to a
// cross-family query, judged against the subversions' own catalog.
type Filter int

const (
	// FilterAll considers every known subversion.
	FilterAll Filter = iota
	// FilterNotEOL considers subversions whose series is not end-of-life.
	FilterNotEOL
	// FilterReleased considers released subversions.
	FilterReleased
	// FilterSupported considers currently supported subversions.
	FilterSupported
)

func (f Filter) String() string {
	switch f {
	case FilterAll:
		return "all"
	case FilterNotEOL:
		return "not-eol"
	case FilterReleased:
		return "released"
	case FilterSupported:
		return "supported"
	default:
		return fmt.Sprintf("Filter(%d)", int(f))
	}
}

// ParseFilter converts the textual filter names used on the query surface.
func ParseFilter(s string) (Filter, error) {
	switch s {
	case "all":
		return FilterAll, nil
	case "not-eol":
		return FilterNotEOL, nil
	case "released":
		return FilterReleased, nil
	case "supported":
		return FilterSupported, nil
	default:
		return 0, fmt.Errorf("invalid filter: %q", s)
	}
}

// PyPyInfo is the PyPy catalog's query engine plus the cross-family layer:
// each PyPy micro version declares which CPython micro versions it targets,
// and queries resolve those declarations against both catalogs.
//
// Declared targets are not validated against the CPython catalog; a target
// absent from it passes through as-is.
type PyPyInfo struct {
	*SeriesInfo
	cpython *SeriesInfo
	targets map[microKey][]version.Version // per-micro, ascending
}

func newPyPyInfo(s, cpython *SeriesInfo, targets map[microKey][]version.Version) *PyPyInfo {
	for _, ts := range targets {
		sort.Slice(ts, func(i, j int) bool { return version.Compare(ts[i], ts[j]) < 0 })
	}
	return &PyPyInfo{SeriesInfo: s, cpython: cpython, targets: targets}
}

// CPythonVersions returns the CPython micro versions targeted by v, in
// ascending order. A micro version reports its own declaration; a minor or
// major version reports the deduplicated union over its micro descendants
// that carry one.
func (p *PyPyInfo) CPythonVersions(v string) ([]string, error) {
	id, err := version.Parse(v)
	if err != nil {
		return nil, err
	}
	if id.Level() == version.Micro {
		ts, ok := p.targets[microKey{id.X(), id.Y(), id.Z()}]
		if !ok {
			return nil, &UnknownVersionError{Version: v}
		}
		return strversions(ts), nil
	}
	micros, err := p.t.microsUnder(id)
	if err != nil {
		return nil, &UnknownVersionError{Version: v}
	}
	seen := make(map[version.Version]bool)
	var union []version.Version
	for _, m := range micros {
		for _, t := range p.targets[microKey{m.X(), m.Y(), m.Z()}] {
			if !seen[t] {
				seen[t] = true
				union = append(union, t)
			}
		}
	}
	sort.Slice(union, func(i, j int) bool { return version.Compare(union[i], union[j]) < 0 })
	return strversions(union), nil
}

// CPythonSeries returns, in ascending order, the CPython series (minor
// versions) targeted by the subversions of v selected by the filter. A
// micro-level v stands for itself and must carry a declaration; minor- and
// major-level queries take the union over their declared micro descendants.
func (p *PyPyInfo) CPythonSeries(v string, f Filter) ([]string, error) {
	id, err := version.Parse(v)
	if err != nil {
		return nil, err
	}
	if id.Level() == version.Micro {
		if _, ok := p.targets[microKey{id.X(), id.Y(), id.Z()}]; !ok {
			return nil, &UnknownVersionError{Version: v}
		}
	}
	micros, err := p.t.microsUnder(id)
	if err != nil {
		return nil, &UnknownVersionError{Version: v}
	}
	seen := make(map[version.Version]bool)
	var series []version.Version
	for _, m := range micros {
		keep, err := p.selects(f, m)
		if err != nil {
			return nil, err
		}
		if !keep {
			continue
		}
		for _, t := range p.targets[microKey{m.X(), m.Y(), m.Z()}] {
			s := t.AsMinor()
			if !seen[s] {
				seen[s] = true
				series = append(series, s)
			}
		}
	}
	sort.Slice(series, func(i, j int) bool { return version.Compare(series[i], series[j]) < 0 })
	return strversions(series), nil
}

// selects applies the filter to one PyPy micro version.
func (p *PyPyInfo) selects(f Filter, m version.Version) (bool, error) {
	switch f {
	case FilterAll:
		return true, nil
	case FilterReleased:
		return p.isReleased(m)
	case FilterNotEOL:
		eol, err := p.isEOL(m, m.String())
		return !eol, err
	case FilterSupported:
		return p.isSupported(m, m.String())
	default:
		return false, fmt.Errorf("invalid filter: %v", f)
	}
}

// SupportingSeries returns, in ascending order, the PyPy series with at
// least one currently supported micro version targeting the given CPython
// series. The series must exist in the CPython catalog.
func (p *PyPyInfo) SupportingSeries(cpythonSeries string) ([]string, error) {
	id, err := version.Parse(cpythonSeries)
	if err != nil {
		return nil, err
	}
	if id.Level() != version.Minor {
		return nil, fmt.Errorf("not a version series: %q", cpythonSeries)
	}
	if !p.cpython.t.has(id) {
		return nil, &UnknownVersionError{Version: cpythonSeries}
	}

	var out []string
	for _, series := range p.t.minorVersions() {
		zs := p.t.micros[minorKey{series.X(), series.Y()}]
		for _, z := range zs {
			m := version.NewMicro(series.X(), series.Y(), z)
			ok, err := p.isSupported(m, m.String())
			if err != nil || !ok {
				continue
			}
			if p.targetsSeries(microKey{m.X(), m.Y(), m.Z()}, id) {
				out = append(out, series.String())
				break
			}
		}
	}
	return out, nil
}

func (p *PyPyInfo) targetsSeries(k microKey, series version.Version) bool {
	for _, t := range p.targets[k] {
		if t.AsMinor() == series {
			return true
		}
	}
	return false
}
