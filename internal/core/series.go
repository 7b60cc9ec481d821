package core

import (
	"time"

	"github.com/pyverinfo/pyverinfo/version"
)

// SeriesInfo answers release, support, and end-of-life queries over one
// version family's catalog. All query methods take the version as a string,
// parse it, and return an *UnknownVersionError carrying that exact string
// when the version has no entry in the catalog at its own level.
//
// The catalog is immutable after construction, so a SeriesInfo is safe for
// concurrent use. "Now" is read through an injected clock fixed at
// construction; the same (catalog, clock) pair always produces the same
// answers.
type SeriesInfo struct {
	t   *tree
	now func() time.Time
}

func newSeriesInfo(t *tree, now func() time.Time) *SeriesInfo {
	if now == nil {
		now = time.Now
	}
	return &SeriesInfo{t: t, now: now}
}

// MajorVersions lists every known major version in ascending order.
func (s *SeriesInfo) MajorVersions() []string {
	return strversions(s.t.majorVersions())
}

// MinorVersions lists every known minor version in ascending order.
func (s *SeriesInfo) MinorVersions() []string {
	return strversions(s.t.minorVersions())
}

// MicroVersions lists every known micro version in ascending order.
func (s *SeriesInfo) MicroVersions() []string {
	return strversions(s.t.microVersions())
}

// Subversions lists the immediate subversions of v in ascending order:
// the minor series of a major, the micro versions of a minor. A known
// micro version has no subversions.
func (s *SeriesInfo) Subversions(v string) ([]string, error) {
	id, err := s.parse(v)
	if err != nil {
		return nil, err
	}
	children, err := s.t.childrenOf(id)
	if err != nil {
		return nil, err
	}
	return strversions(children), nil
}

// ReleaseDate returns the release date of v. For a minor or major version
// this is the release date of its smallest micro descendant. The zero time
// means the version is known but its date is not; use IsReleased to
// distinguish released-undated versions from unreleased ones.
func (s *SeriesInfo) ReleaseDate(v string) (time.Time, error) {
	id, err := s.parse(v)
	if err != nil {
		return time.Time{}, err
	}
	r, err := s.t.releaseDateOf(id)
	if err != nil {
		return time.Time{}, err
	}
	if r.state != releaseDated {
		return time.Time{}, nil
	}
	return r.date, nil
}

// IsReleased reports whether v has been released. A version whose release
// date is unknown but which appears in the catalog as released counts as
// released; a version dated in the future does not.
func (s *SeriesInfo) IsReleased(v string) (bool, error) {
	id, err := s.parse(v)
	if err != nil {
		return false, err
	}
	return s.isReleased(id)
}

func (s *SeriesInfo) isReleased(id version.Version) (bool, error) {
	r, err := s.t.releaseDateOf(id)
	if err != nil {
		return false, err
	}
	return r.releasedBy(s.now()), nil
}

// EOLDate returns the end-of-life state of v. For a minor series this is
// its stored state; a micro version reports its parent series. For a major
// version the verdict aggregates over its minor series: EOLOn with the
// latest date when every series has a dated EOL, EOLUndated when every
// series is EOL but not all are dated, and NotEOL otherwise (including a
// major with no minor series yet).
func (s *SeriesInfo) EOLDate(v string) (EOL, error) {
	id, err := s.parse(v)
	if err != nil {
		return EOL{}, err
	}
	return s.eolDate(id, v)
}

func (s *SeriesInfo) eolDate(id version.Version, orig string) (EOL, error) {
	if !s.t.has(id) {
		return EOL{}, &UnknownVersionError{Version: orig}
	}
	if id.Level() == version.Major {
		var agg EOL
		for _, y := range s.t.minors[id.X()] {
			e := s.t.eol[minorKey{id.X(), y}]
			switch e.Kind {
			case NotEOL:
				return EOL{Kind: NotEOL}, nil
			case EOLUndated:
				agg.Kind = EOLUndated
			case EOLOn:
				if agg.Kind != EOLUndated {
					agg.Kind = EOLOn
					if e.Date.After(agg.Date) {
						agg.Date = e.Date
					}
				}
			}
		}
		if agg.Kind == EOLUndated {
			agg.Date = time.Time{}
		}
		if len(s.t.minors[id.X()]) == 0 {
			return EOL{Kind: NotEOL}, nil
		}
		return agg, nil
	}
	e, err := s.t.eolOf(id)
	if err != nil {
		return EOL{}, &UnknownVersionError{Version: orig}
	}
	return e, nil
}

// IsEOL reports whether v has reached end-of-life. A minor series is EOL
// once its EOL date has passed or when it is marked EOL with an unknown
// date; a micro version follows its parent series; a major version is EOL
// only when all of its minor series are (and never while it has none).
func (s *SeriesInfo) IsEOL(v string) (bool, error) {
	id, err := s.parse(v)
	if err != nil {
		return false, err
	}
	return s.isEOL(id, v)
}

func (s *SeriesInfo) isEOL(id version.Version, orig string) (bool, error) {
	if !s.t.has(id) {
		return false, &UnknownVersionError{Version: orig}
	}
	if id.Level() == version.Major {
		ys := s.t.minors[id.X()]
		if len(ys) == 0 {
			return false, nil
		}
		now := s.now()
		for _, y := range ys {
			if !s.t.eol[minorKey{id.X(), y}].reachedBy(now) {
				return false, nil
			}
		}
		return true, nil
	}
	e, err := s.t.eolOf(id)
	if err != nil {
		return false, &UnknownVersionError{Version: orig}
	}
	return e.reachedBy(s.now()), nil
}

// IsSupported reports whether v is currently supported. A micro version is
// supported when it is released and its series is not EOL; a minor series
// when it is not EOL and has at least one released micro version; a major
// version when at least one of its series is supported. A major with no
// series yet is unsupported, never an error.
func (s *SeriesInfo) IsSupported(v string) (bool, error) {
	id, err := s.parse(v)
	if err != nil {
		return false, err
	}
	return s.isSupported(id, v)
}

func (s *SeriesInfo) isSupported(id version.Version, orig string) (bool, error) {
	if !s.t.has(id) {
		return false, &UnknownVersionError{Version: orig}
	}
	switch id.Level() {
	case version.Major:
		for _, y := range s.t.minors[id.X()] {
			child := version.NewMinor(id.X(), y)
			ok, err := s.isSupported(child, child.String())
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case version.Minor:
		eol, err := s.isEOL(id, orig)
		if err != nil || eol {
			return false, err
		}
		now := s.now()
		for _, z := range s.t.micros[minorKey{id.X(), id.Y()}] {
			if s.t.releases[microKey{id.X(), id.Y(), z}].releasedBy(now) {
				return true, nil
			}
		}
		return false, nil
	default:
		eol, err := s.isEOL(id.AsMinor(), orig)
		if err != nil || eol {
			return false, err
		}
		return s.isReleased(id)
	}
}

// SupportedSeries lists, in ascending order, every minor series that is
// currently supported.
func (s *SeriesInfo) SupportedSeries() []string {
	var out []string
	for _, id := range s.t.minorVersions() {
		ok, err := s.isSupported(id, id.String())
		if err == nil && ok {
			out = append(out, id.String())
		}
	}
	return out
}

func (s *SeriesInfo) parse(v string) (version.Version, error) {
	return version.Parse(v)
}

func strversions(vs []version.Version) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}
