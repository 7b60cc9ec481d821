package core

import (
	"fmt"
	"time"

	"github.com/pyverinfo/pyverinfo/schema"
	"github.com/pyverinfo/pyverinfo/version"
)

// Database holds the query engines for both version families, built once
// from a validated document. Engines are read-only after construction; a
// fresher document is loaded into a new Database, never merged into an
// existing one.
type Database struct {
	// LastModified is the timestamp of the source document.
	LastModified time.Time
	// CPython answers queries about CPython versions.
	CPython *SeriesInfo
	// PyPy answers queries about PyPy versions and their CPython targets.
	PyPy *PyPyInfo
}

// Option configures Database construction.
type Option func(*config)

type config struct {
	now func() time.Time
}

// WithNow injects the clock used for release, support, and EOL
// comparisons. Queries never read wall-clock time through any other path,
// so a fixed clock makes every answer reproducible.
func WithNow(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// NewDatabase builds a Database from a decoded document.
func NewDatabase(doc *schema.Document, opts ...Option) (*Database, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	cpython, err := buildSeries(&doc.CPython, cfg.now)
	if err != nil {
		return nil, fmt.Errorf("cpython: %w", err)
	}
	pypy, err := buildSeries(&doc.PyPy, cfg.now)
	if err != nil {
		return nil, fmt.Errorf("pypy: %w", err)
	}
	targets, err := buildTargets(doc.PyPy.CPythonVersions)
	if err != nil {
		return nil, fmt.Errorf("pypy: %w", err)
	}

	return &Database{
		LastModified: doc.LastModified,
		CPython:      cpython,
		PyPy:         newPyPyInfo(pypy, cpython, targets),
	}, nil
}

func buildSeries(f *schema.Family, now func() time.Time) (*SeriesInfo, error) {
	releases := make(map[microKey]release, len(f.ReleaseDates))
	for s, md := range f.ReleaseDates {
		v, err := version.Parse(s)
		if err != nil || v.Level() != version.Micro {
			return nil, fmt.Errorf("release_dates: not a micro version: %q", s)
		}
		releases[microKey{v.X(), v.Y(), v.Z()}] = toRelease(md)
	}

	eol := make(map[minorKey]EOL, len(f.EOLDates))
	for s, md := range f.EOLDates {
		v, err := version.Parse(s)
		if err != nil || v.Level() != version.Minor {
			return nil, fmt.Errorf("eol_dates: not a minor version: %q", s)
		}
		eol[minorKey{v.X(), v.Y()}] = toEOL(md)
	}

	return newSeriesInfo(newTree(releases, eol), now), nil
}

func buildTargets(raw map[string][]string) (map[microKey][]version.Version, error) {
	targets := make(map[microKey][]version.Version, len(raw))
	for s, ts := range raw {
		v, err := version.Parse(s)
		if err != nil || v.Level() != version.Micro {
			return nil, fmt.Errorf("cpython_versions: not a micro version: %q", s)
		}
		parsed := make([]version.Version, 0, len(ts))
		for _, t := range ts {
			tv, err := version.Parse(t)
			if err != nil || tv.Level() != version.Micro {
				return nil, fmt.Errorf("cpython_versions[%s]: not a micro version: %q", s, t)
			}
			parsed = append(parsed, tv)
		}
		targets[microKey{v.X(), v.Y(), v.Z()}] = parsed
	}
	return targets, nil
}

// toRelease maps the wire union onto the release tri-state: a date is a
// dated release, true and null are released-with-unknown-date, false is
// announced-but-unreleased.
func toRelease(md schema.MaybeDate) release {
	switch {
	case md.HasDate:
		return release{state: releaseDated, date: md.Date}
	case md.Null || md.Flag:
		return release{state: releaseUndated}
	default:
		return release{state: releaseUnscheduled}
	}
}

// toEOL maps the wire union onto the EOL tri-state: a date is a scheduled
// or past EOL, true is EOL-on-an-unknown-date, null and false are
// not-yet-EOL.
func toEOL(md schema.MaybeDate) EOL {
	switch {
	case md.HasDate:
		return EOL{Kind: EOLOn, Date: md.Date}
	case md.Flag:
		return EOL{Kind: EOLUndated}
	default:
		return EOL{Kind: NotEOL}
	}
}
