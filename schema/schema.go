// Package schema defines the wire format of the version database document
// and validates it before it reaches the query engines.
//
// The document follows pyversion-info-data.v1.json: per-micro release dates,
// per-series end-of-life dates, and per-micro CPython correspondences for
// PyPy. Date-valued fields are a union of null, a boolean, and a
// "YYYY-MM-DD" string; MaybeDate keeps the three cases distinct.
package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pyverinfo/pyverinfo/version"
)

// DateFormat is the civil date layout used throughout the document.
const DateFormat = "2006-01-02"

// MaybeDate is the decoded form of a null | bool | "YYYY-MM-DD" field.
// Exactly one of the three cases holds: Null, a boolean Flag, or a Date.
type MaybeDate struct {
	Null    bool
	HasDate bool
	Date    time.Time // valid when HasDate
	Flag    bool      // valid when !Null && !HasDate
}

// UnmarshalJSON decodes null, true, false, or a "YYYY-MM-DD" string.
func (m *MaybeDate) UnmarshalJSON(data []byte) error {
	*m = MaybeDate{}
	switch string(data) {
	case "null":
		m.Null = true
		return nil
	case "true":
		m.Flag = true
		return nil
	case "false":
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date field must be null, a boolean, or a date string: %s", data)
	}
	d, err := time.ParseInLocation(DateFormat, s, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	m.HasDate = true
	m.Date = d
	return nil
}

// Family holds one version family's raw catalog.
type Family struct {
	// ReleaseDates maps micro version strings to their release dates.
	// A boolean marks a version whose date is unknown: true for released,
	// false for announced-but-unreleased. Null is equivalent to true.
	ReleaseDates map[string]MaybeDate `json:"release_dates"`

	// EOLDates maps minor series strings to end-of-life dates. True marks
	// a series that is EOL on an unknown date; null and false mark a
	// series that is not yet EOL. Optional; series without entries are
	// not yet EOL.
	EOLDates map[string]MaybeDate `json:"eol_dates,omitempty"`

	// CPythonVersions maps micro version strings to the CPython micro
	// versions they target. Present only for the PyPy family.
	CPythonVersions map[string][]string `json:"cpython_versions,omitempty"`
}

// Document is a fully decoded version database document.
type Document struct {
	LastModified time.Time `json:"last_modified"`
	CPython      Family    `json:"cpython"`
	PyPy         Family    `json:"pypy"`
}

// Parse decodes and validates a version database document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding version database: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, fmt.Errorf("invalid version database: %w", err)
	}
	return &doc, nil
}

// Decode reads and validates a version database document from r.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading version database: %w", err)
	}
	return Parse(data)
}

// Load parses a version database document from a file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func (d *Document) validate() error {
	if err := d.CPython.validate("cpython"); err != nil {
		return err
	}
	return d.PyPy.validate("pypy")
}

func (f *Family) validate(name string) error {
	for k := range f.ReleaseDates {
		if err := requireLevel(k, version.Micro); err != nil {
			return fmt.Errorf("%s.release_dates: %w", name, err)
		}
	}
	for k := range f.EOLDates {
		if err := requireLevel(k, version.Minor); err != nil {
			return fmt.Errorf("%s.eol_dates: %w", name, err)
		}
	}
	for k, targets := range f.CPythonVersions {
		if err := requireLevel(k, version.Micro); err != nil {
			return fmt.Errorf("%s.cpython_versions: %w", name, err)
		}
		for _, t := range targets {
			if err := requireLevel(t, version.Micro); err != nil {
				return fmt.Errorf("%s.cpython_versions[%s]: %w", name, k, err)
			}
		}
	}
	return nil
}

func requireLevel(s string, level version.Level) error {
	v, err := version.Parse(s)
	if err != nil {
		return err
	}
	if v.Level() != level {
		return fmt.Errorf("%q is not a %s version", s, level)
	}
	return nil
}
