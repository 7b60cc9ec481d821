package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pyverinfo/pyverinfo"
	"github.com/pyverinfo/pyverinfo/schema"
	"github.com/pyverinfo/pyverinfo/version"
)

// field is one line of show output. value is a string, bool, []string, or
// nil for an unknown date.
type field struct {
	key   string
	label string
	value any
}

func buildFields(db *pyverinfo.Database, info versionInfo, pypy bool, spec string, mode pyverinfo.Filter) ([]field, error) {
	v, err := version.Parse(spec)
	if err != nil {
		return nil, err
	}
	vs := v.String()

	releaseDate, err := info.ReleaseDate(vs)
	if err != nil {
		return nil, err
	}
	released, err := info.IsReleased(vs)
	if err != nil {
		return nil, err
	}
	supported, err := info.IsSupported(vs)
	if err != nil {
		return nil, err
	}
	eol, err := info.EOLDate(vs)
	if err != nil {
		return nil, err
	}
	isEOL, err := info.IsEOL(vs)
	if err != nil {
		return nil, err
	}

	fields := []field{
		{"version", "Version", vs},
		{"level", "Level", v.Level().String()},
		{"release_date", "Release-Date", dateValue(releaseDate)},
		{"is_released", "Is-Released", released},
		{"is_supported", "Is-Supported", supported},
		{"eol_date", "EOL-Date", eolValue(eol)},
		{"is_eol", "Is-EOL", isEOL},
	}

	if v.Level() == version.Micro {
		if pypy {
			targets, err := db.PyPy.CPythonVersions(vs)
			if err != nil {
				return nil, err
			}
			fields = append(fields, field{"cpython", "CPython", listValue(targets)})
		}
		return fields, nil
	}

	subs, err := info.Subversions(vs)
	if err != nil {
		return nil, err
	}
	subs, err = filterVersions(info, mode, subs)
	if err != nil {
		return nil, err
	}
	fields = append(fields, field{"subversions", "Subversions", listValue(subs)})

	if pypy {
		series, err := db.PyPy.CPythonSeries(vs, mode)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field{"cpython_series", "CPython-Series", listValue(series)})
	}
	return fields, nil
}

// dateValue maps a zero time to nil, rendered as UNKNOWN / null.
func dateValue(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(schema.DateFormat)
}

func eolValue(e pyverinfo.EOL) any {
	if e.Kind == pyverinfo.EOLOn {
		return e.Date.Format(schema.DateFormat)
	}
	return nil
}

func listValue(vs []string) []string {
	if vs == nil {
		return []string{}
	}
	return vs
}

func renderText(w io.Writer, fields []field) {
	for _, f := range fields {
		switch val := f.value.(type) {
		case nil:
			fmt.Fprintf(w, "%s: UNKNOWN\n", f.label)
		case bool:
			if val {
				fmt.Fprintf(w, "%s: yes\n", f.label)
			} else {
				fmt.Fprintf(w, "%s: no\n", f.label)
			}
		case []string:
			fmt.Fprintf(w, "%s: %s\n", f.label, strings.Join(val, ", "))
		default:
			fmt.Fprintf(w, "%s: %v\n", f.label, val)
		}
	}
}

// renderJSON writes the fields as a JSON object in display order.
func renderJSON(w io.Writer, fields []field) error {
	var b strings.Builder
	b.WriteString("{\n")
	for i, f := range fields {
		val, err := json.Marshal(f.value)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "    %q: %s", f.key, val)
		if i < len(fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}
