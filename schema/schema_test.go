package schema

import (
	"strings"
	"testing"
	"time"
)

const sampleDoc = `{
  "last_modified": "2021-06-01T12:00:00+00:00",
  "cpython": {
    "release_dates": {
      "2.7.18": "2020-04-20",
      "3.9.5": "2021-05-03",
      "3.10.0": true,
      "3.11.0": false
    },
    "eol_dates": {
      "2.7": "2020-01-01",
      "3.9": null,
      "3.10": false,
      "3.5": true
    }
  },
  "pypy": {
    "release_dates": {
      "7.3.4": "2021-04-04"
    },
    "cpython_versions": {
      "7.3.4": ["2.7.18", "3.7.10"]
    }
  }
}`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got := doc.LastModified.UTC().Format(time.RFC3339); got != "2021-06-01T12:00:00Z" {
		t.Errorf("unexpected last_modified: %s", got)
	}

	rd := doc.CPython.ReleaseDates
	if md := rd["2.7.18"]; !md.HasDate || md.Date.Format(DateFormat) != "2020-04-20" {
		t.Errorf("2.7.18 release date decoded wrong: %+v", md)
	}
	if md := rd["3.10.0"]; md.HasDate || md.Null || !md.Flag {
		t.Errorf("boolean true decoded wrong: %+v", md)
	}
	if md := rd["3.11.0"]; md.HasDate || md.Null || md.Flag {
		t.Errorf("boolean false decoded wrong: %+v", md)
	}

	eol := doc.CPython.EOLDates
	if md := eol["3.9"]; !md.Null {
		t.Errorf("null EOL decoded wrong: %+v", md)
	}
	if md := eol["3.5"]; !md.Flag || md.HasDate {
		t.Errorf("true EOL decoded wrong: %+v", md)
	}

	if got := doc.PyPy.CPythonVersions["7.3.4"]; len(got) != 2 || got[0] != "2.7.18" {
		t.Errorf("cpython_versions decoded wrong: %v", got)
	}
}

func TestParseRejectsBadKeys(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			"minor key in release_dates",
			`{"last_modified":"2021-06-01T12:00:00Z","cpython":{"release_dates":{"3.9":"2021-05-03"}},"pypy":{"release_dates":{}}}`,
			"cpython.release_dates",
		},
		{
			"micro key in eol_dates",
			`{"last_modified":"2021-06-01T12:00:00Z","cpython":{"release_dates":{},"eol_dates":{"3.9.1":true}},"pypy":{"release_dates":{}}}`,
			"cpython.eol_dates",
		},
		{
			"malformed key",
			`{"last_modified":"2021-06-01T12:00:00Z","cpython":{"release_dates":{"3.9.x":true}},"pypy":{"release_dates":{}}}`,
			"cpython.release_dates",
		},
		{
			"series target in cpython_versions",
			`{"last_modified":"2021-06-01T12:00:00Z","cpython":{"release_dates":{}},"pypy":{"release_dates":{},"cpython_versions":{"7.3.4":["2.7"]}}}`,
			"pypy.cpython_versions",
		},
	}
	for _, tt := range tests {
		_, err := Parse([]byte(tt.doc))
		if err == nil {
			t.Errorf("%s: Parse succeeded, want error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: error %q does not mention %q", tt.name, err, tt.want)
		}
	}
}

func TestParseRejectsBadDates(t *testing.T) {
	doc := `{"last_modified":"2021-06-01T12:00:00Z","cpython":{"release_dates":{"3.9.1":"05/03/2021"}},"pypy":{"release_dates":{}}}`
	if _, err := Parse([]byte(doc)); err == nil {
		t.Error("Parse accepted a non-ISO date")
	}
	doc = `{"last_modified":"2021-06-01T12:00:00Z","cpython":{"release_dates":{"3.9.1":42}},"pypy":{"release_dates":{}}}`
	if _, err := Parse([]byte(doc)); err == nil {
		t.Error("Parse accepted a numeric date field")
	}
}

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(doc.CPython.ReleaseDates) != 4 {
		t.Errorf("expected 4 release dates, got %d", len(doc.CPython.ReleaseDates))
	}
}
