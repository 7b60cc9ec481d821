package core

import (
	"errors"
	"reflect"
	"testing"
)

func TestCPythonVersions(t *testing.T) {
	pp := testDB(t).PyPy

	tests := []struct {
		v    string
		want []string
	}{
		{"7.3.4", []string{"2.7.18", "3.7.10"}},
		{"7.2.0", []string{"2.7.13", "3.5.10", "3.6.9"}},
		// Union over the series' micros, deduplicated, numerically ordered.
		{"7.3", []string{"2.7.13", "2.7.18", "3.6.9", "3.6.12", "3.7.9", "3.7.10", "3.8.6", "3.9.5"}},
		{"7", []string{"2.7.13", "2.7.18", "3.5.10", "3.6.9", "3.6.12", "3.7.9", "3.7.10", "3.8.6", "3.9.5"}},
	}
	for _, tt := range tests {
		got, err := pp.CPythonVersions(tt.v)
		if err != nil {
			t.Errorf("CPythonVersions(%q) failed: %v", tt.v, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("CPythonVersions(%q) = %v, want %v", tt.v, got, tt.want)
		}
	}

	var uvErr *UnknownVersionError
	if _, err := pp.CPythonVersions("7.3.99"); !errors.As(err, &uvErr) || uvErr.Version != "7.3.99" {
		t.Errorf("CPythonVersions(7.3.99) error = %v, want UnknownVersionError carrying \"7.3.99\"", err)
	}
}

func TestCPythonSeries(t *testing.T) {
	pp := testDB(t).PyPy

	tests := []struct {
		v      string
		filter Filter
		want   []string
	}{
		{"7.3.4", FilterAll, []string{"2.7", "3.7"}},
		// Identical declarations across the micros collapse to one set.
		{"7.3", FilterAll, []string{"2.7", "3.6", "3.7", "3.8", "3.9"}},
		// 7.3.5 is unreleased; its 3.9 target drops out.
		{"7.3", FilterReleased, []string{"2.7", "3.6", "3.7", "3.8"}},
		{"7", FilterAll, []string{"2.7", "3.5", "3.6", "3.7", "3.8", "3.9"}},
		// 7.2 is EOL; its 3.5 target drops out, unreleased 7.3.5 stays.
		{"7", FilterNotEOL, []string{"2.7", "3.6", "3.7", "3.8", "3.9"}},
		{"7", FilterReleased, []string{"2.7", "3.5", "3.6", "3.7", "3.8"}},
		// Supported = released and series not EOL.
		{"7", FilterSupported, []string{"2.7", "3.6", "3.7", "3.8"}},
	}
	for _, tt := range tests {
		got, err := pp.CPythonSeries(tt.v, tt.filter)
		if err != nil {
			t.Errorf("CPythonSeries(%q, %v) failed: %v", tt.v, tt.filter, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("CPythonSeries(%q, %v) = %v, want %v", tt.v, tt.filter, got, tt.want)
		}
	}

	if _, err := pp.CPythonSeries("8.0", FilterAll); err == nil {
		t.Error("CPythonSeries(8.0) succeeded for unknown version")
	}
}

func TestSupportingSeries(t *testing.T) {
	pp := testDB(t).PyPy

	tests := []struct {
		series string
		want   []string
	}{
		{"3.7", []string{"7.3"}},
		{"2.7", []string{"7.3"}}, // 7.2 also targets 2.7 but is EOL
		{"3.9", nil},             // only targeted by the unreleased 7.3.5
	}
	for _, tt := range tests {
		got, err := pp.SupportingSeries(tt.series)
		if err != nil {
			t.Errorf("SupportingSeries(%q) failed: %v", tt.series, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SupportingSeries(%q) = %v, want %v", tt.series, got, tt.want)
		}
	}

	var uvErr *UnknownVersionError
	if _, err := pp.SupportingSeries("9.9"); !errors.As(err, &uvErr) || uvErr.Version != "9.9" {
		t.Errorf("SupportingSeries(9.9) error = %v, want UnknownVersionError carrying \"9.9\"", err)
	}
	if _, err := pp.SupportingSeries("3.7.1"); err == nil || errors.Is(err, ErrUnknownVersion) {
		t.Errorf("SupportingSeries(3.7.1) error = %v, want a non-catalog error", err)
	}
}

func TestDanglingTargetsPassThrough(t *testing.T) {
	// 3.6.x targets have no CPython catalog entries; they are reported
	// as declared rather than validated.
	pp := testDB(t).PyPy
	got, err := pp.CPythonVersions("7.3.0")
	if err != nil {
		t.Fatalf("CPythonVersions(7.3.0) failed: %v", err)
	}
	want := []string{"2.7.13", "3.6.9"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CPythonVersions(7.3.0) = %v, want %v", got, want)
	}
}

func TestParseFilter(t *testing.T) {
	for s, want := range map[string]Filter{
		"all":       FilterAll,
		"not-eol":   FilterNotEOL,
		"released":  FilterReleased,
		"supported": FilterSupported,
	} {
		got, err := ParseFilter(s)
		if err != nil || got != want {
			t.Errorf("ParseFilter(%q) = %v, %v; want %v", s, got, err, want)
		}
	}
	if _, err := ParseFilter("everything"); err == nil {
		t.Error("ParseFilter accepted an invalid name")
	}
}
