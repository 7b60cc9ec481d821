// Package pyverinfo answers questions about CPython and PyPy releases:
// which versions exist, when they were or will be released, whether they
// are still supported, and when they reach end-of-life.
//
// Answers come from a version database, a JSON document published out of
// band and loaded from a file or over HTTP. Basic usage:
//
//	import (
//		"context"
//		"github.com/pyverinfo/pyverinfo"
//	)
//
//	db, err := pyverinfo.Fetch(context.Background(), "", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Println(db.CPython.SupportedSeries())
//
//	eol, err := db.CPython.EOLDate("3.9")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(eol.Kind, eol.Date)
//
// All query methods answer relative to a clock fixed at construction;
// pass WithNow to pin it for reproducible results.
package pyverinfo

import (
	"context"

	"github.com/pyverinfo/pyverinfo/fetch"
	"github.com/pyverinfo/pyverinfo/internal/core"
	"github.com/pyverinfo/pyverinfo/schema"
)

// Re-export types from internal/core
type (
	// Database holds the query engines for both version families.
	Database = core.Database

	// SeriesInfo answers queries about one family's version tree.
	SeriesInfo = core.SeriesInfo

	// PyPyInfo extends SeriesInfo with CPython target queries.
	PyPyInfo = core.PyPyInfo

	// EOL is the end-of-life state of a version series.
	EOL = core.EOL

	// EOLKind tags the three end-of-life states.
	EOLKind = core.EOLKind

	// Filter selects which subversions a cross-family query considers.
	Filter = core.Filter

	// UnknownVersionError reports a version absent from the catalog.
	UnknownVersionError = core.UnknownVersionError
)

// Re-export constants
const (
	NotEOL     = core.NotEOL
	EOLUndated = core.EOLUndated
	EOLOn      = core.EOLOn

	FilterAll       = core.FilterAll
	FilterNotEOL    = core.FilterNotEOL
	FilterReleased  = core.FilterReleased
	FilterSupported = core.FilterSupported
)

// Re-export errors
var (
	ErrUnknownVersion = core.ErrUnknownVersion
)

// Option configures Database construction.
type Option = core.Option

// WithNow injects the clock used for release, support, and EOL queries.
var WithNow = core.WithNow

// ParseFilter parses a filter name ("all", "not-eol", "released",
// "supported") into a Filter.
var ParseFilter = core.ParseFilter

// Fetcher retrieves the version database over HTTP with retries and an
// on-disk cache.
type Fetcher = fetch.Fetcher

// DefaultURL is the upstream location of the version database.
const DefaultURL = fetch.DefaultURL

// FetchOption configures a Fetcher.
type FetchOption = fetch.Option

var (
	WithHTTPClient = fetch.WithHTTPClient
	WithUserAgent  = fetch.WithUserAgent
	WithMaxRetries = fetch.WithMaxRetries
	WithCacheDir   = fetch.WithCacheDir
	WithoutCache   = fetch.WithoutCache
)

// NewFetcher creates a Fetcher with the given options.
func NewFetcher(opts ...FetchOption) *Fetcher {
	return fetch.NewFetcher(opts...)
}

// NewDatabase builds a Database from a decoded document.
func NewDatabase(doc *schema.Document, opts ...Option) (*Database, error) {
	return core.NewDatabase(doc, opts...)
}

// Parse builds a Database from raw JSON.
func Parse(data []byte, opts ...Option) (*Database, error) {
	doc, err := schema.Parse(data)
	if err != nil {
		return nil, err
	}
	return core.NewDatabase(doc, opts...)
}

// ParseFile builds a Database from a JSON file on disk.
func ParseFile(path string, opts ...Option) (*Database, error) {
	doc, err := schema.Load(path)
	if err != nil {
		return nil, err
	}
	return core.NewDatabase(doc, opts...)
}

// Fetch builds a Database from a source, which may be empty (use
// DefaultURL), an HTTP or HTTPS URL, or a local file path. If f is nil a
// default Fetcher is used for remote sources.
func Fetch(ctx context.Context, source string, f *Fetcher, opts ...Option) (*Database, error) {
	s := fetch.ResolveSource(source)
	if !s.Remote() {
		return ParseFile(s.Location(), opts...)
	}
	if f == nil {
		f = fetch.NewFetcher()
	}
	body, err := f.Fetch(ctx, s.Location())
	if err != nil {
		return nil, err
	}
	return Parse(body, opts...)
}
