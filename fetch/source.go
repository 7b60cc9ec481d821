package fetch

import "strings"

// Source is a resolved database location: either a URL to fetch or a local
// file path.
type Source struct {
	location string
	remote   bool
}

// ResolveSource classifies a database location string. An empty string
// resolves to the default published document; http and https locations are
// remote; everything else is a local file path.
func ResolveSource(s string) Source {
	if s == "" {
		return Source{location: DefaultURL, remote: true}
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return Source{location: s, remote: true}
	}
	return Source{location: s, remote: false}
}

// Remote reports whether the source must be fetched over HTTP.
func (s Source) Remote() bool {
	return s.remote
}

// Location returns the URL or file path.
func (s Source) Location() string {
	return s.location
}
