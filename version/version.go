// Package version provides level-tagged dotted version identifiers.
//
// An identifier has one, two, or three numeric components ("3", "3.9",
// "3.9.1"); the component count is its level. A major identifier is not the
// same identifier as its ".0.0" micro: the level is part of identity, and
// comparisons are only defined between identifiers of the same level.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Level is the precision of a version identifier.
type Level int

const (
	Major Level = iota + 1
	Minor
	Micro
)

func (l Level) String() string {
	switch l {
	case Major:
		return "major"
	case Minor:
		return "minor"
	case Micro:
		return "micro"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// ErrNoParent is returned by Parent on a major-level identifier.
var ErrNoParent = errors.New("major version has no parent")

// Version is an immutable dotted version identifier at major, minor, or
// micro precision. The zero value is not a valid identifier; use Parse or
// one of the constructors.
type Version struct {
	x, y, z int
	level   Level
}

// Parse converts a string of the form "X", "X.Y", or "X.Y.Z" into a
// Version. Components must be non-negative decimal integers.
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return Version{}, fmt.Errorf("invalid version string: %q", s)
	}
	var c [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || p != strconv.Itoa(n) {
			return Version{}, fmt.Errorf("invalid version string: %q", s)
		}
		c[i] = n
	}
	return Version{x: c[0], y: c[1], z: c[2], level: Level(len(parts))}, nil
}

// MustParse is Parse for known-good literals; it panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// NewMajor constructs a major-level identifier.
func NewMajor(x int) Version {
	return Version{x: x, level: Major}
}

// NewMinor constructs a minor-level identifier.
func NewMinor(x, y int) Version {
	return Version{x: x, y: y, level: Minor}
}

// NewMicro constructs a micro-level identifier.
func NewMicro(x, y, z int) Version {
	return Version{x: x, y: y, z: z, level: Micro}
}

// Level reports the identifier's precision.
func (v Version) Level() Level {
	return v.level
}

// String renders the identifier with exactly its present components.
func (v Version) String() string {
	switch v.level {
	case Major:
		return strconv.Itoa(v.x)
	case Minor:
		return fmt.Sprintf("%d.%d", v.x, v.y)
	case Micro:
		return fmt.Sprintf("%d.%d.%d", v.x, v.y, v.z)
	default:
		return ""
	}
}

// X returns the major component.
func (v Version) X() int { return v.x }

// Y returns the minor component; zero for major-level identifiers.
func (v Version) Y() int { return v.y }

// Z returns the micro component; zero below micro level.
func (v Version) Z() int { return v.z }

// Parent returns the identifier one level up: micro → minor, minor → major.
// Major identifiers have no parent.
func (v Version) Parent() (Version, error) {
	switch v.level {
	case Micro:
		return Version{x: v.x, y: v.y, level: Minor}, nil
	case Minor:
		return Version{x: v.x, level: Major}, nil
	default:
		return Version{}, ErrNoParent
	}
}

// AsMajor truncates the identifier to major precision.
func (v Version) AsMajor() Version {
	return Version{x: v.x, level: Major}
}

// AsMinor truncates the identifier to minor precision. For a major-level
// identifier the minor component is zero.
func (v Version) AsMinor() Version {
	return Version{x: v.x, y: v.y, level: Minor}
}

// Compare orders two identifiers by their components, left to right, as
// integers (so 3.10 sorts after 3.9). A shorter identifier that is a prefix
// of a longer one sorts first.
func Compare(a, b Version) int {
	ap, bp := a.parts(), b.parts()
	for i := 0; i < len(ap) && i < len(bp); i++ {
		if ap[i] != bp[i] {
			if ap[i] < bp[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(ap) < len(bp):
		return -1
	case len(ap) > len(bp):
		return 1
	default:
		return 0
	}
}

func (v Version) parts() []int {
	switch v.level {
	case Major:
		return []int{v.x}
	case Minor:
		return []int{v.x, v.y}
	default:
		return []int{v.x, v.y, v.z}
	}
}
