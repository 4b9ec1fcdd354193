// Package semver implements the framework's version string handling:
// MAJOR.MINOR.PATCH with an optional alphanumeric prerelease tag, and the
// two-part compatibility rule used when a workspace manifest is checked
// against the running tool (patch is ignored, minor may only lag).
package semver

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var ErrInvalidVersion = errors.New("invalid version string")

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(-([a-zA-Z0-9]+))?$`)

type Version struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string
}

func Parse(s string) (Version, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	patch, err := strconv.Atoi(m[3])
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}

	return Version{
		Major:      major,
		Minor:      minor,
		Patch:      patch,
		Prerelease: m[5],
	}, nil
}

func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func Valid(s string) bool {
	return versionPattern.MatchString(s)
}

func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	return s
}

// Compare orders by major, minor, patch. A prerelease sorts below the
// release it precedes; two prereleases on the same base compare as strings.
func Compare(a, b Version) int {
	if a.Major != b.Major {
		return sign(a.Major - b.Major)
	}
	if a.Minor != b.Minor {
		return sign(a.Minor - b.Minor)
	}
	if a.Patch != b.Patch {
		return sign(a.Patch - b.Patch)
	}

	switch {
	case a.Prerelease == b.Prerelease:
		return 0
	case a.Prerelease == "":
		return 1
	case b.Prerelease == "":
		return -1
	case a.Prerelease < b.Prerelease:
		return -1
	default:
		return 1
	}
}

// Compatible reports whether a workspace written at version `have` can be
// handled by a tool at version `want`. Majors must match exactly and the
// workspace minor may not be ahead of the tool. Patch and prerelease are
// ignored.
func Compatible(have, want Version) bool {
	return have.Major == want.Major && have.Minor <= want.Minor
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
