// Package version parses, increments and renders `vMAJOR.MINOR.PATCH` tags.
//
// A tag string is either parsed into a Tag or rejected; there is no partial
// state. Increment moves one valid Tag to another and never fails.
package version

import (
	"fmt"
	"math"
	"strconv"

	domainErrors "github.com/Tomas-vilte/semrel/internal/errors"
	"github.com/Tomas-vilte/semrel/internal/models"
	"github.com/Tomas-vilte/semrel/internal/regex"
)

// Seed is the tag assumed by collaborators when a repository has no release yet.
const Seed = "v0.0.0"

// Tag is a parsed semantic version without pre-release or build metadata.
type Tag struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// Parse requires the whole string to be `v<major>.<minor>.<patch>`. A segment
// at math.MaxUint64 is rejected so that every parsed Tag can be incremented.
func Parse(s string) (Tag, error) {
	m := regex.SemVerTag.FindStringSubmatch(s)
	if m == nil {
		return Tag{}, domainErrors.ErrTagShape.WithContext("tag", s)
	}

	var tag Tag
	segments := []struct {
		name string
		dst  *uint64
	}{
		{"major", &tag.Major},
		{"minor", &tag.Minor},
		{"patch", &tag.Patch},
	}
	for _, seg := range segments {
		raw := m[regex.SemVerTag.SubexpIndex(seg.name)]
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return Tag{}, domainErrors.ErrTagSegment.WithError(err).
				WithContext("tag", s).
				WithContext("segment", seg.name)
		}
		if n == math.MaxUint64 {
			return Tag{}, domainErrors.ErrTagSegment.
				WithContext("tag", s).
				WithContext("segment", seg.name).
				WithContext("reason", "cannot be incremented")
		}
		*seg.dst = n
	}

	return tag, nil
}

// MustParse is Parse for constants known to be valid.
func MustParse(s string) Tag {
	tag, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return tag
}

// Increment returns the tag that follows t for level. Major resets minor and
// patch, Minor resets patch.
func (t Tag) Increment(level models.ReleaseLevel) Tag {
	switch level {
	case models.Major:
		return Tag{Major: t.Major + 1}
	case models.Minor:
		return Tag{Major: t.Major, Minor: t.Minor + 1}
	case models.Patch:
		return Tag{Major: t.Major, Minor: t.Minor, Patch: t.Patch + 1}
	default:
		panic(fmt.Sprintf("version: invalid release level %d", int(level)))
	}
}

func (t Tag) String() string {
	return fmt.Sprintf("v%d.%d.%d", t.Major, t.Minor, t.Patch)
}

// Compare orders tags by (major, minor, patch) and returns -1, 0 or +1.
func (t Tag) Compare(other Tag) int {
	for _, pair := range [][2]uint64{
		{t.Major, other.Major},
		{t.Minor, other.Minor},
		{t.Patch, other.Patch},
	} {
		switch {
		case pair[0] < pair[1]:
			return -1
		case pair[0] > pair[1]:
			return 1
		}
	}
	return 0
}

func (t Tag) Less(other Tag) bool {
	return t.Compare(other) < 0
}

// Next parses previous, increments it for level and renders the result.
func Next(previous string, level models.ReleaseLevel) (string, error) {
	tag, err := Parse(previous)
	if err != nil {
		return "", err
	}
	return tag.Increment(level).String(), nil
}
