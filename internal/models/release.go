package models

import (
	"fmt"
	"strings"
)

// ReleaseLevel is the kind of version bump a commit or a release calls for.
// The zero value is not a valid level.
type ReleaseLevel int

const (
	Patch ReleaseLevel = iota + 1
	Minor
	Major
)

var levelNames = map[ReleaseLevel]string{
	Major: "major",
	Minor: "minor",
	Patch: "patch",
}

// Levels returns every release level in precedence order, highest first.
func Levels() []ReleaseLevel {
	return []ReleaseLevel{Major, Minor, Patch}
}

// ParseReleaseLevel converts a lowercase level name. Matching is case-sensitive.
func ParseReleaseLevel(s string) (ReleaseLevel, error) {
	for level, name := range levelNames {
		if name == s {
			return level, nil
		}
	}
	return 0, fmt.Errorf("unknown release level %q", s)
}

func (l ReleaseLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("ReleaseLevel(%d)", int(l))
}

// Valid reports whether l is one of Major, Minor or Patch.
func (l ReleaseLevel) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

// Higher returns the level with the greater precedence.
func Higher(a, b ReleaseLevel) ReleaseLevel {
	if a > b {
		return a
	}
	return b
}

// LevelPtr returns a pointer to a copy of l.
func LevelPtr(l ReleaseLevel) *ReleaseLevel {
	return &l
}

type (
	// Commit is a single commit gathered since the last published tag.
	// Level stays nil until aggregation resolves it.
	Commit struct {
		Hash    string
		Message string
		Level   *ReleaseLevel
	}

	// RepositoryTag is a tag as reported by the hosting service.
	RepositoryTag struct {
		Name string
		SHA  string
	}

	// Release is the outcome of analysing the commits since the last tag.
	Release struct {
		PreviousVersion string
		Version         string
		// Level is nil when no commit matched any rule.
		Level   *ReleaseLevel
		Commits []Commit
		Counts  LevelCounts
	}

	// LevelCounts records how many commits resolved to each level.
	// Only presence matters for the decision.
	LevelCounts struct {
		Major     int
		Minor     int
		Patch     int
		Unmatched int
	}

	// ReleaseNotes is the rendered body of a release.
	ReleaseNotes struct {
		Title     string
		Summary   string
		Changelog string
	}

	VCSRelease struct {
		TagName string
		Name    string
		Body    string
		Target  string
		Draft   bool
	}
)

// ShortHash returns the first eight characters of the hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) <= 8 {
		return c.Hash
	}
	return c.Hash[:8]
}

// Header returns the first line of the commit message.
func (c Commit) Header() string {
	header, _, _ := strings.Cut(c.Message, "\n")
	return strings.TrimRight(header, "\r")
}

// Add increments the counter for level.
func (c *LevelCounts) Add(level *ReleaseLevel) {
	if level == nil {
		c.Unmatched++
		return
	}
	switch *level {
	case Major:
		c.Major++
	case Minor:
		c.Minor++
	case Patch:
		c.Patch++
	}
}

// Merge adds other's counters into c.
func (c *LevelCounts) Merge(other LevelCounts) {
	c.Major += other.Major
	c.Minor += other.Minor
	c.Patch += other.Patch
	c.Unmatched += other.Unmatched
}

// Decision reduces the counters to a single level using Major > Minor > Patch
// precedence. It returns nil when nothing matched.
func (c LevelCounts) Decision() *ReleaseLevel {
	switch {
	case c.Major > 0:
		return LevelPtr(Major)
	case c.Minor > 0:
		return LevelPtr(Minor)
	case c.Patch > 0:
		return LevelPtr(Patch)
	default:
		return nil
	}
}

// HasRelease reports whether the analysis resolved a release level.
func (r *Release) HasRelease() bool {
	return r != nil && r.Level != nil
}

// CommitsAt returns the commits resolved to level, in their original order.
func (r *Release) CommitsAt(level ReleaseLevel) []Commit {
	var out []Commit
	for _, c := range r.Commits {
		if c.Level != nil && *c.Level == level {
			out = append(out, c)
		}
	}
	return out
}

// Body is the text published with a release: the summary, when there is one,
// above the changelog section.
func (n ReleaseNotes) Body() string {
	if n.Summary == "" {
		return n.Changelog
	}
	return n.Summary + "\n\n" + n.Changelog
}
