// Package changelog renders release sections and prepends them to a markdown
// changelog file.
package changelog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	domainErrors "github.com/Tomas-vilte/semrel/internal/errors"
	"github.com/Tomas-vilte/semrel/internal/logger"
	"github.com/Tomas-vilte/semrel/internal/models"
	"github.com/spf13/afero"
)

// DefaultPath is relative to the working directory.
const DefaultPath = "changelogs/CHANGELOG.md"

const dateLayout = "2006-01-02"

var sectionTitles = map[models.ReleaseLevel]string{
	models.Major: "Major changes",
	models.Minor: "Minor changes",
	models.Patch: "Patch changes",
}

// Entry is everything a changelog section is built from.
type Entry struct {
	PreviousVersion string
	Version         string
	Date            time.Time
	// RepositoryURL is the web address used for compare and commit links,
	// e.g. https://github.com/owner/repo.
	RepositoryURL string
	Commits       []models.Commit
}

// NewEntry builds an Entry for a resolved release.
func NewEntry(release *models.Release, repositoryURL string, date time.Time) Entry {
	return Entry{
		PreviousVersion: release.PreviousVersion,
		Version:         release.Version,
		Date:            date,
		RepositoryURL:   strings.TrimSuffix(repositoryURL, "/"),
		Commits:         release.Commits,
	}
}

// Build renders the section for e. Levels without commits are omitted and
// unmatched commits never appear.
func Build(e Entry) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## [%s](%s/compare/%s..%s) (%s)\n\n",
		e.Version, e.RepositoryURL, e.PreviousVersion, e.Version, e.Date.Format(dateLayout))

	for _, level := range models.Levels() {
		first := true
		for _, c := range e.Commits {
			if c.Level == nil || *c.Level != level {
				continue
			}
			if first {
				fmt.Fprintf(&sb, "* **%s**\n", sectionTitles[level])
				first = false
			}
			fmt.Fprintf(&sb, " * %s ([%s](%s/commit/%s))\n", c.Header(), c.ShortHash(), e.RepositoryURL, c.Hash)
		}
	}

	sb.WriteString("\n\n")
	return sb.String()
}

// Writer prepends sections to a changelog file.
type Writer struct {
	fs   afero.Fs
	path string
}

func NewWriter(fs afero.Fs, path string) *Writer {
	if path == "" {
		path = DefaultPath
	}
	return &Writer{fs: fs, path: path}
}

func (w *Writer) Path() string {
	return w.path
}

// Prepend writes the section for e above the existing content, creating the
// file and its parent directories when needed.
func (w *Writer) Prepend(ctx context.Context, e Entry) error {
	previous, err := afero.ReadFile(w.fs, w.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return domainErrors.ErrReadChangelog.WithError(err).WithContext("path", w.path)
	}

	if err := w.fs.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return domainErrors.ErrWriteChangelog.WithError(err).WithContext("path", w.path)
	}

	content := Build(e) + string(previous)
	if err := afero.WriteFile(w.fs, w.path, []byte(content), 0644); err != nil {
		return domainErrors.ErrWriteChangelog.WithError(err).WithContext("path", w.path)
	}

	logger.Info(ctx, "changelog updated", "path", w.path, "tag", e.Version)
	return nil
}
