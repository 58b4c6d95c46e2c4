package vcs

import (
	"context"

	"github.com/Tomas-vilte/semrel/internal/models"
)

// VCSClient is what the release pipeline needs from a hosting service.
type VCSClient interface {
	// LastTag returns the most recent tag, or a zero RepositoryTag when the
	// repository has none.
	LastTag(ctx context.Context) (models.RepositoryTag, error)
	// CommitsSince lists the commits made after tag, newest first. Squash
	// merges are expanded into the commits of their pull request.
	CommitsSince(ctx context.Context, tag models.RepositoryTag) ([]models.Commit, error)
	// CreateRelease publishes a release and returns its web URL.
	CreateRelease(ctx context.Context, release models.VCSRelease) (string, error)
	// URL is the web address of the repository, used to build changelog links.
	URL() string
}
