package ai

import (
	"context"

	"github.com/Tomas-vilte/semrel/internal/models"
)

// ReleaseSummarizer writes a short prose summary of a resolved release.
type ReleaseSummarizer interface {
	Summarize(ctx context.Context, release *models.Release) (string, error)
}
