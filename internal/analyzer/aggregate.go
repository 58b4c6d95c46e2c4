package analyzer

import (
	"context"
	"runtime"

	domainErrors "github.com/Tomas-vilte/semrel/internal/errors"
	"github.com/Tomas-vilte/semrel/internal/models"
	"github.com/Tomas-vilte/semrel/internal/rules"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of aggregating a batch of commits.
type Result struct {
	// Commits is a copy of the input, in the same order, with Level set on
	// every commit that matched a rule.
	Commits []models.Commit
	// Level is nil when no commit matched.
	Level  *models.ReleaseLevel
	Counts models.LevelCounts
}

// Aggregate classifies every commit and reduces the batch to one release
// level. The input slice is left untouched. A rule that cannot be evaluated
// aborts the whole batch.
func Aggregate(rs *rules.RuleSet, commits []models.Commit) (Result, error) {
	out := make([]models.Commit, len(commits))
	var counts models.LevelCounts

	for i, commit := range commits {
		annotated, err := annotate(rs, commit)
		if err != nil {
			return Result{}, err
		}
		out[i] = annotated
		counts.Add(annotated.Level)
	}

	return Result{Commits: out, Level: counts.Decision(), Counts: counts}, nil
}

// AggregateParallel is Aggregate spread over workers goroutines. Each worker
// owns a contiguous range of the output, and the per-worker counters are
// summed once every worker is done, so the result is identical to Aggregate.
// The first fault cancels the remaining workers.
func AggregateParallel(ctx context.Context, rs *rules.RuleSet, commits []models.Commit, workers int) (Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(commits) {
		workers = len(commits)
	}
	if workers <= 1 {
		return Aggregate(rs, commits)
	}

	out := make([]models.Commit, len(commits))
	partial := make([]models.LevelCounts, workers)
	chunk := (len(commits) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, len(commits))
		if start >= end {
			break
		}

		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				annotated, err := annotate(rs, commits[i])
				if err != nil {
					return err
				}
				out[i] = annotated
				partial[w].Add(annotated.Level)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var counts models.LevelCounts
	for _, c := range partial {
		counts.Merge(c)
	}

	return Result{Commits: out, Level: counts.Decision(), Counts: counts}, nil
}

func annotate(rs *rules.RuleSet, commit models.Commit) (models.Commit, error) {
	commit.Level = nil

	level, ok, err := Classify(rs, commit.Message)
	if err != nil {
		return models.Commit{}, domainErrors.ErrClassifyCommit.WithError(err).WithContext("commit", commit.Hash)
	}
	if ok {
		commit.Level = models.LevelPtr(level)
	}
	return commit, nil
}
