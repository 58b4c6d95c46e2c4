package services

import (
	"context"
	"io"
	"time"

	"github.com/Tomas-vilte/semrel/internal/ai"
	"github.com/Tomas-vilte/semrel/internal/analyzer"
	"github.com/Tomas-vilte/semrel/internal/changelog"
	"github.com/Tomas-vilte/semrel/internal/config"
	domainErrors "github.com/Tomas-vilte/semrel/internal/errors"
	"github.com/Tomas-vilte/semrel/internal/logger"
	"github.com/Tomas-vilte/semrel/internal/models"
	"github.com/Tomas-vilte/semrel/internal/notifier"
	"github.com/Tomas-vilte/semrel/internal/rules"
	"github.com/Tomas-vilte/semrel/internal/vcs"
	"github.com/Tomas-vilte/semrel/internal/version"
	"golang.org/x/mod/semver"
)

// changelogWriter defines only the methods needed by ReleaseService.
type changelogWriter interface {
	Prepend(ctx context.Context, e changelog.Entry) error
	Path() string
}

// releaseCommitter records the changelog in the local repository.
type releaseCommitter interface {
	CommitRelease(ctx context.Context, file, tag string, push bool) error
}

type ReleaseService struct {
	vcsClient  vcs.VCSClient
	rules      *rules.RuleSet
	changelog  changelogWriter
	committer  releaseCommitter
	notifier   notifier.Notifier
	summarizer ai.ReleaseSummarizer
	config     *config.Config
	workers    int
	now        func() time.Time
}

type ReleaseOption func(*ReleaseService)

func WithReleaseRules(rs *rules.RuleSet) ReleaseOption {
	return func(s *ReleaseService) {
		s.rules = rs
	}
}

func WithReleaseChangelog(w changelogWriter) ReleaseOption {
	return func(s *ReleaseService) {
		s.changelog = w
	}
}

func WithReleaseCommitter(c releaseCommitter) ReleaseOption {
	return func(s *ReleaseService) {
		s.committer = c
	}
}

func WithReleaseNotifier(n notifier.Notifier) ReleaseOption {
	return func(s *ReleaseService) {
		s.notifier = n
	}
}

func WithReleaseSummarizer(rs ai.ReleaseSummarizer) ReleaseOption {
	return func(s *ReleaseService) {
		s.summarizer = rs
	}
}

func WithReleaseConfig(cfg *config.Config) ReleaseOption {
	return func(s *ReleaseService) {
		s.config = cfg
	}
}

// WithReleaseWorkers sets how many goroutines classify commits. Zero uses
// GOMAXPROCS.
func WithReleaseWorkers(n int) ReleaseOption {
	return func(s *ReleaseService) {
		s.workers = n
	}
}

func WithReleaseClock(now func() time.Time) ReleaseOption {
	return func(s *ReleaseService) {
		s.now = now
	}
}

func NewReleaseService(vcsClient vcs.VCSClient, opts ...ReleaseOption) *ReleaseService {
	s := &ReleaseService{
		vcsClient: vcsClient,
		rules:     rules.Default(),
		config:    config.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PublishOptions controls what Publish is allowed to change.
// Close releases collaborators that hold connections, such as the summarizer's
// client.
func (s *ReleaseService) Close() error {
	if closer, ok := s.summarizer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

type PublishOptions struct {
	// DryRun renders the notes and stops before any write.
	DryRun bool
	Draft  bool
}

// PublishResult describes what Publish did.
type PublishResult struct {
	Tag           string
	URL           string
	Notes         *models.ReleaseNotes
	ChangelogPath string
	Notified      bool
	DryRun        bool
}

// Analyze resolves the next release from the commits made since the last tag.
// A repository without tags starts from version.Seed. When no commit matches
// a rule the returned Release has a nil Level and an empty Version.
func (s *ReleaseService) Analyze(ctx context.Context) (*models.Release, error) {
	log := logger.FromContext(ctx)

	lastTag, err := s.vcsClient.LastTag(ctx)
	if err != nil {
		return nil, err
	}

	previous := lastTag.Name
	if previous == "" {
		previous = version.Seed
		log.Info("no previous tag found, using seed as baseline", "tag", previous)
	}

	prevTag, err := version.Parse(previous)
	if err != nil {
		log.Warn("last tag does not match semver format", "tag", previous)
		return nil, err
	}

	commits, err := s.vcsClient.CommitsSince(ctx, lastTag)
	if err != nil {
		return nil, err
	}

	result, err := analyzer.AggregateParallel(ctx, s.rules, commits, s.workers)
	if err != nil {
		return nil, err
	}

	release := &models.Release{
		PreviousVersion: previous,
		Level:           result.Level,
		Commits:         result.Commits,
		Counts:          result.Counts,
	}

	if result.Level == nil {
		log.Info("no release level resolved",
			"commits", len(commits),
			"unmatched", result.Counts.Unmatched)
		return release, nil
	}

	release.Version = prevTag.Increment(*result.Level).String()
	if err := ValidateIncrement(previous, release.Version); err != nil {
		return nil, err
	}

	log.Info("release analyzed",
		"previous", release.PreviousVersion,
		"next", release.Version,
		"level", release.Level.String(),
		"commits", len(commits))

	return release, nil
}

// ValidateIncrement checks that next is a valid semantic version strictly
// greater than previous.
func ValidateIncrement(previous, next string) error {
	for _, v := range []string{previous, next} {
		if !semver.IsValid(v) {
			return domainErrors.ErrTagShape.WithContext("tag", v)
		}
	}
	if semver.Compare(previous, next) >= 0 {
		return domainErrors.ErrVersionNotIncreasing.
			WithContext("tag", next).
			WithContext("previous", previous)
	}
	return nil
}

// GenerateNotes renders the changelog section of release and, when a
// summarizer is configured, a prose summary. A failing summarizer only costs
// the summary.
func (s *ReleaseService) GenerateNotes(ctx context.Context, release *models.Release) (*models.ReleaseNotes, error) {
	if !release.HasRelease() {
		return nil, domainErrors.ErrNoRelease
	}
	return s.notes(ctx, release, s.entry(release)), nil
}

func (s *ReleaseService) entry(release *models.Release) changelog.Entry {
	return changelog.NewEntry(release, s.vcsClient.URL(), s.now())
}

func (s *ReleaseService) notes(ctx context.Context, release *models.Release, entry changelog.Entry) *models.ReleaseNotes {
	notes := &models.ReleaseNotes{
		Title:     entry.Version,
		Changelog: changelog.Build(entry),
	}

	if s.summarizer == nil {
		return notes
	}

	summary, err := s.summarizer.Summarize(ctx, release)
	if err != nil {
		logger.Warn(ctx, "release summary unavailable, using changelog only", "error", err)
		return notes
	}
	notes.Summary = summary
	return notes
}

// Publish writes the changelog, creates the hosted release and announces it,
// in that order. It refuses a release without a level. A failed notification
// is logged and reported through PublishResult.Notified.
func (s *ReleaseService) Publish(ctx context.Context, release *models.Release, opts PublishOptions) (*PublishResult, error) {
	log := logger.FromContext(ctx)

	if !release.HasRelease() {
		return nil, domainErrors.ErrNoRelease
	}

	entry := s.entry(release)
	result := &PublishResult{
		Tag:    release.Version,
		Notes:  s.notes(ctx, release, entry),
		DryRun: opts.DryRun,
	}

	if opts.DryRun {
		log.Info("dry run, nothing published", "tag", release.Version)
		return result, nil
	}

	if s.changelog != nil {
		if err := s.changelog.Prepend(ctx, entry); err != nil {
			return nil, err
		}
		result.ChangelogPath = s.changelog.Path()

		if s.committer != nil && s.config.Changelog.Commit {
			if err := s.committer.CommitRelease(ctx, result.ChangelogPath, release.Version, s.config.Changelog.Push); err != nil {
				return nil, err
			}
		}
	}

	url, err := s.vcsClient.CreateRelease(ctx, models.VCSRelease{
		TagName: release.Version,
		Name:    result.Notes.Title,
		Body:    result.Notes.Body(),
		Target:  s.config.Repository.Branch,
		Draft:   opts.Draft,
	})
	if err != nil {
		log.Error("failed to publish release", "error", err, "tag", release.Version)
		return nil, err
	}
	result.URL = url

	if s.notifier != nil {
		message := notifier.FormatMessage(s.config.Notifier.Message, release.Version)
		if err := s.notifier.Notify(ctx, message); err != nil {
			log.Warn("release published but notification failed", "error", err, "tag", release.Version)
		} else {
			result.Notified = true
		}
	}

	log.Info("release published successfully", "tag", release.Version, "draft", opts.Draft)
	return result, nil
}
