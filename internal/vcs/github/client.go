package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Tomas-vilte/semrel/internal/config"
	domainErrors "github.com/Tomas-vilte/semrel/internal/errors"
	"github.com/Tomas-vilte/semrel/internal/logger"
	"github.com/Tomas-vilte/semrel/internal/models"
	"github.com/Tomas-vilte/semrel/internal/regex"
	"github.com/Tomas-vilte/semrel/internal/vcs"
	"github.com/google/go-github/github"
	"golang.org/x/oauth2"
)

var _ vcs.VCSClient = (*GitHubClient)(nil)

const perPage = 100

type PullRequestsService interface {
	ListCommits(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.RepositoryCommit, *github.Response, error)
}

type RepositoriesService interface {
	ListTags(ctx context.Context, owner, repo string, opts *github.ListOptions) ([]*github.RepositoryTag, *github.Response, error)
	ListCommits(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error)
	CreateRelease(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, *github.Response, error)
}

type GitHubClient struct {
	prService   PullRequestsService
	repoService RepositoriesService
	owner       string
	repo        string
	branch      string
}

// NewGitHubClient authenticates with a static token.
func NewGitHubClient(cfg config.RepositoryConfig) (*GitHubClient, error) {
	if cfg.Owner == "" || cfg.Name == "" {
		return nil, domainErrors.ErrRepositoryMissing
	}
	if cfg.Token == "" {
		return nil, domainErrors.ErrTokenMissing
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	client := github.NewClient(oauth2.NewClient(context.Background(), ts))

	return NewGitHubClientWithServices(client.PullRequests, client.Repositories, cfg.Owner, cfg.Name, cfg.Branch), nil
}

func NewGitHubClientWithServices(
	prService PullRequestsService,
	repoService RepositoriesService,
	owner, repo, branch string,
) *GitHubClient {
	return &GitHubClient{
		prService:   prService,
		repoService: repoService,
		owner:       owner,
		repo:        repo,
		branch:      branch,
	}
}

func (ghc *GitHubClient) URL() string {
	return fmt.Sprintf("https://github.com/%s/%s", ghc.owner, ghc.repo)
}

// LastTag takes the first tag GitHub lists, which is the most recent one.
func (ghc *GitHubClient) LastTag(ctx context.Context) (models.RepositoryTag, error) {
	tags, resp, err := ghc.repoService.ListTags(ctx, ghc.owner, ghc.repo, &github.ListOptions{PerPage: 1})
	if err != nil {
		return models.RepositoryTag{}, ghc.wrap(domainErrors.ErrListTags, "list tags", resp, err)
	}
	if len(tags) == 0 {
		logger.Debug(ctx, "repository has no tags", "repo", ghc.fullName())
		return models.RepositoryTag{}, nil
	}

	return models.RepositoryTag{
		Name: tags[0].GetName(),
		SHA:  tags[0].GetCommit().GetSHA(),
	}, nil
}

// CommitsSince pages through the branch history until it reaches tag.SHA.
// When tag is zero the whole history is returned.
func (ghc *GitHubClient) CommitsSince(ctx context.Context, tag models.RepositoryTag) ([]models.Commit, error) {
	opts := &github.CommitsListOptions{
		SHA:         ghc.branch,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var commits []models.Commit
	for {
		page, resp, err := ghc.repoService.ListCommits(ctx, ghc.owner, ghc.repo, opts)
		if err != nil {
			return nil, ghc.wrap(domainErrors.ErrListCommits, "list commits", resp, err)
		}

		for _, c := range page {
			if tag.SHA != "" && c.GetSHA() == tag.SHA {
				logger.Debug(ctx, "reached last tag", "tag", tag.Name, "commits", len(commits))
				return commits, nil
			}

			expanded, err := ghc.expand(ctx, c)
			if err != nil {
				return nil, err
			}
			commits = append(commits, expanded...)
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if tag.SHA != "" {
		logger.Warn(ctx, "last tag not found on branch history", "tag", tag.Name, "branch", ghc.branch)
	}
	return commits, nil
}

// expand replaces a squash merge by the commits of its pull request.
func (ghc *GitHubClient) expand(ctx context.Context, c *github.RepositoryCommit) ([]models.Commit, error) {
	commit := toCommit(c)

	number, err := PullRequestNumber(commit.Header())
	if err != nil {
		return []models.Commit{commit}, nil
	}

	inner, err := ghc.pullRequestCommits(ctx, number)
	if err != nil {
		return nil, err
	}
	if len(inner) == 0 {
		return []models.Commit{commit}, nil
	}

	logger.Debug(ctx, "expanded pull request", "number", number, "commits", len(inner))
	return inner, nil
}

// pullRequestCommits returns the commits of a pull request newest first.
func (ghc *GitHubClient) pullRequestCommits(ctx context.Context, number int) ([]models.Commit, error) {
	opts := &github.ListOptions{PerPage: perPage}

	var commits []models.Commit
	for {
		page, resp, err := ghc.prService.ListCommits(ctx, ghc.owner, ghc.repo, number, opts)
		if err != nil {
			return nil, ghc.wrap(domainErrors.ErrListPullRequestCommits, "list pull request commits", resp, err).
				WithContext("pull_request", number)
		}
		for _, c := range page {
			commits = append(commits, toCommit(c))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}
	return commits, nil
}

func (ghc *GitHubClient) CreateRelease(ctx context.Context, release models.VCSRelease) (string, error) {
	target := release.Target
	if target == "" {
		target = ghc.branch
	}

	request := &github.RepositoryRelease{
		TagName:         github.String(release.TagName),
		TargetCommitish: github.String(target),
		Name:            github.String(release.Name),
		Body:            github.String(release.Body),
		Draft:           github.Bool(release.Draft),
		Prerelease:      github.Bool(false),
	}

	created, resp, err := ghc.repoService.CreateRelease(ctx, ghc.owner, ghc.repo, request)
	if err != nil {
		if statusCode(resp) == http.StatusUnprocessableEntity {
			return "", domainErrors.ErrCreateRelease.WithError(err).
				WithContext("tag", release.TagName).
				WithContext("reason", "release already exists")
		}
		return "", ghc.wrap(domainErrors.ErrCreateRelease, "create release", resp, err).WithContext("tag", release.TagName)
	}

	logger.Info(ctx, "release created", "tag", release.TagName, "draft", release.Draft)
	return created.GetHTMLURL(), nil
}

// PullRequestNumber extracts N from a header ending in "(#N)".
func PullRequestNumber(header string) (int, error) {
	m := regex.PullRequestNumber.FindStringSubmatch(header)
	if m == nil {
		return 0, domainErrors.ErrNoPullRequestNumber
	}
	n, err := strconv.Atoi(m[regex.PullRequestNumber.SubexpIndex("number")])
	if err != nil {
		return 0, domainErrors.ErrNoPullRequestNumber.WithError(err)
	}
	return n, nil
}

func (ghc *GitHubClient) wrap(base *domainErrors.AppError, operation string, resp *github.Response, err error) *domainErrors.AppError {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return domainErrors.ErrGitHubRateLimit.WithError(err).WithContext("operation", operation)
	}
	code := statusCode(resp)
	if code == http.StatusUnauthorized {
		return domainErrors.ErrGitHubTokenInvalid.WithError(err).WithContext("operation", operation)
	}

	appErr := base.WithError(err).WithContext("repo", ghc.fullName())
	if code != 0 {
		appErr = appErr.WithContext("status_code", code)
	}
	return appErr
}

func statusCode(resp *github.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}

func (ghc *GitHubClient) fullName() string {
	return ghc.owner + "/" + ghc.repo
}

func toCommit(c *github.RepositoryCommit) models.Commit {
	return models.Commit{
		Hash:    c.GetSHA(),
		Message: c.GetCommit().GetMessage(),
	}
}
