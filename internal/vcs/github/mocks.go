package github

import (
	"context"

	"github.com/google/go-github/github"
	"github.com/stretchr/testify/mock"
)

type MockPRService struct {
	mock.Mock
}

func (m *MockPRService) ListCommits(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.RepositoryCommit, *github.Response, error) {
	args := m.Called(ctx, owner, repo, number, opts)
	return repositoryCommits(args.Get(0)), response(args.Get(1)), args.Error(2)
}

type MockRepoService struct {
	mock.Mock
}

func (m *MockRepoService) ListTags(ctx context.Context, owner, repo string, opts *github.ListOptions) ([]*github.RepositoryTag, *github.Response, error) {
	args := m.Called(ctx, owner, repo, opts)
	var tags []*github.RepositoryTag
	if v := args.Get(0); v != nil {
		tags = v.([]*github.RepositoryTag)
	}
	return tags, response(args.Get(1)), args.Error(2)
}

func (m *MockRepoService) ListCommits(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error) {
	args := m.Called(ctx, owner, repo, opts)
	return repositoryCommits(args.Get(0)), response(args.Get(1)), args.Error(2)
}

func (m *MockRepoService) CreateRelease(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, *github.Response, error) {
	args := m.Called(ctx, owner, repo, release)
	var created *github.RepositoryRelease
	if v := args.Get(0); v != nil {
		created = v.(*github.RepositoryRelease)
	}
	return created, response(args.Get(1)), args.Error(2)
}

func repositoryCommits(v interface{}) []*github.RepositoryCommit {
	if v == nil {
		return nil
	}
	return v.([]*github.RepositoryCommit)
}

func response(v interface{}) *github.Response {
	if v == nil {
		return nil
	}
	return v.(*github.Response)
}
