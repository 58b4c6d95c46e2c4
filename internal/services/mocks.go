package services

import (
	"context"

	"github.com/Tomas-vilte/semrel/internal/changelog"
	"github.com/Tomas-vilte/semrel/internal/models"
	"github.com/stretchr/testify/mock"
)

type (
	MockVCSClient struct {
		mock.Mock
	}

	MockChangelogWriter struct {
		mock.Mock
	}

	MockReleaseCommitter struct {
		mock.Mock
	}

	MockNotifier struct {
		mock.Mock
	}

	MockReleaseSummarizer struct {
		mock.Mock
	}

	MockClosingSummarizer struct {
		MockReleaseSummarizer
	}
)

func (m *MockVCSClient) LastTag(ctx context.Context) (models.RepositoryTag, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.RepositoryTag), args.Error(1)
}

func (m *MockVCSClient) CommitsSince(ctx context.Context, tag models.RepositoryTag) ([]models.Commit, error) {
	args := m.Called(ctx, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Commit), args.Error(1)
}

func (m *MockVCSClient) CreateRelease(ctx context.Context, release models.VCSRelease) (string, error) {
	args := m.Called(ctx, release)
	return args.String(0), args.Error(1)
}

func (m *MockVCSClient) URL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockChangelogWriter) Prepend(ctx context.Context, e changelog.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockChangelogWriter) Path() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockReleaseCommitter) CommitRelease(ctx context.Context, file, tag string, push bool) error {
	args := m.Called(ctx, file, tag, push)
	return args.Error(0)
}

func (m *MockNotifier) Notify(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockReleaseSummarizer) Summarize(ctx context.Context, release *models.Release) (string, error) {
	args := m.Called(ctx, release)
	return args.String(0), args.Error(1)
}

func (m *MockClosingSummarizer) Close() error {
	args := m.Called()
	return args.Error(0)
}
