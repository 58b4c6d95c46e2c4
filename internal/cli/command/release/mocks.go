package release

import (
	"context"

	"github.com/Tomas-vilte/semrel/internal/models"
	"github.com/Tomas-vilte/semrel/internal/services"
	"github.com/stretchr/testify/mock"
)

type MockReleaseService struct {
	mock.Mock
}

func (m *MockReleaseService) Analyze(ctx context.Context) (*models.Release, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Release), args.Error(1)
}

func (m *MockReleaseService) GenerateNotes(ctx context.Context, release *models.Release) (*models.ReleaseNotes, error) {
	args := m.Called(ctx, release)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReleaseNotes), args.Error(1)
}

func (m *MockReleaseService) Publish(ctx context.Context, release *models.Release, opts services.PublishOptions) (*services.PublishResult, error) {
	args := m.Called(ctx, release, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PublishResult), args.Error(1)
}
