package mocks

import (
	"context"

	"github.com/absmach/gridfl/participant"
	"github.com/absmach/gridfl/pkg/fl"
	"github.com/stretchr/testify/mock"
)

var _ participant.Service = (*Service)(nil)

type Service struct {
	mock.Mock
}

func (m *Service) Bootstrap(ctx context.Context) (bool, error) {
	args := m.Called(ctx)

	return args.Bool(0), args.Error(1)
}

func (m *Service) HandleRoundArtifact(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)

	return args.Bool(0), args.Error(1)
}

func (m *Service) Status(ctx context.Context) (participant.Status, error) {
	args := m.Called(ctx)

	return args.Get(0).(participant.Status), args.Error(1)
}

func (m *Service) History(ctx context.Context) ([]*fl.TrainingOutcome, error) {
	args := m.Called(ctx)

	return args.Get(0).([]*fl.TrainingOutcome), args.Error(1)
}

func (m *Service) WriteStatistics(ctx context.Context, path string) error {
	args := m.Called(ctx, path)

	return args.Error(0)
}
