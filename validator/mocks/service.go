package mocks

import (
	"context"

	"github.com/absmach/gridfl/validator"
	"github.com/stretchr/testify/mock"
)

var _ validator.Service = (*Service)(nil)

type Service struct {
	mock.Mock
}

func (m *Service) HandleSubmission(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)

	return args.Bool(0), args.Error(1)
}

func (m *Service) Status(ctx context.Context) (validator.Status, error) {
	args := m.Called(ctx)

	return args.Get(0).(validator.Status), args.Error(1)
}

func (m *Service) Contributions(ctx context.Context) (validator.ContributionsPage, error) {
	args := m.Called(ctx)

	return args.Get(0).(validator.ContributionsPage), args.Error(1)
}

func (m *Service) RoundStatistics(ctx context.Context, round int) (validator.RoundStatistics, error) {
	args := m.Called(ctx, round)

	return args.Get(0).(validator.RoundStatistics), args.Error(1)
}

func (m *Service) WriteStatistics(ctx context.Context, path string) error {
	args := m.Called(ctx, path)

	return args.Error(0)
}
