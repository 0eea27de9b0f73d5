package mocks

import (
	"github.com/absmach/gridfl/pkg/sdk"
	"github.com/stretchr/testify/mock"
)

var _ sdk.SDK = (*SDK)(nil)

type SDK struct {
	mock.Mock
}

func (m *SDK) ValidatorStatus() (sdk.ValidatorStatus, error) {
	args := m.Called()

	return args.Get(0).(sdk.ValidatorStatus), args.Error(1)
}

func (m *SDK) Contributions() (sdk.ContributionsPage, error) {
	args := m.Called()

	return args.Get(0).(sdk.ContributionsPage), args.Error(1)
}

func (m *SDK) RoundStatistics(round int) (sdk.RoundStatistics, error) {
	args := m.Called(round)

	return args.Get(0).(sdk.RoundStatistics), args.Error(1)
}

func (m *SDK) ParticipantStatus() (sdk.ParticipantStatus, error) {
	args := m.Called()

	return args.Get(0).(sdk.ParticipantStatus), args.Error(1)
}

func (m *SDK) ParticipantHistory() (sdk.ParticipantHistory, error) {
	args := m.Called()

	return args.Get(0).(sdk.ParticipantHistory), args.Error(1)
}
