package mocks

import (
	"context"

	"github.com/absmach/gridfl/pkg/fl"
	"github.com/stretchr/testify/mock"
)

var _ fl.Artifact = (*Artifact)(nil)

// Artifact is a testify mock of fl.Artifact. Weights is not mocked: it
// returns whatever the last successful SetWeights call loaded.
type Artifact struct {
	mock.Mock
	current fl.WeightSet
}

func NewArtifact(initial fl.WeightSet) *Artifact {
	return &Artifact{current: initial}
}

func (m *Artifact) Weights() fl.WeightSet {
	return m.current
}

func (m *Artifact) SetWeights(w fl.WeightSet) error {
	args := m.Called(w)
	if args.Error(0) == nil {
		m.current = w
	}

	return args.Error(0)
}

func (m *Artifact) Fit(ctx context.Context, data fl.Dataset, epochs int) (fl.TrainingOutcome, error) {
	args := m.Called(ctx, data, epochs)

	return args.Get(0).(fl.TrainingOutcome), args.Error(1)
}

func (m *Artifact) Evaluate(ctx context.Context, data fl.Dataset) (fl.MetricVector, error) {
	args := m.Called(ctx, data)

	return args.Get(0).(fl.MetricVector), args.Error(1)
}
