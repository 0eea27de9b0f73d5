package model

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/absmach/gridfl/pkg/fl"
)

const (
	LossKey     = "loss"
	AccuracyKey = "accuracy"

	defLearningRate = 0.1
	defBatchSize    = 32
	epsilon         = 1e-12
)

var (
	ErrInvalidInputs = errors.New("number of inputs must be positive")
	ErrEmptyDataset  = errors.New("empty dataset")
	ErrDatasetLayout = errors.New("dataset does not match the model inputs")
	ErrInvalidEpochs = errors.New("epochs must be positive")
)

var _ fl.Artifact = (*Logistic)(nil)

type Options struct {
	LearningRate float64
	BatchSize    int
	Seed         uint64
}

// Logistic is a binary logistic regression classifier trained with
// mini-batch gradient descent on the cross-entropy loss. Its weights are a
// kernel of shape [inputs, 1] followed by a bias of shape [1]. Evaluate
// reports [loss, accuracy].
type Logistic struct {
	inputs int
	kernel []float64
	bias   float64
	opts   Options
	rng    *rand.Rand
}

func NewLogistic(inputs int, opts Options) (*Logistic, error) {
	if inputs <= 0 {
		return nil, ErrInvalidInputs
	}
	if opts.LearningRate <= 0 {
		opts.LearningRate = defLearningRate
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defBatchSize
	}

	return &Logistic{
		inputs: inputs,
		kernel: make([]float64, inputs),
		opts:   opts,
		rng:    rand.New(rand.NewPCG(opts.Seed, opts.Seed)),
	}, nil
}

// SetBatchSize overrides the mini-batch size used by Fit. Non-positive
// values are ignored.
func (m *Logistic) SetBatchSize(n int) {
	if n > 0 {
		m.opts.BatchSize = n
	}
}

func (m *Logistic) Inputs() int {
	return m.inputs
}

func (m *Logistic) Weights() fl.WeightSet {
	return fl.WeightSet{
		{Shape: []int{m.inputs, 1}, Data: slices.Clone(m.kernel)},
		{Shape: []int{1}, Data: []float64{m.bias}},
	}
}

func (m *Logistic) SetWeights(ws fl.WeightSet) error {
	if !m.Weights().Compatible(ws) || len(ws[0].Data) != m.inputs || len(ws[1].Data) != 1 {
		return fmt.Errorf("%w: logistic model with %d inputs", fl.ErrIncompatibleWeightShapes, m.inputs)
	}
	m.kernel = slices.Clone(ws[0].Data)
	m.bias = ws[1].Data[0]

	return nil
}

func (m *Logistic) Fit(ctx context.Context, data fl.Dataset, epochs int) (fl.TrainingOutcome, error) {
	if epochs <= 0 {
		return fl.TrainingOutcome{}, ErrInvalidEpochs
	}
	if err := m.check(data); err != nil {
		return fl.TrainingOutcome{}, err
	}

	outcome := fl.TrainingOutcome{
		Epochs: epochs,
		History: map[string][]float64{
			LossKey:     make([]float64, 0, epochs),
			AccuracyKey: make([]float64, 0, epochs),
		},
	}
	n := data.Len()
	grad := make([]float64, m.inputs)

	for range epochs {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		indices := m.rng.Perm(n)
		for start := 0; start < n; start += m.opts.BatchSize {
			end := min(start+m.opts.BatchSize, n)
			clear(grad)
			var gradBias float64

			for _, idx := range indices[start:end] {
				diff := m.predict(data.Features[idx]) - data.Labels[idx]
				gradBias += diff
				for k, x := range data.Features[idx] {
					grad[k] += diff * x
				}
			}

			size := float64(end - start)
			for k := range m.kernel {
				m.kernel[k] -= m.opts.LearningRate * grad[k] / size
			}
			m.bias -= m.opts.LearningRate * gradBias / size
		}

		loss, acc := m.score(data)
		outcome.History[LossKey] = append(outcome.History[LossKey], loss)
		outcome.History[AccuracyKey] = append(outcome.History[AccuracyKey], acc)
	}

	return outcome, nil
}

func (m *Logistic) Evaluate(ctx context.Context, data fl.Dataset) (fl.MetricVector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.check(data); err != nil {
		return nil, err
	}
	loss, acc := m.score(data)

	return fl.MetricVector{loss, acc}, nil
}

func (m *Logistic) check(data fl.Dataset) error {
	if data.Len() == 0 {
		return ErrEmptyDataset
	}
	if len(data.Labels) != len(data.Features) {
		return fmt.Errorf("%w: %d rows but %d labels", ErrDatasetLayout, len(data.Features), len(data.Labels))
	}
	for i, row := range data.Features {
		if len(row) != m.inputs {
			return fmt.Errorf("%w: row %d has %d features, want %d", ErrDatasetLayout, i, len(row), m.inputs)
		}
	}

	return nil
}

func (m *Logistic) predict(x []float64) float64 {
	z := m.bias
	for k, v := range x {
		z += m.kernel[k] * v
	}

	return 1 / (1 + math.Exp(-z))
}

func (m *Logistic) score(data fl.Dataset) (loss, accuracy float64) {
	var correct int
	for i, x := range data.Features {
		p := m.predict(x)
		y := data.Labels[i]
		loss -= y*math.Log(p+epsilon) + (1-y)*math.Log(1-p+epsilon)

		pred := 0.0
		if p >= 0.5 {
			pred = 1
		}
		if pred == y {
			correct++
		}
	}
	n := float64(data.Len())

	return loss / n, float64(correct) / n
}
