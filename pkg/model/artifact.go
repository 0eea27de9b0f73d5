package model

import (
	"fmt"
	"os"

	"github.com/absmach/gridfl/pkg/fl"
	"github.com/fxamacker/cbor/v2"
)

const logisticKind = "logistic"

// snapshot is the on-disk form of a Logistic artifact.
type snapshot struct {
	Kind         string    `cbor:"kind"`
	Inputs       int       `cbor:"inputs"`
	LearningRate float64   `cbor:"learning_rate"`
	BatchSize    int       `cbor:"batch_size"`
	Seed         uint64    `cbor:"seed"`
	Kernel       []float64 `cbor:"kernel"`
	Bias         float64   `cbor:"bias"`
}

// ReadArtifact loads a CBOR encoded model, weights included.
func ReadArtifact(path string) (*Logistic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fl.ErrUnreadableArtifact, err)
	}

	var snap snapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", fl.ErrUnreadableArtifact, path, err)
	}
	if snap.Kind != logisticKind {
		return nil, fmt.Errorf("%w: %s: unknown model kind %q", fl.ErrUnreadableArtifact, path, snap.Kind)
	}

	m, err := NewLogistic(snap.Inputs, Options{
		LearningRate: snap.LearningRate,
		BatchSize:    snap.BatchSize,
		Seed:         snap.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", fl.ErrUnreadableArtifact, path, err)
	}
	if snap.Kernel != nil {
		ws := fl.WeightSet{
			{Shape: []int{snap.Inputs, 1}, Data: snap.Kernel},
			{Shape: []int{1}, Data: []float64{snap.Bias}},
		}
		if err := m.SetWeights(ws); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", fl.ErrUnreadableArtifact, path, err)
		}
	}

	return m, nil
}

// WriteArtifact stores m at path atomically.
func WriteArtifact(m *Logistic, path string) error {
	data, err := cbor.Marshal(snapshot{
		Kind:         logisticKind,
		Inputs:       m.inputs,
		LearningRate: m.opts.LearningRate,
		BatchSize:    m.opts.BatchSize,
		Seed:         m.opts.Seed,
		Kernel:       m.kernel,
		Bias:         m.bias,
	})
	if err != nil {
		return err
	}

	return fl.WriteFileAtomic(path, data)
}

// LoadBaseline reads the artifact at artifactPath and, when weightsPath is
// set, replaces its weights with the ones stored there.
func LoadBaseline(artifactPath, weightsPath string, batchSize int, store fl.WeightsStore) (*Logistic, error) {
	m, err := ReadArtifact(artifactPath)
	if err != nil {
		return nil, err
	}
	m.SetBatchSize(batchSize)

	if weightsPath != "" {
		ws, err := store.ReadWeights(weightsPath)
		if err != nil {
			return nil, err
		}
		if err := m.SetWeights(ws); err != nil {
			return nil, err
		}
	}

	return m, nil
}
