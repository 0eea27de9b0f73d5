package fl

import (
	"context"
	"fmt"
)

type Method string

const (
	EnsembleGeneralMethod Method = "ensemble_general"
	SimpleAverageMethod   Method = "simple_average"
)

// ParseMethod maps a configured aggregation method name to a Method. An
// empty name selects the ensemble method.
func ParseMethod(name string) (Method, error) {
	switch Method(name) {
	case "":
		return EnsembleGeneralMethod, nil
	case EnsembleGeneralMethod, SimpleAverageMethod:
		return Method(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAggregationMethod, name)
	}
}

// ContributionExtractor computes the contribution vector of a round, one
// entry per weight set in submission order.
type ContributionExtractor interface {
	Compute(ctx context.Context, weightSets []WeightSet) ([]float64, error)
}

func NewContributionExtractor(method Method, artifact Artifact, validation Dataset) (ContributionExtractor, error) {
	if artifact == nil || validation.Features == nil || validation.Labels == nil {
		return nil, ErrInvalidExtractorArguments
	}

	switch method {
	case EnsembleGeneralMethod:
		return &EnsembleGeneral{artifact: artifact, validation: validation}, nil
	case SimpleAverageMethod:
		return &SimpleAverage{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAggregationMethod, method)
	}
}

// EnsembleGeneral scores every weight set on the validation data with the
// shared artifact and normalizes the scores.
type EnsembleGeneral struct {
	artifact   Artifact
	validation Dataset
}

func (e *EnsembleGeneral) Compute(ctx context.Context, weightSets []WeightSet) ([]float64, error) {
	scores := make([]float64, len(weightSets))
	var sum float64
	for p, ws := range weightSets {
		if err := e.artifact.SetWeights(ws); err != nil {
			return nil, fmt.Errorf("failed to load weights of participant %d: %w", p, err)
		}
		metrics, err := e.artifact.Evaluate(ctx, e.validation)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate participant %d: %w", p, err)
		}
		if len(metrics) < 2 {
			return nil, fmt.Errorf("%w: participant %d got %v", ErrInvalidMetricVector, p, metrics)
		}
		if metrics[1] < 0 {
			return nil, fmt.Errorf("%w: participant %d scored %g", ErrNegativeScore, p, metrics[1])
		}
		scores[p] = metrics[1]
		sum += metrics[1]
	}

	alpha := make([]float64, len(scores))
	for p, s := range scores {
		if s == 0 || sum == 0 {
			continue
		}
		alpha[p] = s / sum
	}

	return alpha, nil
}

// SimpleAverage gives every participant the same share, rounded to two
// decimals.
type SimpleAverage struct{}

func (s *SimpleAverage) Compute(_ context.Context, weightSets []WeightSet) ([]float64, error) {
	n := len(weightSets)
	alpha := make([]float64, n)
	if n == 0 {
		return alpha, nil
	}
	share := Round2(1.0 / float64(n))
	for p := range alpha {
		alpha[p] = share
	}

	return alpha, nil
}
