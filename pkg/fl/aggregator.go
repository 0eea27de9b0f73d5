package fl

import (
	"fmt"
	"math"
)

// WeightedAggregator merges participant weights with a contribution vector.
type WeightedAggregator struct{}

func NewWeightedAggregator() Aggregator {
	return &WeightedAggregator{}
}

func (a *WeightedAggregator) Aggregate(weightSets []WeightSet, alpha []float64) (WeightSet, error) {
	return Aggregate(weightSets, alpha)
}

// Aggregate returns the element-wise sum of weightSets[p][l] * alpha[p] for
// every layer l. The inputs are left untouched.
func Aggregate(weightSets []WeightSet, alpha []float64) (WeightSet, error) {
	var sum float64
	for _, a := range alpha {
		sum += a
	}
	if Round2(sum) != 1.0 {
		return nil, fmt.Errorf("%w: %v sums to %g", ErrInvalidContributionVector, alpha, sum)
	}
	if len(weightSets) != len(alpha) {
		return nil, fmt.Errorf("%w: %d weight sets, %d contributions", ErrParticipantCountMismatch, len(weightSets), len(alpha))
	}

	reference := weightSets[0]
	for p, ws := range weightSets {
		if p > 0 {
			if err := checkLayout(reference, ws, p); err != nil {
				return nil, err
			}
		}
		for l, layer := range ws {
			if err := layer.Validate(); err != nil {
				return nil, fmt.Errorf("layer %d of participant %d: %w", l, p, err)
			}
		}
	}

	aggregated := make(WeightSet, len(reference))
	for l, layer := range reference {
		data := make([]float64, len(layer.Data))
		for p, ws := range weightSets {
			if alpha[p] == 0 {
				continue
			}
			for i, v := range ws[l].Data {
				data[i] += v * alpha[p]
			}
		}
		aggregated[l] = Tensor{Shape: append([]int(nil), layer.Shape...), Data: data}
	}

	return aggregated, nil
}

func checkLayout(reference, ws WeightSet, participant int) error {
	for l := range reference {
		if l >= len(ws) {
			return &ShapeError{Layer: l, Participant: participant, Want: reference[l].Shape}
		}
		if !reference[l].SameShape(ws[l]) {
			return &ShapeError{Layer: l, Participant: participant, Got: ws[l].Shape, Want: reference[l].Shape}
		}
	}
	if len(ws) > len(reference) {
		return &ShapeError{Layer: len(reference), Participant: participant, Got: ws[len(reference)].Shape}
	}

	return nil
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
