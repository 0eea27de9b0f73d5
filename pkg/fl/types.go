package fl

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
)

type ParticipantID uint64

// Tensor is a dense row-major array of float64 values.
type Tensor struct {
	Shape []int
	Data  []float64
}

func NewTensor(shape []int, data []float64) (Tensor, error) {
	size := 1
	for _, d := range shape {
		if d < 0 {
			return Tensor{}, fmt.Errorf("%w: negative dimension %d", ErrInvalidTensor, d)
		}
		size *= d
	}
	if size != len(data) {
		return Tensor{}, fmt.Errorf("%w: shape %v requires %d values, got %d", ErrInvalidTensor, shape, size, len(data))
	}

	return Tensor{Shape: slices.Clone(shape), Data: slices.Clone(data)}, nil
}

// Validate checks that Data holds exactly the values Shape describes.
func (t Tensor) Validate() error {
	for _, d := range t.Shape {
		if d < 0 {
			return fmt.Errorf("%w: negative dimension %d", ErrInvalidTensor, d)
		}
	}
	if n := volume(t.Shape); n != len(t.Data) {
		return fmt.Errorf("%w: shape %v requires %d values, got %d", ErrInvalidTensor, t.Shape, n, len(t.Data))
	}

	return nil
}

func (t Tensor) SameShape(o Tensor) bool {
	return slices.Equal(t.Shape, o.Shape)
}

func (t Tensor) Clone() Tensor {
	return Tensor{Shape: slices.Clone(t.Shape), Data: slices.Clone(t.Data)}
}

// MarshalJSON encodes the tensor as nested arrays, a scalar for rank 0.
func (t Tensor) MarshalJSON() ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if len(t.Shape) == 0 {
		return json.Marshal(t.Data[0])
	}
	nested, _ := nest(t.Shape, t.Data)

	return json.Marshal(nested)
}

func (t *Tensor) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	shape, err := inferShape(raw)
	if err != nil {
		return err
	}
	values := make([]float64, 0, volume(shape))
	if err := flatten(raw, shape, &values); err != nil {
		return err
	}
	t.Shape = shape
	t.Data = values

	return nil
}

func nest(shape []int, data []float64) (any, []float64) {
	if len(shape) == 0 {
		return data[0], data[1:]
	}
	out := make([]any, shape[0])
	for i := range out {
		out[i], data = nest(shape[1:], data)
	}

	return out, data
}

func inferShape(v any) ([]int, error) {
	switch x := v.(type) {
	case float64:
		return []int{}, nil
	case []any:
		if len(x) == 0 {
			return []int{0}, nil
		}
		inner, err := inferShape(x[0])
		if err != nil {
			return nil, err
		}

		return append([]int{len(x)}, inner...), nil
	default:
		return nil, fmt.Errorf("%w: unexpected element %T", ErrInvalidTensor, v)
	}
}

func flatten(v any, shape []int, out *[]float64) error {
	if len(shape) == 0 {
		f, ok := v.(float64)
		if !ok {
			return fmt.Errorf("%w: ragged array", ErrInvalidTensor)
		}
		*out = append(*out, f)

		return nil
	}
	arr, ok := v.([]any)
	if !ok || len(arr) != shape[0] {
		return fmt.Errorf("%w: ragged array", ErrInvalidTensor)
	}
	for _, e := range arr {
		if err := flatten(e, shape[1:], out); err != nil {
			return err
		}
	}

	return nil
}

func volume(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}

	return n
}

// WeightSet holds one tensor per model layer.
type WeightSet []Tensor

// Compatible reports whether both sets have the same layer count and the
// same shape at every layer.
func (w WeightSet) Compatible(o WeightSet) bool {
	if len(w) != len(o) {
		return false
	}
	for i := range w {
		if !w[i].SameShape(o[i]) {
			return false
		}
	}

	return true
}

func (w WeightSet) Clone() WeightSet {
	out := make(WeightSet, len(w))
	for i := range w {
		out[i] = w[i].Clone()
	}

	return out
}

// MetricVector is the result of an evaluation. Index 0 is the loss and
// index 1 an accuracy-like score.
type MetricVector []float64

type TrainingOutcome struct {
	Epochs  int                  `json:"epochs"`
	History map[string][]float64 `json:"history"`
}

type Dataset struct {
	Features [][]float64
	Labels   []float64
}

func (d Dataset) Len() int {
	return len(d.Labels)
}

// Artifact is the trainable model shared by a coordinator or a trainer.
type Artifact interface {
	Weights() WeightSet
	SetWeights(w WeightSet) error
	Fit(ctx context.Context, data Dataset, epochs int) (TrainingOutcome, error)
	Evaluate(ctx context.Context, data Dataset) (MetricVector, error)
}

type WeightsStore interface {
	ReadWeights(path string) (WeightSet, error)
	WriteWeights(w WeightSet, path string) error
}

type Aggregator interface {
	Aggregate(weightSets []WeightSet, alpha []float64) (WeightSet, error)
}
