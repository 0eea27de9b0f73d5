package fl

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidContributionVector    = errors.New("contribution vector does not sum to 1")
	ErrParticipantCountMismatch     = errors.New("number of weight sets and contribution vector length differ")
	ErrIncompatibleWeightShapes     = errors.New("incompatible weight shapes")
	ErrUnsupportedAggregationMethod = errors.New("unsupported aggregation method")
	ErrInvalidExtractorArguments    = errors.New("invalid contribution extractor arguments")
	ErrInvalidMetricVector          = errors.New("metric vector has no score entry")
	ErrNegativeScore                = errors.New("participant score must not be negative")
	ErrUnreadableArtifact           = errors.New("unreadable artifact")
	ErrUnsupportedExtension         = errors.New("artifact path must have a .json extension")
	ErrMalformedPath                = errors.New("malformed artifact path")
	ErrInvalidTensor                = errors.New("invalid tensor")
)

// ShapeError reports the first layer at which a participant's weights do not
// match the layout of participant 0.
type ShapeError struct {
	Layer       int
	Participant int
	Got         []int
	Want        []int
}

func (e *ShapeError) Error() string {
	if e.Got == nil {
		return fmt.Sprintf("%s: participant %d has no layer %d", ErrIncompatibleWeightShapes, e.Participant, e.Layer)
	}

	return fmt.Sprintf("%s: layer %d of participant %d has shape %v, expected %v",
		ErrIncompatibleWeightShapes, e.Layer, e.Participant, e.Got, e.Want)
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrIncompatibleWeightShapes
}
