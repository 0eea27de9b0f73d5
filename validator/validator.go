package validator

import (
	"context"

	"github.com/absmach/gridfl/pkg/fl"
)

// Service is the validator side of the protocol as seen by the filesystem
// dispatcher and the status API.
type Service interface {
	// HandleSubmission is called for every file created under the
	// participants root. It finalizes the round once the last expected
	// submission arrives and reports whether a round was finalized.
	HandleSubmission(ctx context.Context, path string) (bool, error)
	Status(ctx context.Context) (Status, error)
	Contributions(ctx context.Context) (ContributionsPage, error)
	RoundStatistics(ctx context.Context, round int) (RoundStatistics, error)
	WriteStatistics(ctx context.Context, path string) error
}

type Status struct {
	CurrentRound int                `json:"current_round"`
	Rounds       int                `json:"rounds"`
	Finished     bool               `json:"finished"`
	Submitted    []fl.ParticipantID `json:"submitted"`
	Expected     []fl.ParticipantID `json:"expected"`
	LastOutput   string             `json:"last_output,omitempty"`
}

type ContributionsPage struct {
	Finished      bool               `json:"finished"`
	Participants  []fl.ParticipantID `json:"participants"`
	Contributions []float64          `json:"contributions"`
}

// RoundStatistics is the persisted audit trail of a round. It never holds
// weights or the valid participant set.
type RoundStatistics struct {
	SubmittedIDs      []fl.ParticipantID `json:"submitted_ids"`
	Alpha             []float64          `json:"alpha"`
	ValidationResults fl.MetricVector    `json:"validation_results"`
	TestResults       fl.MetricVector    `json:"test_results"`
}

// RoundRepository stores round statistics as rounds are finalized.
type RoundRepository interface {
	Save(ctx context.Context, round int, stats RoundStatistics) error
	Get(ctx context.Context, round int) (RoundStatistics, error)
	List(ctx context.Context) (map[int]RoundStatistics, error)
}
