package participant

import (
	"context"

	"github.com/absmach/gridfl/pkg/fl"
)

// Service is the participant side of the protocol as seen by the
// filesystem dispatcher and the status API.
type Service interface {
	// Bootstrap trains the first round from the baseline artifact.
	Bootstrap(ctx context.Context) (bool, error)
	// HandleRoundArtifact is called for every file the validator publishes
	// and reports whether all local rounds are done.
	HandleRoundArtifact(ctx context.Context, path string) (bool, error)
	Status(ctx context.Context) (Status, error)
	History(ctx context.Context) ([]*fl.TrainingOutcome, error)
	WriteStatistics(ctx context.Context, path string) error
}

type Status struct {
	ParticipantID fl.ParticipantID `json:"participant_id"`
	CurrentRound  int              `json:"current_round"`
	Rounds        int              `json:"rounds"`
	Finished      bool             `json:"finished"`
}
