package participant

import (
	"context"
	"log/slog"
	"sync"

	"github.com/absmach/gridfl/pkg/fl"
)

type service struct {
	mu        sync.Mutex
	trainer   *Trainer
	statsPath string
	logger    *slog.Logger
}

// NewService wraps a trainer. When statsPath is set the training history is
// written there once the last round is trained.
func NewService(trainer *Trainer, statsPath string, logger *slog.Logger) Service {
	return &service{
		trainer:   trainer,
		statsPath: statsPath,
		logger:    logger,
	}
}

func (svc *service) Bootstrap(ctx context.Context) (bool, error) {
	return svc.advance(ctx, "")
}

func (svc *service) HandleRoundArtifact(ctx context.Context, path string) (bool, error) {
	return svc.advance(ctx, path)
}

func (svc *service) advance(ctx context.Context, path string) (bool, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	wasFinished := svc.trainer.Finished()
	finished, err := svc.trainer.Advance(ctx, path)
	if err != nil {
		return finished, err
	}

	if finished && !wasFinished && svc.statsPath != "" {
		if err := svc.trainer.WriteStatistics(svc.statsPath); err != nil {
			return finished, err
		}
		svc.logger.InfoContext(ctx, "Participant statistics saved",
			slog.Uint64("participant_id", uint64(svc.trainer.ID())),
			slog.String("path", svc.statsPath))
	}

	return finished, nil
}

func (svc *service) Status(_ context.Context) (Status, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	return Status{
		ParticipantID: svc.trainer.ID(),
		CurrentRound:  svc.trainer.CurrentRound(),
		Rounds:        svc.trainer.Rounds(),
		Finished:      svc.trainer.Finished(),
	}, nil
}

func (svc *service) History(_ context.Context) ([]*fl.TrainingOutcome, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	return svc.trainer.History(), nil
}

func (svc *service) WriteStatistics(_ context.Context, path string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	return svc.trainer.WriteStatistics(path)
}
