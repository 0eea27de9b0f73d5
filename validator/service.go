package validator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	pkgerrors "github.com/absmach/gridfl/pkg/errors"
)

type service struct {
	mu          sync.Mutex
	coordinator *Coordinator
	repo        RoundRepository
	statsPath   string
	lastOutput  string
	logger      *slog.Logger
}

// NewService wraps a coordinator. repo may be nil. When statsPath is set the
// statistics are written there once the last round is finalized.
func NewService(coordinator *Coordinator, repo RoundRepository, statsPath string, logger *slog.Logger) Service {
	return &service{
		coordinator: coordinator,
		repo:        repo,
		statsPath:   statsPath,
		logger:      logger,
	}
}

func (svc *service) HandleSubmission(ctx context.Context, path string) (bool, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	complete, err := svc.coordinator.AddSubmission(ctx, path)
	if err != nil || !complete {
		return false, err
	}

	round := svc.coordinator.CurrentRound()
	out, err := svc.coordinator.FinalizeRound(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to finalize round %d: %w", round, err)
	}
	svc.lastOutput = out

	if svc.repo != nil {
		if err := svc.repo.Save(ctx, round, svc.coordinator.Statistics()[round]); err != nil {
			return true, fmt.Errorf("failed to save statistics of round %d: %w", round, err)
		}
	}

	if svc.coordinator.Finished() && svc.statsPath != "" {
		if err := svc.coordinator.WriteStatistics(svc.statsPath); err != nil {
			return true, err
		}
		svc.logger.InfoContext(ctx, "Validator statistics saved", slog.String("path", svc.statsPath))
	}

	return true, nil
}

func (svc *service) Status(_ context.Context) (Status, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	st := Status{
		CurrentRound: svc.coordinator.CurrentRound(),
		Rounds:       svc.coordinator.Rounds(),
		Finished:     svc.coordinator.Finished(),
		LastOutput:   svc.lastOutput,
	}
	if r, ok := svc.coordinator.Round(st.CurrentRound); ok {
		st.Submitted = r.SubmittedIDs
		st.Expected = r.ValidParticipants
	}

	return st, nil
}

func (svc *service) Contributions(_ context.Context) (ContributionsPage, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	return ContributionsPage{
		Finished:      svc.coordinator.Finished(),
		Participants:  svc.coordinator.Participants(),
		Contributions: svc.coordinator.ParticipantsContributions(),
	}, nil
}

func (svc *service) RoundStatistics(_ context.Context, round int) (RoundStatistics, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	stats, ok := svc.coordinator.Statistics()[round]
	if !ok {
		return RoundStatistics{}, pkgerrors.ErrNotFound
	}

	return stats, nil
}

func (svc *service) WriteStatistics(_ context.Context, path string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	return svc.coordinator.WriteStatistics(path)
}
