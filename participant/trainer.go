package participant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/absmach/gridfl/pkg/fl"
)

var ErrInvalidConfig = errors.New("invalid trainer configuration")

type Config struct {
	ID        fl.ParticipantID
	Rounds    int
	Epochs    int
	OutputDir string
}

// Trainer trains the local model once per round, starting from the
// baseline published by the validator. It is not safe for concurrent use.
type Trainer struct {
	id        fl.ParticipantID
	epochs    int
	outputDir string
	artifact  fl.Artifact
	store     fl.WeightsStore
	train     fl.Dataset
	logger    *slog.Logger

	currentRound int
	finished     bool
	history      []*fl.TrainingOutcome
}

func NewTrainer(cfg Config, artifact fl.Artifact, store fl.WeightsStore, train fl.Dataset, logger *slog.Logger) (*Trainer, error) {
	if cfg.Rounds <= 0 {
		return nil, fmt.Errorf("%w: rounds must be positive, got %d", ErrInvalidConfig, cfg.Rounds)
	}
	if cfg.Epochs <= 0 {
		return nil, fmt.Errorf("%w: epochs must be positive, got %d", ErrInvalidConfig, cfg.Epochs)
	}
	if artifact == nil || store == nil {
		return nil, fmt.Errorf("%w: missing collaborator", ErrInvalidConfig)
	}

	return &Trainer{
		id:        cfg.ID,
		epochs:    cfg.Epochs,
		outputDir: cfg.OutputDir,
		artifact:  artifact,
		store:     store,
		train:     train,
		logger:    logger,
		history:   make([]*fl.TrainingOutcome, cfg.Rounds),
	}, nil
}

// Advance runs one local round and reports whether all rounds are done.
// An empty path is the bootstrap call and trains from the baseline the
// artifact already holds. Otherwise path must be the validator weights of
// the current round; anything else is logged and ignored.
func (t *Trainer) Advance(ctx context.Context, path string) (bool, error) {
	if t.finished {
		t.logger.WarnContext(ctx, "Trainer is finished, skipping", slog.String("path", path))

		return t.finished, nil
	}

	if path == "" {
		if t.currentRound != 0 {
			t.logger.WarnContext(ctx, "Bootstrap requested after the first round, skipping",
				slog.Int("current_round", t.currentRound))

			return t.finished, nil
		}
	} else {
		r, err := fl.ParseRound(path)
		if err != nil {
			t.logger.WarnContext(ctx, "Malformed path, skipping",
				slog.String("path", path),
				slog.Any("error", err))

			return t.finished, nil
		}
		if r != t.currentRound {
			t.logger.WarnContext(ctx, "Path does not correspond to the current round, skipping",
				slog.String("path", path),
				slog.Int("round", r),
				slog.Int("current_round", t.currentRound))

			return t.finished, nil
		}

		baseline, err := t.store.ReadWeights(path)
		if err != nil {
			return t.finished, err
		}
		if err := t.artifact.SetWeights(baseline); err != nil {
			return t.finished, fmt.Errorf("failed to load baseline weights: %w", err)
		}
	}

	outcome, err := t.artifact.Fit(ctx, t.train, t.epochs)
	if err != nil {
		return t.finished, fmt.Errorf("failed to fit round %d: %w", t.currentRound, err)
	}

	out := filepath.Join(t.outputDir, fl.SubmissionName(t.currentRound))
	if err := t.store.WriteWeights(t.artifact.Weights(), out); err != nil {
		return t.finished, err
	}

	t.history[t.currentRound] = &outcome
	t.logger.InfoContext(ctx, "Finished local round",
		slog.Uint64("participant_id", uint64(t.id)),
		slog.Int("round", t.currentRound),
		slog.String("path", out))

	t.currentRound++
	t.finished = t.currentRound == len(t.history)

	return t.finished, nil
}

// History returns the training outcome of every round, nil for rounds not
// trained yet.
func (t *Trainer) History() []*fl.TrainingOutcome {
	out := make([]*fl.TrainingOutcome, len(t.history))
	for i, h := range t.history {
		if h != nil {
			c := *h
			out[i] = &c
		}
	}

	return out
}

// WriteStatistics stores the history keyed by round, untrained rounds as
// null.
func (t *Trainer) WriteStatistics(path string) error {
	stats := make(map[int]*fl.TrainingOutcome, len(t.history))
	for i, h := range t.history {
		stats[i] = h
	}
	if err := fl.WriteJSON(path, stats); err != nil {
		return fmt.Errorf("failed to write statistics: %w", err)
	}

	return nil
}

func (t *Trainer) ID() fl.ParticipantID {
	return t.id
}

func (t *Trainer) CurrentRound() int {
	return t.currentRound
}

func (t *Trainer) Finished() bool {
	return t.finished
}

func (t *Trainer) Rounds() int {
	return len(t.history)
}
