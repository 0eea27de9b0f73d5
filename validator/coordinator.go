package validator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/absmach/gridfl/pkg/fl"
)

var (
	ErrRoundFinished   = errors.New("all rounds are already finalized")
	ErrRoundIncomplete = errors.New("round is missing submissions")
	ErrInvalidConfig   = errors.New("invalid coordinator configuration")
)

type Config struct {
	ParticipantIDs []fl.ParticipantID
	Rounds         int
	OutputDir      string
}

// RoundRecord is the bookkeeping of one round. SubmittedIDs and
// SubmittedWeights are aligned index for index, in arrival order.
type RoundRecord struct {
	ValidParticipants []fl.ParticipantID
	SubmittedIDs      []fl.ParticipantID
	SubmittedWeights  []fl.WeightSet
	Alpha             []float64
	ValidationResults fl.MetricVector
	TestResults       fl.MetricVector
}

func (r *RoundRecord) valid(id fl.ParticipantID) bool {
	return slices.Contains(r.ValidParticipants, id)
}

func (r *RoundRecord) submitted(id fl.ParticipantID) bool {
	return slices.Contains(r.SubmittedIDs, id)
}

func (r *RoundRecord) complete() bool {
	return len(r.SubmittedIDs) == len(r.ValidParticipants)
}

// Coordinator collects participant submissions round by round and merges
// them into the global artifact. It is not safe for concurrent use.
type Coordinator struct {
	participants []fl.ParticipantID
	outputDir    string
	artifact     fl.Artifact
	extractor    fl.ContributionExtractor
	aggregator   fl.Aggregator
	store        fl.WeightsStore
	validation   fl.Dataset
	test         fl.Dataset
	logger       *slog.Logger

	currentRound int
	finished     bool
	rounds       []RoundRecord
}

func NewCoordinator(cfg Config, artifact fl.Artifact, extractor fl.ContributionExtractor, aggregator fl.Aggregator, store fl.WeightsStore, validation, test fl.Dataset, logger *slog.Logger) (*Coordinator, error) {
	if cfg.Rounds <= 0 {
		return nil, fmt.Errorf("%w: rounds must be positive, got %d", ErrInvalidConfig, cfg.Rounds)
	}
	if len(cfg.ParticipantIDs) == 0 {
		return nil, fmt.Errorf("%w: no participants", ErrInvalidConfig)
	}
	seen := make(map[fl.ParticipantID]struct{}, len(cfg.ParticipantIDs))
	for _, id := range cfg.ParticipantIDs {
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: duplicate participant %d", ErrInvalidConfig, id)
		}
		seen[id] = struct{}{}
	}
	if artifact == nil || extractor == nil || aggregator == nil || store == nil {
		return nil, fmt.Errorf("%w: missing collaborator", ErrInvalidConfig)
	}

	rounds := make([]RoundRecord, cfg.Rounds)
	for i := range rounds {
		rounds[i] = RoundRecord{ValidParticipants: slices.Clone(cfg.ParticipantIDs)}
	}

	return &Coordinator{
		participants: slices.Clone(cfg.ParticipantIDs),
		outputDir:    cfg.OutputDir,
		artifact:     artifact,
		extractor:    extractor,
		aggregator:   aggregator,
		store:        store,
		validation:   validation,
		test:         test,
		logger:       logger,
		rounds:       rounds,
	}, nil
}

// AddSubmission registers the weights published at path and reports whether
// every expected participant has now submitted for the current round.
// Malformed paths, stale rounds, unknown and duplicate participants are
// logged and ignored.
func (c *Coordinator) AddSubmission(ctx context.Context, path string) (bool, error) {
	if c.finished {
		c.logger.WarnContext(ctx, "Coordinator is finished, skipping submission", slog.String("path", path))

		return false, nil
	}

	id, r, err := fl.ParseSubmission(path)
	if err != nil {
		c.logger.WarnContext(ctx, "Malformed submission path, skipping",
			slog.String("path", path),
			slog.Any("error", err))

		return false, nil
	}
	if r != c.currentRound {
		c.logger.WarnContext(ctx, "Submission does not correspond to the current round, skipping",
			slog.String("path", path),
			slog.Int("round", r),
			slog.Int("current_round", c.currentRound))

		return false, nil
	}

	record := &c.rounds[c.currentRound]
	if !record.valid(id) {
		c.logger.WarnContext(ctx, "Participant is not valid for the current round, skipping",
			slog.Uint64("participant_id", uint64(id)),
			slog.Int("current_round", c.currentRound))

		return false, nil
	}
	if record.submitted(id) {
		c.logger.WarnContext(ctx, "Participant already submitted for the current round, skipping",
			slog.Uint64("participant_id", uint64(id)),
			slog.Int("current_round", c.currentRound))

		return false, nil
	}

	weights, err := c.store.ReadWeights(path)
	if err != nil {
		return false, err
	}
	record.SubmittedIDs = append(record.SubmittedIDs, id)
	record.SubmittedWeights = append(record.SubmittedWeights, weights)

	c.logger.InfoContext(ctx, "Added participant weights",
		slog.Uint64("participant_id", uint64(id)),
		slog.Int("round", c.currentRound),
		slog.Int("submitted", len(record.SubmittedIDs)),
		slog.Int("expected", len(record.ValidParticipants)))

	return record.complete(), nil
}

// FinalizeRound aggregates the submissions of the current round into the
// global artifact, evaluates it, advances the round and publishes the new
// weights. It returns the path of the published weights.
func (c *Coordinator) FinalizeRound(ctx context.Context) (string, error) {
	if c.finished {
		return "", ErrRoundFinished
	}
	record := &c.rounds[c.currentRound]
	if !record.complete() {
		return "", fmt.Errorf("%w: %d of %d", ErrRoundIncomplete, len(record.SubmittedIDs), len(record.ValidParticipants))
	}

	alpha, err := c.extractor.Compute(ctx, record.SubmittedWeights)
	if err != nil {
		return "", fmt.Errorf("failed to compute contributions: %w", err)
	}
	record.Alpha = alpha

	global, err := c.aggregator.Aggregate(record.SubmittedWeights, alpha)
	if err != nil {
		return "", err
	}
	if err := c.artifact.SetWeights(global); err != nil {
		return "", fmt.Errorf("failed to load aggregated weights: %w", err)
	}

	if record.ValidationResults, err = c.artifact.Evaluate(ctx, c.validation); err != nil {
		return "", fmt.Errorf("failed to evaluate on validation set: %w", err)
	}
	if record.TestResults, err = c.artifact.Evaluate(ctx, c.test); err != nil {
		return "", fmt.Errorf("failed to evaluate on test set: %w", err)
	}

	finalized := c.currentRound
	c.currentRound++
	name := fl.ValidatorRoundName(c.currentRound)
	if c.currentRound == len(c.rounds) {
		c.finished = true
		name = fl.ValidatorFinalName()
	}

	path := filepath.Join(c.outputDir, name)
	if err := c.store.WriteWeights(global, path); err != nil {
		return "", err
	}

	c.logger.InfoContext(ctx, "Finalized round",
		slog.Int("round", finalized),
		slog.Any("alpha", alpha),
		slog.Any("validation_results", record.ValidationResults),
		slog.Any("test_results", record.TestResults),
		slog.String("path", path))

	return path, nil
}

// ParticipantsContributions averages every configured participant's
// contribution over all rounds, in configuration order, rounded to two
// decimals. Rounds a participant did not submit to count as zero.
func (c *Coordinator) ParticipantsContributions() []float64 {
	return Contributions(c.participants, len(c.rounds), c.Statistics())
}

// Contributions computes per-participant time-averaged contributions from
// round statistics.
func Contributions(participants []fl.ParticipantID, rounds int, stats map[int]RoundStatistics) []float64 {
	out := make([]float64, len(participants))
	if rounds <= 0 {
		return out
	}
	for i, id := range participants {
		var sum float64
		for r := range rounds {
			s, ok := stats[r]
			if !ok {
				continue
			}
			for p, sid := range s.SubmittedIDs {
				if sid == id && p < len(s.Alpha) {
					sum += s.Alpha[p]
				}
			}
		}
		out[i] = fl.Round2(sum / float64(rounds))
	}

	return out
}

// Statistics returns the auditable part of every round record.
func (c *Coordinator) Statistics() map[int]RoundStatistics {
	stats := make(map[int]RoundStatistics, len(c.rounds))
	for i, r := range c.rounds {
		stats[i] = RoundStatistics{
			SubmittedIDs:      slices.Clone(r.SubmittedIDs),
			Alpha:             slices.Clone(r.Alpha),
			ValidationResults: slices.Clone(r.ValidationResults),
			TestResults:       slices.Clone(r.TestResults),
		}
	}

	return stats
}

func (c *Coordinator) WriteStatistics(path string) error {
	if err := fl.WriteJSON(path, c.Statistics()); err != nil {
		return fmt.Errorf("failed to write statistics: %w", err)
	}

	return nil
}

func (c *Coordinator) CurrentRound() int {
	return c.currentRound
}

func (c *Coordinator) Finished() bool {
	return c.finished
}

func (c *Coordinator) Rounds() int {
	return len(c.rounds)
}

func (c *Coordinator) Participants() []fl.ParticipantID {
	return slices.Clone(c.participants)
}

// Round returns a copy of the record of round i.
func (c *Coordinator) Round(i int) (RoundRecord, bool) {
	if i < 0 || i >= len(c.rounds) {
		return RoundRecord{}, false
	}
	r := c.rounds[i]

	return RoundRecord{
		ValidParticipants: slices.Clone(r.ValidParticipants),
		SubmittedIDs:      slices.Clone(r.SubmittedIDs),
		SubmittedWeights:  slices.Clone(r.SubmittedWeights),
		Alpha:             slices.Clone(r.Alpha),
		ValidationResults: slices.Clone(r.ValidationResults),
		TestResults:       slices.Clone(r.TestResults),
	}, true
}
