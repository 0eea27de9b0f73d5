package validator_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/absmach/gridfl/pkg/fl"
	"github.com/absmach/gridfl/pkg/fl/mocks"
	"github.com/absmach/gridfl/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	logger     = slog.New(slog.DiscardHandler)
	validation = fl.Dataset{Features: [][]float64{{0, 1}, {1, 0}}, Labels: []float64{1, 0}}
	testSet    = fl.Dataset{Features: [][]float64{{1, 1}}, Labels: []float64{1}}
)

type fixture struct {
	root     string
	out      string
	store    *fl.FileStore
	artifact *mocks.Artifact
}

func newFixture(t *testing.T, metrics ...float64) fixture {
	t.Helper()

	if len(metrics) == 0 {
		metrics = []float64{0.4, 0.8}
	}
	artifact := mocks.NewArtifact(nil)
	artifact.On("SetWeights", mock.Anything).Return(nil)
	artifact.On("Evaluate", mock.Anything, mock.Anything).Return(fl.MetricVector(metrics), nil)

	return fixture{
		root:     t.TempDir(),
		out:      t.TempDir(),
		store:    fl.NewFileStore(),
		artifact: artifact,
	}
}

func (f fixture) coordinator(t *testing.T, method fl.Method, rounds int, ids ...fl.ParticipantID) *validator.Coordinator {
	t.Helper()

	extractor, err := fl.NewContributionExtractor(method, f.artifact, validation)
	require.NoError(t, err)

	c, err := validator.NewCoordinator(validator.Config{
		ParticipantIDs: ids,
		Rounds:         rounds,
		OutputDir:      f.out,
	}, f.artifact, extractor, fl.NewWeightedAggregator(), f.store, validation, testSet, logger)
	require.NoError(t, err)

	return c
}

func (f fixture) submit(t *testing.T, id fl.ParticipantID, round int, values ...float64) string {
	t.Helper()

	path := filepath.Join(f.root, fmt.Sprintf("participant_%d", id), fl.SubmissionName(round))
	require.NoError(t, f.store.WriteWeights(fl.WeightSet{vector(values...)}, path))

	return path
}

func TestNewCoordinatorValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	extractor, err := fl.NewContributionExtractor(fl.SimpleAverageMethod, f.artifact, validation)
	require.NoError(t, err)

	cases := []struct {
		desc string
		cfg  validator.Config
	}{
		{desc: "zero rounds", cfg: validator.Config{ParticipantIDs: []fl.ParticipantID{0}, Rounds: 0}},
		{desc: "no participants", cfg: validator.Config{Rounds: 1}},
		{desc: "duplicate participants", cfg: validator.Config{ParticipantIDs: []fl.ParticipantID{0, 0}, Rounds: 1}},
	}

	for _, tc := range cases {
		_, err := validator.NewCoordinator(tc.cfg, f.artifact, extractor, fl.NewWeightedAggregator(), f.store, validation, testSet, logger)
		assert.ErrorIs(t, err, validator.ErrInvalidConfig, tc.desc)
	}

	_, err = validator.NewCoordinator(validator.Config{ParticipantIDs: []fl.ParticipantID{0}, Rounds: 1}, f.artifact, nil, fl.NewWeightedAggregator(), f.store, validation, testSet, logger)
	assert.ErrorIs(t, err, validator.ErrInvalidConfig)
}

func TestCoordinatorRoundCompletion(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	c := f.coordinator(t, fl.SimpleAverageMethod, 2, 0, 1)
	ctx := context.Background()

	complete, err := c.AddSubmission(ctx, f.submit(t, 0, 0, 1, 2))
	require.NoError(t, err)
	assert.False(t, complete)

	_, err = c.FinalizeRound(ctx)
	assert.ErrorIs(t, err, validator.ErrRoundIncomplete)

	complete, err = c.AddSubmission(ctx, f.submit(t, 1, 0, 3, 4))
	require.NoError(t, err)
	assert.True(t, complete)

	out, err := c.FinalizeRound(ctx)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.out, "validator_weights_round_1.json"), out)
	assert.Equal(t, 1, c.CurrentRound())
	assert.False(t, c.Finished())

	global, err := f.store.ReadWeights(out)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 3}, global[0].Data, 1e-9)

	record, ok := c.Round(0)
	require.True(t, ok)
	assert.Equal(t, []float64{0.5, 0.5}, record.Alpha)
	assert.Equal(t, fl.MetricVector{0.4, 0.8}, record.ValidationResults)
	assert.Equal(t, fl.MetricVector{0.4, 0.8}, record.TestResults)
	assert.Equal(t, global, f.artifact.Weights())
}

func TestCoordinatorPublishesFinalWeights(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	c := f.coordinator(t, fl.SimpleAverageMethod, 2, 0, 1)
	ctx := context.Background()

	var published []string
	for r := range 2 {
		for _, id := range []fl.ParticipantID{0, 1} {
			complete, err := c.AddSubmission(ctx, f.submit(t, id, r, float64(r), float64(id)))
			require.NoError(t, err)
			if complete {
				out, err := c.FinalizeRound(ctx)
				require.NoError(t, err)
				published = append(published, filepath.Base(out))
			}
		}
	}

	assert.Equal(t, []string{"validator_weights_round_1.json", "validator_weights_final.json"}, published)
	assert.True(t, c.Finished())
	assert.Equal(t, 2, c.CurrentRound())

	_, err := c.FinalizeRound(ctx)
	assert.ErrorIs(t, err, validator.ErrRoundFinished)

	complete, err := c.AddSubmission(ctx, f.submit(t, 0, 2, 9))
	require.NoError(t, err)
	assert.False(t, complete)

	entries, err := os.ReadDir(f.out)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCoordinatorIgnoresInvalidSubmissions(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	c := f.coordinator(t, fl.SimpleAverageMethod, 2, 0, 1)
	ctx := context.Background()

	first := f.submit(t, 0, 0, 1)
	complete, err := c.AddSubmission(ctx, first)
	require.NoError(t, err)
	require.False(t, complete)

	cases := []struct {
		desc string
		path string
	}{
		{desc: "duplicate", path: first},
		{desc: "foreign participant", path: f.submit(t, 7, 0, 1)},
		{desc: "future round", path: f.submit(t, 1, 1, 1)},
		{desc: "malformed path", path: filepath.Join(f.root, "participant_1", "weights.json")},
		{desc: "unparsable participant", path: filepath.Join(f.root, "validator", fl.SubmissionName(0))},
	}

	for _, tc := range cases {
		complete, err := c.AddSubmission(ctx, tc.path)
		require.NoError(t, err, tc.desc)
		assert.False(t, complete, tc.desc)
	}

	record, ok := c.Round(0)
	require.True(t, ok)
	assert.Equal(t, []fl.ParticipantID{0}, record.SubmittedIDs)
	assert.Len(t, record.SubmittedWeights, 1)
	assert.Equal(t, 0, c.CurrentRound())
}

func TestCoordinatorUnreadableSubmission(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	c := f.coordinator(t, fl.SimpleAverageMethod, 1, 0)

	path := filepath.Join(f.root, "participant_0", fl.SubmissionName(0))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := c.AddSubmission(context.Background(), path)
	assert.ErrorIs(t, err, fl.ErrUnreadableArtifact)

	record, _ := c.Round(0)
	assert.Empty(t, record.SubmittedIDs)
}

func TestCoordinatorAllZeroScoresIsFatal(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1, 0)
	c := f.coordinator(t, fl.EnsembleGeneralMethod, 1, 0, 1)
	ctx := context.Background()

	_, err := c.AddSubmission(ctx, f.submit(t, 0, 0, 1))
	require.NoError(t, err)
	complete, err := c.AddSubmission(ctx, f.submit(t, 1, 0, 2))
	require.NoError(t, err)
	require.True(t, complete)

	_, err = c.FinalizeRound(ctx)
	assert.ErrorIs(t, err, fl.ErrInvalidContributionVector)
	assert.False(t, c.Finished())
}

func TestParticipantsContributions(t *testing.T) {
	t.Parallel()

	stats := map[int]validator.RoundStatistics{
		0: {SubmittedIDs: []fl.ParticipantID{0, 1}, Alpha: []float64{0.3, 0.7}},
		1: {SubmittedIDs: []fl.ParticipantID{1, 0}, Alpha: []float64{0.4, 0.6}},
		2: {SubmittedIDs: []fl.ParticipantID{0, 1}, Alpha: []float64{0.5, 0.5}},
	}

	got := validator.Contributions([]fl.ParticipantID{0, 1, 2}, 3, stats)
	assert.Equal(t, []float64{0.47, 0.53, 0}, got)

	assert.Equal(t, []float64{0, 0}, validator.Contributions([]fl.ParticipantID{0, 1}, 3, nil))
	assert.Equal(t, []float64{0}, validator.Contributions([]fl.ParticipantID{0}, 0, stats))
}

func TestCoordinatorStatistics(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	c := f.coordinator(t, fl.SimpleAverageMethod, 1, 0, 1)
	ctx := context.Background()

	_, err := c.AddSubmission(ctx, f.submit(t, 1, 0, 1))
	require.NoError(t, err)
	_, err = c.AddSubmission(ctx, f.submit(t, 0, 0, 3))
	require.NoError(t, err)
	_, err = c.FinalizeRound(ctx)
	require.NoError(t, err)

	assert.Equal(t, []float64{0.5, 0.5}, c.ParticipantsContributions())

	stats := c.Statistics()
	require.Contains(t, stats, 0)
	assert.Equal(t, []fl.ParticipantID{1, 0}, stats[0].SubmittedIDs)

	path := filepath.Join(t.TempDir(), "validator_stats.json")
	require.NoError(t, c.WriteStatistics(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"0": {"submitted_ids": [1, 0], "alpha": [0.5, 0.5], "validation_results": [0.4, 0.8], "test_results": [0.4, 0.8]}}`, string(data))
}

func vector(values ...float64) fl.Tensor {
	return fl.Tensor{Shape: []int{len(values)}, Data: values}
}
