package badger_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/absmach/gridfl/pkg/fl"
	"github.com/absmach/gridfl/pkg/storage/badger"
	"github.com/absmach/gridfl/validator"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDB *badger.Database

func TestMain(m *testing.M) {
	dbPath := filepath.Join(os.TempDir(), "badger_test_"+uuid.NewString())

	var err error
	testDB, err = badger.NewDatabase(dbPath)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	testDB.Close()
	os.RemoveAll(dbPath)

	os.Exit(code)
}

func TestRoundRepository(t *testing.T) {
	ctx := context.Background()
	repo := badger.NewRoundRepository(testDB)

	rounds := map[int]validator.RoundStatistics{
		0: {
			SubmittedIDs:      []fl.ParticipantID{1, 0},
			Alpha:             []float64{0.4, 0.6},
			ValidationResults: fl.MetricVector{0.5, 0.8},
			TestResults:       fl.MetricVector{0.6, 0.75},
		},
		1: {
			SubmittedIDs:      []fl.ParticipantID{0, 1},
			Alpha:             []float64{0.5, 0.5},
			ValidationResults: fl.MetricVector{0.4, 0.85},
			TestResults:       fl.MetricVector{0.45, 0.8},
		},
		10: {
			SubmittedIDs: []fl.ParticipantID{0},
			Alpha:        []float64{1},
		},
	}
	for r, stats := range rounds {
		require.NoError(t, repo.Save(ctx, r, stats))
	}

	got, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, rounds[1], got)

	_, err = repo.Get(ctx, 7)
	assert.ErrorIs(t, err, badger.ErrNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, rounds, all)

	overwrite := validator.RoundStatistics{SubmittedIDs: []fl.ParticipantID{1}, Alpha: []float64{1}}
	require.NoError(t, repo.Save(ctx, 10, overwrite))
	got, err = repo.Get(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, overwrite, got)
}
