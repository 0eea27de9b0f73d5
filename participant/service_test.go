package participant_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/absmach/gridfl/participant"
	"github.com/absmach/gridfl/pkg/fl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	statsPath := filepath.Join(t.TempDir(), "participant_stats.json")
	svc := participant.NewService(f.trainer(t, 2), statsPath, logger)
	ctx := context.Background()

	finished, err := svc.Bootstrap(ctx)
	require.NoError(t, err)
	assert.False(t, finished)

	st, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, participant.Status{ParticipantID: 1, CurrentRound: 1, Rounds: 2}, st)

	_, err = os.Stat(statsPath)
	assert.True(t, os.IsNotExist(err))

	finished, err = svc.HandleRoundArtifact(ctx, f.publish(t, fl.ValidatorRoundName(1)))
	require.NoError(t, err)
	assert.True(t, finished)
	assert.FileExists(t, statsPath)

	history, err := svc.History(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	path := filepath.Join(t.TempDir(), "again.json")
	require.NoError(t, svc.WriteStatistics(ctx, path))
	assert.FileExists(t, path)
}
