package cli_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/absmach/gridfl/cli"
	"github.com/absmach/gridfl/pkg/fl"
	"github.com/absmach/gridfl/pkg/model"
	"github.com/absmach/gridfl/pkg/sdk"
	sdkmocks "github.com/absmach/gridfl/pkg/sdk/mocks"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validatorStats = `{
	"0": {"submitted_ids": [0, 1], "alpha": [0.3, 0.7], "validation_results": [0.5, 0.8], "test_results": [0.5, 0.8]},
	"1": {"submitted_ids": [1, 0], "alpha": [0.4, 0.6], "validation_results": [0.4, 0.9], "test_results": [0.4, 0.9]},
	"2": {"submitted_ids": [0, 1], "alpha": [0.5, 0.5], "validation_results": [0.3, 0.9], "test_results": [0.3, 0.9]}
}`

func run(cmd *cobra.Command, args ...string) (string, string) {
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	_ = cmd.Execute()

	return out.String(), errOut.String()
}

func TestArtifactCommands(t *testing.T) {
	dir := t.TempDir()
	artifact := filepath.Join(dir, "baseline.cbor")

	_, errOut := run(cli.NewArtifactCmd(), "init", artifact, "--inputs", "3", "--learning-rate", "0.05")
	assert.Empty(t, errOut)

	m, err := model.ReadArtifact(artifact)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Inputs())

	weights := filepath.Join(dir, "weights.json")
	_, errOut = run(cli.NewArtifactCmd(), "weights", artifact, weights)
	assert.Empty(t, errOut)

	ws, err := fl.NewFileStore().ReadWeights(weights)
	require.NoError(t, err)
	assert.Equal(t, m.Weights(), ws)

	_, errOut = run(cli.NewArtifactCmd(), "weights", filepath.Join(dir, "missing.cbor"), weights)
	assert.Contains(t, errOut, "error")
}

func TestContributionsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "validator_stats.json")
	require.NoError(t, os.WriteFile(path, []byte(validatorStats), 0o644))

	stats, err := cli.ReadValidatorStatistics(path)
	require.NoError(t, err)
	assert.Len(t, stats, 3)

	out, errOut := run(cli.NewContributionsCmd(), path, "--participants", "0,1", "--rounds", "3")
	assert.Empty(t, errOut)
	assert.Contains(t, out, "0.47")
	assert.Contains(t, out, "0.53")

	out, errOut = run(cli.NewContributionsCmd(), path)
	assert.Empty(t, errOut)
	assert.Contains(t, out, "participant_id")
	assert.Contains(t, out, "0.47")

	_, errOut = run(cli.NewContributionsCmd(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Contains(t, errOut, "error")
}

func TestStatsViewCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "participant_0_stats.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"0": {"epochs": 1, "history": {"loss": [0.25]}}, "1": null}`), 0o644))

	out, errOut := run(cli.NewStatsCmd(), "view", path)
	assert.Empty(t, errOut)
	assert.Contains(t, out, "0.25")

	out, _ = run(cli.NewStatsCmd(), "view")
	assert.Contains(t, out, "usage")
}

func TestStatusCommands(t *testing.T) {
	psdk := new(sdkmocks.SDK)
	cli.SetSDK(psdk)

	psdk.On("ValidatorStatus").Return(sdk.ValidatorStatus{CurrentRound: 1, Rounds: 3}, nil)
	psdk.On("RoundStatistics", 0).Return(sdk.RoundStatistics{Alpha: []float64{0.35, 0.65}}, nil)
	psdk.On("ParticipantStatus").Return(sdk.ParticipantStatus{}, errors.New("connection refused"))

	out, errOut := run(cli.NewStatusCmd(), "validator")
	assert.Empty(t, errOut)
	assert.Contains(t, out, "current_round")

	out, errOut = run(cli.NewStatusCmd(), "round", "0")
	assert.Empty(t, errOut)
	assert.Contains(t, out, "0.65")

	_, errOut = run(cli.NewStatusCmd(), "round", "zero")
	assert.Contains(t, errOut, "error")

	_, errOut = run(cli.NewStatusCmd(), "participant")
	assert.Contains(t, errOut, "connection refused")
}

func TestEventsCommandUsage(t *testing.T) {
	out, _ := run(cli.NewEventsCmd())
	assert.Contains(t, out, "usage")
}
