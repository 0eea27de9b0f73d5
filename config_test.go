package gridfl_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/absmach/gridfl"
	"github.com/absmach/gridfl/pkg/fl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonConfig = `{
	"task_name": "load forecasting",
	"task_description": "smart grid demo",
	"baseline_model_artifact": "baseline.cbor",
	"baseline_model_weights": "",
	"baseline_model_config": "",
	"features_names": {"features": ["load", "temp"], "labels": "y"},
	"fl_rounds": 3,
	"epochs": 2,
	"batch_size": 16,
	"aggregation_method": "simple_average",
	"participant_ids": [0, 1]
}`

const tomlConfig = `task_name = "load forecasting"
task_description = "smart grid demo"
baseline_model_artifact = "baseline.cbor"
baseline_model_weights = "weights.json"
baseline_model_config = ""
fl_rounds = 2
epochs = 1
batch_size = 8
aggregation_method = "ensemble_general"

[features_names]
features = ["load"]
labels = "y"
`

func write(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadTaskConfigJSON(t *testing.T) {
	t.Parallel()

	cfg, err := gridfl.LoadTaskConfig(write(t, "task.json", jsonConfig))
	require.NoError(t, err)
	assert.Equal(t, &gridfl.TaskConfig{
		TaskName:              "load forecasting",
		TaskDescription:       "smart grid demo",
		BaselineModelArtifact: "baseline.cbor",
		FeaturesNames:         gridfl.FeaturesNames{Features: []string{"load", "temp"}, Labels: "y"},
		FLRounds:              3,
		Epochs:                2,
		BatchSize:             16,
		AggregationMethod:     "simple_average",
		ParticipantIDs:        []fl.ParticipantID{0, 1},
	}, cfg)
	assert.Equal(t, fl.SimpleAverageMethod, cfg.Method())
}

func TestLoadTaskConfigTOML(t *testing.T) {
	t.Parallel()

	cfg, err := gridfl.LoadTaskConfig(write(t, "task.toml", tomlConfig))
	require.NoError(t, err)
	assert.Equal(t, "weights.json", cfg.BaselineModelWeights)
	assert.Equal(t, 2, cfg.FLRounds)
	assert.Equal(t, []string{"load"}, cfg.FeaturesNames.Features)
	assert.Equal(t, "y", cfg.FeaturesNames.Labels)
	assert.Empty(t, cfg.ParticipantIDs)
	assert.Equal(t, fl.EnsembleGeneralMethod, cfg.Method())
}

func TestLoadTaskConfigErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		desc    string
		name    string
		content string
		err     error
	}{
		{
			desc:    "missing key",
			name:    "task.json",
			content: `{"task_name": "x", "fl_rounds": 1}`,
			err:     gridfl.ErrMalformedConfiguration,
		},
		{
			desc:    "not json",
			name:    "task.json",
			content: `{`,
			err:     gridfl.ErrMalformedConfiguration,
		},
		{
			desc:    "zero rounds",
			name:    "task.toml",
			content: strings.Replace(tomlConfig, "fl_rounds = 2", "fl_rounds = 0", 1),
			err:     gridfl.ErrMalformedConfiguration,
		},
		{
			desc:    "unknown aggregation method",
			name:    "task.json",
			content: `{"task_name": "", "task_description": "", "baseline_model_artifact": "", "baseline_model_weights": "", "baseline_model_config": "", "features_names": {"features": ["a"], "labels": "y"}, "fl_rounds": 1, "epochs": 1, "batch_size": 1, "aggregation_method": "median"}`,
			err:     fl.ErrUnsupportedAggregationMethod,
		},
		{
			desc:    "duplicate participants",
			name:    "task.json",
			content: `{"task_name": "", "task_description": "", "baseline_model_artifact": "", "baseline_model_weights": "", "baseline_model_config": "", "features_names": {"features": ["a"], "labels": "y"}, "fl_rounds": 1, "epochs": 1, "batch_size": 1, "aggregation_method": "", "participant_ids": [1, 1]}`,
			err:     gridfl.ErrMalformedConfiguration,
		},
		{
			desc:    "unsupported extension",
			name:    "task.yaml",
			content: "task_name: x",
			err:     gridfl.ErrUnsupportedConfigFile,
		},
	}

	for _, tc := range cases {
		_, err := gridfl.LoadTaskConfig(write(t, tc.name, tc.content))
		assert.ErrorIs(t, err, tc.err, tc.desc)
	}

	_, err := gridfl.LoadTaskConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
