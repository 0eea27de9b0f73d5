package gridfl

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/absmach/gridfl/pkg/fl"
	"github.com/pelletier/go-toml"
)

var (
	ErrMalformedConfiguration = errors.New("malformed task configuration")
	ErrUnsupportedConfigFile  = errors.New("unsupported task configuration file")
)

var requiredKeys = []string{
	"task_name",
	"task_description",
	"baseline_model_artifact",
	"baseline_model_weights",
	"baseline_model_config",
	"features_names",
	"fl_rounds",
	"epochs",
	"batch_size",
	"aggregation_method",
}

// TaskConfig is the announcement shared by the validator and every
// participant of a task.
type TaskConfig struct {
	TaskName              string             `json:"task_name"               toml:"task_name"`
	TaskDescription       string             `json:"task_description"        toml:"task_description"`
	BaselineModelArtifact string             `json:"baseline_model_artifact" toml:"baseline_model_artifact"`
	BaselineModelWeights  string             `json:"baseline_model_weights"  toml:"baseline_model_weights"`
	BaselineModelConfig   string             `json:"baseline_model_config"   toml:"baseline_model_config"`
	FeaturesNames         FeaturesNames      `json:"features_names"          toml:"features_names"`
	FLRounds              int                `json:"fl_rounds"               toml:"fl_rounds"`
	Epochs                int                `json:"epochs"                  toml:"epochs"`
	BatchSize             int                `json:"batch_size"              toml:"batch_size"`
	AggregationMethod     string             `json:"aggregation_method"      toml:"aggregation_method"`
	ParticipantIDs        []fl.ParticipantID `json:"participant_ids"         toml:"participant_ids"`
}

type FeaturesNames struct {
	Features []string `json:"features" toml:"features"`
	Labels   string   `json:"labels"   toml:"labels"`
}

// LoadTaskConfig reads a task configuration from a JSON or TOML file,
// chosen by extension.
func LoadTaskConfig(path string) (*TaskConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading task config file: %w", err)
	}

	var (
		keys map[string]any
		cfg  TaskConfig
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &keys); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedConfiguration, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedConfiguration, err)
		}
	case ".toml":
		tree, err := toml.Load(string(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedConfiguration, err)
		}
		keys = tree.ToMap()
		if err := tree.Unmarshal(&cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedConfiguration, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedConfigFile, path)
	}

	var missing []string
	for _, k := range requiredKeys {
		if _, ok := keys[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing keys %s", ErrMalformedConfiguration, strings.Join(missing, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *TaskConfig) Validate() error {
	switch {
	case c.FLRounds <= 0:
		return fmt.Errorf("%w: fl_rounds must be positive", ErrMalformedConfiguration)
	case c.Epochs <= 0:
		return fmt.Errorf("%w: epochs must be positive", ErrMalformedConfiguration)
	case c.BatchSize <= 0:
		return fmt.Errorf("%w: batch_size must be positive", ErrMalformedConfiguration)
	case len(c.FeaturesNames.Features) == 0 || c.FeaturesNames.Labels == "":
		return fmt.Errorf("%w: features_names needs features and labels", ErrMalformedConfiguration)
	}
	if _, err := fl.ParseMethod(c.AggregationMethod); err != nil {
		return err
	}
	for i, id := range c.ParticipantIDs {
		if slices.Contains(c.ParticipantIDs[:i], id) {
			return fmt.Errorf("%w: duplicate participant %d", ErrMalformedConfiguration, id)
		}
	}

	return nil
}

// Method returns the validated aggregation method.
func (c *TaskConfig) Method() fl.Method {
	m, _ := fl.ParseMethod(c.AggregationMethod)

	return m
}
