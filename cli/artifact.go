package cli

import (
	"path/filepath"
	"strconv"

	"github.com/absmach/gridfl/pkg/fl"
	"github.com/absmach/gridfl/pkg/model"
	"github.com/spf13/cobra"
)

var (
	inputs       int
	learningRate float64
	batchSize    int
	seed         uint64
)

func NewArtifactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifact [init|weights]",
		Short: "Baseline model artifacts",
		Long:  `Create baseline model artifacts and export their weights.`,
	}

	initCmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Create a baseline logistic regression artifact",
		Long: `Create a baseline logistic regression artifact with zero weights.

Examples:
  gridfl-cli artifact init baseline.cbor --inputs 4 --learning-rate 0.05`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			m, err := model.NewLogistic(inputs, model.Options{
				LearningRate: learningRate,
				BatchSize:    batchSize,
				Seed:         seed,
			})
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			if err := model.WriteArtifact(m, args[0]); err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logSuccessCmd(*cmd, "Artifact written to "+args[0]+" with "+strconv.Itoa(inputs)+" inputs")
		},
	}

	initCmd.Flags().IntVar(&inputs, "inputs", 1, "Number of input features")
	initCmd.Flags().Float64Var(&learningRate, "learning-rate", 0.1, "Learning rate")
	initCmd.Flags().IntVar(&batchSize, "batch-size", 32, "Mini-batch size")
	initCmd.Flags().Uint64Var(&seed, "seed", 0, "Seed of the shuffling generator")

	weightsCmd := &cobra.Command{
		Use:   "weights <artifact> <weights.json>",
		Short: "Export the weights of an artifact",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 2 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			m, err := model.ReadArtifact(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			if err := fl.NewFileStore().WriteWeights(m.Weights(), args[1]); err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logSuccessCmd(*cmd, "Weights written to "+filepath.Clean(args[1]))
		},
	}

	cmd.AddCommand(initCmd, weightsCmd)

	return cmd
}
