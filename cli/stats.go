package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/absmach/gridfl/pkg/fl"
	"github.com/absmach/gridfl/validator"
	"github.com/spf13/cobra"
)

var (
	participantIDs []uint
	rounds         int
)

func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [view]",
		Short: "Statistics files",
		Long:  `Inspect the statistics written by the validator and the participants.`,
	}

	viewCmd := &cobra.Command{
		Use:   "view <file>",
		Short: "View a statistics file",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			var stats any
			if err := json.Unmarshal(data, &stats); err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, stats)
		},
	}

	cmd.AddCommand(viewCmd)

	return cmd
}

type contribution struct {
	ParticipantID fl.ParticipantID `json:"participant_id"`
	Contribution  float64          `json:"contribution"`
}

// ReadValidatorStatistics loads a statistics file written by the validator.
func ReadValidatorStatistics(path string) (map[int]validator.RoundStatistics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var stats map[int]validator.RoundStatistics
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("invalid validator statistics %s: %w", path, err)
	}

	return stats, nil
}

func NewContributionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contributions <validator-stats-file>",
		Short: "Compute participant contributions",
		Long: `Average every participant's contribution over the rounds of a finished task.

Examples:
  # Contributions of participants 0 and 1 over 3 rounds
  gridfl-cli contributions validator_stats.json --participants 0,1 --rounds 3`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			stats, err := ReadValidatorStatistics(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			ids := make([]fl.ParticipantID, 0, len(participantIDs))
			for _, id := range participantIDs {
				ids = append(ids, fl.ParticipantID(id))
			}
			if len(ids) == 0 {
				ids = submitters(stats)
			}
			n := rounds
			if n <= 0 {
				n = len(stats)
			}

			values := validator.Contributions(ids, n, stats)
			out := make([]contribution, len(ids))
			for i, id := range ids {
				out[i] = contribution{ParticipantID: id, Contribution: values[i]}
			}
			logJSONCmd(*cmd, out)
		},
	}

	cmd.Flags().UintSliceVar(&participantIDs, "participants", nil, "Participant ids, in output order. Defaults to every submitter.")
	cmd.Flags().IntVar(&rounds, "rounds", 0, "Number of rounds of the task. Defaults to the rounds in the file.")

	return cmd
}

func submitters(stats map[int]validator.RoundStatistics) []fl.ParticipantID {
	var ids []fl.ParticipantID
	for _, s := range stats {
		for _, id := range s.SubmittedIDs {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	slices.Sort(ids)

	return ids
}
