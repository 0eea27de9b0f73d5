package cli

import (
	"strconv"

	"github.com/absmach/gridfl/pkg/sdk"
	"github.com/spf13/cobra"
)

const (
	DefValidatorURL    = "http://localhost:7070"
	DefParticipantURL  = "http://localhost:7071"
	DefTLSVerification = false
)

var gsdk sdk.SDK

func SetSDK(s sdk.SDK) {
	gsdk = s
}

func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [validator|contributions|round|participant|history]",
		Short: "Live task status",
		Long:  `Query the status API of a running validator or participant.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "validator",
			Short: "Validator round progress",
			Run: func(cmd *cobra.Command, _ []string) {
				st, err := gsdk.ValidatorStatus()
				if err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				logJSONCmd(*cmd, st)
			},
		},
		&cobra.Command{
			Use:   "contributions",
			Short: "Averaged participant contributions",
			Run: func(cmd *cobra.Command, _ []string) {
				page, err := gsdk.Contributions()
				if err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				logJSONCmd(*cmd, page)
			},
		},
		&cobra.Command{
			Use:   "round <round>",
			Short: "Statistics of a finalized round",
			Run: func(cmd *cobra.Command, args []string) {
				if len(args) != 1 {
					logUsageCmd(*cmd, cmd.Use)

					return
				}
				r, err := strconv.Atoi(args[0])
				if err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				stats, err := gsdk.RoundStatistics(r)
				if err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				logJSONCmd(*cmd, stats)
			},
		},
		&cobra.Command{
			Use:   "participant",
			Short: "Participant round progress",
			Run: func(cmd *cobra.Command, _ []string) {
				st, err := gsdk.ParticipantStatus()
				if err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				logJSONCmd(*cmd, st)
			},
		},
		&cobra.Command{
			Use:   "history",
			Short: "Participant training history",
			Run: func(cmd *cobra.Command, _ []string) {
				h, err := gsdk.ParticipantHistory()
				if err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				logJSONCmd(*cmd, h)
			},
		},
	)

	return cmd
}
