package main

import (
	"log"

	"github.com/absmach/gridfl/cli"
	"github.com/absmach/gridfl/pkg/sdk"
	"github.com/spf13/cobra"
)

func main() {
	var (
		validatorURL   string
		participantURL string
		tlsVerify      bool
	)

	rootCmd := &cobra.Command{
		Use:   "gridfl-cli",
		Short: "GridFL CLI",
		Long:  `GridFL CLI prepares baseline artifacts and inspects the statistics of federated learning tasks.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			s := sdk.NewSDK(sdk.Config{
				ValidatorURL:    validatorURL,
				ParticipantURL:  participantURL,
				TLSVerification: tlsVerify,
			})
			cli.SetSDK(s)
		},
	}

	rootCmd.PersistentFlags().StringVar(&validatorURL, "validator-url", cli.DefValidatorURL, "validator status API URL")
	rootCmd.PersistentFlags().StringVar(&participantURL, "participant-url", cli.DefParticipantURL, "participant status API URL")
	rootCmd.PersistentFlags().BoolVar(&tlsVerify, "tls-verify", cli.DefTLSVerification, "verify TLS certificates")

	rootCmd.AddCommand(
		cli.NewArtifactCmd(),
		cli.NewStatsCmd(),
		cli.NewContributionsCmd(),
		cli.NewStatusCmd(),
		cli.NewEventsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
