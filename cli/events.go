package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/absmach/gridfl/pkg/mqtt"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const defBroker = "tcp://localhost:1883"

var (
	broker     string
	brokerUser string
	brokerPass string
	brokerWait time.Duration
	eventsQoS  uint8
)

// NewEventsCmd follows the round events a task publishes over MQTT.
func NewEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events <task_name>",
		Short: "Follow round events",
		Long:  `Subscribe to the round events published by the validator and the participants of a task.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			ps, err := mqtt.NewPubSub(mqtt.Config{
				Address:  broker,
				QoS:      eventsQoS,
				Username: brokerUser,
				Password: brokerPass,
				Timeout:  brokerWait,
			}, "gridfl-cli-"+uuid.NewString(), "", logger)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			defer ps.Disconnect(context.Background())

			err = ps.Subscribe(ctx, mqtt.Topic(args[0], "#"), func(topic string, msg map[string]any) error {
				logJSONCmd(*cmd, map[string]any{"topic": topic, "event": msg})

				return nil
			})
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			<-ctx.Done()
		},
	}

	cmd.Flags().StringVar(&broker, "broker", defBroker, "MQTT broker address")
	cmd.Flags().StringVar(&brokerUser, "username", "", "MQTT username")
	cmd.Flags().StringVar(&brokerPass, "password", "", "MQTT password")
	cmd.Flags().DurationVar(&brokerWait, "timeout", 10*time.Second, "MQTT operation timeout")
	cmd.Flags().Uint8Var(&eventsQoS, "qos", 1, "MQTT quality of service")

	return cmd
}
