package middleware

import (
	"context"
	"log/slog"

	"github.com/absmach/gridfl/pkg/mqtt"
	"github.com/absmach/gridfl/validator"
)

var _ validator.Service = (*eventsMiddleware)(nil)

// RoundEvent is published every time a round is finalized.
type RoundEvent struct {
	Round    int    `json:"round"`
	Weights  string `json:"weights"`
	Finished bool   `json:"finished"`
}

type eventsMiddleware struct {
	pubsub mqtt.PubSub
	topic  string
	logger *slog.Logger
	validator.Service
}

// Events publishes a RoundEvent to topic after each finalized round.
// Publish failures are logged and do not affect the protocol.
func Events(pubsub mqtt.PubSub, topic string, logger *slog.Logger, svc validator.Service) validator.Service {
	return &eventsMiddleware{
		pubsub:  pubsub,
		topic:   topic,
		logger:  logger,
		Service: svc,
	}
}

func (em *eventsMiddleware) HandleSubmission(ctx context.Context, path string) (bool, error) {
	finalized, err := em.Service.HandleSubmission(ctx, path)
	if !finalized {
		return finalized, err
	}

	st, serr := em.Service.Status(ctx)
	if serr != nil {
		em.logger.WarnContext(ctx, "Failed to read status for round event", slog.Any("error", serr))

		return finalized, err
	}
	event := RoundEvent{
		Round:    st.CurrentRound - 1,
		Weights:  st.LastOutput,
		Finished: st.Finished,
	}
	if perr := em.pubsub.Publish(ctx, em.topic, event); perr != nil {
		em.logger.WarnContext(ctx, "Failed to publish round event",
			slog.String("topic", em.topic),
			slog.Int("round", event.Round),
			slog.Any("error", perr))
	}

	return finalized, err
}
