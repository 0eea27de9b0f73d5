package middleware

import (
	"context"
	"log/slog"

	"github.com/absmach/gridfl/participant"
	"github.com/absmach/gridfl/pkg/mqtt"
)

var _ participant.Service = (*eventsMiddleware)(nil)

// RoundEvent is published every time the participant publishes the weights
// of a local round.
type RoundEvent struct {
	ParticipantID uint64 `json:"participant_id"`
	Round         int    `json:"round"`
	Finished      bool   `json:"finished"`
}

type eventsMiddleware struct {
	pubsub mqtt.PubSub
	topic  string
	logger *slog.Logger
	participant.Service
}

func Events(pubsub mqtt.PubSub, topic string, logger *slog.Logger, svc participant.Service) participant.Service {
	return &eventsMiddleware{
		pubsub:  pubsub,
		topic:   topic,
		logger:  logger,
		Service: svc,
	}
}

func (em *eventsMiddleware) Bootstrap(ctx context.Context) (bool, error) {
	before := em.round(ctx)
	finished, err := em.Service.Bootstrap(ctx)
	em.publish(ctx, before)

	return finished, err
}

func (em *eventsMiddleware) HandleRoundArtifact(ctx context.Context, path string) (bool, error) {
	before := em.round(ctx)
	finished, err := em.Service.HandleRoundArtifact(ctx, path)
	em.publish(ctx, before)

	return finished, err
}

func (em *eventsMiddleware) round(ctx context.Context) int {
	st, err := em.Service.Status(ctx)
	if err != nil {
		return -1
	}

	return st.CurrentRound
}

func (em *eventsMiddleware) publish(ctx context.Context, before int) {
	st, err := em.Service.Status(ctx)
	if err != nil || before < 0 || st.CurrentRound == before {
		return
	}

	event := RoundEvent{
		ParticipantID: uint64(st.ParticipantID),
		Round:         before,
		Finished:      st.Finished,
	}
	if err := em.pubsub.Publish(ctx, em.topic, event); err != nil {
		em.logger.WarnContext(ctx, "Failed to publish round event",
			slog.String("topic", em.topic),
			slog.Int("round", event.Round),
			slog.Any("error", err))
	}
}
