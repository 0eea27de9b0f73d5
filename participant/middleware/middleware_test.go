package middleware_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/absmach/gridfl/participant"
	"github.com/absmach/gridfl/participant/middleware"
	"github.com/absmach/gridfl/participant/mocks"
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/generic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestMiddlewareChain(t *testing.T) {
	t.Parallel()

	inner := new(mocks.Service)
	inner.On("Bootstrap", mock.Anything).Return(false, nil)
	inner.On("HandleRoundArtifact", mock.Anything, "validator_weights_round_1.json").Return(true, nil)
	inner.On("Status", mock.Anything).Return(participant.Status{ParticipantID: 1, CurrentRound: 2, Rounds: 2, Finished: true}, nil)

	counter := &countingCounter{}
	latency := generic.NewHistogram("latency", 10)
	round := generic.NewGauge("round")

	var svc participant.Service = inner
	svc = middleware.Logging(slog.New(slog.DiscardHandler), svc)
	svc = middleware.Tracing(noop.NewTracerProvider().Tracer("test"), svc)
	svc = middleware.Metrics(counter, latency, round, svc)

	ctx := context.Background()
	_, err := svc.Bootstrap(ctx)
	require.NoError(t, err)

	finished, err := svc.HandleRoundArtifact(ctx, "validator_weights_round_1.json")
	require.NoError(t, err)
	assert.True(t, finished)

	assert.Equal(t, 2.0, counter.total)
	assert.Equal(t, 2.0, round.Value())
}

// countingCounter sums additions across all label values.
type countingCounter struct {
	total float64
}

func (c *countingCounter) With(...string) metrics.Counter {
	return c
}

func (c *countingCounter) Add(delta float64) {
	c.total += delta
}
