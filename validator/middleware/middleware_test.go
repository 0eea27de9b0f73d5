package middleware_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/absmach/gridfl/validator"
	"github.com/absmach/gridfl/validator/middleware"
	"github.com/absmach/gridfl/validator/mocks"
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
	inner.On("HandleSubmission", mock.Anything, "a.json").Return(true, nil)
	inner.On("HandleSubmission", mock.Anything, "b.json").Return(false, errors.New("unreadable"))
	inner.On("Status", mock.Anything).Return(validator.Status{CurrentRound: 2, Rounds: 3}, nil)

	counter := &countingCounter{}
	latency := generic.NewHistogram("latency", 10)
	round := generic.NewGauge("round")

	var svc validator.Service = inner
	svc = middleware.Logging(slog.New(slog.DiscardHandler), svc)
	svc = middleware.Tracing(noop.NewTracerProvider().Tracer("test"), svc)
	svc = middleware.Metrics(counter, latency, round, svc)

	ctx := context.Background()
	finalized, err := svc.HandleSubmission(ctx, "a.json")
	require.NoError(t, err)
	assert.True(t, finalized)

	_, err = svc.HandleSubmission(ctx, "b.json")
	assert.Error(t, err)

	assert.Equal(t, 2.0, counter.total)
	assert.Equal(t, 2.0, round.Value())
	inner.AssertNumberOfCalls(t, "HandleSubmission", 2)
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
