package middleware

import (
	"context"
	"time"

	"github.com/absmach/gridfl/participant"
	"github.com/absmach/gridfl/pkg/fl"
	"github.com/go-kit/kit/metrics"
)

var _ participant.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	round   metrics.Gauge
	svc     participant.Service
}

// Metrics records request counts and latencies. round, when not nil, is
// set to the current round after every training step.
func Metrics(counter metrics.Counter, latency metrics.Histogram, round metrics.Gauge, svc participant.Service) participant.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		round:   round,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) Bootstrap(ctx context.Context) (bool, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "bootstrap").Add(1)
		mm.latency.With("method", "bootstrap").Observe(time.Since(begin).Seconds())
		mm.observeRound(ctx)
	}(time.Now())

	return mm.svc.Bootstrap(ctx)
}

func (mm *metricsMiddleware) HandleRoundArtifact(ctx context.Context, path string) (bool, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "handle-round-artifact").Add(1)
		mm.latency.With("method", "handle-round-artifact").Observe(time.Since(begin).Seconds())
		mm.observeRound(ctx)
	}(time.Now())

	return mm.svc.HandleRoundArtifact(ctx, path)
}

func (mm *metricsMiddleware) Status(ctx context.Context) (participant.Status, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "status").Add(1)
		mm.latency.With("method", "status").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Status(ctx)
}

func (mm *metricsMiddleware) History(ctx context.Context) ([]*fl.TrainingOutcome, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "history").Add(1)
		mm.latency.With("method", "history").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.History(ctx)
}

func (mm *metricsMiddleware) WriteStatistics(ctx context.Context, path string) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "write-statistics").Add(1)
		mm.latency.With("method", "write-statistics").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.WriteStatistics(ctx, path)
}

func (mm *metricsMiddleware) observeRound(ctx context.Context) {
	if mm.round == nil {
		return
	}
	if st, err := mm.svc.Status(ctx); err == nil {
		mm.round.Set(float64(st.CurrentRound))
	}
}
