package middleware

import (
	"context"
	"time"

	"github.com/absmach/gridfl/validator"
	"github.com/go-kit/kit/metrics"
)

var _ validator.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	round   metrics.Gauge
	svc     validator.Service
}

// Metrics records request counts and latencies. round, when not nil, is
// set to the current round after every submission.
func Metrics(counter metrics.Counter, latency metrics.Histogram, round metrics.Gauge, svc validator.Service) validator.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		round:   round,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) HandleSubmission(ctx context.Context, path string) (bool, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "handle-submission").Add(1)
		mm.latency.With("method", "handle-submission").Observe(time.Since(begin).Seconds())
		if mm.round == nil {
			return
		}
		if st, err := mm.svc.Status(ctx); err == nil {
			mm.round.Set(float64(st.CurrentRound))
		}
	}(time.Now())

	return mm.svc.HandleSubmission(ctx, path)
}

func (mm *metricsMiddleware) Status(ctx context.Context) (validator.Status, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "status").Add(1)
		mm.latency.With("method", "status").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Status(ctx)
}

func (mm *metricsMiddleware) Contributions(ctx context.Context) (validator.ContributionsPage, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "contributions").Add(1)
		mm.latency.With("method", "contributions").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Contributions(ctx)
}

func (mm *metricsMiddleware) RoundStatistics(ctx context.Context, round int) (validator.RoundStatistics, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "round-statistics").Add(1)
		mm.latency.With("method", "round-statistics").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.RoundStatistics(ctx, round)
}

func (mm *metricsMiddleware) WriteStatistics(ctx context.Context, path string) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "write-statistics").Add(1)
		mm.latency.With("method", "write-statistics").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.WriteStatistics(ctx, path)
}
