package middleware

import (
	"context"

	"github.com/absmach/gridfl/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var _ validator.Service = (*tracing)(nil)

type tracing struct {
	tracer trace.Tracer
	svc    validator.Service
}

func Tracing(tracer trace.Tracer, svc validator.Service) validator.Service {
	return &tracing{tracer, svc}
}

func (tm *tracing) HandleSubmission(ctx context.Context, path string) (bool, error) {
	ctx, span := tm.tracer.Start(ctx, "handle-submission", trace.WithAttributes(
		attribute.String("path", path),
	))
	defer span.End()

	return tm.svc.HandleSubmission(ctx, path)
}

func (tm *tracing) Status(ctx context.Context) (validator.Status, error) {
	ctx, span := tm.tracer.Start(ctx, "status")
	defer span.End()

	return tm.svc.Status(ctx)
}

func (tm *tracing) Contributions(ctx context.Context) (validator.ContributionsPage, error) {
	ctx, span := tm.tracer.Start(ctx, "contributions")
	defer span.End()

	return tm.svc.Contributions(ctx)
}

func (tm *tracing) RoundStatistics(ctx context.Context, round int) (validator.RoundStatistics, error) {
	ctx, span := tm.tracer.Start(ctx, "round-statistics", trace.WithAttributes(
		attribute.Int("round", round),
	))
	defer span.End()

	return tm.svc.RoundStatistics(ctx, round)
}

func (tm *tracing) WriteStatistics(ctx context.Context, path string) error {
	ctx, span := tm.tracer.Start(ctx, "write-statistics", trace.WithAttributes(
		attribute.String("path", path),
	))
	defer span.End()

	return tm.svc.WriteStatistics(ctx, path)
}
