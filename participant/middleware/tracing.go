package middleware

import (
	"context"

	"github.com/absmach/gridfl/participant"
	"github.com/absmach/gridfl/pkg/fl"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var _ participant.Service = (*tracing)(nil)

type tracing struct {
	tracer trace.Tracer
	svc    participant.Service
}

func Tracing(tracer trace.Tracer, svc participant.Service) participant.Service {
	return &tracing{tracer, svc}
}

func (tm *tracing) Bootstrap(ctx context.Context) (bool, error) {
	ctx, span := tm.tracer.Start(ctx, "bootstrap")
	defer span.End()

	return tm.svc.Bootstrap(ctx)
}

func (tm *tracing) HandleRoundArtifact(ctx context.Context, path string) (bool, error) {
	ctx, span := tm.tracer.Start(ctx, "handle-round-artifact", trace.WithAttributes(
		attribute.String("path", path),
	))
	defer span.End()

	return tm.svc.HandleRoundArtifact(ctx, path)
}

func (tm *tracing) Status(ctx context.Context) (participant.Status, error) {
	ctx, span := tm.tracer.Start(ctx, "status")
	defer span.End()

	return tm.svc.Status(ctx)
}

func (tm *tracing) History(ctx context.Context) ([]*fl.TrainingOutcome, error) {
	ctx, span := tm.tracer.Start(ctx, "history")
	defer span.End()

	return tm.svc.History(ctx)
}

func (tm *tracing) WriteStatistics(ctx context.Context, path string) error {
	ctx, span := tm.tracer.Start(ctx, "write-statistics", trace.WithAttributes(
		attribute.String("path", path),
	))
	defer span.End()

	return tm.svc.WriteStatistics(ctx, path)
}
