package tracing

import (
	"context"
	"errors"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var (
	errNoURL     = errors.New("URL is empty")
	errNoSvcName = errors.New("service name is empty")
)

// NewProvider exports spans over OTLP/HTTP to otelURL, sampling the given
// fraction of traces.
func NewProvider(ctx context.Context, svcName string, otelURL url.URL, instanceID string, fraction float64) (*sdktrace.TracerProvider, error) {
	if otelURL == (url.URL{}) {
		return nil, errNoURL
	}
	if svcName == "" {
		return nil, errNoSvcName
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(otelURL.Host),
		otlptracehttp.WithURLPath(otelURL.Path),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	attributes := []attribute.KeyValue{
		attribute.String("service.name", svcName),
		attribute.String("host.id", instanceID),
	}
	hostAttr, err := resource.New(ctx, resource.WithHost())
	if err != nil {
		return nil, err
	}
	attributes = append(attributes, hostAttr.Attributes()...)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(fraction))),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attributes...)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp, nil
}
