package api

import (
	"log/slog"
	"net/http"

	"github.com/absmach/gridfl/participant"
	"github.com/absmach/gridfl/pkg/api"
	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func MakeHandler(svc participant.Service, logger *slog.Logger, instanceID string) http.Handler {
	mux := chi.NewRouter()

	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(api.LoggingErrorEncoder(logger, api.EncodeError)),
	}

	mux.Get("/status", otelhttp.NewHandler(kithttp.NewServer(
		statusEndpoint(svc),
		kithttp.NopRequestDecoder,
		api.EncodeResponse,
		opts...,
	), "status").ServeHTTP)

	mux.Get("/history", otelhttp.NewHandler(kithttp.NewServer(
		historyEndpoint(svc),
		kithttp.NopRequestDecoder,
		api.EncodeResponse,
		opts...,
	), "history").ServeHTTP)

	mux.Get("/health", api.Health("participant", instanceID))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}
