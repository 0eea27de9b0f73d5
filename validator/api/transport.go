package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/absmach/gridfl/pkg/api"
	"github.com/absmach/gridfl/validator"
	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func MakeHandler(svc validator.Service, logger *slog.Logger, instanceID string) http.Handler {
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

	mux.Get("/contributions", otelhttp.NewHandler(kithttp.NewServer(
		contributionsEndpoint(svc),
		kithttp.NopRequestDecoder,
		api.EncodeResponse,
		opts...,
	), "contributions").ServeHTTP)

	mux.Get("/rounds/{round}", otelhttp.NewHandler(kithttp.NewServer(
		roundEndpoint(svc),
		decodeRoundReq,
		api.EncodeResponse,
		opts...,
	), "round-statistics").ServeHTTP)

	mux.Get("/health", api.Health("validator", instanceID))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func decodeRoundReq(_ context.Context, r *http.Request) (any, error) {
	round, err := api.ParseRound(chi.URLParam(r, "round"))
	if err != nil {
		return nil, err
	}

	return roundReq{round: round}, nil
}
