package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	pkgerrors "github.com/absmach/gridfl/pkg/errors"
	kithttp "github.com/go-kit/kit/transport/http"
)

const (
	ContentType = "application/json"

	healthStatus = "pass"
)

var (
	ErrValidation   = errors.New("request validation failed")
	ErrInvalidRound = errors.New("round must be a non-negative integer")
)

// Response is implemented by endpoint responses that control their own
// status code and headers.
type Response interface {
	Code() int
	Headers() map[string]string
	Empty() bool
}

type healthRes struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	InstanceID  string `json:"instance_id"`
	Description string `json:"description"`
}

func EncodeResponse(_ context.Context, w http.ResponseWriter, response any) error {
	if ar, ok := response.(Response); ok {
		for k, v := range ar.Headers() {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", ContentType)
		w.WriteHeader(ar.Code())

		if ar.Empty() {
			return nil
		}
	}

	return json.NewEncoder(w).Encode(response)
}

func EncodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", ContentType)
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, pkgerrors.ErrInvalidData):
		w.WriteHeader(http.StatusBadRequest)
	case errors.Is(err, pkgerrors.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}

	if err := json.NewEncoder(w).Encode(map[string]string{"error": err.Error()}); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// LoggingErrorEncoder logs the error before handing it to enc.
func LoggingErrorEncoder(logger *slog.Logger, enc kithttp.ErrorEncoder) kithttp.ErrorEncoder {
	return func(ctx context.Context, err error, w http.ResponseWriter) {
		logger.WarnContext(ctx, "Request failed", slog.Any("error", err))
		enc(ctx, err, w)
	}
}

// Health returns the handler serving the liveness probe of a service.
func Health(service, instanceID string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		res := healthRes{
			Status:      healthStatus,
			Service:     service,
			InstanceID:  instanceID,
			Description: service + " service",
		}
		w.Header().Set("Content-Type", ContentType)
		w.WriteHeader(http.StatusOK)

		_ = json.NewEncoder(w).Encode(res)
	}
}

// ParseRound parses a round path parameter.
func ParseRound(raw string) (int, error) {
	r, err := strconv.Atoi(raw)
	if err != nil || r < 0 {
		return 0, errors.Join(ErrValidation, ErrInvalidRound)
	}

	return r, nil
}
