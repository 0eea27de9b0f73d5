package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/absmach/gridfl/participant"
	"github.com/absmach/gridfl/pkg/fl"
)

var _ participant.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    participant.Service
}

func Logging(logger *slog.Logger, svc participant.Service) participant.Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}

func (lm *loggingMiddleware) Bootstrap(ctx context.Context) (finished bool, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Bool("finished", finished),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Bootstrap failed", args...)

			return
		}
		lm.logger.Info("Bootstrap completed successfully", args...)
	}(time.Now())

	return lm.svc.Bootstrap(ctx)
}

func (lm *loggingMiddleware) HandleRoundArtifact(ctx context.Context, path string) (finished bool, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("path", path),
			slog.Bool("finished", finished),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Handle round artifact failed", args...)

			return
		}
		lm.logger.Info("Handle round artifact completed successfully", args...)
	}(time.Now())

	return lm.svc.HandleRoundArtifact(ctx, path)
}

func (lm *loggingMiddleware) Status(ctx context.Context) (st participant.Status, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("participant",
				slog.Uint64("id", uint64(st.ParticipantID)),
				slog.Int("current_round", st.CurrentRound),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get status failed", args...)

			return
		}
		lm.logger.Debug("Get status completed successfully", args...)
	}(time.Now())

	return lm.svc.Status(ctx)
}

func (lm *loggingMiddleware) History(ctx context.Context) (history []*fl.TrainingOutcome, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("rounds", len(history)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get history failed", args...)

			return
		}
		lm.logger.Info("Get history completed successfully", args...)
	}(time.Now())

	return lm.svc.History(ctx)
}

func (lm *loggingMiddleware) WriteStatistics(ctx context.Context, path string) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("path", path),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Write statistics failed", args...)

			return
		}
		lm.logger.Info("Write statistics completed successfully", args...)
	}(time.Now())

	return lm.svc.WriteStatistics(ctx, path)
}
