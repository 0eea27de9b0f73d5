package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/absmach/gridfl/validator"
)

var _ validator.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    validator.Service
}

func Logging(logger *slog.Logger, svc validator.Service) validator.Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}

func (lm *loggingMiddleware) HandleSubmission(ctx context.Context, path string) (finalized bool, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("path", path),
			slog.Bool("finalized", finalized),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Handle submission failed", args...)

			return
		}
		lm.logger.Info("Handle submission completed successfully", args...)
	}(time.Now())

	return lm.svc.HandleSubmission(ctx, path)
}

func (lm *loggingMiddleware) Status(ctx context.Context) (st validator.Status, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("current_round", st.CurrentRound),
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

func (lm *loggingMiddleware) Contributions(ctx context.Context) (page validator.ContributionsPage, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Bool("finished", page.Finished),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get contributions failed", args...)

			return
		}
		lm.logger.Info("Get contributions completed successfully", args...)
	}(time.Now())

	return lm.svc.Contributions(ctx)
}

func (lm *loggingMiddleware) RoundStatistics(ctx context.Context, round int) (stats validator.RoundStatistics, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("round", round),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get round statistics failed", args...)

			return
		}
		lm.logger.Info("Get round statistics completed successfully", args...)
	}(time.Now())

	return lm.svc.RoundStatistics(ctx, round)
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
