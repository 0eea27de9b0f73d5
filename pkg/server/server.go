package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const StopWaitTime = 5 * time.Second

type Server interface {
	Start() error
	Stop() error
}

type Config struct {
	Host     string `env:"HOST"               envDefault:"localhost"`
	Port     string `env:"PORT"               envDefault:""`
	CertFile string `env:"SERVER_CERT"        envDefault:""`
	KeyFile  string `env:"SERVER_KEY"         envDefault:""`
}

// StopSignalHandler stops every server and cancels ctx on SIGINT or
// SIGTERM. It returns nil when ctx is done first.
func StopSignalHandler(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, svcName string, servers ...Server) error {
	c := make(chan os.Signal, 2)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(c)

	select {
	case sig := <-c:
		defer cancel()
		var errs error
		for _, s := range servers {
			if err := s.Stop(); err != nil {
				errs = errors.Join(errs, err)
			}
		}
		logger.Info(fmt.Sprintf("%s service shutdown by signal: %s", svcName, sig))

		return errs
	case <-ctx.Done():
		return nil
	}
}
