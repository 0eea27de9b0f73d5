package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/absmach/gridfl/pkg/server"
)

const (
	httpProtocol  = "http"
	httpsProtocol = "https"
	readTimeout   = 10 * time.Second
)

var _ server.Server = (*httpServer)(nil)

type httpServer struct {
	ctx      context.Context
	cancel   context.CancelFunc
	name     string
	address  string
	config   server.Config
	server   *http.Server
	protocol string
	logger   *slog.Logger
}

func NewServer(ctx context.Context, cancel context.CancelFunc, name string, config server.Config, handler http.Handler, logger *slog.Logger) server.Server {
	address := fmt.Sprintf("%s:%s", config.Host, config.Port)

	return &httpServer{
		ctx:      ctx,
		cancel:   cancel,
		name:     name,
		address:  address,
		config:   config,
		server:   &http.Server{Addr: address, Handler: handler, ReadHeaderTimeout: readTimeout},
		protocol: httpProtocol,
		logger:   logger,
	}
}

func (s *httpServer) Start() error {
	errCh := make(chan error, 1)

	go func() {
		switch {
		case s.config.CertFile != "" || s.config.KeyFile != "":
			s.protocol = httpsProtocol
			s.logger.Info(fmt.Sprintf("%s service %s server listening at %s with TLS cert %s and key %s", s.name, s.protocol, s.address, s.config.CertFile, s.config.KeyFile))
			errCh <- s.server.ListenAndServeTLS(s.config.CertFile, s.config.KeyFile)
		default:
			s.logger.Info(fmt.Sprintf("%s service %s server listening at %s without TLS", s.name, s.protocol, s.address))
			errCh <- s.server.ListenAndServe()
		}
	}()

	select {
	case <-s.ctx.Done():
		return s.Stop()
	case err := <-errCh:
		s.cancel()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	}
}

func (s *httpServer) Stop() error {
	defer s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), server.StopWaitTime)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error(fmt.Sprintf("%s service %s server error occurred during shutdown at %s: %s", s.name, s.protocol, s.address, err))

		return fmt.Errorf("%s service %s server error occurred during shutdown at %s: %w", s.name, s.protocol, s.address, err)
	}
	s.logger.Info(fmt.Sprintf("%s %s service shutdown of http at %s", s.name, s.protocol, s.address))

	return nil
}
