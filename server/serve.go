package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
)

// ListenAndServe serves the API on addr until the process receives SIGINT or
// SIGTERM. The server and then each cleanup operation are given timeout to
// finish. It returns the process exit code, or an error if addr cannot be
// bound.
func (s *Server) ListenAndServe(
	ctx context.Context,
	addr string,
	timeout time.Duration,
	cleanup map[string]gfshutdown.Operation,
) (int, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return 1, err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", slog.Any("error", err))
		}
	}()

	s.logger.Info("listening", slog.String("addr", ln.Addr().String()))

	ops := map[string]gfshutdown.Operation{
		"http-server": srv.Shutdown,
	}

	for name, op := range cleanup {
		ops[name] = op
	}

	code := <-gfshutdown.GracefulShutdown(ctx, timeout, ops)

	s.logger.Info("server stopped", slog.Int("exit_code", code))

	return code, nil
}
