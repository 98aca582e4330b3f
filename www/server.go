package www

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Server serves the generated pages for preview in serve mode. The
// pages themselves are plain files, so this is just a file server with
// request logging in front.
type Server struct {
	logger *slog.Logger
	srv    *http.Server
}

func NewServer(address string, port int16, outputDir string) *Server {
	logger := slog.Default().With("module", "www")

	logReqMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Debug("http request",
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.String("remoteAddr", r.RemoteAddr))
			next.ServeHTTP(w, r)
		})
	}

	mux := http.NewServeMux()
	mux.Handle("/", logReqMW(http.FileServer(http.Dir(outputDir))))

	return &Server{
		logger: logger,
		srv: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", address, port),
			Handler: mux,
		},
	}
}

// Run blocks until the context is cancelled, then shuts down cleanly.
func (s *Server) Run(ctx context.Context) {
	go func() {
		s.logger.Info("preview server listening", slog.String("address", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("preview server failed", slog.Any("error", err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("preview server shutdown failed", slog.Any("error", err))
	}
}
