package rest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
)

const (
	timeout         = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

var errNotHijacker = errors.New("response writer does not support hijacking")

// NewRouter builds the HTTP surface of the game.
func NewRouter(logger *slog.Logger, game gameUseCase, live liveUpdates, trustForwarded bool) (http.Handler, error) {
	log := logger.With("component", "rest")

	views, err := parsePages()
	if err != nil {
		return nil, err
	}

	h := &handlers{
		logger:         log,
		pages:          views,
		game:           game,
		live:           live,
		trustForwarded: trustForwarded,
	}

	mux := httprouter.New()

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		log.Error("panic while serving request", "path", r.URL.Path, "panic", i)
		h.fail(w)
	}

	mux.GET("/", h.Index)
	mux.POST("/", h.Move)
	mux.GET("/winner", h.Winner)
	mux.GET("/switch", h.Switch)
	mux.GET("/reset", h.Reset)
	mux.GET("/ws", h.Live)
	mux.GET("/qr", h.QR)
	mux.GET("/static/*file", serveStatic)
	mux.GET("/healthz", healthHandler)
	mux.GET("/ping", pingHandler)

	return logRequests(log, mux), nil
}

// Server runs the HTTP listener until its context is canceled.
type Server struct {
	logger *slog.Logger
	srv    *http.Server
}

func NewServer(logger *slog.Logger, addr string, handler http.Handler) *Server {
	return &Server{
		logger: logger.With("component", "http"),
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			IdleTimeout:       30 * time.Second,
			ReadTimeout:       timeout,
			ReadHeaderTimeout: timeout,
			WriteTimeout:      timeout,
		},
	}
}

// Start listens until ctx is canceled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		that.logger.Info("Starting HTTP server", "addr", that.srv.Addr)
		if err := that.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	that.logger.Info("Shutting down HTTP server")
	if err := that.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (that *statusRecorder) WriteHeader(status int) {
	that.status = status
	that.ResponseWriter.WriteHeader(status)
}

// Hijack lets the websocket upgrade through the recorder.
func (that *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := that.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errNotHijacker
	}

	that.status = http.StatusSwitchingProtocols

	return hijacker.Hijack()
}

func (that *statusRecorder) Unwrap() http.ResponseWriter {
	return that.ResponseWriter
}

func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"status", recorder.status,
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}
