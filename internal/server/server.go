// Package server exposes the expense and income breakdowns over HTTP and
// reloads their inputs on a cron schedule.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"fjacquet/budget-rollup/internal/dashboard"
	"fjacquet/budget-rollup/internal/logging"
	"fjacquet/budget-rollup/internal/models"
	"fjacquet/budget-rollup/internal/report"
	"fjacquet/budget-rollup/internal/store"
	"fjacquet/budget-rollup/internal/validation"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
)

// Data is one load of the server's inputs.
type Data struct {
	Items         []models.LineItem
	Names         store.Names
	TotalExpenses *float64
	TotalIncome   *float64
}

// Loader fetches fresh inputs.
type Loader func(ctx context.Context) (Data, error)

// Server serves breakdowns computed by a dashboard.
type Server struct {
	dashboard *dashboard.Dashboard
	generator *report.Generator
	loader    Loader
	logger    logging.Logger
	router    *mux.Router

	mu         sync.RWMutex
	names      store.Names
	loadedAt   time.Time
	scheduler  *cron.Cron
	reloadLock sync.Mutex
}

// New creates a Server. Call Reload before serving to load the first data set.
func New(d *dashboard.Dashboard, generator *report.Generator, loader Loader, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	if generator == nil {
		generator = report.NewGenerator(logger)
	}
	s := &Server{
		dashboard: d,
		generator: generator,
		loader:    loader,
		logger:    logger,
		names:     store.NewNames(),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, s.loggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/breakdown/{category}", s.handleBreakdown).Methods(http.MethodGet)
	api.HandleFunc("/codes/{code}", s.handleCode).Methods(http.MethodGet)
	api.HandleFunc("/reload", s.handleReload).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

// Reload fetches inputs through the loader and feeds them to the dashboard.
// Concurrent reloads are serialized.
func (s *Server) Reload(ctx context.Context) error {
	if s.loader == nil {
		return errors.New("no loader configured")
	}
	s.reloadLock.Lock()
	defer s.reloadLock.Unlock()

	start := time.Now()
	data, err := s.loader(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to reload data")
		return fmt.Errorf("failed to reload data: %w", err)
	}
	for name, total := range map[string]*float64{"total-expenses": data.TotalExpenses, "total-income": data.TotalIncome} {
		if err := validation.IsValidTotal(name, total); err != nil {
			s.logger.WithError(err).Error("Rejected reloaded data")
			return fmt.Errorf("failed to reload data: %w", err)
		}
	}

	s.dashboard.SetNames(data.Names)
	s.dashboard.SetLineItems(data.Items)
	s.dashboard.SetAuthoritativeTotals(data.TotalExpenses, data.TotalIncome)

	s.mu.Lock()
	s.names = data.Names
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("Reloaded data",
		logging.F(logging.FieldCount, len(data.Items)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return nil
}

// StartScheduler reloads on schedule (standard cron syntax or descriptors such as
// "@hourly"). An empty schedule does nothing.
func (s *Server) StartScheduler(schedule string) error {
	if schedule == "" {
		return nil
	}
	c := cron.New(cron.WithLogger(cronLogger{s.logger}))
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		// errors are logged by Reload
		_ = s.Reload(ctx)
	})
	if err != nil {
		return fmt.Errorf("unable to schedule reload: %w", err)
	}
	c.Start()

	s.mu.Lock()
	s.scheduler = c
	s.mu.Unlock()

	s.logger.Info("Reload scheduler started", logging.F("schedule", schedule))
	return nil
}

// StopScheduler stops the reload scheduler and waits for a running reload.
func (s *Server) StopScheduler() {
	s.mu.Lock()
	c := s.scheduler
	s.scheduler = nil
	s.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          log.New(errorLogWriter{s.logger}, "", 0),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", logging.F("address", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.StopScheduler()
		s.dashboard.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	}
}

func (s *Server) currentNames() (store.Names, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.names, s.loadedAt
}

// cronLogger routes cron's own messages through the module logger.
type cronLogger struct {
	logger logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, kvFields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.WithError(err).Error("cron: "+msg, kvFields(keysAndValues)...)
}

func kvFields(keysAndValues []interface{}) []logging.Field {
	fields := make([]logging.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields = append(fields, logging.F(fmt.Sprint(keysAndValues[i]), keysAndValues[i+1]))
	}
	return fields
}

// errorLogWriter routes net/http's own error log through the module logger
// at warn level, one entry per write.
type errorLogWriter struct {
	logger logging.Logger
}

func (w errorLogWriter) Write(p []byte) (int, error) {
	if msg := strings.TrimSpace(string(p)); msg != "" {
		w.logger.Warn("http: " + msg)
	}
	return len(p), nil
}
