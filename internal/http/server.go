// Package http serves the charging log web interface.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chargelog/internal/core"
	"chargelog/internal/export"
	applog "chargelog/internal/log"
	"chargelog/internal/metrics"
	appweb "chargelog/web"
)

// RecordService is the record use-case layer the handlers call.
type RecordService interface {
	AppendRecord(ctx context.Context, form core.RecordForm) (core.ChargingRecord, error)
	ListRecords(ctx context.Context) ([]core.ChargingRecord, error)
	RecordsForMonth(ctx context.Context, yearMonth string) ([]core.ChargingRecord, error)
}

// MonthExporter writes a month report to disk and returns its path.
type MonthExporter interface {
	Export(records []core.ChargingRecord, yearMonth string, f export.Format) (string, error)
}

// Pinger reports backend readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	http.Server
	templates   *template.Template
	records     RecordService
	exporter    MonthExporter
	pinger      Pinger
	logger      *applog.Logger
	rateLimiter *rateLimiter

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
// pinger may be nil.
func NewServer(addr string, records RecordService, exporter MonthExporter, pinger Pinger, postRateLimit int) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 16,
		},
		records:     records,
		exporter:    exporter,
		pinger:      pinger,
		logger:      applog.New(applog.DefaultConfig(applog.ComponentHTTP)),
		rateLimiter: newRateLimiter(postRateLimit),
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.WithComponent(applog.ComponentTemplate).Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /{$}", s.instrument("/", s.handleIndex))
	mux.HandleFunc("POST /{$}", s.instrument("/", s.handleCreateRecord))
	mux.HandleFunc("GET /export", s.instrument("/export", s.handleExportForm))
	mux.HandleFunc("POST /export", s.instrument("/export", s.handleExport))
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.Handler = applog.Middleware(s.logger)(mux)

	return s
}

// Shutdown stops the rate limiter and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// instrument adds request tracing, security headers, POST rate limiting,
// request logs and metrics to a page handler.
func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		logger := applog.FromContext(r.Context()).With(applog.NewFields().WithRequestID(requestID).ToSlice()...)
		ctx := applog.WithLogger(r.Context(), logger)
		r = r.WithContext(ctx)
		sl := applog.NewStructuredLogger(logger)

		sl.LogHTTPStart(ctx, r, clientIP)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		w.Header().Set("X-Request-ID", requestID)
		setSecurityHeaders(w)

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, start) {
			logger.WarnContext(ctx, "Rate limit exceeded", applog.FieldClientIP, clientIP, applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(rw, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
		} else {
			next(rw, r)
		}

		duration := time.Since(start)
		sl.LogHTTPEnd(ctx, r, rw.statusCode, duration.Milliseconds(), clientIP)
		metrics.ObserveHTTP(r.Method, route, rw.statusCode, duration)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.written = true
	return rw.ResponseWriter.Write(b)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.pinger.Ping(ctx); err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", "error", err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// render executes a page template; a template failure becomes a 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if s.templates == nil {
		applog.FromContext(r.Context()).WithComponent(applog.ComponentTemplate).
			ErrorContext(r.Context(), "Templates not loaded", "template", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		applog.FromContext(r.Context()).WithComponent(applog.ComponentTemplate).ErrorContext(r.Context(), "Template execution failed",
			"error", err,
			"template", name,
			applog.FieldOperation, applog.OpRender)
	}
}
