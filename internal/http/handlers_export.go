package http

import (
	"errors"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"chargelog/internal/core"
	"chargelog/internal/export"
	applog "chargelog/internal/log"
	"chargelog/internal/metrics"
)

type exportPage struct {
	Month  string
	Format string
	Error  string
}

func (s *Server) handleExportForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "export.html", exportPage{
		Month:  time.Now().Format(core.MonthLayout),
		Format: string(export.FormatXLSX),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)
	start := time.Now()

	if err := r.ParseForm(); err != nil {
		logger.WarnContext(ctx, "Parse form error", "error", err)
		s.render(w, r, http.StatusBadRequest, "export.html", exportPage{Error: "The submitted form could not be read."})
		return
	}

	req := parseExportForm(r.PostForm)
	page := exportPage{Month: req.Month, Format: req.Format}

	format, err := export.ParseFormat(req.Format)
	if err != nil {
		page.Error = validationMessage(err)
		s.render(w, r, http.StatusUnprocessableEntity, "export.html", page)
		return
	}

	if req.Month == "" {
		page.Error = "Please choose a billing month."
		s.render(w, r, http.StatusUnprocessableEntity, "export.html", page)
		return
	}

	records, err := s.records.RecordsForMonth(ctx, req.Month)
	switch {
	case errors.Is(err, core.ErrValidation):
		logger.WarnContext(ctx, "Invalid export month", "error", err, applog.FieldMonth, req.Month)
		page.Error = validationMessage(err)
		s.render(w, r, http.StatusUnprocessableEntity, "export.html", page)
		return
	case err != nil:
		metrics.ObserveExport(string(format), metrics.ResultError, time.Since(start))
		applog.NewStructuredLogger(logger).LogError(ctx, "Failed to load records for export", err, applog.OpExport,
			applog.NewFields().WithExport(req.Month, "", 0))
		http.Error(w, "The records for this month could not be loaded.", http.StatusInternalServerError)
		return
	}

	path, err := s.exporter.Export(records, req.Month, format)
	if err != nil {
		metrics.ObserveExport(string(format), metrics.ResultError, time.Since(start))
		applog.NewStructuredLogger(logger).LogError(ctx, "Failed to write export", err, applog.OpExport,
			applog.NewFields().WithExport(req.Month, "", len(records)))
		http.Error(w, "The export could not be generated.", http.StatusInternalServerError)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		metrics.ObserveExport(string(format), metrics.ResultError, time.Since(start))
		applog.NewStructuredLogger(logger).LogError(ctx, "Failed to open export", err, applog.OpExport,
			applog.NewFields().WithExport(req.Month, path, len(records)))
		http.Error(w, "The export could not be generated.", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		metrics.ObserveExport(string(format), metrics.ResultError, time.Since(start))
		http.Error(w, "The export could not be generated.", http.StatusInternalServerError)
		return
	}

	name := filepath.Base(path)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, info.ModTime(), f)

	metrics.ObserveExport(string(format), metrics.ResultSuccess, time.Since(start))
	applog.NewStructuredLogger(logger).LogExport(ctx, req.Month, path, len(records))
}
