package http

import (
	"errors"
	"net/http"
	"time"

	"chargelog/internal/core"
	applog "chargelog/internal/log"
)

type indexPage struct {
	Today   string
	Rate    float64
	Records []recordRow
	Form    core.RecordForm
	Error   string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, r, http.StatusOK, core.RecordForm{}, "")
}

func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request, status int, form core.RecordForm, errMsg string) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	records, err := s.records.ListRecords(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "List records failed", "error", err, applog.FieldOperation, applog.OpList)
		http.Error(w, "Could not load charging records", http.StatusInternalServerError)
		return
	}

	today := time.Now().Format(core.DateLayout)
	if form.Date == "" {
		form.Date = today
	}

	s.render(w, r, status, "index.html", indexPage{
		Today:   today,
		Rate:    core.Rate,
		Records: toRows(records),
		Form:    form,
		Error:   errMsg,
	})
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		logger.WarnContext(ctx, "Parse form error", "error", err)
		s.renderIndex(w, r, http.StatusBadRequest, core.RecordForm{}, "The submitted form could not be read.")
		return
	}

	form := parseRecordForm(r.PostForm)
	rec, err := s.records.AppendRecord(ctx, form)
	switch {
	case errors.Is(err, core.ErrValidation):
		logger.WarnContext(ctx, "Invalid charging record",
			"error", err,
			applog.FieldOperation, applog.OpValidate)
		s.renderIndex(w, r, http.StatusUnprocessableEntity, form, validationMessage(err))
		return
	case err != nil:
		applog.NewStructuredLogger(logger).LogError(ctx, "Failed to save charging record", err, applog.OpCreate, nil)
		http.Error(w, "The charging record could not be saved. Please try again.", http.StatusInternalServerError)
		return
	}

	applog.NewStructuredLogger(logger).LogRecordCreated(ctx, rec.ID, rec.Date, rec.OdometerReading, rec.EnergyCharged, rec.Cost)
	http.Redirect(w, r, "/", http.StatusFound)
}

// validationMessage strips the category prefix from a validation error.
func validationMessage(err error) string {
	msg := err.Error()
	prefix := core.ErrValidation.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		msg = msg[len(prefix):]
	}
	return msg
}
