package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"fjacquet/budget-rollup/internal/budgeterror"
	"fjacquet/budget-rollup/internal/logging"
	"fjacquet/budget-rollup/internal/models"
	"fjacquet/budget-rollup/internal/report"
	"fjacquet/budget-rollup/internal/search"

	"github.com/gorilla/mux"
)

var contentTypes = map[string]string{
	report.FormatJSON:  "application/json",
	report.FormatCSV:   "text/csv; charset=utf-8",
	report.FormatXLSX:  "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	report.FormatTable: "text/plain; charset=utf-8",
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, loadedAt := s.currentNames()
	resp := map[string]interface{}{"status": "ok"}
	if !loadedAt.IsZero() {
		resp["loadedAt"] = loadedAt.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleBreakdown serves GET /api/v1/breakdown/{category}?q=&format=.
// The query filters the grouped tree; shares stay relative to the unfiltered base.
func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["category"]
	category, ok := models.ParseAccountCategory(raw)
	if !ok {
		err := &budgeterror.UnknownCategoryError{Value: raw}
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	pipeline, err := s.dashboard.Pipeline(category)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	query := r.URL.Query().Get("q")
	snap := pipeline.Snapshot()
	b := report.NewBreakdown(category, search.TrimQuery(query), search.FilterTree(snap.Grouped, query), snap.Base)

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" || format == report.FormatJSON {
		writeJSON(w, http.StatusOK, b)
		return
	}

	out, err := s.generator.Generate(format, b)
	if err != nil {
		var ferr *budgeterror.UnsupportedFormatError
		if errors.As(err, &ferr) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.WithError(err).Error("Failed to render breakdown",
			logging.F(logging.FieldRequestID, RequestID(r.Context())))
		writeError(w, http.StatusInternalServerError, "failed to render breakdown")
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	if format == report.FormatCSV || format == report.FormatXLSX {
		w.Header().Set("Content-Disposition", `attachment; filename="breakdown-`+category.Label()+"."+format+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// handleCode serves GET /api/v1/codes/{code}.
func (s *Server) handleCode(w http.ResponseWriter, r *http.Request) {
	names, _ := s.currentNames()
	writeJSON(w, http.StatusOK, names.Describe(mux.Vars(r)["code"]))
}

// handleReload serves POST /api/v1/reload.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Reload(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}
