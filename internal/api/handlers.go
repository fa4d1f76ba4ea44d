// File path: internal/api/handlers.go
package api

import (
	"errors"
	"fmt"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/nicodishanthj/bellybutton/internal/common"
	"github.com/nicodishanthj/bellybutton/internal/samples"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.home == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("homepage unavailable"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.home.Execute(w, nil); err != nil {
		common.Logger().Error("api: render homepage failed", "error", err)
	}
}

func (s *Server) handleNames(w http.ResponseWriter, r *http.Request) {
	names, err := s.samples.Names(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	sample := chi.URLParam(r, "sample")
	record, found, err := s.samples.Metadata(r.Context(), sample)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if !found {
		common.Logger().Info("api: no metadata for sample", "sample", sample)
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleSamples(w http.ResponseWriter, r *http.Request) {
	sample := chi.URLParam(r, "sample")
	data, err := s.samples.Measurements(r.Context(), sample)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	common.Logger().Debug("api: sample measurements", "sample", sample, "otus", data.Len())
	writeJSON(w, http.StatusOK, data)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, samples.ErrEmptySample):
		return http.StatusBadRequest
	case errors.Is(err, samples.ErrSampleNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
