package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/wrapworks/estimator/internal/catalog"
	"github.com/wrapworks/estimator/internal/estimate"
	"github.com/wrapworks/estimator/internal/pricing"
	"github.com/wrapworks/estimator/internal/proposal"
	"github.com/wrapworks/estimator/internal/store"
)

const maxBodyBytes = 1 << 20

// requestError marks a problem with what the client sent.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(format string, args ...any) error {
	return &requestError{err: fmt.Errorf(format, args...)}
}

func statusFor(err error) int {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr),
		errors.Is(err, catalog.ErrUnknownMaterial),
		errors.Is(err, catalog.ErrUnknownLaborRate),
		errors.Is(err, estimate.ErrNoOrg):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, estimate.ErrItemNotFound),
		errors.Is(err, proposal.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateCode):
		return http.StatusConflict
	case errors.Is(err, pricing.ErrUnpriceable):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error string `json:"error"`
}

// fail writes err with its mapped status. Server errors are logged and their
// detail withheld from the client.
func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("org_id", chi.URLParam(r, "orgID")),
			zap.Error(err),
		)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a single JSON object into dst. An empty body leaves dst
// untouched.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}

// requireOrg rejects requests whose org segment is blank.
func requireOrg(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSpace(chi.URLParam(r, "orgID")) == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: estimate.ErrNoOrg.Error()})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func orgID(r *http.Request) string {
	return chi.URLParam(r, "orgID")
}
