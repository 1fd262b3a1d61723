package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/abhisek/wordbridge/internal/scoring"
	"github.com/abhisek/wordbridge/internal/sequence"
	"github.com/abhisek/wordbridge/internal/session"
	"github.com/abhisek/wordbridge/internal/settings"
)

// Error codes returned in the error body.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "CONFLICT"
	CodeInternal   = "INTERNAL_ERROR"
)

// APIError is the body of every failed request.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errorResponse struct {
	Error APIError `json:"error"`
}

// errBadRequest marks malformed input found by the handlers themselves.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) errorResponse {
	return errorResponse{Error: APIError{
		Code:      code,
		Message:   message,
		RequestID: chimiddleware.GetReqID(r.Context()),
	}}
}

// writeError maps domain errors onto HTTP statuses. Unexpected errors are
// logged and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResp(CodeNotFound, err.Error(), r))
	case errors.Is(err, session.ErrClosed):
		writeJSON(w, http.StatusConflict, errorResp(CodeConflict, err.Error(), r))
	case errors.Is(err, errBadRequest),
		errors.Is(err, session.ErrNotInSequence),
		errors.Is(err, settings.ErrInvalid),
		errors.Is(err, sequence.ErrInvalidCount),
		errors.Is(err, scoring.ErrEmptyGroup):
		writeJSON(w, http.StatusBadRequest, errorResp(CodeValidation, err.Error(), r))
	default:
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResp(CodeInternal, "an unexpected error occurred", r))
	}
}

// decode reads a JSON body into v. An empty body is accepted when
// optional is set and leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return badRequest("invalid request body: %v", err)
	}
	return nil
}
