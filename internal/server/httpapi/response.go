package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/microblog/internal/common"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(ctx context.Context, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.Error(ctx, "failed to encode JSON response", "error", err)
		}
	}
}

func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	errorType := "internal_error"
	message := "An internal error occurred"

	switch {
	case errors.Is(err, common.ErrIntegrity):
		errorType = "integrity_fault"
		message = err.Error()
	case errors.Is(err, common.ErrorNotFound):
		status = http.StatusNotFound
		errorType = "not_found"
		message = err.Error()
	case errors.Is(err, common.ErrInvalidArgument):
		status = http.StatusBadRequest
		errorType = "validation_error"
		message = err.Error()
	case errors.Is(err, common.ErrConflict):
		status = http.StatusConflict
		errorType = "conflict"
		message = err.Error()
	case errors.Is(err, common.ErrBackendUnavailable):
		status = http.StatusServiceUnavailable
		errorType = "unavailable"
		message = "storage backend unavailable"
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error(ctx, "request failed", "request_id", RequestID(ctx), "error", err)
	}
	s.writeJSON(ctx, w, status, ErrorResponse{Error: errorType, Message: message})
}
