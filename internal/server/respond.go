package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"revive/pkg/types"
)

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Service) writeMessage(w http.ResponseWriter, message string) {
	s.writeJSON(w, http.StatusOK, messageResponse{Message: message})
}

// writeError maps an error kind to its status. Anything that is not a
// *types.Error is logged and reported as a 500.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var typed *types.Error
	if !errors.As(err, &typed) {
		s.logger.WithError(err).
			WithField("method", r.Method).
			WithField("path", r.URL.Path).
			Error("unhandled error")
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
		return
	}

	s.writeJSON(w, statusFor(typed), errorResponse{Message: typed.Message, Fields: typed.Fields})
}

func statusFor(err *types.Error) int {
	switch {
	case errors.Is(err, types.ErrValidation), errors.Is(err, types.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, types.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Service) decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.logger.WithError(err).Debug("failed to decode request body")
		return types.NewError(types.ErrValidation, "Invalid request body")
	}
	return nil
}
