package httpapi

import (
	"errors"
	"net/http"

	"silvercare/internal/domain"

	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

const (
	msgInternal         = "internal server error"
	msgStoreUnavailable = "storage is temporarily unavailable"
)

func statusForKind(k domain.Kind) int {
	switch k {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidTransition:
		return http.StatusConflict
	case domain.KindChatUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status and a client-safe message. Causes are only logged.
func writeError(w http.ResponseWriter, logger *zap.Logger, r *http.Request, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: msgInternal, Code: "internal"})
		return
	}

	status := statusForKind(de.Kind)
	msg := de.Message
	switch de.Kind {
	case domain.KindStoreUnavailable:
		msg = msgStoreUnavailable
		logger.Error("store unavailable", zap.String("path", r.URL.Path), zap.Error(err))
	case domain.KindChatUnavailable:
		logger.Warn("chat unavailable", zap.String("path", r.URL.Path), zap.Error(err))
	default:
		logger.Debug("request rejected", zap.String("path", r.URL.Path), zap.String("code", string(de.Kind)), zap.Error(err))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, ErrorResponse{Error: msg, Code: string(de.Kind)})
}
