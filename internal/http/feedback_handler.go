package httpapi

import (
	"net/http"

	"silvercare/internal/service"

	"go.uber.org/zap"
)

type FeedbackHandler struct {
	svc     *service.FeedbackService
	maxBody int64
	logger  *zap.Logger
}

func NewFeedbackHandler(svc *service.FeedbackService, maxBody int64, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{svc: svc, maxBody: maxBody, logger: logger}
}

// Submit handles POST /feedback.
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req service.SubmitFeedbackRequest
	if err := readBodyJSON(r, h.maxBody, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	fb, err := h.svc.Submit(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, fb)
}

// Summary handles GET /feedback/summary.
func (h *FeedbackHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	sum, err := h.svc.Summary(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
