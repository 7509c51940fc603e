package httpapi

import (
	"net/http"

	"silvercare/internal/service"

	"go.uber.org/zap"
)

type SosHandler struct {
	dispatcher *service.SosDispatcher
	maxBody    int64
	logger     *zap.Logger
}

func NewSosHandler(d *service.SosDispatcher, maxBody int64, logger *zap.Logger) *SosHandler {
	return &SosHandler{dispatcher: d, maxBody: maxBody, logger: logger}
}

// Notify handles POST /sos.
func (h *SosHandler) Notify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req service.SosNotifyRequest
	if err := readBodyJSON(r, h.maxBody, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	resp, err := h.dispatcher.Notify(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ServeItem handles GET /sos/events and GET /sos/{userId}.
func (h *SosHandler) ServeItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	segs := pathSegments(r.URL.Path, "/sos/")
	if len(segs) != 1 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if segs[0] == "events" {
		events, err := h.dispatcher.Recent(r.Context(), parseInt(r.URL.Query().Get("limit"), 20))
		if err != nil {
			writeError(w, h.logger, r, err)
			return
		}
		writeJSON(w, http.StatusOK, events)
		return
	}

	userID, err := parseID(segs[0], "user_id")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	ev, err := h.dispatcher.Last(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}
