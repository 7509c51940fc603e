package httpapi

import (
	"net/http"

	"silvercare/internal/service"

	"go.uber.org/zap"
)

type ChatHandler struct {
	proxy   *service.ChatProxy
	maxBody int64
	logger  *zap.Logger
}

func NewChatHandler(proxy *service.ChatProxy, maxBody int64, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{proxy: proxy, maxBody: maxBody, logger: logger}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Reply handles POST /chat.
func (h *ChatHandler) Reply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req chatRequest
	if err := readBodyJSON(r, h.maxBody, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	reply, err := h.proxy.Reply(r.Context(), req.Message)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}
