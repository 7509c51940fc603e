package httpapi

import (
	"net/http"

	"silvercare/internal/repository"

	"go.uber.org/zap"
)

// ContactsHandler exposes the read-only emergency contact list.
type ContactsHandler struct {
	repo   repository.EmergencyContactsRepository
	logger *zap.Logger
}

func NewContactsHandler(repo repository.EmergencyContactsRepository, logger *zap.Logger) *ContactsHandler {
	return &ContactsHandler{repo: repo, logger: logger}
}

// List handles GET /contacts/{userId}.
func (h *ContactsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	segs := pathSegments(r.URL.Path, "/contacts/")
	if len(segs) != 1 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	userID, err := parseID(segs[0], "user_id")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	contacts, err := h.repo.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}
