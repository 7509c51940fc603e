package httpapi

import (
	"net/http"

	"silvercare/internal/service"

	"go.uber.org/zap"
)

type ProvidersHandler struct {
	directory *service.ProviderDirectory
	logger    *zap.Logger
}

func NewProvidersHandler(d *service.ProviderDirectory, logger *zap.Logger) *ProvidersHandler {
	return &ProvidersHandler{directory: d, logger: logger}
}

// Nearby handles GET /providers?lat=&lng=.
func (h *ProvidersHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	lat, lng := queryCoords(r)
	writeJSON(w, http.StatusOK, h.directory.Nearby(r.Context(), lat, lng))
}
