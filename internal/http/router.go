package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router uses the standard library ServeMux; every route checks its own method.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterAPIAlias also serves every route under /api, the prefix the web client uses.
func (r *Router) RegisterAPIAlias() {
	r.mux.Handle("/api/", http.StripPrefix("/api", r.mux))
}

func (r *Router) RegisterMedicationRoutes(h *MedicationHandler) {
	r.Handle("/medicines", h.Create)
	// /medicines/{userId}, /medicines/{userId}/export, /medicines/{userId}/summary, PUT /medicines/{id}
	r.Handle("/medicines/", h.ServeItem)
}

func (r *Router) RegisterSosRoutes(h *SosHandler, limit Middleware) {
	r.HandleHandler("/sos", limit(http.HandlerFunc(h.Notify)))
	r.Handle("/sos/", h.ServeItem)
}

func (r *Router) RegisterContactRoutes(h *ContactsHandler) {
	r.Handle("/contacts/", h.List)
}

func (r *Router) RegisterChatRoutes(h *ChatHandler, limit Middleware) {
	r.HandleHandler("/chat", limit(http.HandlerFunc(h.Reply)))
}

func (r *Router) RegisterProviderRoutes(h *ProvidersHandler) {
	r.Handle("/providers", h.Nearby)
}

func (r *Router) RegisterFeedbackRoutes(h *FeedbackHandler) {
	r.Handle("/feedback", h.Submit)
	r.Handle("/feedback/summary", h.Summary)
}

func (r *Router) RegisterAppRoutes(h *AppHandler, limit Middleware) {
	r.HandleHandler("/app/", limit(http.HandlerFunc(h.ServeHTTP)))
}

func (r *Router) RegisterHealthRoutes(h *HealthHandler) {
	r.Handle("/healthz", h.HealthCheck)
}
