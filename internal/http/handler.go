package httpapi

import (
	"database/sql"
	"fmt"
	"net/http"

	"silvercare/internal/config"
	"silvercare/internal/repository"
	"silvercare/internal/service"
	"silvercare/internal/view"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps wires the HTTP surface. DB and Redis are only used for health checks
// and may be nil.
type Deps struct {
	Medications *service.MedicationService
	Sos         *service.SosDispatcher
	Contacts    repository.EmergencyContactsRepository
	Chat        *service.ChatProxy
	Providers   *service.ProviderDirectory
	Feedback    *service.FeedbackService
	Sessions    *view.Sessions

	DB    *sql.DB
	Redis *redis.Client

	MaxBodyBytes int64
	RateLimit    config.RateLimitConfig
	Logger       *zap.Logger
}

// NewHandler registers every route and wraps them in the common middleware.
func NewHandler(d Deps) (http.Handler, error) {
	logger := d.Logger
	maxBody := d.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 64 << 10
	}

	chatLimit, err := RateLimit(d.RateLimit.Chat, "/chat")
	if err != nil {
		return nil, fmt.Errorf("invalid chat rate limit: %w", err)
	}
	sosLimit, err := RateLimit(d.RateLimit.SOS, "/sos")
	if err != nil {
		return nil, fmt.Errorf("invalid sos rate limit: %w", err)
	}
	appLimit, err := RateLimit(d.RateLimit.App, "/app")
	if err != nil {
		return nil, fmt.Errorf("invalid app rate limit: %w", err)
	}

	r := NewRouter(logger)
	r.RegisterMedicationRoutes(NewMedicationHandler(d.Medications, maxBody, logger))
	r.RegisterSosRoutes(NewSosHandler(d.Sos, maxBody, logger), sosLimit)
	r.RegisterContactRoutes(NewContactsHandler(d.Contacts, logger))
	r.RegisterChatRoutes(NewChatHandler(d.Chat, maxBody, logger), chatLimit)
	r.RegisterProviderRoutes(NewProvidersHandler(d.Providers, logger))
	r.RegisterFeedbackRoutes(NewFeedbackHandler(d.Feedback, maxBody, logger))
	r.RegisterAppRoutes(NewAppHandler(d.Sessions, maxBody, logger), appLimit)
	r.RegisterHealthRoutes(NewHealthHandler(d.DB, d.Redis, logger))
	r.HandleHandler("/metrics", promhttp.Handler())
	r.RegisterAPIAlias()

	return Chain(r, RequestID(), Observe(logger), Recover(logger)), nil
}
