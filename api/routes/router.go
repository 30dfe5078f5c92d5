package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SolutionSimple/obsicarte-backend/api/controllers"
	webhookcontrollers "github.com/SolutionSimple/obsicarte-backend/api/controllers/webhooks"
	"github.com/SolutionSimple/obsicarte-backend/api/middleware"
	stripewebhook "github.com/SolutionSimple/obsicarte-backend/internal/webhooks/stripe"
	"github.com/SolutionSimple/obsicarte-backend/pkg/config"
	"github.com/SolutionSimple/obsicarte-backend/pkg/db"
	"github.com/SolutionSimple/obsicarte-backend/pkg/logger"
	"github.com/SolutionSimple/obsicarte-backend/pkg/redis"
	"github.com/SolutionSimple/obsicarte-backend/pkg/stripe"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	activationService controllers.ActivationService,
	checkoutService controllers.CheckoutService,
	profileService controllers.ProfileService,
	stripeClient *stripe.Client,
	stripeWebhookService *stripewebhook.Service,
	stripeWebhookGuard *stripewebhook.IdempotencyGuard,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/p/{username}", func(r chi.Router) {
		r.Get("/", controllers.PublicProfile(profileService, logg))
		r.Get("/qr", controllers.PublicProfileQR(profileService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/activation", controllers.ActivateCard(activationService, logg))
		r.Post("/checkout/intent", controllers.CreatePaymentIntent(checkoutService, logg))
		r.Post("/webhooks/stripe", webhookcontrollers.StripeWebhook(stripeWebhookService, stripeClient, stripeWebhookGuard, logg))
		r.Post("/profiles/{profileID}/custom-fields", controllers.AddCustomField(profileService, logg))
		r.Get("/users/{userID}/entitlements", controllers.UserEntitlements(profileService, logg))
	})

	return r
}
