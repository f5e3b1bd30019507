package http

import (
	"net/http"

	"github.com/deals-api/internal/application/auth"
	"github.com/deals-api/internal/application/claim"
	"github.com/deals-api/internal/application/deal"
	"github.com/deals-api/internal/application/verification"
	"github.com/deals-api/internal/config"
	"github.com/deals-api/internal/domain"
	jwtinfra "github.com/deals-api/internal/infrastructure/jwt"
	"github.com/deals-api/internal/transport/http/handler"
	appmiddleware "github.com/deals-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo      UserRepository
	DealRepo      DealRepository
	ClaimRepo     ClaimRepository
	DocumentStore ObjectStore
	Mailer        Mailer
	Events        EventPublisher
	JWTProvider   *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authSvc := auth.NewService(deps.UserRepo, deps.JWTProvider)
	dealSvc := deal.NewService(deps.DealRepo)
	claimSvc := claim.NewService(deps.ClaimRepo, deps.DealRepo, deps.Events)
	verifSvc := verification.NewService(deps.UserRepo, deps.DocumentStore, deps.Mailer)

	authMw := appmiddleware.Auth(authSvc)

	// General limiter for the whole API, stricter one for credential endpoints.
	apiRL := appmiddleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	dealH := handler.NewDealHandler(dealSvc)
	claimH := handler.NewClaimHandler(claimSvc)
	verifH := handler.NewVerificationHandler(verifSvc)

	r.Route("/v1", func(r chi.Router) {
		r.Use(apiRL.Limit)

		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/ping", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/auth/register", authH.Register)
		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)
		r.Get("/deals", dealH.List)
		r.Get("/deals/{id}", dealH.Get)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/claims", claimH.Create)
			r.Get("/claims/me", claimH.ListMine)
			r.Post("/verification/request", verifH.Request)
			r.Get("/verification/status", verifH.Status)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Post("/deals", dealH.Create)
				r.Put("/claims/{id}", claimH.UpdateStatus)
			})
		})
	})

	return r
}
