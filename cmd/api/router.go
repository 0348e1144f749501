package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/crucial707/staybook/internal/auth"
	"github.com/crucial707/staybook/internal/config"
	"github.com/crucial707/staybook/internal/handlers"
	"github.com/crucial707/staybook/internal/middleware"
	"github.com/crucial707/staybook/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// deps are the long-lived collaborators of the router. Zero fields are filled from cfg.
type deps struct {
	revoker     auth.Revoker
	hasher      *auth.PasswordHasher
	presigner   handlers.PhotoPresigner
	authLimiter *middleware.IPRateLimiter
}

type routerOption func(*deps)

func withRevoker(r auth.Revoker) routerOption {
	return func(d *deps) { d.revoker = r }
}

func withHasher(h *auth.PasswordHasher) routerOption {
	return func(d *deps) { d.hasher = h }
}

func withPresigner(p handlers.PhotoPresigner) routerOption {
	return func(d *deps) { d.presigner = p }
}

func withAuthLimiter(l *middleware.IPRateLimiter) routerOption {
	return func(d *deps) { d.authLimiter = l }
}

// newRouter builds the HTTP API. Photo upload routes are only mounted when a presigner is given.
func newRouter(db *sql.DB, cfg config.Config, opts ...routerOption) http.Handler {
	d := deps{}
	for _, opt := range opts {
		opt(&d)
	}
	if d.revoker == nil {
		d.revoker = auth.NewMemoryRevoker()
	}
	if d.hasher == nil {
		d.hasher = auth.NewPasswordHasher(cfg.BcryptCost, cfg.HashWorkers)
	}
	if d.authLimiter == nil {
		d.authLimiter = middleware.AuthRateLimiter()
	}

	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL(), d.revoker)
	resolver := auth.NewResolver(tokens)

	authHandler := &handlers.AuthHandler{
		Accounts:     service.NewAccountService(db, d.hasher, tokens),
		Resolver:     resolver,
		SecureCookie: cfg.IsProd(),
	}
	placeHandler := &handlers.PlaceHandler{Places: service.NewPlaceService(db)}
	bookingHandler := &handlers.BookingHandler{Bookings: service.NewBookingService(db, cfg.PreventDoubleBooking)}
	auditHandler := &handlers.AuditHandler{Audit: service.NewAuditService(db)}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			middleware.LoggerFrom(r.Context()).Warn("readiness check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.JSONBody(middleware.DefaultMaxBodyBytes))

		// Public
		r.Group(func(r chi.Router) {
			r.Use(d.authLimiter.Middleware)
			r.Post("/user/signUp", authHandler.Signup)
			r.Post("/user/login", authHandler.Login)
		})
		r.Post("/user/logout", authHandler.Logout)
		r.Get("/places", placeHandler.ListPlaces)
		r.Get("/places/{id}", placeHandler.GetPlace)

		// Protected
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireIdentity(resolver))

			r.Get("/user/profile", authHandler.Profile)
			r.Put("/users/{id}", authHandler.UpdateProfile)

			r.Post("/places", placeHandler.CreatePlace)
			r.Put("/places/{id}", placeHandler.UpdatePlace)
			r.Delete("/places/{id}", placeHandler.DeletePlace)
			r.Get("/user-places", placeHandler.ListMyPlaces)

			r.Post("/bookings", bookingHandler.CreateBooking)
			r.Get("/bookings", bookingHandler.ListBookings)
			r.Get("/bookings/{id}", bookingHandler.GetBooking)

			r.Get("/audit", auditHandler.ListAudit)

			if d.presigner != nil {
				uploadHandler := &handlers.UploadHandler{Presigner: d.presigner}
				r.Post("/uploads/presign", uploadHandler.PresignPhoto)
			}
		})
	})

	return r
}
