package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/wayfarer-travel/wayfarer/internal/analytics"
	"github.com/wayfarer-travel/wayfarer/internal/auth"
	"github.com/wayfarer-travel/wayfarer/internal/blog"
	"github.com/wayfarer-travel/wayfarer/internal/bookings"
	"github.com/wayfarer-travel/wayfarer/internal/customers"
	"github.com/wayfarer-travel/wayfarer/internal/destinations"
	"github.com/wayfarer-travel/wayfarer/internal/media"
	"github.com/wayfarer-travel/wayfarer/internal/notify"
	"github.com/wayfarer-travel/wayfarer/internal/platform/blob"
	"github.com/wayfarer-travel/wayfarer/internal/rbac"
	"github.com/wayfarer-travel/wayfarer/internal/roles"
	"github.com/wayfarer-travel/wayfarer/internal/settings"
	"github.com/wayfarer-travel/wayfarer/internal/shared"
	"github.com/wayfarer-travel/wayfarer/internal/testimonials"
	"github.com/wayfarer-travel/wayfarer/internal/tours"
	"github.com/wayfarer-travel/wayfarer/internal/users"
	"github.com/wayfarer-travel/wayfarer/jobs"
)

// Dependencies carries everything the router needs.
type Dependencies struct {
	Logger         *slog.Logger
	Config         *Config
	Pool           *pgxpool.Pool
	Redis          *redis.Client
	SessionManager *shared.SessionManager
	BlobStore      blob.Store
	JobsClient     *jobs.Client
}

// NewRouter wires handlers, services and repositories into the HTTP tree.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	auditor := shared.NewAuditLogger(deps.Pool)

	accessService := rbac.NewService(rbac.NewRepository(deps.Pool), logger)
	accessMW := rbac.Middleware{Service: accessService, Logger: logger}

	authService := auth.NewService(auth.NewRepository(deps.Pool))
	authHandler := auth.NewHandler(logger, authService, deps.SessionManager)

	tourService := tours.NewService(tours.NewRepository(deps.Pool), auditor, logger)
	tourHandler := tours.NewHandler(logger, tourService, accessMW)

	destService := destinations.NewService(destinations.NewRepository(deps.Pool), auditor, logger)
	destHandler := destinations.NewHandler(logger, destService, accessMW)

	blogService := blog.NewService(blog.NewRepository(deps.Pool), auditor)
	blogHandler := blog.NewHandler(logger, blogService, accessMW)

	testimonialService := testimonials.NewService(testimonials.NewRepository(deps.Pool), auditor)
	testimonialHandler := testimonials.NewHandler(logger, testimonialService, accessMW)

	customerService := customers.NewService(customers.NewRepository(deps.Pool), auditor)
	customerHandler := customers.NewHandler(logger, customerService, accessMW)

	var notifier notify.Notifier
	if deps.JobsClient != nil {
		notifier = notify.NewQueueNotifier(logger, deps.JobsClient, deps.Config.AdminEmail)
	}
	bookingService := bookings.NewService(logger, bookings.NewRepository(deps.Pool), customerService, tourService, notifier, auditor)
	bookingHandler := bookings.NewHandler(logger, bookingService, accessMW)

	mediaService := media.NewService(logger, media.NewRepository(deps.Pool), deps.BlobStore, auditor)
	mediaHandler := media.NewHandler(logger, mediaService, accessMW)

	settingService := settings.NewService(settings.NewRepository(deps.Pool), auditor)
	settingHandler := settings.NewHandler(logger, settingService, accessMW)

	userService := users.NewService(users.NewRepository(deps.Pool), accessService, auditor)
	userHandler := users.NewHandler(logger, userService, accessMW)

	roleHandler := roles.NewHandler(logger, accessService, accessMW)
	accessHandler := rbac.NewHandler(logger, accessService, accessMW)

	analyticsService := analytics.NewService(logger, analytics.NewRepository(deps.Pool), deps.Redis)
	analyticsHandler := analytics.NewHandler(logger, analyticsService, accessMW)

	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         logger,
		Config:         deps.Config,
		SessionManager: deps.SessionManager,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", authHandler.MountRoutes)
		r.Route("/tours", tourHandler.MountPublicRoutes)
		r.Route("/destinations", destHandler.MountPublicRoutes)
		r.Route("/blog", blogHandler.MountPublicRoutes)
		r.Route("/testimonials", testimonialHandler.MountPublicRoutes)
		r.Route("/bookings", func(r chi.Router) {
			// Lead capture gets a tighter per-IP budget than the rest
			// of the public surface.
			r.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
			bookingHandler.MountPublicRoutes(r)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(accessMW.RequireUser)
			r.Route("/access", accessHandler.MountRoutes)
			r.Route("/tours", tourHandler.MountAdminRoutes)
			r.Route("/destinations", destHandler.MountAdminRoutes)
			r.Route("/posts", blogHandler.MountAdminRoutes)
			r.Route("/testimonials", testimonialHandler.MountAdminRoutes)
			r.Route("/bookings", bookingHandler.MountAdminRoutes)
			r.Route("/customers", customerHandler.MountAdminRoutes)
			r.Route("/media", mediaHandler.MountAdminRoutes)
			r.Route("/settings", settingHandler.MountAdminRoutes)
			r.Route("/users", userHandler.MountAdminRoutes)
			r.Route("/roles", roleHandler.MountAdminRoutes)
			r.Route("/analytics", analyticsHandler.MountAdminRoutes)
		})
	})

	return r
}
