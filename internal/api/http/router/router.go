package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dtroode/emotion-log/internal/api/http/handler"
	"github.com/dtroode/emotion-log/internal/api/http/middleware"
	"github.com/dtroode/emotion-log/internal/api/http/response"
	"github.com/dtroode/emotion-log/internal/apierrors"
	"github.com/dtroode/emotion-log/internal/logger"
	"github.com/dtroode/emotion-log/internal/metrics"
	"github.com/dtroode/emotion-log/internal/model"
)

// Services are the application services the router exposes.
// Export may be nil when object storage is disabled. DB may be nil for the in-memory driver.
type Services struct {
	Auth interface {
		handler.AuthService
		middleware.TokenService
	}
	EmotionLog handler.EmotionLogService
	Export     handler.ExportService
	DB         handler.Pinger
}

// Options tune the middleware stack.
type Options struct {
	AllowedOrigins []string
	LoginRate      float64
	LoginBurst     int
	EnableMetrics  bool
}

// Router builds the HTTP handler tree of the API server.
type Router struct {
	services       Services
	options        Options
	validator      handler.Validator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
//
// Parameters:
//   - services: The application services behind the handlers
//   - options: CORS, rate limit and metrics settings
//   - validator: The request body validator
//   - contextManager: Carries the authenticated user ID between middleware and handlers
//   - logger: The logger for request logging
//
// Returns a pointer to the newly created Router instance.
func New(
	services Services,
	options Options,
	validator handler.Validator,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		services:       services,
		options:        options,
		validator:      validator,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register wires middleware and routes.
//
// Public routes live under /api (health, signup, login). Everything else under /api requires a
// bearer token. /metrics is mounted at the root when enabled.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.services.Auth, r.contextManager, r.logger)
	loginLimit := middleware.NewRateLimit(r.options.LoginRate, r.options.LoginBurst, r.logger)

	authHandler := handler.NewAuth(r.services.Auth, r.validator, r.contextManager, r.logger)
	logsHandler := handler.NewEmotionLog(r.services.EmotionLog, r.validator, r.contextManager, r.logger)
	exportHandler := handler.NewExport(r.services.Export, r.contextManager, r.logger)
	healthHandler := handler.NewHealth(r.services.DB, r.logger)

	mux := chi.NewRouter()
	mux.Use(chimiddleware.RequestID)
	mux.Use(chimiddleware.RealIP)
	mux.Use(logging.Handle)
	mux.Use(chimiddleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.options.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"WWW-Authenticate"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if r.options.EnableMetrics {
		mux.Use(metrics.Middleware())
		mux.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, r.logger, apierrors.NewErrNotFound("route not found"))
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, http.StatusMethodNotAllowed, response.ErrorBody{
			Error: "method not allowed",
			Code:  apierrors.KindValidation,
		})
	})

	mux.Route("/api", func(api chi.Router) {
		api.Get("/health", healthHandler.Check)

		api.Group(func(public chi.Router) {
			public.Use(loginLimit.Handle)
			public.Post("/signup", authHandler.SignUp)
			public.Post("/login", authHandler.Login)
		})

		api.Group(func(protected chi.Router) {
			protected.Use(authenticate.Handle)
			protected.Get("/profile", authHandler.Profile)
			protected.Post("/logs", logsHandler.Save)
			protected.Get("/logs", logsHandler.List)
			protected.Post("/exports", exportHandler.Create)
			protected.Get("/exports/*", exportHandler.Download)
		})
	})

	return mux
}
