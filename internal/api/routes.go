package api

import (
	"net/http"
	"regexp"
	"time"

	"barrage-board/internal/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires every endpoint. Everything under the API prefix except token
// issuance sits behind AuthMiddleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(MetricsMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.corsHandler())

	r.Get("/health", s.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	routes := func(r chi.Router) {
		r.With(s.loginLimiter()).Post("/auth/token", s.TokenHandler)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)

			r.Get("/barrages", s.ListBarragesHandler)
			r.Get("/dashboard", s.DashboardHandler)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", s.ListUsersHandler)
				r.Post("/", s.CreateUserHandler)
				r.Get("/me", s.GetCurrentUserHandler)
				r.Put("/me", s.UpdateCurrentUserHandler)
				r.Get("/{id}", s.GetUserHandler)
				r.Put("/{id}", s.UpdateUserHandler)
				r.Delete("/{id}", s.DeleteUserHandler)
			})
		})
	}

	prefix := s.config.API.Prefix
	if prefix == "" || prefix == "/" {
		r.Group(routes)
	} else {
		r.Route(prefix, routes)
	}

	return r
}

func (s *Server) corsHandler() func(http.Handler) http.Handler {
	pattern := s.config.API.CORSOriginPattern
	if pattern == "" {
		return func(next http.Handler) http.Handler { return next }
	}

	origins, err := regexp.Compile(pattern)
	if err != nil {
		logging.Error().Err(err).Str("pattern", pattern).Msg("invalid CORS origin pattern, cross-origin requests disabled")
		origins = regexp.MustCompile(`$^`)
	}

	return cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return origins.MatchString(origin)
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           600,
	})
}

func (s *Server) loginLimiter() func(http.Handler) http.Handler {
	limit := s.config.API.LoginRateLimit
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(limit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, r, http.StatusTooManyRequests, "Too many login attempts", nil)
		}),
	)
}
