package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"barrage-board/internal/database"
	"barrage-board/internal/logging"
	"barrage-board/internal/metrics"
	"barrage-board/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type contextKey string

const userContextKey = contextKey("user")

// AuthMiddleware resolves the bearer token to an active user and stores it
// in the request context.
func (s *Server) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, r, http.StatusUnauthorized, "Not authenticated", nil)
			return
		}

		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenString) == "" {
			respondError(w, r, http.StatusUnauthorized, "Invalid Authorization header format", nil)
			return
		}

		username, err := s.tokens.Verify(strings.TrimSpace(tokenString))
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("rejected bearer token")
			respondError(w, r, http.StatusUnauthorized, "Invalid or expired token", nil)
			return
		}

		user, err := s.store.GetUserByUsername(r.Context(), username)
		if errors.Is(err, database.ErrUserNotFound) {
			respondError(w, r, http.StatusUnauthorized, "Invalid or expired token", nil)
			return
		}
		if err != nil {
			respondError(w, r, http.StatusInternalServerError, "Internal server error", err)
			return
		}
		if !user.IsActive {
			respondError(w, r, http.StatusUnauthorized, "Inactive user", nil)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetUserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(userContextKey).(*models.User); ok {
		return user
	}
	return nil
}

// RequestLogger attaches a request-scoped zerolog logger carrying the chi
// request id and writes one access line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		l := logging.Logger().With().
			Str("request_id", middleware.GetReqID(r.Context())).
			Logger()
		r = r.WithContext(logging.WithContext(r.Context(), l))

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			l.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("remote", r.RemoteAddr).
				Msg("request")
		}()

		next.ServeHTTP(ww, r)
	})
}

func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
