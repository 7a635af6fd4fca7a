package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sponsors/internal/auth"
	"sponsors/internal/utils"

	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const (
	contextKeyRequestID contextKey = "request_id"
	contextKeyPrincipal contextKey = "principal"
)

const requestIDHeader = "X-Request-ID"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()

		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = utils.NanoID()
		}
		w.Header().Set(requestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r.WithContext(ctx))

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
			"request_id":  requestID,
		}).Info("http request")
	})
}

// RequireRoles rejects callers that do not hold any of roles and puts the
// authenticated principal in the request context.
func (s *Service) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := s.authorizer.Authorize(r, roles)
			switch {
			case errors.Is(err, auth.ErrUnauthenticated):
				s.requestLogger(r).WithError(err).Debug("unauthenticated request")
				w.Header().Set("WWW-Authenticate", "Bearer")
				s.writeError(w, http.StatusUnauthorized, "Not authenticated")
				return
			case errors.Is(err, auth.ErrForbidden):
				s.writeError(w, http.StatusForbidden, "Insufficient permissions")
				return
			case err != nil:
				s.requestLogger(r).WithError(err).Error("failed to authorize request")
				s.internalServerError(w)
				return
			}

			s.requestLogger(r).WithField("user_id", principal.Subject).Debug("authorized user")

			ctx := context.WithValue(r.Context(), contextKeyPrincipal, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s *Service) requestLogger(r *http.Request) *logrus.Entry {
	entry := s.logger.WithField("path", r.URL.Path)
	if id, ok := r.Context().Value(contextKeyRequestID).(string); ok {
		entry = entry.WithField("request_id", id)
	}
	if p, ok := r.Context().Value(contextKeyPrincipal).(*auth.Principal); ok {
		entry = entry.WithField("user_id", p.Subject)
	}
	return entry
}
