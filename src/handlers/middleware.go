package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/username/tariffscope/src/logger"
	"github.com/username/tariffscope/src/security"
	"github.com/username/tariffscope/src/utils"
)

// BasicAuthMiddleware gates a route group behind HTTP Basic credentials.
// Failures get the challenge header so browsers prompt for credentials.
func BasicAuthMiddleware(authService *security.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.New().String()
			log := logger.WithRequestID(requestID)

			user, pass, ok := r.BasicAuth()
			if !ok {
				log.Error("No authorization header provided", "path", r.URL.Path)
				w.Header().Set("WWW-Authenticate", `Basic realm="Login Required"`)
				utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !authService.CheckCredentials(user, pass) {
				log.Error("Invalid credentials", "path", r.URL.Path, "username", user)
				w.Header().Set("WWW-Authenticate", `Basic realm="Login Required"`)
				utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			log.Debug("Authentication successful", "path", r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitMiddleware applies the single global limiter to every request.
func RateLimitMiddleware(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				logger.L.Warn("Rate limit exceeded",
					"method", r.Method,
					"path", r.URL.Path,
					"remoteAddr", r.RemoteAddr)
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EnableCORS mirrors the browser-facing CORS policy: any origin may read the
// JSON endpoints, preflights are answered inline.
func EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RecoverJSON converts handler panics into a generic JSON 500 instead of
// crashing the process.
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.L.Error("Recovered from panic in handler",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec)
				utils.SendJSONError(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
