package auth

import (
	"log/slog"
	"net/http"

	"github.com/echosyntax/echosyntax/pkg/observability"
	"github.com/echosyntax/echosyntax/pkg/transport"
)

// DefaultBypassPaths skip authentication.
var DefaultBypassPaths = []string{"/healthz", "/metrics"}

// Middleware returns HTTP middleware that authenticates every request not
// in bypass. Rejected requests get a 401 JSON error; accepted requests
// carry the principal in their context.
func Middleware(chain *Chain, bypass []string, logger *slog.Logger) transport.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	skip := make(map[string]bool, len(bypass))
	for _, p := range bypass {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			v := chain.Authenticate(r.Context(), r)
			if v.Vote != Accept || v.Principal == nil || v.Principal.Subject == "" {
				observability.AuthRejectedTotal.Inc()
				logger.WarnContext(r.Context(), "authentication failed",
					"request_id", transport.RequestIDFromContext(r.Context()),
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"error", v.Err,
				)
				w.Header().Set("WWW-Authenticate", `Bearer realm="echosyntax"`)
				transport.WriteErrorResponse(w, "authentication required", http.StatusUnauthorized)
				return
			}

			logger.DebugContext(r.Context(), "authenticated",
				"subject", v.Principal.Subject,
				"method", v.Principal.Method,
			)
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), v.Principal)))
		})
	}
}
