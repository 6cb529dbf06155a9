package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/vfg2006/analytics-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/analytics-dashboard-api/pkg/log"
)

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	KeyFunc  httprate.KeyFunc
}

// RateLimit limita as requisições por chave dentro da janela; sem KeyFunc usa o IP
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = httprate.KeyByIP
	}

	return httprate.Limit(
		cfg.Requests,
		cfg.Window,
		httprate.WithKeyFuncs(keyFunc),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			log.ForContext(r.Context()).WithFields(log.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
			}).Warn("Limite de requisições excedido")

			apiErrors.WriteError(w, apiErrors.ErrTooManyRequests, "Limite de requisições excedido, tente novamente mais tarde", nil)
		}),
	)
}

func NoRateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return next
	}
}

// KeyByUser agrupa por organização e usuário autenticados, com fallback para o IP
func KeyByUser(r *http.Request) (string, error) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		return httprate.KeyByIP(r)
	}

	return fmt.Sprintf("%s:%d", claims.OrganizationID, claims.UserID), nil
}
