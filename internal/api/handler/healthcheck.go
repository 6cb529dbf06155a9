package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/vfg2006/analytics-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/analytics-dashboard-api/pkg/log"
)

const healthcheckTimeout = 2 * time.Second

// Pinger verifica a conexão com o banco
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthcheckHandler(db Pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthcheckTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("healthcheck: banco de dados indisponível")
			apiErrors.WriteError(w, apiErrors.ErrCommunication, "Banco de dados indisponível", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, map[string]string{
			"status":   "ok",
			"database": "up",
			"time":     time.Now().UTC().Format(time.RFC3339),
		})
	})
}
