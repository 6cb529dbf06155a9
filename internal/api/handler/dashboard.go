package handler

import (
	"net/http"

	"github.com/vfg2006/analytics-dashboard-api/internal/usecases/insighting"
	"github.com/vfg2006/analytics-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/analytics-dashboard-api/pkg/log"
)

const maxSeriesDays = 366

func GetKPISummary(service insighting.Insighter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		summary, err := service.ComputeKPISummary(r.Context(), claims.OrganizationID)
		if err != nil {
			writeUsecaseError(w, r, err, "Erro ao calcular KPIs")
			return
		}

		writeJSON(w, r, http.StatusOK, summary)
	})
}

// GetDailySeries aceita ?days=N; ausente usa o padrão configurado
func GetDailySeries(service insighting.Insighter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		days, ok := queryInt(w, r.URL.Query(), "days")
		if !ok {
			return
		}

		if days < 0 || days > maxSeriesDays {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "days deve estar entre 0 (padrão) e 366", map[string]int{"days": days})
			return
		}

		series, err := service.ComputeDailySeries(r.Context(), claims.OrganizationID, days)
		if err != nil {
			writeUsecaseError(w, r, err, "Erro ao buscar série diária")
			return
		}

		log.ForContext(r.Context()).WithField("points", len(series)).Debug("dashboard: série diária calculada")

		writeJSON(w, r, http.StatusOK, series)
	})
}
