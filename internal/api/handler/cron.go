package handler

import (
	"net/http"
	"slices"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/analytics-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/analytics-dashboard-api/pkg/log"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeMetricsFreshness = "metrics-freshness"
	CronJobTypeAll              = "all"
)

// CronJob é um serviço agendado que também pode ser disparado manualmente
type CronJob interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

// CronJobServices indexa os serviços de cron pelo tipo exposto na URL
type CronJobServices map[string]CronJob

func (s CronJobServices) types() []string {
	types := make([]string, 0, len(s))
	for cronType := range s {
		types = append(types, cronType)
	}
	slices.Sort(types)
	return types
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		started := map[string]bool{}

		if cronType == CronJobTypeAll {
			for _, t := range services.types() {
				started[t] = services[t].TriggerManualSync()
			}
		} else {
			job, exists := services[cronType]
			if !exists || job == nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido", map[string]any{
					"allowed": append(services.types(), CronJobTypeAll),
				})
				return
			}
			started[cronType] = job.TriggerManualSync()
		}

		logger.WithField("job", cronType).Info("Execução manual de cron job solicitada")

		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
			"started": started,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := make(map[string]any, len(services))
		for cronType, job := range services {
			status[cronType] = job.GetStatus()
		}

		writeJSON(w, r, http.StatusOK, status)
	}
}
