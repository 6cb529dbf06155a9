package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vfg2006/analytics-dashboard-api/internal/domain"
	"github.com/vfg2006/analytics-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/analytics-dashboard-api/pkg/log"
	"github.com/vfg2006/analytics-dashboard-api/pkg/utils"
)

// queryDate lê um parâmetro opcional YYYY-MM-DD; em caso de erro a resposta já foi escrita
func queryDate(w http.ResponseWriter, r *http.Request, query url.Values, name string) (*time.Time, bool) {
	value := strings.TrimSpace(query.Get(name))

	date, err := utils.ParseDate(value)
	if err != nil {
		log.ForContext(r.Context()).WithFields(log.Fields{
			name:    value,
			"error": err.Error(),
		}).Warn("Parâmetro de data inválido")

		apiErrors.WriteError(w, apiErrors.ErrInvalidDate, name+" deve estar no formato YYYY-MM-DD", map[string]string{"param": name})
		return nil, false
	}

	return date, true
}

// queryInt lê um inteiro opcional; ausente retorna 0
func queryInt(w http.ResponseWriter, query url.Values, name string) (int, bool) {
	value := strings.TrimSpace(query.Get(name))
	if value == "" {
		return 0, true
	}

	number, err := strconv.Atoi(value)
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, name+" deve ser um número inteiro", map[string]string{"param": name})
		return 0, false
	}

	return number, true
}

// queryStatus aceita vazio, "all" ou um status exato
func queryStatus(w http.ResponseWriter, query url.Values) (string, bool) {
	status := strings.TrimSpace(query.Get("status"))
	if normalized := domain.NormalizeFilter(status); normalized != "" && !domain.IsValidStatus(normalized) {
		apiErrors.WriteError(w, apiErrors.ErrInvalidStatus, "status inválido", map[string]any{
			"status":  status,
			"allowed": domain.TransactionStatuses,
		})
		return "", false
	}

	return status, true
}

func queryType(w http.ResponseWriter, query url.Values) (string, bool) {
	transactionType := strings.TrimSpace(query.Get("type"))
	if normalized := domain.NormalizeFilter(transactionType); normalized != "" && !domain.IsValidType(normalized) {
		apiErrors.WriteError(w, apiErrors.ErrInvalidType, "type inválido", map[string]any{
			"type":    transactionType,
			"allowed": domain.TransactionTypes,
		})
		return "", false
	}

	return transactionType, true
}

// reportFilters monta e valida os filtros do relatório a partir da query string
func reportFilters(w http.ResponseWriter, r *http.Request, organizationID string) (*domain.ReportFilters, bool) {
	query := r.URL.Query()

	startDate, ok := queryDate(w, r, query, "start_date")
	if !ok {
		return nil, false
	}

	endDate, ok := queryDate(w, r, query, "end_date")
	if !ok {
		return nil, false
	}

	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		apiErrors.WriteError(w, apiErrors.ErrInvalidDateRange, "start_date deve ser anterior ou igual a end_date", map[string]string{
			"start_date": startDate.Format(time.DateOnly),
			"end_date":   endDate.Format(time.DateOnly),
		})
		return nil, false
	}

	status, ok := queryStatus(w, query)
	if !ok {
		return nil, false
	}

	transactionType, ok := queryType(w, query)
	if !ok {
		return nil, false
	}

	return &domain.ReportFilters{
		OrganizationID: organizationID,
		StartDate:      startDate,
		EndDate:        endDate,
		Status:         status,
		Type:           transactionType,
	}, true
}
