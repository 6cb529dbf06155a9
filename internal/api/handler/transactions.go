package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vfg2006/analytics-dashboard-api/internal/domain"
	"github.com/vfg2006/analytics-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/analytics-dashboard-api/pkg/log"
)

// ListTransactions aceita search, status, page e page_size
func ListTransactions(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		query := r.URL.Query()

		status, ok := queryStatus(w, query)
		if !ok {
			return
		}

		page, ok := queryInt(w, query, "page")
		if !ok {
			return
		}

		pageSize, ok := queryInt(w, query, "page_size")
		if !ok {
			return
		}

		result, err := service.QueryTransactions(r.Context(), &domain.TransactionFilters{
			OrganizationID: claims.OrganizationID,
			Search:         strings.TrimSpace(query.Get("search")),
			Status:         status,
			Page:           page,
			PageSize:       pageSize,
		})
		if err != nil {
			writeUsecaseError(w, r, err, "Erro ao listar transações")
			return
		}

		writeJSON(w, r, http.StatusOK, result)
	})
}

// GetTransactionReport retorna todas as transações do período com o resumo por status
func GetTransactionReport(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		filters, ok := reportFilters(w, r, claims.OrganizationID)
		if !ok {
			return
		}

		report, err := service.QueryReport(r.Context(), filters)
		if err != nil {
			writeUsecaseError(w, r, err, "Erro ao gerar relatório")
			return
		}

		writeJSON(w, r, http.StatusOK, report)
	})
}

// ExportTransactionReport devolve o relatório como anexo CSV
func ExportTransactionReport(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		filters, ok := reportFilters(w, r, claims.OrganizationID)
		if !ok {
			return
		}

		report, err := service.QueryReport(r.Context(), filters)
		if err != nil {
			writeUsecaseError(w, r, err, "Erro ao exportar relatório")
			return
		}

		body := service.RenderCSV(report.Transactions)

		log.ForContext(r.Context()).WithField("rows", len(report.Transactions)).Info("Relatório de transações exportado")

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", reporting.ExportFileName(time.Now())))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(body)); err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao enviar CSV")
		}
	})
}
