package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/vfg2006/analytics-dashboard-api/internal/domain"
)

const (
	csvHeader = "ID,Customer Name,Customer Email,Amount,Currency,Status,Type,Description,Date"

	// instante UTC com milissegundos, ex.: 2024-01-15T10:00:00.000Z
	csvDateLayout = "2006-01-02T15:04:05.000Z"
)

// RenderCSV gera o CSV da exportação. Nome do cliente e descrição são sempre
// envolvidos em aspas, sem escapar aspas ou quebras de linha internas.
// Linhas separadas por \n, sem quebra final.
func RenderCSV(transactions []*domain.TransactionRecord) string {
	var b strings.Builder
	b.WriteString(csvHeader)

	for _, t := range transactions {
		description := ""
		if t.Description != nil {
			description = *t.Description
		}

		fmt.Fprintf(&b, "\n%s,\"%s\",%s,%.2f,%s,%s,%s,\"%s\",%s",
			t.ID,
			t.CustomerName,
			t.CustomerEmail,
			t.Amount,
			t.Currency,
			t.Status,
			t.Type,
			description,
			t.CreatedAt.UTC().Format(csvDateLayout),
		)
	}

	return b.String()
}

// ExportFileName monta o nome do anexo da exportação
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("transactions-report-%s.csv", now.UTC().Format(time.DateOnly))
}
