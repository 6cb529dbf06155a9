package insighting

import (
	"context"

	"github.com/vfg2006/analytics-dashboard-api/internal/domain"
)

// Insighter calcula os indicadores do painel a partir das métricas diárias
type Insighter interface {
	// ComputeKPISummary compara a janela corrente com a anterior de mesmo tamanho
	ComputeKPISummary(ctx context.Context, organizationID string) (*domain.KPISummary, error)

	// ComputeDailySeries retorna um ponto por dia com métrica, em ordem crescente de data
	ComputeDailySeries(ctx context.Context, organizationID string, days int) ([]*domain.DailySeriesPoint, error)
}
