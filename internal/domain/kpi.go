package domain

import "math"

type KPISummary struct {
	Revenue           float64 `json:"revenue"`
	RevenueChange     float64 `json:"revenue_change"`
	ActiveUsers       int64   `json:"active_users"`
	ActiveUsersChange float64 `json:"active_users_change"`
	ConversionRate    float64 `json:"conversion_rate"`
	ConversionChange  float64 `json:"conversion_change"`
	ChurnRate         float64 `json:"churn_rate"`
	ChurnChange       float64 `json:"churn_change"`
}

// CalculateKPISummary combina os totais das janelas corrente e anterior.
// windowDays é o divisor das médias diárias e não é ajustado quando faltam dias de dados.
// Os valores saem sem arredondamento; a formatação fica com quem exibe.
func CalculateKPISummary(current, previous MetricTotals, windowDays int) *KPISummary {
	if windowDays <= 0 {
		windowDays = 30
	}
	days := float64(windowDays)

	currentActiveUsers := float64(current.ActiveUsers) / days
	previousActiveUsers := float64(previous.ActiveUsers) / days

	currentChurn := ChurnRate(current, windowDays)
	previousChurn := ChurnRate(previous, windowDays)

	return &KPISummary{
		Revenue:           current.Revenue,
		RevenueChange:     PercentChange(current.Revenue, previous.Revenue),
		ActiveUsers:       int64(math.Round(currentActiveUsers)),
		ActiveUsersChange: PercentChange(currentActiveUsers, previousActiveUsers),
		ConversionRate:    current.ConversionRate,
		ConversionChange:  PercentChange(current.ConversionRate, previous.ConversionRate),
		ChurnRate:         currentChurn,
		ChurnChange:       PercentChange(currentChurn, previousChurn),
	}
}

// PercentChange retorna (curr-prev)/prev*100, ou 0 quando prev <= 0
func PercentChange(curr, prev float64) float64 {
	if prev <= 0 {
		return 0
	}

	return (curr - prev) / prev * 100
}

// ChurnRate é a taxa diária aproximada: churned / (totalCustomers / windowDays) * 100.
// Sem clientes na janela, a base assume 1. Multiplica antes de dividir para não
// acumular erro de ponto flutuante em contagens inteiras.
func ChurnRate(totals MetricTotals, windowDays int) float64 {
	base := float64(totals.TotalCustomers)
	if base == 0 {
		base = 1
	}

	return float64(totals.ChurnedCustomers) * float64(windowDays) * 100 / base
}
