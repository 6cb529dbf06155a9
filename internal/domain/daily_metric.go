package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyMetric é a linha pré-agregada de um dia para uma organização.
// É mantida por um processo externo; aqui é apenas lida.
type DailyMetric struct {
	ID               string          `json:"id"`
	OrganizationID   string          `json:"organization_id"`
	Date             time.Time       `json:"date"`
	Revenue          decimal.Decimal `json:"revenue"`
	ActiveUsers      int64           `json:"active_users"`
	NewUsers         int64           `json:"new_users"`
	TotalCustomers   int64           `json:"total_customers"`
	NewCustomers     int64           `json:"new_customers"`
	ChurnedCustomers int64           `json:"churned_customers"`
	ConversionRate   float64         `json:"conversion_rate"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// MetricTotals é o resultado agregado (somas e média) de uma janela de datas
type MetricTotals struct {
	Revenue          float64
	ActiveUsers      int64
	ChurnedCustomers int64
	TotalCustomers   int64
	ConversionRate   float64
	Rows             int64
}

// DateWindow é um intervalo de datas de calendário. Start é sempre inclusivo.
type DateWindow struct {
	Start        time.Time
	End          time.Time
	EndExclusive bool
}

// CurrentWindow retorna [today-days, today]
func CurrentWindow(today time.Time, days int) DateWindow {
	return DateWindow{
		Start: today.AddDate(0, 0, -days),
		End:   today,
	}
}

// PreviousWindow retorna [today-2*days, today-days), sem sobreposição com a janela corrente
func PreviousWindow(today time.Time, days int) DateWindow {
	return DateWindow{
		Start:        today.AddDate(0, 0, -2*days),
		End:          today.AddDate(0, 0, -days),
		EndExclusive: true,
	}
}

// Contains indica se a data (dia de calendário) pertence à janela
func (w DateWindow) Contains(date time.Time) bool {
	if date.Before(w.Start) {
		return false
	}

	if w.EndExclusive {
		return date.Before(w.End)
	}

	return !date.After(w.End)
}

type DailySeriesPoint struct {
	Date        string  `json:"date"`
	Revenue     float64 `json:"revenue"`
	ActiveUsers int64   `json:"active_users"`
}

func NewDailySeriesPoint(metric *DailyMetric) *DailySeriesPoint {
	return &DailySeriesPoint{
		Date:        metric.Date.Format(time.DateOnly),
		Revenue:     metric.Revenue.InexactFloat64(),
		ActiveUsers: metric.ActiveUsers,
	}
}
