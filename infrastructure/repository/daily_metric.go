package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/analytics-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/analytics-dashboard-api/internal/domain"
)

const (
	dailyMetricsTable = "daily_metrics dm"
)

//go:generate mockgen -source=daily_metric.go -destination=mocks/daily_metric.go -package=mocks

// DailyMetricRepository lê as métricas diárias pré-agregadas de uma organização.
// Dado um dia e uma organização existe no máximo uma linha.
type DailyMetricRepository interface {
	Aggregate(ctx context.Context, scope domain.TenantScope, window domain.DateWindow) (*domain.MetricTotals, error)
	ListByDateRange(ctx context.Context, scope domain.TenantScope, window domain.DateWindow) ([]*domain.DailyMetric, error)
}

type dailyMetricRepository struct {
	conn postgres.Queryer
}

func NewDailyMetricRepository(conn postgres.Queryer) DailyMetricRepository {
	return &dailyMetricRepository{
		conn: conn,
	}
}

func (r *dailyMetricRepository) Aggregate(ctx context.Context, scope domain.TenantScope, window domain.DateWindow) (*domain.MetricTotals, error) {
	query, args, err := buildAggregateQuery(scope, window)
	if err != nil {
		return nil, err
	}

	var revenue decimal.Decimal
	totals := &domain.MetricTotals{}

	err = r.conn.QueryRowContext(ctx, query, args...).Scan(
		&revenue,
		&totals.ActiveUsers,
		&totals.ChurnedCustomers,
		&totals.TotalCustomers,
		&totals.ConversionRate,
		&totals.Rows,
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao agregar métricas diárias: %w", err)
	}

	totals.Revenue = revenue.InexactFloat64()

	return totals, nil
}

func (r *dailyMetricRepository) ListByDateRange(ctx context.Context, scope domain.TenantScope, window domain.DateWindow) ([]*domain.DailyMetric, error) {
	query, args, err := buildListDailyMetricsQuery(scope, window)
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	metrics := make([]*domain.DailyMetric, 0)
	for rows.Next() {
		metric := &domain.DailyMetric{}
		err := rows.Scan(
			&metric.ID,
			&metric.OrganizationID,
			&metric.Date,
			&metric.Revenue,
			&metric.ActiveUsers,
			&metric.NewUsers,
			&metric.TotalCustomers,
			&metric.NewCustomers,
			&metric.ChurnedCustomers,
			&metric.ConversionRate,
			&metric.CreatedAt,
			&metric.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear métrica diária: %w", err)
		}
		metrics = append(metrics, metric)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return metrics, nil
}

func buildAggregateQuery(scope domain.TenantScope, window domain.DateWindow) (string, []any, error) {
	if scope.IsZero() {
		return "", nil, domain.ErrMissingOrganization
	}

	query, args, err := squirrel.
		Select(
			"COALESCE(SUM(dm.revenue), 0)",
			"COALESCE(SUM(dm.active_users), 0)",
			"COALESCE(SUM(dm.churned_customers), 0)",
			"COALESCE(SUM(dm.total_customers), 0)",
			"COALESCE(AVG(dm.conversion_rate), 0)",
			"COUNT(*)",
		).
		From(dailyMetricsTable).
		Where(squirrel.Eq{"dm.organization_id": scope.OrganizationID()}).
		Where(dateWindowPredicate("dm.date", window)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return query, args, nil
}

func buildListDailyMetricsQuery(scope domain.TenantScope, window domain.DateWindow) (string, []any, error) {
	if scope.IsZero() {
		return "", nil, domain.ErrMissingOrganization
	}

	query, args, err := squirrel.
		Select(
			"dm.id",
			"dm.organization_id",
			"dm.date",
			"dm.revenue",
			"dm.active_users",
			"dm.new_users",
			"dm.total_customers",
			"dm.new_customers",
			"dm.churned_customers",
			"dm.conversion_rate",
			"dm.created_at",
			"dm.updated_at",
		).
		From(dailyMetricsTable).
		Where(squirrel.Eq{"dm.organization_id": scope.OrganizationID()}).
		Where(dateWindowPredicate("dm.date", window)).
		OrderBy("dm.date ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return query, args, nil
}

func dateWindowPredicate(column string, window domain.DateWindow) squirrel.And {
	predicate := squirrel.And{
		squirrel.GtOrEq{column: window.Start.Format(time.DateOnly)},
	}

	if window.EndExclusive {
		return append(predicate, squirrel.Lt{column: window.End.Format(time.DateOnly)})
	}

	return append(predicate, squirrel.LtOrEq{column: window.End.Format(time.DateOnly)})
}
