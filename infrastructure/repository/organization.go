package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/analytics-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/analytics-dashboard-api/internal/domain"
)

const (
	organizationsTable = "organizations"
)

// ErrOrganizationNotFound indica que o escopo não corresponde a nenhuma organização
var ErrOrganizationNotFound = errors.New("organização não encontrada")

//go:generate mockgen -source=organization.go -destination=mocks/organization.go -package=mocks

type OrganizationRepository interface {
	GetByID(ctx context.Context, scope domain.TenantScope) (*domain.Organization, error)
	Update(ctx context.Context, scope domain.TenantScope, request *domain.UpdateOrganizationRequest) error
	// ListMetricsFreshness percorre todas as organizações; uso restrito ao monitoramento
	ListMetricsFreshness(ctx context.Context, cutoff time.Time) ([]*domain.MetricsFreshness, error)
}

type organizationRepository struct {
	conn postgres.Queryer
}

func NewOrganizationRepository(conn postgres.Queryer) OrganizationRepository {
	return &organizationRepository{
		conn: conn,
	}
}

func (r *organizationRepository) GetByID(ctx context.Context, scope domain.TenantScope) (*domain.Organization, error) {
	if scope.IsZero() {
		return nil, domain.ErrMissingOrganization
	}

	query, args, err := squirrel.
		Select("id", "name", "currency", "created_at", "updated_at").
		From(organizationsTable).
		Where(squirrel.Eq{"id": scope.OrganizationID()}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	organization := &domain.Organization{}
	err = r.conn.QueryRowContext(ctx, query, args...).Scan(
		&organization.ID,
		&organization.Name,
		&organization.Currency,
		&organization.CreatedAt,
		&organization.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrganizationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar organização: %w", err)
	}

	return organization, nil
}

func (r *organizationRepository) Update(ctx context.Context, scope domain.TenantScope, request *domain.UpdateOrganizationRequest) error {
	query, args, err := buildUpdateOrganizationQuery(scope, request)
	if err != nil {
		return err
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return fmt.Errorf("erro ao atualizar organização: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao atualizar organização: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao verificar linhas afetadas: %w", err)
	}

	if affected == 0 {
		return ErrOrganizationNotFound
	}

	return nil
}

func buildUpdateOrganizationQuery(scope domain.TenantScope, request *domain.UpdateOrganizationRequest) (string, []any, error) {
	if scope.IsZero() {
		return "", nil, domain.ErrMissingOrganization
	}

	builder := squirrel.
		Update(organizationsTable).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": scope.OrganizationID()}).
		PlaceholderFormat(squirrel.Dollar)

	if request.Name != nil {
		builder = builder.Set("name", *request.Name)
	}

	if request.Currency != nil {
		builder = builder.Set("currency", *request.Currency)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return query, args, nil
}

func (r *organizationRepository) ListMetricsFreshness(ctx context.Context, cutoff time.Time) ([]*domain.MetricsFreshness, error) {
	query, args, err := buildMetricsFreshnessQuery(cutoff)
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.MetricsFreshness, 0)
	for rows.Next() {
		var (
			item     domain.MetricsFreshness
			lastDate sql.NullTime
		)

		if err := rows.Scan(&item.OrganizationID, &item.OrganizationName, &lastDate); err != nil {
			return nil, fmt.Errorf("erro ao escanear organização: %w", err)
		}

		if lastDate.Valid {
			item.LastMetricDate = &lastDate.Time
		}

		result = append(result, &item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return result, nil
}

// buildMetricsFreshnessQuery lista organizações sem métricas ou com a última data anterior ao corte
func buildMetricsFreshnessQuery(cutoff time.Time) (string, []any, error) {
	query, args, err := squirrel.
		Select("o.id", "o.name", "MAX(dm.date)").
		From("organizations o").
		LeftJoin("daily_metrics dm ON dm.organization_id = o.id").
		GroupBy("o.id", "o.name").
		Having(squirrel.Or{
			squirrel.Expr("MAX(dm.date) IS NULL"),
			squirrel.Expr("MAX(dm.date) < ?", cutoff.Format(time.DateOnly)),
		}).
		OrderBy("o.name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return query, args, nil
}
