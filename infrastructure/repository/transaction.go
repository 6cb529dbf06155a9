package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/analytics-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/analytics-dashboard-api/internal/domain"
)

const (
	transactionsTable = "transactions t"
	customersJoin     = "customers c ON c.id = t.customer_id AND c.organization_id = t.organization_id"
)

var transactionColumns = []string{
	"t.id",
	"t.organization_id",
	"t.customer_id",
	"t.amount",
	"t.currency",
	"t.status",
	"t.type",
	"t.description",
	"t.created_at",
	"c.id",
	"c.name",
	"c.email",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

//go:generate mockgen -source=transaction.go -destination=mocks/transaction.go -package=mocks

// TransactionRepository consulta transações já unidas ao cliente.
// Paginação por offset: aceitável até ~100 mil transações por organização.
type TransactionRepository interface {
	Count(ctx context.Context, scope domain.TenantScope, query domain.TransactionQuery) (int64, error)
	List(ctx context.Context, scope domain.TenantScope, query domain.TransactionQuery, page domain.Pagination) ([]*domain.Transaction, error)
	ListForReport(ctx context.Context, scope domain.TenantScope, query domain.TransactionQuery) ([]*domain.Transaction, error)
}

type transactionRepository struct {
	conn postgres.Queryer
}

func NewTransactionRepository(conn postgres.Queryer) TransactionRepository {
	return &transactionRepository{
		conn: conn,
	}
}

func (r *transactionRepository) Count(ctx context.Context, scope domain.TenantScope, query domain.TransactionQuery) (int64, error) {
	sqlQuery, args, err := buildCountTransactionsQuery(scope, query)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := r.conn.QueryRowContext(ctx, sqlQuery, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("erro ao contar transações: %w", err)
	}

	return total, nil
}

func (r *transactionRepository) List(ctx context.Context, scope domain.TenantScope, query domain.TransactionQuery, page domain.Pagination) ([]*domain.Transaction, error) {
	sqlQuery, args, err := buildListTransactionsQuery(scope, query, &page)
	if err != nil {
		return nil, err
	}

	return r.list(ctx, sqlQuery, args)
}

func (r *transactionRepository) ListForReport(ctx context.Context, scope domain.TenantScope, query domain.TransactionQuery) ([]*domain.Transaction, error) {
	sqlQuery, args, err := buildListTransactionsQuery(scope, query, nil)
	if err != nil {
		return nil, err
	}

	return r.list(ctx, sqlQuery, args)
}

func (r *transactionRepository) list(ctx context.Context, sqlQuery string, args []any) ([]*domain.Transaction, error) {
	rows, err := r.conn.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear transação: %w", err)
		}
		transactions = append(transactions, transaction)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return transactions, nil
}

func scanTransaction(rows *sql.Rows) (*domain.Transaction, error) {
	transaction := &domain.Transaction{}

	var (
		customerRef   sql.NullString
		customerID    sql.NullString
		customerName  sql.NullString
		customerEmail sql.NullString
	)

	err := rows.Scan(
		&transaction.ID,
		&transaction.OrganizationID,
		&customerRef,
		&transaction.Amount,
		&transaction.Currency,
		&transaction.Status,
		&transaction.Type,
		&transaction.Description,
		&transaction.CreatedAt,
		&customerID,
		&customerName,
		&customerEmail,
	)
	if err != nil {
		return nil, err
	}

	transaction.CustomerID = customerRef.String

	if customerID.Valid {
		transaction.Customer = &domain.Customer{
			ID:    customerID.String,
			Name:  customerName.String,
			Email: customerEmail.String,
		}
	}

	return transaction, nil
}

func buildCountTransactionsQuery(scope domain.TenantScope, query domain.TransactionQuery) (string, []any, error) {
	if scope.IsZero() {
		return "", nil, domain.ErrMissingOrganization
	}

	sqlQuery, args, err := squirrel.
		Select("COUNT(*)").
		From(transactionsTable).
		LeftJoin(customersJoin).
		Where(transactionPredicate(scope, query)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return sqlQuery, args, nil
}

// buildListTransactionsQuery ordena por created_at e id decrescentes; page nil retorna tudo
func buildListTransactionsQuery(scope domain.TenantScope, query domain.TransactionQuery, page *domain.Pagination) (string, []any, error) {
	if scope.IsZero() {
		return "", nil, domain.ErrMissingOrganization
	}

	builder := squirrel.
		Select(transactionColumns...).
		From(transactionsTable).
		LeftJoin(customersJoin).
		Where(transactionPredicate(scope, query)).
		OrderBy("t.created_at DESC", "t.id DESC").
		PlaceholderFormat(squirrel.Dollar)

	if page != nil {
		builder = builder.Limit(page.Limit).Offset(page.Offset)
	}

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return sqlQuery, args, nil
}

func transactionPredicate(scope domain.TenantScope, query domain.TransactionQuery) squirrel.And {
	predicate := squirrel.And{
		squirrel.Eq{"t.organization_id": scope.OrganizationID()},
	}

	if query.Status != "" {
		predicate = append(predicate, squirrel.Eq{"t.status": string(query.Status)})
	}

	if query.Type != "" {
		predicate = append(predicate, squirrel.Eq{"t.type": string(query.Type)})
	}

	if query.CreatedFrom != nil {
		predicate = append(predicate, squirrel.GtOrEq{"t.created_at": *query.CreatedFrom})
	}

	if query.CreatedBefore != nil {
		predicate = append(predicate, squirrel.Lt{"t.created_at": *query.CreatedBefore})
	}

	if query.Search != "" {
		pattern := "%" + likeEscaper.Replace(query.Search) + "%"
		predicate = append(predicate, squirrel.Or{
			squirrel.ILike{"c.name": pattern},
			squirrel.ILike{"c.email": pattern},
		})
	}

	return predicate
}
