//go:build integration

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vfg2006/analytics-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/analytics-dashboard-api/infrastructure/migration"
	"github.com/vfg2006/analytics-dashboard-api/internal/config"
	"github.com/vfg2006/analytics-dashboard-api/internal/domain"
)

func setupPostgresContainer(t *testing.T, ctx context.Context) (*postgres.Connection, func()) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "analytics",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	conn, err := postgres.NewConnection(ctx, config.Database{
		DSN:          fmt.Sprintf("postgres://test:test@%s:%s/analytics?sslmode=disable", host, port.Port()),
		MaxOpenConns: 5,
	})
	require.NoError(t, err)

	require.NoError(t, migration.Apply(ctx, conn))
	seedFixtures(t, ctx, conn)

	cleanup := func() {
		_ = conn.Close()
		_ = container.Terminate(ctx)
	}

	return conn, cleanup
}

func seedFixtures(t *testing.T, ctx context.Context, conn *postgres.Connection) {
	statements := []string{
		`INSERT INTO organizations (id, name, currency) VALUES ('org-a', 'Acme', 'USD'), ('org-b', 'Beta', 'BRL'), ('org-c', 'Vazia', 'USD')`,
		`INSERT INTO customers (id, organization_id, name, email) VALUES
			('c1', 'org-a', 'Acme Co', 'a@acme.com'),
			('c2', 'org-a', '50% Off Store', 'promo@shop.com'),
			('c3', 'org-b', 'Acme Beta', 'b@acme.com')`,
		`INSERT INTO daily_metrics (id, organization_id, date, revenue, active_users, total_customers, churned_customers, conversion_rate) VALUES
			('m1', 'org-a', '2024-03-31', 1000.50, 100, 30, 1, 2.0),
			('m2', 'org-a', '2024-03-01', 500.25, 50, 30, 2, 4.0),
			('m3', 'org-a', '2024-02-29', 300.00, 30, 30, 0, 1.0),
			('m4', 'org-b', '2024-03-31', 9999.99, 999, 99, 9, 9.0)`,
		`INSERT INTO transactions (id, organization_id, customer_id, amount, currency, status, type, description, created_at) VALUES
			('t1', 'org-a', 'c1', 1234.50, 'USD', 'COMPLETED', 'PAYMENT', NULL, '2024-01-15T10:00:00Z'),
			('t2', 'org-a', 'c1', 10.10, 'USD', 'COMPLETED', 'PAYMENT', 'x', '2024-01-15T10:00:00Z'),
			('t3', 'org-a', 'c2', 20.20, 'USD', 'PENDING', 'SUBSCRIPTION', NULL, '2024-01-31T23:59:00Z'),
			('t4', 'org-a', NULL, 5.00, 'USD', 'REFUNDED', 'REFUND', NULL, '2024-02-01T00:00:00Z'),
			('t5', 'org-b', 'c3', 99.99, 'BRL', 'COMPLETED', 'PAYMENT', NULL, '2024-01-20T12:00:00Z')`,
	}

	for _, statement := range statements {
		_, err := conn.ExecContext(ctx, statement)
		require.NoError(t, err)
	}
}

func TestIntegration_Repositories(t *testing.T) {
	ctx := context.Background()
	conn, cleanup := setupPostgresContainer(t, ctx)
	defer cleanup()

	scopeA := mustScope(t, "org-a")
	today := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	metrics := NewDailyMetricRepository(conn)
	transactions := NewTransactionRepository(conn)
	organizations := NewOrganizationRepository(conn)

	t.Run("agregação respeita janela e organização", func(t *testing.T) {
		current, err := metrics.Aggregate(ctx, scopeA, domain.CurrentWindow(today, 30))
		require.NoError(t, err)
		assert.Equal(t, 1500.75, current.Revenue)
		assert.Equal(t, int64(150), current.ActiveUsers)
		assert.Equal(t, int64(3), current.ChurnedCustomers)
		assert.Equal(t, 3.0, current.ConversionRate)
		assert.Equal(t, int64(2), current.Rows)

		previous, err := metrics.Aggregate(ctx, scopeA, domain.PreviousWindow(today, 30))
		require.NoError(t, err)
		assert.Equal(t, 300.0, previous.Revenue)
		assert.Equal(t, int64(1), previous.Rows)
	})

	t.Run("agregação sem linhas retorna zeros", func(t *testing.T) {
		totals, err := metrics.Aggregate(ctx, mustScope(t, "org-c"), domain.CurrentWindow(today, 30))
		require.NoError(t, err)
		assert.Equal(t, domain.MetricTotals{}, *totals)
	})

	t.Run("série ordenada por data", func(t *testing.T) {
		series, err := metrics.ListByDateRange(ctx, scopeA, domain.CurrentWindow(today, 31))
		require.NoError(t, err)
		require.Len(t, series, 3)
		assert.Equal(t, "2024-02-29", series[0].Date.Format(time.DateOnly))
		assert.Equal(t, "2024-03-31", series[2].Date.Format(time.DateOnly))
	})

	t.Run("transações isoladas por organização com desempate por id", func(t *testing.T) {
		total, err := transactions.Count(ctx, scopeA, domain.TransactionQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)

		page, err := transactions.List(ctx, scopeA, domain.TransactionQuery{}, domain.Pagination{Limit: 10})
		require.NoError(t, err)
		require.Len(t, page, 4)
		assert.Equal(t, []string{"t4", "t3", "t2", "t1"}, []string{page[0].ID, page[1].ID, page[2].ID, page[3].ID})
		assert.Nil(t, page[0].Customer)
		assert.Equal(t, "1234.5", page[3].Amount.String())
	})

	t.Run("páginas concatenadas reproduzem a listagem completa", func(t *testing.T) {
		full, err := transactions.ListForReport(ctx, scopeA, domain.TransactionQuery{})
		require.NoError(t, err)

		expected := make([]string, 0, len(full))
		for _, tr := range full {
			expected = append(expected, tr.ID)
		}
		// t1 e t2 têm o mesmo created_at; o desempate por id define a ordem
		require.Equal(t, []string{"t4", "t3", "t2", "t1"}, expected)

		for _, pageSize := range []uint64{1, 3} {
			t.Run(fmt.Sprintf("tamanho %d", pageSize), func(t *testing.T) {
				var (
					collected []string
					seen      = map[string]bool{}
				)

				totalPages := (uint64(len(full)) + pageSize - 1) / pageSize
				for page := uint64(0); page < totalPages; page++ {
					total, err := transactions.Count(ctx, scopeA, domain.TransactionQuery{})
					require.NoError(t, err)
					assert.Equal(t, int64(len(full)), total)

					rows, err := transactions.List(ctx, scopeA, domain.TransactionQuery{}, domain.Pagination{
						Limit:  pageSize,
						Offset: page * pageSize,
					})
					require.NoError(t, err)
					assert.LessOrEqual(t, uint64(len(rows)), pageSize)

					for _, tr := range rows {
						assert.False(t, seen[tr.ID], "transação %s repetida entre páginas", tr.ID)
						seen[tr.ID] = true
						collected = append(collected, tr.ID)
					}
				}

				assert.Equal(t, expected, collected)

				after, err := transactions.List(ctx, scopeA, domain.TransactionQuery{}, domain.Pagination{
					Limit:  pageSize,
					Offset: totalPages * pageSize,
				})
				require.NoError(t, err)
				assert.Empty(t, after)
			})
		}
	})

	t.Run("busca não vaza para outra organização", func(t *testing.T) {
		found, err := transactions.List(ctx, scopeA, domain.TransactionQuery{Search: "ACME"}, domain.Pagination{Limit: 10})
		require.NoError(t, err)
		for _, tr := range found {
			assert.Equal(t, "org-a", tr.OrganizationID)
		}
		assert.Len(t, found, 2)
	})

	t.Run("curinga na busca é literal", func(t *testing.T) {
		found, err := transactions.Count(ctx, scopeA, domain.TransactionQuery{Search: "50%"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), found)

		percent, err := transactions.Count(ctx, scopeA, domain.TransactionQuery{Search: "%"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), percent)
	})

	t.Run("relatório com intervalo de datas inclusivo", func(t *testing.T) {
		from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		before := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

		report, err := transactions.ListForReport(ctx, scopeA, domain.TransactionQuery{
			CreatedFrom:   &from,
			CreatedBefore: &before,
		})
		require.NoError(t, err)
		assert.Len(t, report, 3)
	})

	t.Run("organização e monitoramento de métricas", func(t *testing.T) {
		currency := "EUR"
		require.NoError(t, organizations.Update(ctx, scopeA, &domain.UpdateOrganizationRequest{Currency: &currency}))

		org, err := organizations.GetByID(ctx, scopeA)
		require.NoError(t, err)
		assert.Equal(t, "EUR", org.Currency)

		_, err = organizations.GetByID(ctx, mustScope(t, "org-x"))
		assert.ErrorIs(t, err, ErrOrganizationNotFound)

		stale, err := organizations.ListMetricsFreshness(ctx, time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, stale, 1)
		assert.Equal(t, "org-c", stale[0].OrganizationID)
		assert.Nil(t, stale[0].LastMetricDate)
	})
}
