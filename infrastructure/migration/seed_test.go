package migration

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/analytics-dashboard-api/internal/domain"
)

func TestBuildDemoData(t *testing.T) {
	today := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	opts := SeedOptions{
		OrganizationName: "Demo",
		Currency:         "USD",
		Days:             90,
		Customers:        10,
		Transactions:     50,
		AdminEmail:       "admin@demo.local",
		Today:            today,
		Random:           rand.New(rand.NewSource(1)),
	}

	data, err := buildDemoData(opts)
	require.NoError(t, err)

	assert.Len(t, data.customers, 10)
	assert.Len(t, data.metrics, 90)
	assert.Len(t, data.transactions, 50)
	assert.Equal(t, 1, data.admin.RoleID)
	assert.Equal(t, data.organization.ID, data.admin.OrganizationID)

	t.Run("Uma métrica por dia terminando hoje", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, m := range data.metrics {
			day := m.Date.Format(time.DateOnly)
			assert.False(t, seen[day], "data repetida: %s", day)
			seen[day] = true
			assert.Equal(t, data.organization.ID, m.OrganizationID)
		}
		assert.Equal(t, "2024-01-02", data.metrics[0].Date.Format(time.DateOnly))
		assert.Equal(t, "2024-03-31", data.metrics[len(data.metrics)-1].Date.Format(time.DateOnly))
	})

	t.Run("Transações usam status e tipos válidos", func(t *testing.T) {
		customers := make(map[string]bool)
		for _, c := range data.customers {
			customers[c.ID] = true
		}

		for _, tr := range data.transactions {
			assert.True(t, domain.IsValidStatus(string(tr.Status)))
			assert.True(t, domain.IsValidType(string(tr.Type)))
			assert.True(t, customers[tr.CustomerID])
			assert.True(t, tr.Amount.IsPositive())
			assert.False(t, tr.CreatedAt.After(today.Add(24*time.Hour)))
		}
	})
}

func TestBuildDemoData_SemClientes(t *testing.T) {
	data, err := buildDemoData(SeedOptions{Days: 5, Transactions: 10, Today: time.Now()})

	require.NoError(t, err)
	assert.Empty(t, data.customers)
	assert.Empty(t, data.transactions)
	assert.Len(t, data.metrics, 5)
}

func TestSchemaIsEmbedded(t *testing.T) {
	for _, table := range []string{"organizations", "users", "customers", "daily_metrics", "transactions"} {
		assert.Contains(t, Schema, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, Schema, "UNIQUE (organization_id, date)")
}
