package migration

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/analytics-dashboard-api/internal/domain"
	"github.com/vfg2006/analytics-dashboard-api/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

type SeedOptions struct {
	OrganizationName string
	Currency         string
	Days             int
	Customers        int
	Transactions     int
	AdminEmail       string
	AdminPassword    string
	Today            time.Time
	Random           *rand.Rand
}

// DefaultSeedOptions gera uma organização de demonstração com 90 dias de métricas
func DefaultSeedOptions() SeedOptions {
	return SeedOptions{
		OrganizationName: "Demo Analytics",
		Currency:         "USD",
		Days:             90,
		Customers:        40,
		Transactions:     500,
		AdminEmail:       "admin@demo.local",
		AdminPassword:    "Demo@1234",
		Today:            utils.StartOfDay(time.Now()),
		Random:           rand.New(rand.NewSource(42)),
	}
}

type demoData struct {
	organization domain.Organization
	admin        domain.User
	customers    []domain.Customer
	metrics      []domain.DailyMetric
	transactions []domain.Transaction
}

var (
	customerFirstNames = []string{"Ana", "Bruno", "Carla", "Diego", "Elisa", "Felipe", "Gabriela", "Heitor", "Isabela", "João"}
	customerLastNames  = []string{"Silva", "Souza", "Costa", "Oliveira", "Pereira", "Lima", "Almeida", "Ribeiro"}
	descriptions       = []string{"Plano mensal", "Plano anual", "Compra avulsa", "Upgrade de plano", "Estorno solicitado"}
)

func buildDemoData(opts SeedOptions) (*demoData, error) {
	rnd := opts.Random
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	organizationID, err := utils.GenerateID()
	if err != nil {
		return nil, err
	}

	data := &demoData{
		organization: domain.Organization{
			ID:       organizationID,
			Name:     opts.OrganizationName,
			Currency: opts.Currency,
		},
		admin: domain.User{
			OrganizationID: organizationID,
			Name:           "Admin",
			Lastname:       "Demo",
			Email:          opts.AdminEmail,
			Active:         true,
			RoleID:         1,
		},
	}

	for i := 0; i < opts.Customers; i++ {
		id, err := utils.GenerateID()
		if err != nil {
			return nil, err
		}

		first := customerFirstNames[rnd.Intn(len(customerFirstNames))]
		last := customerLastNames[rnd.Intn(len(customerLastNames))]
		data.customers = append(data.customers, domain.Customer{
			ID:    id,
			Name:  fmt.Sprintf("%s %s", first, last),
			Email: fmt.Sprintf("cliente%03d@demo.local", i+1),
		})
	}

	totalCustomers := int64(opts.Customers)
	for day := opts.Days - 1; day >= 0; day-- {
		id, err := utils.GenerateID()
		if err != nil {
			return nil, err
		}

		churned := int64(rnd.Intn(3))
		newCustomers := int64(rnd.Intn(5))
		totalCustomers += newCustomers - churned
		if totalCustomers < 0 {
			totalCustomers = 0
		}

		data.metrics = append(data.metrics, domain.DailyMetric{
			ID:               id,
			OrganizationID:   organizationID,
			Date:             opts.Today.AddDate(0, 0, -day),
			Revenue:          decimal.NewFromInt(int64(800 + rnd.Intn(1200))).Add(decimal.New(int64(rnd.Intn(100)), -2)),
			ActiveUsers:      int64(150 + rnd.Intn(100)),
			NewUsers:         int64(rnd.Intn(20)),
			TotalCustomers:   totalCustomers,
			NewCustomers:     newCustomers,
			ChurnedCustomers: churned,
			ConversionRate:   utils.RoundWithTwoDecimalPlace(1 + rnd.Float64()*4),
		})
	}

	for i := 0; i < opts.Transactions && len(data.customers) > 0; i++ {
		id, err := utils.GenerateID()
		if err != nil {
			return nil, err
		}

		customer := data.customers[rnd.Intn(len(data.customers))]
		description := descriptions[rnd.Intn(len(descriptions))]
		createdAt := opts.Today.
			AddDate(0, 0, -rnd.Intn(opts.Days)).
			Add(time.Duration(rnd.Intn(24*60)) * time.Minute)

		data.transactions = append(data.transactions, domain.Transaction{
			ID:             id,
			OrganizationID: organizationID,
			CustomerID:     customer.ID,
			Amount:         decimal.New(int64(1000+rnd.Intn(50000)), -2),
			Currency:       opts.Currency,
			Status:         domain.TransactionStatuses[rnd.Intn(len(domain.TransactionStatuses))],
			Type:           domain.TransactionTypes[rnd.Intn(len(domain.TransactionTypes))],
			Description:    &description,
			CreatedAt:      createdAt,
		})
	}

	return data, nil
}

// Seed insere a organização de demonstração em uma única transação e retorna o seu id
func Seed(ctx context.Context, db *sql.DB, opts SeedOptions) (string, error) {
	data, err := buildDemoData(opts)
	if err != nil {
		return "", fmt.Errorf("erro ao gerar dados de demonstração: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("erro ao gerar hash da senha: %w", err)
	}
	data.admin.PasswordHash = string(hash)

	startTime := time.Now()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	steps := []struct {
		name string
		run  func(context.Context, *sql.Tx, *demoData) error
	}{
		{"organizations", insertOrganization},
		{"users", insertAdmin},
		{"customers", insertCustomers},
		{"daily_metrics", insertDailyMetrics},
		{"transactions", insertTransactions},
	}

	for _, step := range steps {
		if err := step.run(ctx, tx, data); err != nil {
			return "", fmt.Errorf("erro ao inserir %s: %w", step.name, err)
		}
		logrus.Infof("Tabela %s populada", step.name)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("erro ao confirmar transação: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"organization_id": data.organization.ID,
		"customers":       len(data.customers),
		"daily_metrics":   len(data.metrics),
		"transactions":    len(data.transactions),
		"elapsed":         time.Since(startTime).String(),
	}).Info("Carga de demonstração concluída")

	return data.organization.ID, nil
}

func insertOrganization(ctx context.Context, tx *sql.Tx, data *demoData) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO organizations (id, name, currency) VALUES ($1, $2, $3)`,
		data.organization.ID, data.organization.Name, data.organization.Currency,
	)
	return err
}

func insertAdmin(ctx context.Context, tx *sql.Tx, data *demoData) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO users (organization_id, name, lastname, email, password_hash, active, role_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (email) DO NOTHING`,
		data.admin.OrganizationID, data.admin.Name, data.admin.Lastname, data.admin.Email,
		data.admin.PasswordHash, data.admin.Active, data.admin.RoleID,
	)
	return err
}

func insertCustomers(ctx context.Context, tx *sql.Tx, data *demoData) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO customers (id, organization_id, name, email) VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range data.customers {
		if _, err := stmt.ExecContext(ctx, c.ID, data.organization.ID, c.Name, c.Email); err != nil {
			return err
		}
	}

	return nil
}

func insertDailyMetrics(ctx context.Context, tx *sql.Tx, data *demoData) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO daily_metrics
		(id, organization_id, date, revenue, active_users, new_users, total_customers, new_customers, churned_customers, conversion_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range data.metrics {
		_, err := stmt.ExecContext(ctx,
			m.ID, m.OrganizationID, m.Date.Format(time.DateOnly), m.Revenue.StringFixed(2),
			m.ActiveUsers, m.NewUsers, m.TotalCustomers, m.NewCustomers, m.ChurnedCustomers, m.ConversionRate,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func insertTransactions(ctx context.Context, tx *sql.Tx, data *demoData) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO transactions
		(id, organization_id, customer_id, amount, currency, status, type, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range data.transactions {
		_, err := stmt.ExecContext(ctx,
			t.ID, t.OrganizationID, t.CustomerID, t.Amount.StringFixed(2), t.Currency,
			string(t.Status), string(t.Type), t.Description, t.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}
