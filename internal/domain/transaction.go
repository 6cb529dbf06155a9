package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusRefunded  TransactionStatus = "REFUNDED"
)

type TransactionType string

const (
	TransactionTypePayment      TransactionType = "PAYMENT"
	TransactionTypeSubscription TransactionType = "SUBSCRIPTION"
	TransactionTypeOneTime      TransactionType = "ONE_TIME"
	TransactionTypeRefund       TransactionType = "REFUND"
)

// FilterAll é o valor de filtro equivalente a não filtrar
const FilterAll = "all"

// UnknownCustomerName é usado no relatório quando a transação não tem cliente
const UnknownCustomerName = "Unknown"

var (
	TransactionStatuses = []TransactionStatus{
		TransactionStatusCompleted,
		TransactionStatusPending,
		TransactionStatusFailed,
		TransactionStatusRefunded,
	}

	TransactionTypes = []TransactionType{
		TransactionTypePayment,
		TransactionTypeSubscription,
		TransactionTypeOneTime,
		TransactionTypeRefund,
	}
)

// Transaction é imutável depois de criada
type Transaction struct {
	ID             string            `json:"id"`
	OrganizationID string            `json:"organization_id"`
	CustomerID     string            `json:"customer_id"`
	Amount         decimal.Decimal   `json:"amount"`
	Currency       string            `json:"currency"`
	Status         TransactionStatus `json:"status"`
	Type           TransactionType   `json:"type"`
	Description    *string           `json:"description"`
	CreatedAt      time.Time         `json:"created_at"`
	Customer       *Customer         `json:"customer,omitempty"`
}

// TransactionRecord é a projeção exibida e exportada, com o valor já convertido para float
type TransactionRecord struct {
	ID            string            `json:"id"`
	CustomerID    string            `json:"customer_id"`
	Amount        float64           `json:"amount"`
	Currency      string            `json:"currency"`
	Status        TransactionStatus `json:"status"`
	Type          TransactionType   `json:"type"`
	Description   *string           `json:"description"`
	CreatedAt     time.Time         `json:"created_at"`
	CustomerName  string            `json:"customer_name"`
	CustomerEmail string            `json:"customer_email"`
}

// ToRecord projeta a transação; defaultCustomerName é usado quando não há cliente
func (t *Transaction) ToRecord(defaultCustomerName string) *TransactionRecord {
	record := &TransactionRecord{
		ID:           t.ID,
		CustomerID:   t.CustomerID,
		Amount:       t.Amount.InexactFloat64(),
		Currency:     t.Currency,
		Status:       t.Status,
		Type:         t.Type,
		Description:  t.Description,
		CreatedAt:    t.CreatedAt,
		CustomerName: defaultCustomerName,
	}

	if t.Customer != nil {
		if t.Customer.Name != "" {
			record.CustomerName = t.Customer.Name
		}
		record.CustomerEmail = t.Customer.Email
	}

	return record
}

type TransactionFilters struct {
	OrganizationID string
	Search         string
	Status         string
	Page           int
	PageSize       int
}

type ReportFilters struct {
	OrganizationID string
	StartDate      *time.Time
	EndDate        *time.Time
	Status         string
	Type           string
}

// TransactionQuery são os predicados já normalizados enviados ao repositório.
// Campos vazios ou nulos não filtram.
type TransactionQuery struct {
	Search        string
	Status        TransactionStatus
	Type          TransactionType
	CreatedFrom   *time.Time
	CreatedBefore *time.Time
}

type Pagination struct {
	Limit  uint64
	Offset uint64
}

type TransactionPage struct {
	Transactions []*TransactionRecord `json:"transactions"`
	TotalCount   int64                `json:"total_count"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"page_size"`
}

type ReportSummary struct {
	TotalTransactions int     `json:"total_transactions"`
	TotalRevenue      float64 `json:"total_revenue"`
	CompletedCount    int     `json:"completed_count"`
	PendingCount      int     `json:"pending_count"`
	FailedCount       int     `json:"failed_count"`
	RefundedCount     int     `json:"refunded_count"`
}

type Report struct {
	Transactions []*TransactionRecord `json:"transactions"`
	Summary      ReportSummary        `json:"summary"`
}

// NormalizeFilter converte "all" em vazio; ambos significam sem filtro
func NormalizeFilter(value string) string {
	if value == FilterAll {
		return ""
	}

	return value
}

func IsValidStatus(status string) bool {
	for _, s := range TransactionStatuses {
		if string(s) == status {
			return true
		}
	}
	return false
}

func IsValidType(transactionType string) bool {
	for _, t := range TransactionTypes {
		if string(t) == transactionType {
			return true
		}
	}
	return false
}

// SummarizeTransactions calcula o resumo do relatório em uma única passada.
// A receita considera apenas transações COMPLETED e é somada em decimal.
func SummarizeTransactions(transactions []*Transaction) ReportSummary {
	summary := ReportSummary{
		TotalTransactions: len(transactions),
	}

	revenue := decimal.Zero
	for _, t := range transactions {
		switch t.Status {
		case TransactionStatusCompleted:
			summary.CompletedCount++
			revenue = revenue.Add(t.Amount)
		case TransactionStatusPending:
			summary.PendingCount++
		case TransactionStatusFailed:
			summary.FailedCount++
		case TransactionStatusRefunded:
			summary.RefundedCount++
		}
	}

	summary.TotalRevenue = revenue.InexactFloat64()

	return summary
}
