package reporting

import (
	"errors"
	"fmt"

	"github.com/vfg2006/analytics-dashboard-api/internal/domain"
)

var (
	ErrOrganizationRequired = domain.ErrMissingOrganization

	// Erros de banco de dados
	ErrFetchTransactions = errors.New("erro ao buscar transações")
)

// ReportError carrega o código da API junto ao erro de consulta
type ReportError struct {
	Err     error
	Code    string
	Details string
}

func (e *ReportError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

func (e *ReportError) APICode() string {
	return e.Code
}

func NewReportError(err error, code string, details string) *ReportError {
	return &ReportError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}
