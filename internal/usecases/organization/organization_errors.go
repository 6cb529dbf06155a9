package organization

import (
	"errors"
	"fmt"

	"github.com/vfg2006/analytics-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/analytics-dashboard-api/internal/domain"
)

// Erros específicos para o contexto de organizações
var (
	ErrOrganizationRequired = domain.ErrMissingOrganization
	ErrOrganizationNotFound = repository.ErrOrganizationNotFound

	// Erros de validação
	ErrEmptyUpdate     = errors.New("nenhum campo informado para atualização")
	ErrInvalidName     = errors.New("nome da organização não pode ser vazio")
	ErrInvalidCurrency = errors.New("moeda deve ter três letras maiúsculas")

	// Erros de banco de dados
	ErrFetchOrganization  = errors.New("erro ao buscar organização")
	ErrUpdateOrganization = errors.New("erro ao atualizar organização")
)

// OrganizationError é um erro com contexto adicional para organizações
type OrganizationError struct {
	Err            error
	Code           string // Código de erro para API
	OrganizationID string
	Details        string
}

func (e *OrganizationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *OrganizationError) Unwrap() error {
	return e.Err
}

func (e *OrganizationError) APICode() string {
	return e.Code
}

func NewOrganizationError(err error, code string, organizationID string, details string) *OrganizationError {
	return &OrganizationError{
		Err:            err,
		Code:           code,
		OrganizationID: organizationID,
		Details:        details,
	}
}
