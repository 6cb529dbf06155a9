package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrMissingOrganization indica uma consulta sem o escopo da organização
var ErrMissingOrganization = errors.New("organization id is required")

type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpdateOrganizationRequest struct {
	Name     *string `json:"name,omitempty"`
	Currency *string `json:"currency,omitempty"`
}

// TenantScope carrega a organização que delimita toda consulta ao banco.
// Só pode ser obtido por NewTenantScope, então um escopo válido nunca está vazio.
type TenantScope struct {
	organizationID string
}

func NewTenantScope(organizationID string) (TenantScope, error) {
	organizationID = strings.TrimSpace(organizationID)
	if organizationID == "" {
		return TenantScope{}, ErrMissingOrganization
	}

	return TenantScope{organizationID: organizationID}, nil
}

func (s TenantScope) OrganizationID() string {
	return s.organizationID
}

func (s TenantScope) IsZero() bool {
	return s.organizationID == ""
}

// MetricsFreshness descreve a última data agregada disponível para uma organização
type MetricsFreshness struct {
	OrganizationID   string     `json:"organization_id"`
	OrganizationName string     `json:"organization_name"`
	LastMetricDate   *time.Time `json:"last_metric_date"`
}
