package organization

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/vfg2006/analytics-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/analytics-dashboard-api/internal/domain"
	"github.com/vfg2006/analytics-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/analytics-dashboard-api/pkg/log"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

type OrganizationService interface {
	GetOrganization(ctx context.Context, organizationID string) (*domain.Organization, error)
	UpdateOrganization(ctx context.Context, organizationID string, request *domain.UpdateOrganizationRequest) (*domain.Organization, error)
}

type Service struct {
	organizationRepository repository.OrganizationRepository
}

func NewService(organizationRepository repository.OrganizationRepository) *Service {
	return &Service{
		organizationRepository: organizationRepository,
	}
}

func (s *Service) GetOrganization(ctx context.Context, organizationID string) (*domain.Organization, error) {
	scope, err := domain.NewTenantScope(organizationID)
	if err != nil {
		return nil, ErrOrganizationRequired
	}

	organization, err := s.organizationRepository.GetByID(ctx, scope)
	if err != nil {
		return nil, s.translateError(ctx, err, ErrFetchOrganization, scope)
	}

	return organization, nil
}

// UpdateOrganization altera nome e moeda padrão; campos nulos são mantidos
func (s *Service) UpdateOrganization(ctx context.Context, organizationID string, request *domain.UpdateOrganizationRequest) (*domain.Organization, error) {
	scope, err := domain.NewTenantScope(organizationID)
	if err != nil {
		return nil, ErrOrganizationRequired
	}

	normalized, err := normalizeUpdate(request)
	if err != nil {
		return nil, NewOrganizationError(err, apiErrors.ErrInvalidRequest, scope.OrganizationID(), "")
	}

	if err := s.organizationRepository.Update(ctx, scope, normalized); err != nil {
		return nil, s.translateError(ctx, err, ErrUpdateOrganization, scope)
	}

	log.ForContext(ctx).Info("Configurações da organização atualizadas")

	return s.GetOrganization(ctx, scope.OrganizationID())
}

func (s *Service) translateError(ctx context.Context, err error, base error, scope domain.TenantScope) error {
	if errors.Is(err, repository.ErrOrganizationNotFound) {
		return NewOrganizationError(ErrOrganizationNotFound, apiErrors.ErrOrganizationNotFound, scope.OrganizationID(), "")
	}

	log.ForContext(ctx).WithError(err).Error(base.Error())
	return NewOrganizationError(fmt.Errorf("%w: %w", base, err), apiErrors.ErrDatabaseOperation, scope.OrganizationID(), "")
}

func normalizeUpdate(request *domain.UpdateOrganizationRequest) (*domain.UpdateOrganizationRequest, error) {
	if request == nil || (request.Name == nil && request.Currency == nil) {
		return nil, ErrEmptyUpdate
	}

	normalized := &domain.UpdateOrganizationRequest{}

	if request.Name != nil {
		name := strings.TrimSpace(*request.Name)
		if name == "" {
			return nil, ErrInvalidName
		}
		normalized.Name = &name
	}

	if request.Currency != nil {
		currency := strings.TrimSpace(*request.Currency)
		if !currencyPattern.MatchString(currency) {
			return nil, errors.Wrap(ErrInvalidCurrency, currency)
		}
		normalized.Currency = &currency
	}

	return normalized, nil
}
