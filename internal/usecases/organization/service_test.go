package organization

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/analytics-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/analytics-dashboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/analytics-dashboard-api/internal/domain"
	"github.com/vfg2006/analytics-dashboard-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

func stringPtr(s string) *string {
	return &s
}

func mustScope(t *testing.T, organizationID string) domain.TenantScope {
	scope, err := domain.NewTenantScope(organizationID)
	require.NoError(t, err)
	return scope
}

func TestService_GetOrganization(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrganizationRepository(ctrl)
	service := NewService(repo)

	expected := &domain.Organization{ID: "org-1", Name: "Acme", Currency: "USD"}
	repo.EXPECT().GetByID(gomock.Any(), mustScope(t, "org-1")).Return(expected, nil)

	organization, err := service.GetOrganization(context.Background(), "org-1")

	require.NoError(t, err)
	assert.Equal(t, expected, organization)
}

func TestService_GetOrganization_Erros(t *testing.T) {
	tests := []struct {
		name         string
		repoErr      error
		expectedErr  error
		expectedCode string
	}{
		{
			name:         "Organização inexistente",
			repoErr:      repository.ErrOrganizationNotFound,
			expectedErr:  ErrOrganizationNotFound,
			expectedCode: apiErrors.ErrOrganizationNotFound,
		},
		{
			name:         "Falha do banco",
			repoErr:      errors.New("connection refused"),
			expectedErr:  ErrFetchOrganization,
			expectedCode: apiErrors.ErrDatabaseOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockOrganizationRepository(ctrl)
			service := NewService(repo)

			repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(nil, tt.repoErr)

			_, err := service.GetOrganization(context.Background(), "org-1")

			assert.ErrorIs(t, err, tt.expectedErr)
			var orgErr *OrganizationError
			require.ErrorAs(t, err, &orgErr)
			assert.Equal(t, tt.expectedCode, orgErr.Code)
			assert.Equal(t, "org-1", orgErr.OrganizationID)
		})
	}

	t.Run("Sem organização não consulta o banco", func(t *testing.T) {
		service := NewService(mocks.NewMockOrganizationRepository(gomock.NewController(t)))

		_, err := service.GetOrganization(context.Background(), " ")

		assert.ErrorIs(t, err, ErrOrganizationRequired)
	})
}

func TestService_UpdateOrganization(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrganizationRepository(ctrl)
	service := NewService(repo)
	scope := mustScope(t, "org-1")

	gomock.InOrder(
		repo.EXPECT().
			Update(gomock.Any(), scope, &domain.UpdateOrganizationRequest{Name: stringPtr("Acme Ltda"), Currency: stringPtr("BRL")}).
			Return(nil),
		repo.EXPECT().
			GetByID(gomock.Any(), scope).
			Return(&domain.Organization{ID: "org-1", Name: "Acme Ltda", Currency: "BRL"}, nil),
	)

	organization, err := service.UpdateOrganization(context.Background(), "org-1", &domain.UpdateOrganizationRequest{
		Name:     stringPtr("  Acme Ltda "),
		Currency: stringPtr("BRL"),
	})

	require.NoError(t, err)
	assert.Equal(t, "BRL", organization.Currency)
}

func TestService_UpdateOrganization_Validacao(t *testing.T) {
	tests := []struct {
		name        string
		request     *domain.UpdateOrganizationRequest
		expectedErr error
	}{
		{"Requisição nula", nil, ErrEmptyUpdate},
		{"Sem campos", &domain.UpdateOrganizationRequest{}, ErrEmptyUpdate},
		{"Nome em branco", &domain.UpdateOrganizationRequest{Name: stringPtr("   ")}, ErrInvalidName},
		{"Moeda minúscula", &domain.UpdateOrganizationRequest{Currency: stringPtr("usd")}, ErrInvalidCurrency},
		{"Moeda com quatro letras", &domain.UpdateOrganizationRequest{Currency: stringPtr("USDT")}, ErrInvalidCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewService(mocks.NewMockOrganizationRepository(gomock.NewController(t)))

			_, err := service.UpdateOrganization(context.Background(), "org-1", tt.request)

			assert.ErrorIs(t, err, tt.expectedErr)
			var orgErr *OrganizationError
			require.ErrorAs(t, err, &orgErr)
			assert.Equal(t, apiErrors.ErrInvalidRequest, orgErr.Code)
		})
	}
}

func TestService_UpdateOrganization_Inexistente(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrganizationRepository(ctrl)
	service := NewService(repo)

	repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(repository.ErrOrganizationNotFound)

	_, err := service.UpdateOrganization(context.Background(), "org-x", &domain.UpdateOrganizationRequest{Name: stringPtr("X")})

	assert.ErrorIs(t, err, ErrOrganizationNotFound)
}
