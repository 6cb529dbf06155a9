package handler

import (
	"net/http"

	"github.com/vfg2006/analytics-dashboard-api/internal/domain"
	"github.com/vfg2006/analytics-dashboard-api/internal/usecases/organization"
	"github.com/vfg2006/analytics-dashboard-api/pkg/apiErrors"
)

func GetOrganization(service organization.OrganizationService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		org, err := service.GetOrganization(r.Context(), claims.OrganizationID)
		if err != nil {
			writeUsecaseError(w, r, err, "Erro ao buscar organização")
			return
		}

		writeJSON(w, r, http.StatusOK, org)
	})
}

// UpdateOrganization altera as configurações da organização do usuário logado
func UpdateOrganization(service organization.OrganizationService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		var req domain.UpdateOrganizationRequest
		if err := decodeJSON(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		org, err := service.UpdateOrganization(r.Context(), claims.OrganizationID, &req)
		if err != nil {
			writeUsecaseError(w, r, err, "Erro ao atualizar organização")
			return
		}

		writeJSON(w, r, http.StatusOK, org)
	})
}
