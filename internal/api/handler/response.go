package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/analytics-dashboard-api/internal/domain"
	"github.com/vfg2006/analytics-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/analytics-dashboard-api/pkg/log"
	"github.com/vfg2006/analytics-dashboard-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// codedError é implementado pelos erros de usecase que carregam o código da API
type codedError interface {
	error
	APICode() string
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("Erro ao enviar resposta")
	}
}

func decodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

// writeUsecaseError traduz o erro do usecase para a resposta padronizada da API
func writeUsecaseError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	var coded codedError
	switch {
	case errors.As(err, &coded):
		code := coded.APICode()
		if apiErrors.StatusCode(code) >= http.StatusInternalServerError {
			log.ForContext(r.Context()).WithError(err).Error(fallbackMessage)
			apiErrors.WriteError(w, code, fallbackMessage, nil)
			return
		}
		apiErrors.WriteError(w, code, coded.Error(), nil)

	case errors.Is(err, domain.ErrMissingOrganization):
		apiErrors.WriteError(w, apiErrors.ErrOrganizationRequired, "Usuário sem organização", nil)

	default:
		log.ForContext(r.Context()).WithError(err).Error(fallbackMessage)
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallbackMessage, nil)
	}
}

// requireClaims lê as claims gravadas pelo AuthMiddleware
func requireClaims(w http.ResponseWriter, r *http.Request) (*domain.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
		return nil, false
	}

	return claims, true
}
