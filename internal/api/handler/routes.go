package handler

import (
	"net/http"

	"github.com/vfg2006/analytics-dashboard-api/internal/api/handler/router"
	"github.com/vfg2006/analytics-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/analytics-dashboard-api/internal/usecases/insighting"
	"github.com/vfg2006/analytics-dashboard-api/internal/usecases/organization"
	"github.com/vfg2006/analytics-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/analytics-dashboard-api/pkg/middleware"
)

func Healthcheck(db Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(db),
		},
	}
}

// Authentication recebe o limitador aplicado ao login, que é público
func Authentication(service authenticating.Authenticator, loginLimit router.Middleware) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/login",
			Method:      http.MethodPost,
			Handler:     Login(service),
			Middlewares: []router.Middleware{loginLimit},
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []router.Middleware{middleware.AllRoles()},
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodPut,
			Handler:     UpdateMe(service),
			Middlewares: []router.Middleware{middleware.AllRoles()},
		},
		{
			Path:        "/v1/me/change-password",
			Method:      http.MethodPost,
			Handler:     ChangePassword(service),
			Middlewares: []router.Middleware{middleware.AllRoles()},
		},
	}
}

func Dashboard(service insighting.Insighter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/dashboard/kpis",
			Method:      http.MethodGet,
			Handler:     GetKPISummary(service),
			Middlewares: []router.Middleware{middleware.AllRoles()},
		},
		{
			Path:        "/v1/dashboard/series",
			Method:      http.MethodGet,
			Handler:     GetDailySeries(service),
			Middlewares: []router.Middleware{middleware.AllRoles()},
		},
	}
}

// Transactions recebe o limitador da exportação, aplicado por usuário
func Transactions(service reporting.Reporter, exportLimit router.Middleware) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/transactions",
			Method:      http.MethodGet,
			Handler:     ListTransactions(service),
			Middlewares: []router.Middleware{middleware.AllRoles()},
		},
		{
			Path:        "/v1/reports/transactions",
			Method:      http.MethodGet,
			Handler:     GetTransactionReport(service),
			Middlewares: []router.Middleware{middleware.AdminOrAnalyst()},
		},
		{
			Path:        "/v1/reports/transactions/export",
			Method:      http.MethodGet,
			Handler:     ExportTransactionReport(service),
			Middlewares: []router.Middleware{middleware.AdminOrAnalyst(), exportLimit},
		},
	}
}

func Organization(service organization.OrganizationService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/organization",
			Method:      http.MethodGet,
			Handler:     GetOrganization(service),
			Middlewares: []router.Middleware{middleware.AllRoles()},
		},
		{
			Path:        "/v1/organization",
			Method:      http.MethodPut,
			Handler:     UpdateOrganization(service),
			Middlewares: []router.Middleware{middleware.AdminOnly()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []router.Middleware{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []router.Middleware{middleware.AdminOnly()},
		},
	}
}
