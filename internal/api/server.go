package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/analytics-dashboard-api/internal/api/handler"
	"github.com/vfg2006/analytics-dashboard-api/internal/api/handler/router"
	"github.com/vfg2006/analytics-dashboard-api/internal/config"
	"github.com/vfg2006/analytics-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/analytics-dashboard-api/internal/usecases/insighting"
	"github.com/vfg2006/analytics-dashboard-api/internal/usecases/organization"
	"github.com/vfg2006/analytics-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/analytics-dashboard-api/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

// Services agrupa as dependências expostas pelas rotas
type Services struct {
	Database      handler.Pinger
	Authenticator authenticating.Authenticator
	Insighter     insighting.Insighter
	Reporter      reporting.Reporter
	Organizations organization.OrganizationService
	CronJobs      handler.CronJobServices
}

type Server struct {
	httpServer *http.Server
}

func New(cfg *config.Config, services Services) (*Server, error) {
	if services.Authenticator == nil {
		return nil, fmt.Errorf("authenticator é obrigatório")
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck(services.Database)...),
		router.WithRoutes(handler.Authentication(services.Authenticator, loginLimit(cfg.RateLimit))...),
		router.WithRoutes(handler.Dashboard(services.Insighter)...),
		router.WithRoutes(handler.Transactions(services.Reporter, exportLimit(cfg.RateLimit))...),
		router.WithRoutes(handler.Organization(services.Organizations)...),
		router.WithRoutes(handler.CronJobs(services.CronJobs)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(cfg.Server.AllowedOrigins),
		middleware.AuthMiddleware(services.Authenticator),
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
			Handler:           alice.New(middlewares...).Then(rt),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

// loginLimit limita tentativas de login por IP
func loginLimit(cfg config.RateLimit) router.Middleware {
	if !cfg.Enabled {
		return middleware.NoRateLimit()
	}

	return middleware.RateLimit(middleware.RateLimitConfig{
		Requests: cfg.LoginRequests,
		Window:   cfg.LoginWindow,
	})
}

// exportLimit limita exportações por organização e usuário
func exportLimit(cfg config.RateLimit) router.Middleware {
	if !cfg.Enabled {
		return middleware.NoRateLimit()
	}

	return middleware.RateLimit(middleware.RateLimitConfig{
		Requests: cfg.ExportRequests,
		Window:   cfg.ExportWindow,
		KeyFunc:  middleware.KeyByUser,
	})
}

func (s Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithField("timeout", shutdownTimeout.String()).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
