package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/analytics-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/analytics-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/analytics-dashboard-api/internal/api"
	"github.com/vfg2006/analytics-dashboard-api/internal/api/handler"
	"github.com/vfg2006/analytics-dashboard-api/internal/config"
	"github.com/vfg2006/analytics-dashboard-api/internal/scheduler"
	"github.com/vfg2006/analytics-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/analytics-dashboard-api/internal/usecases/insighting"
	"github.com/vfg2006/analytics-dashboard-api/internal/usecases/organization"
	"github.com/vfg2006/analytics-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/analytics-dashboard-api/pkg/log"
)

func main() {
	log.Setup("info")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	log.Setup(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	userRepo := repository.NewUserRepository(pgConn)
	organizationRepo := repository.NewOrganizationRepository(pgConn)
	dailyMetricRepo := repository.NewDailyMetricRepository(pgConn)
	transactionRepo := repository.NewTransactionRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)
	insightService := insighting.NewService(cfg, dailyMetricRepo)
	reportService := reporting.NewService(transactionRepo)
	organizationService := organization.NewService(organizationRepo)

	metricsFreshnessService := scheduler.NewMetricsFreshnessService(organizationRepo, cfg)
	if err := metricsFreshnessService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o monitor de métricas diárias")
	} else {
		logrus.Info("Monitor de métricas diárias iniciado com sucesso")
	}

	server, err := api.New(cfg, api.Services{
		Database:      pgConn,
		Authenticator: authenticator,
		Insighter:     insightService,
		Reporter:      reportService,
		Organizations: organizationService,
		CronJobs: handler.CronJobServices{
			handler.CronJobTypeMetricsFreshness: metricsFreshnessService,
		},
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// pgconn cria o pool de conexões com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
