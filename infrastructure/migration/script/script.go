package main

import (
	"context"
	"flag"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/analytics-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/analytics-dashboard-api/infrastructure/migration"
	"github.com/vfg2006/analytics-dashboard-api/internal/config"
)

func setupLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logrus.Info("Iniciando script de migração...")
}

func main() {
	seed := flag.Bool("seed", false, "popula uma organização de demonstração")
	days := flag.Int("days", 90, "dias de métricas geradas na carga de demonstração")
	flag.Parse()

	setupLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("ERRO ao carregar configuração: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	logrus.Info("Conectando ao banco de dados...")
	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.Fatalf("ERRO ao conectar ao banco de dados: %v", err)
	}
	defer conn.Close()
	logrus.Info("Conexão com o banco de dados estabelecida com sucesso")

	if err := migration.Apply(ctx, conn); err != nil {
		logrus.Fatalf("ERRO ao aplicar schema: %v", err)
	}
	logrus.Info("Schema aplicado com sucesso")

	if !*seed {
		return
	}

	opts := migration.DefaultSeedOptions()
	opts.Days = *days

	organizationID, err := migration.Seed(ctx, conn.DB, opts)
	if err != nil {
		logrus.Fatalf("ERRO na carga de demonstração: %v", err)
	}

	logrus.Infof("Organização de demonstração criada: %s (login %s)", organizationID, opts.AdminEmail)
}
