// Package scheduler contém os serviços agendados que monitoram os dados do painel
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/analytics-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/analytics-dashboard-api/internal/config"
	"github.com/vfg2006/analytics-dashboard-api/internal/domain"
	"github.com/vfg2006/analytics-dashboard-api/pkg/utils"
)

const defaultMaxStalenessDays = 2

type MetricsFreshnessConfig struct {
	CronSchedule     string
	SyncEnabled      bool
	MaxStalenessDays int
}

// MetricsFreshnessService verifica se o batch externo que mantém daily_metrics está em dia.
// Apenas lê e registra; nunca recalcula agregados.
type MetricsFreshnessService struct {
	scheduler        *gocron.Scheduler
	organizationRepo repository.OrganizationRepository
	config           MetricsFreshnessConfig
	now              func() time.Time

	syncRunning          bool
	syncMutex            sync.Mutex
	lastCheckStartedAt   time.Time
	lastCheckCompletedAt time.Time
	lastStale            []*domain.MetricsFreshness
	lastError            error
}

func NewMetricsFreshnessService(organizationRepo repository.OrganizationRepository, cfg *config.Config) *MetricsFreshnessService {
	freshnessConfig := MetricsFreshnessConfig{
		CronSchedule:     cfg.MetricsFreshness.CronSchedule,
		SyncEnabled:      cfg.MetricsFreshness.Enabled,
		MaxStalenessDays: cfg.MetricsFreshness.MaxStalenessDays,
	}
	if freshnessConfig.MaxStalenessDays < 0 {
		freshnessConfig.MaxStalenessDays = defaultMaxStalenessDays
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":      freshnessConfig.CronSchedule,
		"max_staleness_days": freshnessConfig.MaxStalenessDays,
	}).Info("Configuração do monitor de métricas diárias carregada")

	return &MetricsFreshnessService{
		scheduler:        gocron.NewScheduler(time.UTC),
		organizationRepo: organizationRepo,
		config:           freshnessConfig,
		now:              time.Now,
	}
}

func (s *MetricsFreshnessService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Monitor de métricas diárias desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron do monitor de métricas diárias")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if _, err := s.CheckFreshness(ctx); err != nil {
			logrus.WithError(err).Error("Erro na verificação das métricas diárias")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar monitor de métricas diárias: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron do monitor de métricas diárias")
		s.scheduler.Stop()
	}()

	return nil
}

// Cutoff é a data mínima esperada para a última linha agregada de cada organização
func (s *MetricsFreshnessService) Cutoff() time.Time {
	return utils.StartOfDay(s.now()).AddDate(0, 0, -s.config.MaxStalenessDays)
}

// CheckFreshness lista as organizações sem métricas desde o corte; uma verificação por vez
func (s *MetricsFreshnessService) CheckFreshness(ctx context.Context) ([]*domain.MetricsFreshness, error) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Warn("Verificação das métricas diárias já está em execução")
		return nil, nil
	}
	s.syncRunning = true
	s.lastCheckStartedAt = s.now()
	s.syncMutex.Unlock()

	cutoff := s.Cutoff()
	stale, err := s.organizationRepo.ListMetricsFreshness(ctx, cutoff)

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastCheckCompletedAt = s.now()
	s.lastError = err
	if err == nil {
		s.lastStale = stale
	}
	s.syncMutex.Unlock()

	if err != nil {
		return nil, fmt.Errorf("erro ao consultar atualização das métricas: %w", err)
	}

	if len(stale) == 0 {
		logrus.WithField("cutoff", cutoff.Format(time.DateOnly)).Info("Métricas diárias em dia para todas as organizações")
		return stale, nil
	}

	for _, organization := range stale {
		lastDate := "nunca"
		if organization.LastMetricDate != nil {
			lastDate = organization.LastMetricDate.Format(time.DateOnly)
		}

		logrus.WithFields(logrus.Fields{
			"organization_id":   organization.OrganizationID,
			"organization_name": organization.OrganizationName,
			"last_metric_date":  lastDate,
			"cutoff":            cutoff.Format(time.DateOnly),
		}).Warn("Organização com métricas diárias desatualizadas")
	}

	return stale, nil
}

// TriggerManualSync dispara uma verificação em segundo plano; retorna false se já houver uma em andamento
func (s *MetricsFreshnessService) TriggerManualSync() bool {
	s.syncMutex.Lock()
	running := s.syncRunning
	s.syncMutex.Unlock()

	if running {
		logrus.Info("Verificação das métricas diárias já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando verificação manual das métricas diárias")
	go func() {
		if _, err := s.CheckFreshness(context.Background()); err != nil {
			logrus.WithError(err).Error("Erro na verificação manual das métricas diárias")
		}
	}()

	return true
}

// GetStatus retorna o status atual do agendador
func (s *MetricsFreshnessService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := map[string]any{
		"sync_enabled":            s.config.SyncEnabled,
		"sync_cron":               s.config.CronSchedule,
		"max_staleness_days":      s.config.MaxStalenessDays,
		"running":                 s.syncRunning,
		"last_check_started_at":   s.lastCheckStartedAt,
		"last_check_completed_at": s.lastCheckCompletedAt,
		"stale_organizations":     s.lastStale,
	}
	if s.lastError != nil {
		status["last_error"] = s.lastError.Error()
	}

	return status
}
