package insighting

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/analytics-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/analytics-dashboard-api/internal/config"
	"github.com/vfg2006/analytics-dashboard-api/internal/domain"
	"github.com/vfg2006/analytics-dashboard-api/pkg/log"
	"github.com/vfg2006/analytics-dashboard-api/pkg/utils"
	"golang.org/x/sync/errgroup"
)

const defaultWindowDays = 30

// ErrOrganizationRequired é o mesmo sentinel do domínio, exposto para os handlers
var ErrOrganizationRequired = domain.ErrMissingOrganization

type Service struct {
	dailyMetricRepository repository.DailyMetricRepository
	kpiWindowDays         int
	seriesDefaultDays     int
	now                   func() time.Time
}

func NewService(cfg *config.Config, dailyMetricRepo repository.DailyMetricRepository) *Service {
	s := &Service{
		dailyMetricRepository: dailyMetricRepo,
		kpiWindowDays:         defaultWindowDays,
		seriesDefaultDays:     defaultWindowDays,
		now:                   time.Now,
	}

	if cfg != nil && cfg.Dashboard.KPIWindowDays > 0 {
		s.kpiWindowDays = cfg.Dashboard.KPIWindowDays
	}

	if cfg != nil && cfg.Dashboard.SeriesDefaultDays > 0 {
		s.seriesDefaultDays = cfg.Dashboard.SeriesDefaultDays
	}

	return s
}

// WithClock substitui o relógio usado para definir "hoje"
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) today() time.Time {
	return utils.StartOfDay(s.now())
}

func (s *Service) ComputeKPISummary(ctx context.Context, organizationID string) (*domain.KPISummary, error) {
	scope, err := domain.NewTenantScope(organizationID)
	if err != nil {
		return nil, ErrOrganizationRequired
	}

	today := s.today()
	days := s.kpiWindowDays

	var current, previous *domain.MetricTotals

	// As duas janelas são independentes
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		totals, err := s.dailyMetricRepository.Aggregate(gctx, scope, domain.CurrentWindow(today, days))
		if err != nil {
			return errors.Wrap(err, "janela corrente")
		}
		current = totals
		return nil
	})
	g.Go(func() error {
		totals, err := s.dailyMetricRepository.Aggregate(gctx, scope, domain.PreviousWindow(today, days))
		if err != nil {
			return errors.Wrap(err, "janela anterior")
		}
		previous = totals
		return nil
	})

	if err := g.Wait(); err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao agregar métricas diárias")
		return nil, errors.Wrap(err, "erro ao calcular KPIs")
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"current_rows":  current.Rows,
		"previous_rows": previous.Rows,
	}).Debug("KPIs calculados")

	return domain.CalculateKPISummary(*current, *previous, days), nil
}

func (s *Service) ComputeDailySeries(ctx context.Context, organizationID string, days int) ([]*domain.DailySeriesPoint, error) {
	scope, err := domain.NewTenantScope(organizationID)
	if err != nil {
		return nil, ErrOrganizationRequired
	}

	if days <= 0 {
		days = s.seriesDefaultDays
	}

	metrics, err := s.dailyMetricRepository.ListByDateRange(ctx, scope, domain.CurrentWindow(s.today(), days))
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao buscar série diária")
		return nil, errors.Wrap(err, "erro ao buscar série diária")
	}

	series := make([]*domain.DailySeriesPoint, 0, len(metrics))
	for _, metric := range metrics {
		series = append(series, domain.NewDailySeriesPoint(metric))
	}

	return series, nil
}
