package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/analytics-dashboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/analytics-dashboard-api/internal/config"
	"github.com/vfg2006/analytics-dashboard-api/internal/domain"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2024, 3, 31, 7, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time {
	return &t
}

func newTestService(t *testing.T, maxStalenessDays int) (*MetricsFreshnessService, *mocks.MockOrganizationRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrganizationRepository(ctrl)

	service := NewMetricsFreshnessService(repo, &config.Config{
		MetricsFreshness: config.MetricsFreshness{
			CronSchedule:     "0 7 * * *",
			MaxStalenessDays: maxStalenessDays,
		},
	})
	service.now = func() time.Time { return fixedNow }

	return service, repo
}

func TestMetricsFreshnessService_Cutoff(t *testing.T) {
	tests := []struct {
		name             string
		maxStalenessDays int
		expected         time.Time
	}{
		{"Dois dias", 2, time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC)},
		{"Hoje", 0, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)},
		{"Negativo usa o padrão", -1, time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newTestService(t, tt.maxStalenessDays)
			assert.Equal(t, tt.expected, service.Cutoff())
		})
	}
}

func TestMetricsFreshnessService_CheckFreshness(t *testing.T) {
	service, repo := newTestService(t, 2)

	stale := []*domain.MetricsFreshness{
		{OrganizationID: "org-b", OrganizationName: "Beta", LastMetricDate: timePtr(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))},
		{OrganizationID: "org-c", OrganizationName: "Vazia"},
	}
	repo.EXPECT().
		ListMetricsFreshness(gomock.Any(), time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC)).
		Return(stale, nil)

	result, err := service.CheckFreshness(context.Background())

	require.NoError(t, err)
	assert.Equal(t, stale, result)

	status := service.GetStatus()
	assert.Equal(t, stale, status["stale_organizations"])
	assert.Equal(t, false, status["running"])
	assert.Equal(t, fixedNow, status["last_check_completed_at"])
	assert.NotContains(t, status, "last_error")
}

func TestMetricsFreshnessService_CheckFreshness_Erro(t *testing.T) {
	service, repo := newTestService(t, 2)
	repo.EXPECT().ListMetricsFreshness(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	_, err := service.CheckFreshness(context.Background())

	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, "connection refused", service.GetStatus()["last_error"])
}

func TestMetricsFreshnessService_IgnoraVerificacaoConcorrente(t *testing.T) {
	service, _ := newTestService(t, 2)
	service.syncRunning = true

	result, err := service.CheckFreshness(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, result)

	assert.False(t, service.TriggerManualSync())
}

func TestMetricsFreshnessService_TriggerManualSync(t *testing.T) {
	service, repo := newTestService(t, 2)

	done := make(chan struct{})
	repo.EXPECT().
		ListMetricsFreshness(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, time.Time) ([]*domain.MetricsFreshness, error) {
			close(done)
			return nil, nil
		})

	assert.True(t, service.TriggerManualSync())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("verificação manual não executou")
	}
}

func TestMetricsFreshnessService_StartDesabilitado(t *testing.T) {
	service, _ := newTestService(t, 2)

	assert.NoError(t, service.Start(context.Background()))
	assert.Equal(t, false, service.GetStatus()["sync_enabled"])
}

func TestMetricsFreshnessService_StartCronInvalido(t *testing.T) {
	service, _ := newTestService(t, 2)
	service.config.SyncEnabled = true
	service.config.CronSchedule = "não é cron"

	assert.Error(t, service.Start(context.Background()))
}
