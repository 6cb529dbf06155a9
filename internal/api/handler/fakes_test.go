package handler

import (
	"context"

	"github.com/vfg2006/analytics-dashboard-api/internal/domain"
	"github.com/vfg2006/analytics-dashboard-api/internal/usecases/reporting"
)

type fakeAuthenticator struct {
	loginFn          func(ctx context.Context, email, password string) (string, error)
	profileFn        func(ctx context.Context, userID int) (*domain.User, error)
	updateProfileFn  func(ctx context.Context, request *domain.UpdateUserRequest) (*domain.User, error)
	changePasswordFn func(ctx context.Context, userID int, currentPassword, newPassword string) error
}

func (f *fakeAuthenticator) LoginUser(ctx context.Context, email, password string) (string, error) {
	return f.loginFn(ctx, email, password)
}

func (f *fakeAuthenticator) ValidateToken(string) (*domain.Claims, error) {
	return nil, nil
}

func (f *fakeAuthenticator) GetUserProfile(ctx context.Context, userID int) (*domain.User, error) {
	return f.profileFn(ctx, userID)
}

func (f *fakeAuthenticator) UpdateProfile(ctx context.Context, request *domain.UpdateUserRequest) (*domain.User, error) {
	return f.updateProfileFn(ctx, request)
}

func (f *fakeAuthenticator) ChangePassword(ctx context.Context, userID int, currentPassword, newPassword string) error {
	return f.changePasswordFn(ctx, userID, currentPassword, newPassword)
}

func (f *fakeAuthenticator) ValidatePasswordStrength(string) error {
	return nil
}

type fakeInsighter struct {
	summaryFn func(ctx context.Context, organizationID string) (*domain.KPISummary, error)
	seriesFn  func(ctx context.Context, organizationID string, days int) ([]*domain.DailySeriesPoint, error)
}

func (f *fakeInsighter) ComputeKPISummary(ctx context.Context, organizationID string) (*domain.KPISummary, error) {
	return f.summaryFn(ctx, organizationID)
}

func (f *fakeInsighter) ComputeDailySeries(ctx context.Context, organizationID string, days int) ([]*domain.DailySeriesPoint, error) {
	return f.seriesFn(ctx, organizationID, days)
}

type fakeReporter struct {
	transactionsFn func(ctx context.Context, filters *domain.TransactionFilters) (*domain.TransactionPage, error)
	reportFn       func(ctx context.Context, filters *domain.ReportFilters) (*domain.Report, error)
}

func (f *fakeReporter) QueryTransactions(ctx context.Context, filters *domain.TransactionFilters) (*domain.TransactionPage, error) {
	return f.transactionsFn(ctx, filters)
}

func (f *fakeReporter) QueryReport(ctx context.Context, filters *domain.ReportFilters) (*domain.Report, error) {
	return f.reportFn(ctx, filters)
}

func (f *fakeReporter) RenderCSV(transactions []*domain.TransactionRecord) string {
	return reporting.RenderCSV(transactions)
}

type fakeOrganizations struct {
	getFn    func(ctx context.Context, organizationID string) (*domain.Organization, error)
	updateFn func(ctx context.Context, organizationID string, request *domain.UpdateOrganizationRequest) (*domain.Organization, error)
}

func (f *fakeOrganizations) GetOrganization(ctx context.Context, organizationID string) (*domain.Organization, error) {
	return f.getFn(ctx, organizationID)
}

func (f *fakeOrganizations) UpdateOrganization(ctx context.Context, organizationID string, request *domain.UpdateOrganizationRequest) (*domain.Organization, error) {
	return f.updateFn(ctx, organizationID, request)
}

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(context.Context) error {
	return f.err
}

type fakeCronJob struct {
	triggered int
	started   bool
}

func (f *fakeCronJob) TriggerManualSync() bool {
	f.triggered++
	return f.started
}

func (f *fakeCronJob) GetStatus() map[string]any {
	return map[string]any{"sync_enabled": true, "triggered": f.triggered}
}
