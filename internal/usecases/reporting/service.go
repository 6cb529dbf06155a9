package reporting

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/vfg2006/analytics-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/analytics-dashboard-api/internal/domain"
	"github.com/vfg2006/analytics-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/analytics-dashboard-api/pkg/log"
	"github.com/vfg2006/analytics-dashboard-api/pkg/utils"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

type Reporter interface {
	QueryTransactions(ctx context.Context, filters *domain.TransactionFilters) (*domain.TransactionPage, error)
	QueryReport(ctx context.Context, filters *domain.ReportFilters) (*domain.Report, error)
	RenderCSV(transactions []*domain.TransactionRecord) string
}

type Service struct {
	transactionRepository repository.TransactionRepository
}

func NewService(transactionRepo repository.TransactionRepository) *Service {
	return &Service{
		transactionRepository: transactionRepo,
	}
}

// QueryTransactions retorna uma página da listagem e o total de transações que atendem aos filtros
func (s *Service) QueryTransactions(ctx context.Context, filters *domain.TransactionFilters) (*domain.TransactionPage, error) {
	if filters == nil {
		return nil, ErrOrganizationRequired
	}

	scope, err := domain.NewTenantScope(filters.OrganizationID)
	if err != nil {
		return nil, ErrOrganizationRequired
	}

	page := filters.Page
	if page < 1 {
		page = defaultPage
	}

	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	query := domain.TransactionQuery{
		Search: strings.TrimSpace(filters.Search),
		Status: parseStatus(filters.Status),
	}

	offset, inRange := pageOffset(page, pageSize)
	pagination := domain.Pagination{
		Limit:  uint64(pageSize),
		Offset: offset,
	}

	var (
		total        int64
		transactions []*domain.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.transactionRepository.Count(gctx, scope, query)
		if err != nil {
			return errors.Wrap(err, "contagem")
		}
		total = count
		return nil
	})
	// página além do maior OFFSET aceito pelo banco: só o total é consultado
	if inRange {
		g.Go(func() error {
			list, err := s.transactionRepository.List(gctx, scope, query, pagination)
			if err != nil {
				return errors.Wrap(err, "listagem")
			}
			transactions = list
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao consultar transações")
		return nil, NewReportError(fmt.Errorf("%w: %w", ErrFetchTransactions, err), apiErrors.ErrDatabaseOperation, "Falha ao consultar transações")
	}

	records := make([]*domain.TransactionRecord, 0, len(transactions))
	for _, t := range transactions {
		records = append(records, t.ToRecord(""))
	}

	return &domain.TransactionPage{
		Transactions: records,
		TotalCount:   total,
		Page:         page,
		PageSize:     pageSize,
	}, nil
}

// QueryReport retorna todas as transações do período, sem paginação, com o resumo por status
func (s *Service) QueryReport(ctx context.Context, filters *domain.ReportFilters) (*domain.Report, error) {
	if filters == nil {
		return nil, ErrOrganizationRequired
	}

	scope, err := domain.NewTenantScope(filters.OrganizationID)
	if err != nil {
		return nil, ErrOrganizationRequired
	}

	query := buildReportQuery(filters)

	transactions, err := s.transactionRepository.ListForReport(ctx, scope, query)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao gerar relatório de transações")
		return nil, NewReportError(fmt.Errorf("%w: %w", ErrFetchTransactions, err), apiErrors.ErrDatabaseOperation, "Falha ao gerar relatório")
	}

	records := make([]*domain.TransactionRecord, 0, len(transactions))
	for _, t := range transactions {
		records = append(records, t.ToRecord(domain.UnknownCustomerName))
	}

	return &domain.Report{
		Transactions: records,
		Summary:      domain.SummarizeTransactions(transactions),
	}, nil
}

func (s *Service) RenderCSV(transactions []*domain.TransactionRecord) string {
	return RenderCSV(transactions)
}

// pageOffset calcula (page-1)*pageSize; inRange é falso quando o resultado passa de um BIGINT.
// page e pageSize já chegam normalizados para valores >= 1.
func pageOffset(page, pageSize int) (offset uint64, inRange bool) {
	skipped := uint64(page - 1)
	if skipped > math.MaxInt64/uint64(pageSize) {
		return 0, false
	}

	return skipped * uint64(pageSize), true
}

// buildReportQuery converte os filtros em predicados; a data final inclui o dia inteiro.
// Os valores chegam validados pelo handler: status ou tipo desconhecido apenas não encontra linhas
// e um intervalo invertido resulta em relatório vazio.
func buildReportQuery(filters *domain.ReportFilters) domain.TransactionQuery {
	query := domain.TransactionQuery{
		Status: parseStatus(filters.Status),
		Type:   domain.TransactionType(domain.NormalizeFilter(strings.TrimSpace(filters.Type))),
	}

	if filters.StartDate != nil {
		start := utils.StartOfDay(*filters.StartDate)
		query.CreatedFrom = &start
	}

	if filters.EndDate != nil {
		before := utils.StartOfDay(*filters.EndDate).AddDate(0, 0, 1)
		query.CreatedBefore = &before
	}

	return query
}

// parseStatus trata vazio e "all" como sem filtro; demais valores são comparados exatamente
func parseStatus(value string) domain.TransactionStatus {
	return domain.TransactionStatus(domain.NormalizeFilter(strings.TrimSpace(value)))
}
