package service

import (
	"context"
	"fmt"
	"strings"

	"mongolog-report-bot/internal/domain/entity"
	"mongolog-report-bot/internal/domain/repository"
	"mongolog-report-bot/internal/domain/service"
	"mongolog-report-bot/internal/infrastructure/logger"

	"go.uber.org/zap"
)

var logsHeader = []interface{}{
	"Index", "Wallet", "Project", "Date", "Time", "Level", "Action", "Message", "Stack Trace",
}

// ReportApplicationService implements service.ReportService: it resolves the
// filter scope against the stores, flattens project metrics, assembles the
// report tables and hands them to the document sink.
type ReportApplicationService struct {
	walletRepo  repository.WalletRepository
	logRepo     repository.LogRepository
	projectRepo repository.ProjectRepository
	aggregator  *service.MetricsAggregator
	sink        repository.DocumentSink
	logger      *logger.Logger
}

// NewReportApplicationService creates a new report application service.
func NewReportApplicationService(
	walletRepo repository.WalletRepository,
	logRepo repository.LogRepository,
	projectRepo repository.ProjectRepository,
	aggregator *service.MetricsAggregator,
	sink repository.DocumentSink,
	logger *logger.Logger,
) service.ReportService {
	return &ReportApplicationService{
		walletRepo:  walletRepo,
		logRepo:     logRepo,
		projectRepo: projectRepo,
		aggregator:  aggregator,
		sink:        sink,
		logger:      logger.WithComponent("report-service"),
	}
}

// BuildReport assembles the report for a completed filter and writes it
// through the document sink. A scope with zero matching log rows fails with
// entity.ErrNoData and nothing is written.
func (s *ReportApplicationService) BuildReport(ctx context.Context, filter *entity.ReportFilter) (string, error) {
	s.logger.Info("Generating report",
		zap.String("label", filter.Label),
		zap.String("project", filter.ProjectName),
		zap.Int("wallet_addresses", len(filter.WalletAddresses)))

	logs, err := s.resolveLogs(ctx, filter)
	if err != nil {
		return "", err
	}
	if len(logs) == 0 {
		s.logger.Warn("No logs matched the report filter", zap.String("label", filter.Label))
		return "", entity.ErrNoData
	}

	wallets, err := s.ResolveWallets(ctx, filter)
	if err != nil {
		return "", err
	}
	s.logger.Info("Resolved report scope",
		zap.Int("logs", len(logs)),
		zap.Int("wallets", len(wallets)))

	doc := &entity.ReportDocument{
		Label: filter.Label,
		Info:  buildInfoTable(filter),
		Logs:  buildLogsTable(logs),
	}
	if filter.ProjectName != "" {
		scoped, err := s.walletRepo.FindByProjectName(ctx, filter.ProjectName)
		if err != nil {
			return "", fmt.Errorf("failed to load project wallets: %w", err)
		}
		doc.Metrics = s.aggregator.Aggregate(filter.ProjectName, scoped)
	}

	path, err := s.sink.Write(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to write report document: %w", err)
	}

	s.logger.Info("Report generated", zap.String("path", path))
	return path, nil
}

// ResolveWallets returns the wallets in scope for a filter. An explicit
// address list wins over the project name, matched case-insensitively on the
// normalized address form.
func (s *ReportApplicationService) ResolveWallets(ctx context.Context, filter *entity.ReportFilter) ([]*entity.Wallet, error) {
	if len(filter.WalletAddresses) > 0 {
		lowered := make([]string, len(filter.WalletAddresses))
		for i, addr := range filter.WalletAddresses {
			lowered[i] = strings.ToLower(addr)
		}
		wallets, err := s.walletRepo.FindByAddresses(ctx, lowered)
		if err != nil {
			return nil, fmt.Errorf("failed to query wallets by address: %w", err)
		}
		return wallets, nil
	}

	if filter.ProjectName != "" {
		project, err := s.projectRepo.FindByName(ctx, filter.ProjectName)
		if err != nil {
			return nil, err
		}
		wallets, err := s.walletRepo.FindByProjectID(ctx, project.ID.Hex())
		if err != nil {
			return nil, fmt.Errorf("failed to query project wallets: %w", err)
		}
		return wallets, nil
	}

	return nil, nil
}

// resolveLogs builds the conjunctive log query from the filter. A named
// project is resolved first so a misspelled name aborts the report instead of
// silently producing an empty scope.
func (s *ReportApplicationService) resolveLogs(ctx context.Context, filter *entity.ReportFilter) ([]*entity.LogEntry, error) {
	logFilter := &entity.LogFilter{
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
	}
	if filter.ProjectName != "" {
		project, err := s.projectRepo.FindByName(ctx, filter.ProjectName)
		if err != nil {
			return nil, err
		}
		logFilter.ProjectName = project.Name
	}

	logs, err := s.logRepo.Find(ctx, logFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	return logs, nil
}

func buildInfoTable(filter *entity.ReportFilter) [][]interface{} {
	start, end := "", ""
	if filter.StartDate != nil {
		d, t := service.FormatTimestamp(*filter.StartDate)
		start = d + " " + t
	}
	if filter.EndDate != nil {
		d, t := service.FormatTimestamp(*filter.EndDate)
		end = d + " " + t
	}
	return [][]interface{}{
		{fmt.Sprintf("Report type: %s", filter.Label)},
		{fmt.Sprintf("Project: %s", filter.ProjectName)},
		{fmt.Sprintf("Start Date: %s", start)},
		{fmt.Sprintf("End Date: %s", end)},
	}
}

func buildLogsTable(logs []*entity.LogEntry) [][]interface{} {
	table := make([][]interface{}, 0, len(logs)+1)
	table = append(table, logsHeader)
	for _, l := range logs {
		dateStr, timeStr := "", ""
		if !l.Date.IsZero() {
			dateStr, timeStr = service.FormatTimestamp(l.Date)
		}
		table = append(table, []interface{}{
			l.Index, l.Wallet, l.ProjectName, dateStr, timeStr,
			l.Level, l.Action, l.Message, l.StackTrace,
		})
	}
	return table
}
