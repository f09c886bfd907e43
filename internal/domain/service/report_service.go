package service

import (
	"context"

	"mongolog-report-bot/internal/domain/entity"
)

// ReportService assembles and exports a report from a completed filter.
type ReportService interface {
	// BuildReport resolves the filter scope, assembles the report tables and
	// writes them through the document sink. Returns the written file path,
	// or an error wrapping entity.ErrProjectNotFound / entity.ErrNoData.
	BuildReport(ctx context.Context, filter *entity.ReportFilter) (string, error)

	// ResolveWallets returns the wallets in scope for a filter. An explicit
	// address list wins over the project name; with neither set the scope
	// is empty.
	ResolveWallets(ctx context.Context, filter *entity.ReportFilter) ([]*entity.Wallet, error)
}
