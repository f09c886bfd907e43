package repository

import (
	"context"

	"mongolog-report-bot/internal/domain/entity"
)

// WalletRepository defines the interface for wallet read operations.
type WalletRepository interface {
	// FindByAddresses retrieves wallets matching the given lower-cased
	// addresses. Addresses not present in the store are silently absent
	// from the result.
	FindByAddresses(ctx context.Context, lowercased []string) ([]*entity.Wallet, error)

	// FindByProjectID retrieves wallets with a membership referencing the
	// given project id.
	FindByProjectID(ctx context.Context, projectID string) ([]*entity.Wallet, error)

	// FindByProjectName retrieves wallets with a membership in the named
	// project, used for metrics aggregation.
	FindByProjectName(ctx context.Context, projectName string) ([]*entity.Wallet, error)
}
