package repository

import (
	"context"

	"mongolog-report-bot/internal/domain/entity"
)

// ProjectRepository defines the interface for project lookups.
type ProjectRepository interface {
	// ListNames returns the distinct project names known to the system in a
	// stable order.
	ListNames(ctx context.Context) ([]string, error)

	// FindByName resolves a project by its unique name. Returns an error
	// wrapping entity.ErrProjectNotFound when no such project exists.
	FindByName(ctx context.Context, name string) (*entity.Project, error)
}
