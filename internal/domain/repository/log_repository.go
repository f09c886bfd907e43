package repository

import (
	"context"

	"mongolog-report-bot/internal/domain/entity"
)

// LogRepository defines the interface for activity-log operations.
type LogRepository interface {
	// Find retrieves log entries matching the filter, newest first.
	Find(ctx context.Context, filter *entity.LogFilter) ([]*entity.LogEntry, error)

	// InsertMany persists a batch of ingested log entries.
	InsertMany(ctx context.Context, entries []*entity.LogEntry) error
}
