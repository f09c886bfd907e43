package repository

import (
	"context"

	"mongolog-report-bot/internal/domain/entity"
)

// DocumentSink serializes assembled report tables into a persisted
// multi-sheet file and returns its path.
type DocumentSink interface {
	Write(ctx context.Context, doc *entity.ReportDocument) (string, error)
}
