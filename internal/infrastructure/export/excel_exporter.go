package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mongolog-report-bot/internal/domain/entity"
	"mongolog-report-bot/internal/domain/repository"
	"mongolog-report-bot/internal/domain/service"
	"mongolog-report-bot/internal/infrastructure/config"
	"mongolog-report-bot/internal/infrastructure/logger"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExcelExporter writes assembled report tables into a multi-sheet xlsx
// workbook, one sheet per table, in the fixed order {Info, Metrics, Logs}.
type ExcelExporter struct {
	config *config.ReportsConfig
	logger *logger.Logger
	now    func() time.Time
}

// NewExcelExporter creates a new excel document sink
func NewExcelExporter(cfg *config.ReportsConfig, logger *logger.Logger) repository.DocumentSink {
	return &ExcelExporter{
		config: cfg,
		logger: logger.WithComponent("excel-exporter"),
		now:    time.Now,
	}
}

// Write serializes the document into the reports directory. The file name
// embeds the generation instant, so names are unique per invocation down to
// the second.
func (e *ExcelExporter) Write(ctx context.Context, doc *entity.ReportDocument) (string, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := e.writeSheet(file, "Info", doc.Info, true); err != nil {
		return "", err
	}
	if doc.Metrics != nil {
		if err := e.writeSheet(file, "Metrics", doc.Metrics, false); err != nil {
			return "", err
		}
	}
	if err := e.writeSheet(file, "Logs", doc.Logs, false); err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.config.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	dateStr, timeStr := service.FormatTimestamp(e.now())
	fileName := fmt.Sprintf("%s_%s_%s.xlsx", doc.Label, strings.ReplaceAll(timeStr, ":", "-"), dateStr)
	path := filepath.Join(e.config.Dir, fileName)

	if err := file.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("Excel file created", zap.String("path", path))
	return path, nil
}

// writeSheet appends one table as a sheet. The first sheet renames the
// workbook's default sheet so the sheet order stays fixed.
func (e *ExcelExporter) writeSheet(file *excelize.File, name string, rows [][]interface{}, first bool) error {
	if first {
		if err := file.SetSheetName(file.GetSheetName(0), name); err != nil {
			return fmt.Errorf("failed to rename sheet %s: %w", name, err)
		}
	} else {
		if _, err := file.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		if err := file.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write sheet %s row %d: %w", name, i+1, err)
		}
	}
	return nil
}
