package export

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"mongolog-report-bot/internal/domain/entity"
	"mongolog-report-bot/internal/infrastructure/config"
	"mongolog-report-bot/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func newExporterFixture(t *testing.T) *ExcelExporter {
	t.Helper()
	return &ExcelExporter{
		config: &config.ReportsConfig{Dir: t.TempDir()},
		logger: &logger.Logger{Logger: zap.NewNop()},
		now: func() time.Time {
			return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		},
	}
}

func sampleDocument(withMetrics bool) *entity.ReportDocument {
	doc := &entity.ReportDocument{
		Label: "project_report",
		Info: [][]interface{}{
			{"Report type: project_report"},
			{"Project: alpha"},
		},
		Logs: [][]interface{}{
			{"Index", "Wallet", "Message"},
			{int64(1), "0xaa", "claim failed"},
		},
	}
	if withMetrics {
		doc.Metrics = [][]interface{}{
			{"Index", "Wallet", "Points"},
			{int64(1), "0xaa", "42"},
		}
	}
	return doc
}

func TestExcelExporter_Write(t *testing.T) {
	exporter := newExporterFixture(t)

	path, err := exporter.Write(context.Background(), sampleDocument(true))
	require.NoError(t, err)
	assert.Equal(t, "project_report_03-04-05_02.01.24.xlsx", filepath.Base(path))

	file, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, []string{"Info", "Metrics", "Logs"}, file.GetSheetList())

	cell, err := file.GetCellValue("Info", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Report type: project_report", cell)

	cell, err = file.GetCellValue("Metrics", "C2")
	require.NoError(t, err)
	assert.Equal(t, "42", cell)

	cell, err = file.GetCellValue("Logs", "B2")
	require.NoError(t, err)
	assert.Equal(t, "0xaa", cell)
}

func TestExcelExporter_WriteWithoutMetrics(t *testing.T) {
	exporter := newExporterFixture(t)

	path, err := exporter.Write(context.Background(), sampleDocument(false))
	require.NoError(t, err)

	file, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, []string{"Info", "Logs"}, file.GetSheetList())
}

func TestExcelExporter_CreatesReportsDir(t *testing.T) {
	exporter := newExporterFixture(t)
	exporter.config = &config.ReportsConfig{Dir: filepath.Join(t.TempDir(), "nested", "reports")}

	path, err := exporter.Write(context.Background(), sampleDocument(false))
	require.NoError(t, err)
	assert.FileExists(t, path)
}
