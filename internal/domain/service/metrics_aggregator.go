package service

import (
	"strings"

	"mongolog-report-bot/internal/domain/entity"
)

// MetricsAggregator flattens per-project metric bags into a uniform table.
// Metric schemas vary per wallet over time, so the column set is discovered
// from the wallets in scope rather than assumed.
type MetricsAggregator struct{}

// NewMetricsAggregator creates a new metrics aggregator.
func NewMetricsAggregator() *MetricsAggregator {
	return &MetricsAggregator{}
}

type metricsRow struct {
	index   int64
	address string
	values  map[string]interface{}
}

// Aggregate builds the metrics table for a project: a header row
// [Index, Wallet, <fields>] followed by one row per wallet carrying a
// non-empty metrics bag for the project. Columns are the union of metric
// field names across all such wallets, in order of first appearance; a wallet
// missing a field gets an empty cell. The last-updated bookkeeping field is
// excluded.
func (a *MetricsAggregator) Aggregate(projectName string, wallets []*entity.Wallet) [][]interface{} {
	var fields []string
	seen := make(map[string]bool)
	var rows []metricsRow

	for _, w := range wallets {
		membership, ok := w.MembershipIn(projectName)
		if !ok || len(membership.Metrics) == 0 {
			continue
		}

		values := make(map[string]interface{}, len(membership.Metrics))
		for _, field := range membership.Metrics {
			if field.Key == entity.MetricsLastUpdatedField {
				continue
			}
			key := strings.ToLower(field.Key)
			if !seen[key] {
				seen[key] = true
				fields = append(fields, key)
			}
			values[key] = field.Value
		}
		rows = append(rows, metricsRow{index: w.Index, address: w.Address, values: values})
	}

	header := make([]interface{}, 0, len(fields)+2)
	header = append(header, "Index", "Wallet")
	for _, f := range fields {
		header = append(header, capitalize(f))
	}

	table := make([][]interface{}, 0, len(rows)+1)
	table = append(table, header)
	for _, r := range rows {
		address := r.address
		if address == "" {
			address = "Unknown"
		}
		cells := make([]interface{}, 0, len(fields)+2)
		cells = append(cells, r.index, address)
		for _, f := range fields {
			if v, ok := r.values[f]; ok {
				cells = append(cells, v)
			} else {
				cells = append(cells, "")
			}
		}
		table = append(table, cells)
	}
	return table
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
