package entity

import "time"

// ReportKind identifies which flavor of report a session builds. The values
// double as the callback data the transport sends for the main-menu buttons.
type ReportKind string

const (
	ReportKindFull    ReportKind = "full_report"
	ReportKindWallet  ReportKind = "wallet_report"
	ReportKindProject ReportKind = "project_report"
)

// ReportFilter is the completed output of a filter session and the full input
// to report assembly. WalletAddresses and ProjectName come from mutually
// exclusive input paths; when both are set the address list wins for wallet
// resolution while the project name still scopes metrics and logs.
type ReportFilter struct {
	ProjectName     string
	WalletAddresses []string
	StartDate       *time.Time
	EndDate         *time.Time
	Label           string
}

// ReportDocument holds the assembled tables, one sheet each, in the fixed
// order {Info, Metrics, Logs}. Metrics is nil when the report has no project
// scope and that sheet is omitted.
type ReportDocument struct {
	Label   string
	Info    [][]interface{}
	Metrics [][]interface{}
	Logs    [][]interface{}
}
