package entity

import "time"

// Awaiting is the input a filter session currently expects. At most one value
// is active at a time; a session awaiting nothing is either fresh or complete.
type Awaiting int

const (
	AwaitingNone Awaiting = iota
	AwaitingReportKind
	AwaitingWalletList
	AwaitingProjectChoice
	AwaitingDateDecision
	AwaitingDateRange
)

func (a Awaiting) String() string {
	switch a {
	case AwaitingReportKind:
		return "report_kind"
	case AwaitingWalletList:
		return "wallet_list"
	case AwaitingProjectChoice:
		return "project_choice"
	case AwaitingDateDecision:
		return "date_decision"
	case AwaitingDateRange:
		return "date_range"
	default:
		return "none"
	}
}

// Session accumulates one user's report-filter choices across input turns.
// Sessions for different users are fully independent; only the session service
// mutates them, one transition at a time.
type Session struct {
	UserID            int64
	ReportKind        ReportKind
	ProjectSelections []string
	WalletAddresses   []string
	StartDate         *time.Time
	EndDate           *time.Time
	Awaiting          Awaiting
}

// SelectedProject returns the honored project selection. Project choice is
// single-select; any later selections are kept but ignored.
func (s *Session) SelectedProject() string {
	if len(s.ProjectSelections) == 0 {
		return ""
	}
	return s.ProjectSelections[0]
}

// Filter builds the completed report filter from the session state.
func (s *Session) Filter() *ReportFilter {
	addrs := make([]string, len(s.WalletAddresses))
	copy(addrs, s.WalletAddresses)

	label := string(s.ReportKind)
	if label == "" {
		label = "unknown_report"
	}

	return &ReportFilter{
		ProjectName:     s.SelectedProject(),
		WalletAddresses: addrs,
		StartDate:       s.StartDate,
		EndDate:         s.EndDate,
		Label:           label,
	}
}
