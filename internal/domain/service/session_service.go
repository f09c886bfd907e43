package service

import (
	"context"

	"mongolog-report-bot/internal/domain/entity"
)

// Selection values the transport sends for button presses. The report-kind
// buttons reuse the entity.ReportKind values directly.
const (
	ChoiceFilterYes = "filter_yes"
	ChoiceFilterNo  = "filter_no"
	ChoiceGoBack    = "go_back"

	// ProjectChoicePrefix prefixes the project name in a project-selection
	// event, e.g. "project_zksync".
	ProjectChoicePrefix = "project_"
)

// StepKind tells the transport what to render after a session transition.
type StepKind int

const (
	// StepMainMenu shows the report-kind menu (fresh or reset session).
	StepMainMenu StepKind = iota
	// StepPromptWallets asks for a newline-separated wallet list.
	StepPromptWallets
	// StepPromptProject shows the project-selection keyboard.
	StepPromptProject
	// StepPromptDateDecision asks whether to filter by date.
	StepPromptDateDecision
	// StepPromptDateRange asks for a DD.MM.YY - DD.MM.YY expression.
	StepPromptDateRange
	// StepInvalidDateRange re-prompts after a malformed range; the session
	// stays where it was.
	StepInvalidDateRange
	// StepNoProjects aborts a project report because none exist.
	StepNoProjects
	// StepCompleted carries the finished filter; the session has been reset.
	StepCompleted
	// StepIgnored means the input was not expected in the current state.
	StepIgnored
)

// StepResult is the outcome of one session transition.
type StepResult struct {
	Kind StepKind

	// ProjectNames is set with StepPromptProject.
	ProjectNames []string

	// WalletCount is set when a wallet list was just accepted.
	WalletCount int

	// Filter is set with StepCompleted.
	Filter *entity.ReportFilter
}

// SessionService drives the per-user filter-collection state machine. Events
// for a single user are processed strictly in arrival order; sessions for
// different users never share mutable state.
type SessionService interface {
	// StartSession replaces any session for the user with a fresh one,
	// discarding in-flight awaiting state atomically.
	StartSession(ctx context.Context, userID int64) (*StepResult, error)

	// SubmitSelection processes a button-press event.
	SubmitSelection(ctx context.Context, userID int64, choice string) (*StepResult, error)

	// SubmitText processes a free-text message.
	SubmitText(ctx context.Context, userID int64, text string) (*StepResult, error)
}
