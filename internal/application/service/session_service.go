package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"mongolog-report-bot/internal/domain/entity"
	"mongolog-report-bot/internal/domain/repository"
	"mongolog-report-bot/internal/domain/service"
	"mongolog-report-bot/internal/infrastructure/logger"

	"go.uber.org/zap"
)

// SessionApplicationService implements service.SessionService. Sessions live
// in memory, one per user, and every transition happens under the lock, so a
// restart can never interleave with a half-applied turn.
type SessionApplicationService struct {
	projectRepo repository.ProjectRepository
	parser      *service.DateRangeParser
	logger      *logger.Logger

	mu       sync.Mutex
	sessions map[int64]*entity.Session
}

// NewSessionApplicationService creates a new session application service.
func NewSessionApplicationService(
	projectRepo repository.ProjectRepository,
	parser *service.DateRangeParser,
	logger *logger.Logger,
) service.SessionService {
	return &SessionApplicationService{
		projectRepo: projectRepo,
		parser:      parser,
		logger:      logger.WithComponent("session-service"),
		sessions:    make(map[int64]*entity.Session),
	}
}

// StartSession replaces any prior session for the user with a fresh one.
func (s *SessionApplicationService) StartSession(ctx context.Context, userID int64) (*service.StepResult, error) {
	s.mu.Lock()
	s.sessions[userID] = &entity.Session{UserID: userID, Awaiting: entity.AwaitingReportKind}
	s.mu.Unlock()

	s.logger.Info("Session started", zap.Int64("user_id", userID))
	return &service.StepResult{Kind: service.StepMainMenu}, nil
}

// SubmitSelection processes a button-press event for the user's session.
func (s *SessionApplicationService) SubmitSelection(ctx context.Context, userID int64, choice string) (*service.StepResult, error) {
	// Project names come from the store; fetch them before taking the
	// session lock so one user's slow lookup cannot stall other sessions.
	var projectNames []string
	if choice == string(entity.ReportKindProject) {
		names, err := s.projectRepo.ListNames(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list project names: %w", err)
		}
		projectNames = names
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return &service.StepResult{Kind: service.StepIgnored}, nil
	}

	switch {
	case choice == string(entity.ReportKindFull):
		sess = s.freshLocked(userID)
		sess.ReportKind = entity.ReportKindFull
		sess.Awaiting = entity.AwaitingDateDecision
		return &service.StepResult{Kind: service.StepPromptDateDecision}, nil

	case choice == string(entity.ReportKindWallet):
		sess = s.freshLocked(userID)
		sess.ReportKind = entity.ReportKindWallet
		sess.Awaiting = entity.AwaitingWalletList
		return &service.StepResult{Kind: service.StepPromptWallets}, nil

	case choice == string(entity.ReportKindProject):
		if len(projectNames) == 0 {
			s.freshLocked(userID)
			s.logger.Warn("Project report requested with no projects available", zap.Int64("user_id", userID))
			return &service.StepResult{Kind: service.StepNoProjects}, nil
		}
		sess = s.freshLocked(userID)
		sess.ReportKind = entity.ReportKindProject
		sess.Awaiting = entity.AwaitingProjectChoice
		return &service.StepResult{Kind: service.StepPromptProject, ProjectNames: projectNames}, nil

	case strings.HasPrefix(choice, service.ProjectChoicePrefix):
		if sess.Awaiting != entity.AwaitingProjectChoice {
			return &service.StepResult{Kind: service.StepIgnored}, nil
		}
		// Single-select: later selections are appended but never honored.
		sess.ProjectSelections = append(sess.ProjectSelections, strings.TrimPrefix(choice, service.ProjectChoicePrefix))
		sess.Awaiting = entity.AwaitingDateDecision
		return &service.StepResult{Kind: service.StepPromptDateDecision}, nil

	case choice == service.ChoiceFilterYes:
		if sess.Awaiting != entity.AwaitingDateDecision {
			return &service.StepResult{Kind: service.StepIgnored}, nil
		}
		sess.Awaiting = entity.AwaitingDateRange
		return &service.StepResult{Kind: service.StepPromptDateRange}, nil

	case choice == service.ChoiceFilterNo:
		if sess.Awaiting != entity.AwaitingDateDecision {
			return &service.StepResult{Kind: service.StepIgnored}, nil
		}
		return s.completeLocked(userID, sess), nil

	case choice == service.ChoiceGoBack:
		// Full reset. Rolling back only the transient prompt would leave
		// earlier selections behind with no way to see or change them.
		s.freshLocked(userID)
		s.logger.Info("Session reset via go back", zap.Int64("user_id", userID))
		return &service.StepResult{Kind: service.StepMainMenu}, nil
	}

	s.logger.Warn("Unrecognized selection",
		zap.Int64("user_id", userID),
		zap.String("choice", choice),
		zap.String("awaiting", sess.Awaiting.String()))
	return &service.StepResult{Kind: service.StepIgnored}, nil
}

// SubmitText processes a free-text message for the user's session.
func (s *SessionApplicationService) SubmitText(ctx context.Context, userID int64, text string) (*service.StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return &service.StepResult{Kind: service.StepIgnored}, nil
	}

	switch sess.Awaiting {
	case entity.AwaitingWalletList:
		wallets := splitWalletList(text)
		// Re-submission replaces the list, it does not append.
		sess.WalletAddresses = wallets
		sess.Awaiting = entity.AwaitingDateDecision
		s.logger.Info("Wallet list received",
			zap.Int64("user_id", userID),
			zap.Int("count", len(wallets)))
		return &service.StepResult{Kind: service.StepPromptDateDecision, WalletCount: len(wallets)}, nil

	case entity.AwaitingDateRange:
		start, end, err := s.parser.Parse(text)
		if err != nil {
			s.logger.Warn("Invalid date range input",
				zap.Int64("user_id", userID),
				zap.String("input", text))
			return &service.StepResult{Kind: service.StepInvalidDateRange}, nil
		}
		sess.StartDate = start
		sess.EndDate = end
		return s.completeLocked(userID, sess), nil
	}

	return &service.StepResult{Kind: service.StepIgnored}, nil
}

// completeLocked builds the finished filter and resets the session. Callers
// must hold the lock.
func (s *SessionApplicationService) completeLocked(userID int64, sess *entity.Session) *service.StepResult {
	filter := sess.Filter()
	s.freshLocked(userID)
	s.logger.Info("Filter session completed",
		zap.Int64("user_id", userID),
		zap.String("label", filter.Label),
		zap.String("project", filter.ProjectName),
		zap.Int("wallet_addresses", len(filter.WalletAddresses)))
	return &service.StepResult{Kind: service.StepCompleted, Filter: filter}
}

// freshLocked replaces the user's session with a clean record awaiting a
// report-kind choice. Callers must hold the lock.
func (s *SessionApplicationService) freshLocked(userID int64) *entity.Session {
	sess := &entity.Session{UserID: userID, Awaiting: entity.AwaitingReportKind}
	s.sessions[userID] = sess
	return sess
}

// splitWalletList splits free text into trimmed, lower-cased addresses, one
// per line, discarding blank lines.
func splitWalletList(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.ToLower(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
