package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"mongolog-report-bot/internal/domain/entity"
	"mongolog-report-bot/internal/domain/service"
	"mongolog-report-bot/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProjectRepo struct {
	names    []string
	listErr  error
	projects map[string]*entity.Project
}

func (f *fakeProjectRepo) ListNames(ctx context.Context) ([]string, error) {
	return f.names, f.listErr
}

func (f *fakeProjectRepo) FindByName(ctx context.Context, name string) (*entity.Project, error) {
	if p, ok := f.projects[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("project %q: %w", name, entity.ErrProjectNotFound)
}

func nopLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

func newSessionFixture(t *testing.T, names ...string) service.SessionService {
	t.Helper()
	return NewSessionApplicationService(
		&fakeProjectRepo{names: names},
		service.NewDateRangeParser(),
		nopLogger(),
	)
}

const userID int64 = 42

func TestSessionService_WalletFlow(t *testing.T) {
	ctx := context.Background()
	sessions := newSessionFixture(t)

	step, err := sessions.StartSession(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, service.StepMainMenu, step.Kind)

	step, err = sessions.SubmitSelection(ctx, userID, string(entity.ReportKindWallet))
	require.NoError(t, err)
	assert.Equal(t, service.StepPromptWallets, step.Kind)

	// Mixed case and a blank line: the list is trimmed and lower-cased.
	step, err = sessions.SubmitText(ctx, userID, "0xAA\n\n0xbb")
	require.NoError(t, err)
	assert.Equal(t, service.StepPromptDateDecision, step.Kind)
	assert.Equal(t, 2, step.WalletCount)

	step, err = sessions.SubmitSelection(ctx, userID, service.ChoiceFilterNo)
	require.NoError(t, err)
	require.Equal(t, service.StepCompleted, step.Kind)
	require.NotNil(t, step.Filter)
	assert.Equal(t, []string{"0xaa", "0xbb"}, step.Filter.WalletAddresses)
	assert.Empty(t, step.Filter.ProjectName)
	assert.Nil(t, step.Filter.StartDate)
	assert.Nil(t, step.Filter.EndDate)
	assert.Equal(t, "wallet_report", step.Filter.Label)
}

func TestSessionService_ProjectFlowWithDates(t *testing.T) {
	ctx := context.Background()
	sessions := newSessionFixture(t, "alpha", "beta")

	_, err := sessions.StartSession(ctx, userID)
	require.NoError(t, err)

	step, err := sessions.SubmitSelection(ctx, userID, string(entity.ReportKindProject))
	require.NoError(t, err)
	require.Equal(t, service.StepPromptProject, step.Kind)
	assert.Equal(t, []string{"alpha", "beta"}, step.ProjectNames)

	step, err = sessions.SubmitSelection(ctx, userID, service.ProjectChoicePrefix+"alpha")
	require.NoError(t, err)
	assert.Equal(t, service.StepPromptDateDecision, step.Kind)

	step, err = sessions.SubmitSelection(ctx, userID, service.ChoiceFilterYes)
	require.NoError(t, err)
	assert.Equal(t, service.StepPromptDateRange, step.Kind)

	step, err = sessions.SubmitText(ctx, userID, "01.01.24 - 31.12.24")
	require.NoError(t, err)
	require.Equal(t, service.StepCompleted, step.Kind)
	require.NotNil(t, step.Filter)
	assert.Equal(t, "alpha", step.Filter.ProjectName)
	require.NotNil(t, step.Filter.StartDate)
	require.NotNil(t, step.Filter.EndDate)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *step.Filter.StartDate)
	assert.Equal(t, time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), *step.Filter.EndDate)
}

func TestSessionService_InvalidDateRangeStaysInPlace(t *testing.T) {
	ctx := context.Background()
	sessions := newSessionFixture(t)

	_, err := sessions.StartSession(ctx, userID)
	require.NoError(t, err)
	_, err = sessions.SubmitSelection(ctx, userID, string(entity.ReportKindFull))
	require.NoError(t, err)
	_, err = sessions.SubmitSelection(ctx, userID, service.ChoiceFilterYes)
	require.NoError(t, err)

	step, err := sessions.SubmitText(ctx, userID, "not a date range")
	require.NoError(t, err)
	assert.Equal(t, service.StepInvalidDateRange, step.Kind)

	// Session stayed in the date-range state; a valid resubmission completes.
	step, err = sessions.SubmitText(ctx, userID, "01.01.24 -")
	require.NoError(t, err)
	require.Equal(t, service.StepCompleted, step.Kind)
	assert.Equal(t, "full_report", step.Filter.Label)
	assert.NotNil(t, step.Filter.StartDate)
	assert.Nil(t, step.Filter.EndDate)
}

func TestSessionService_NoProjectsAborts(t *testing.T) {
	ctx := context.Background()
	sessions := newSessionFixture(t)

	_, err := sessions.StartSession(ctx, userID)
	require.NoError(t, err)

	step, err := sessions.SubmitSelection(ctx, userID, string(entity.ReportKindProject))
	require.NoError(t, err)
	assert.Equal(t, service.StepNoProjects, step.Kind)

	// The aborted session is back at the report-kind step.
	step, err = sessions.SubmitSelection(ctx, userID, service.ProjectChoicePrefix+"ghost")
	require.NoError(t, err)
	assert.Equal(t, service.StepIgnored, step.Kind)
}

func TestSessionService_RestartClearsPendingState(t *testing.T) {
	ctx := context.Background()
	sessions := newSessionFixture(t)

	_, err := sessions.StartSession(ctx, userID)
	require.NoError(t, err)
	_, err = sessions.SubmitSelection(ctx, userID, string(entity.ReportKindWallet))
	require.NoError(t, err)
	_, err = sessions.SubmitText(ctx, userID, "0xaa\n0xbb")
	require.NoError(t, err)
	_, err = sessions.SubmitSelection(ctx, userID, service.ChoiceFilterYes)
	require.NoError(t, err)

	// Restart mid-AwaitingDateRange.
	step, err := sessions.StartSession(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, service.StepMainMenu, step.Kind)

	// Pending date input no longer applies.
	step, err = sessions.SubmitText(ctx, userID, "01.01.24 - 31.12.24")
	require.NoError(t, err)
	assert.Equal(t, service.StepIgnored, step.Kind)

	// A fresh flow carries nothing over from before the restart.
	_, err = sessions.SubmitSelection(ctx, userID, string(entity.ReportKindFull))
	require.NoError(t, err)
	step, err = sessions.SubmitSelection(ctx, userID, service.ChoiceFilterNo)
	require.NoError(t, err)
	require.Equal(t, service.StepCompleted, step.Kind)
	assert.Empty(t, step.Filter.WalletAddresses)
	assert.Empty(t, step.Filter.ProjectName)
	assert.Equal(t, "full_report", step.Filter.Label)
}

func TestSessionService_ReselectingKindStartsOver(t *testing.T) {
	ctx := context.Background()
	sessions := newSessionFixture(t)

	_, err := sessions.StartSession(ctx, userID)
	require.NoError(t, err)
	_, err = sessions.SubmitSelection(ctx, userID, string(entity.ReportKindWallet))
	require.NoError(t, err)
	_, err = sessions.SubmitText(ctx, userID, "0xaa\n0xbb")
	require.NoError(t, err)

	_, err = sessions.SubmitSelection(ctx, userID, string(entity.ReportKindWallet))
	require.NoError(t, err)
	_, err = sessions.SubmitText(ctx, userID, "0xcc")
	require.NoError(t, err)

	step, err := sessions.SubmitSelection(ctx, userID, service.ChoiceFilterNo)
	require.NoError(t, err)
	require.Equal(t, service.StepCompleted, step.Kind)
	assert.Equal(t, []string{"0xcc"}, step.Filter.WalletAddresses)
}

func TestSessionService_GoBackResetsEverything(t *testing.T) {
	ctx := context.Background()
	sessions := newSessionFixture(t)

	_, err := sessions.StartSession(ctx, userID)
	require.NoError(t, err)
	_, err = sessions.SubmitSelection(ctx, userID, string(entity.ReportKindFull))
	require.NoError(t, err)

	step, err := sessions.SubmitSelection(ctx, userID, service.ChoiceGoBack)
	require.NoError(t, err)
	assert.Equal(t, service.StepMainMenu, step.Kind)

	// Date decision no longer pending after the reset.
	step, err = sessions.SubmitSelection(ctx, userID, service.ChoiceFilterNo)
	require.NoError(t, err)
	assert.Equal(t, service.StepIgnored, step.Kind)
}

func TestSessionService_InputWithoutSessionIsIgnored(t *testing.T) {
	ctx := context.Background()
	sessions := newSessionFixture(t)

	step, err := sessions.SubmitText(ctx, userID, "0xaa")
	require.NoError(t, err)
	assert.Equal(t, service.StepIgnored, step.Kind)

	step, err = sessions.SubmitSelection(ctx, userID, service.ChoiceFilterYes)
	require.NoError(t, err)
	assert.Equal(t, service.StepIgnored, step.Kind)
}

func TestSessionService_UsersAreIndependent(t *testing.T) {
	ctx := context.Background()
	sessions := newSessionFixture(t)

	const otherID int64 = 43
	_, err := sessions.StartSession(ctx, userID)
	require.NoError(t, err)
	_, err = sessions.StartSession(ctx, otherID)
	require.NoError(t, err)

	_, err = sessions.SubmitSelection(ctx, userID, string(entity.ReportKindWallet))
	require.NoError(t, err)
	_, err = sessions.SubmitText(ctx, userID, "0xaa")
	require.NoError(t, err)

	// The other user's session is untouched by the first user's turns.
	_, err = sessions.SubmitSelection(ctx, otherID, string(entity.ReportKindFull))
	require.NoError(t, err)
	step, err := sessions.SubmitSelection(ctx, otherID, service.ChoiceFilterNo)
	require.NoError(t, err)
	require.Equal(t, service.StepCompleted, step.Kind)
	assert.Empty(t, step.Filter.WalletAddresses)
}
