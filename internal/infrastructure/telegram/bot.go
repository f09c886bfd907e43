package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"mongolog-report-bot/internal/domain/entity"
	"mongolog-report-bot/internal/domain/service"
	"mongolog-report-bot/internal/infrastructure/config"
	"mongolog-report-bot/internal/infrastructure/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const welcomeText = `👋 *Welcome, Brother!*

ℹ️ I'm *MongoLog* — a bot for generating reports from the database.

⚙️ Still in development, but feel free to test the available features.`

const datePromptText = "✍️ Enter dates in the format DD.MM.YY - DD.MM.YY\n" +
	"(leave one date blank for an open range)\n\n" +
	"❗️ For example:\n" +
	"01.01.24 - 31.12.24\n" +
	"01.01.24 -\n" +
	"- 01.01.24"

// Bot bridges Telegram updates to the session engine and delivers finished
// reports back to the chat. Access is limited to a static chat-ID allow-list.
type Bot struct {
	api      *tgbotapi.BotAPI
	config   *config.TelegramConfig
	sessions service.SessionService
	reports  service.ReportService
	logger   *logger.Logger

	mu             sync.Mutex
	startMessages  map[int64][]int
	filterMessages map[int64][]int

	cancel context.CancelFunc
	done   chan struct{}
}

// NewBot creates a new Telegram transport adapter
func NewBot(
	cfg *config.TelegramConfig,
	sessions service.SessionService,
	reports service.ReportService,
	logger *logger.Logger,
) *Bot {
	return &Bot{
		config:         cfg,
		sessions:       sessions,
		reports:        reports,
		logger:         logger.WithComponent("telegram-bot"),
		startMessages:  make(map[int64][]int),
		filterMessages: make(map[int64][]int),
	}
}

// Start authorizes against the Bot API and begins long polling.
func (b *Bot) Start(ctx context.Context) error {
	if !b.config.Enabled {
		b.logger.Info("Telegram transport is disabled, skipping start")
		return nil
	}

	api, err := tgbotapi.NewBotAPI(b.config.Token)
	if err != nil {
		return fmt.Errorf("failed to create bot API: %w", err)
	}
	b.api = api
	b.logger.Info("Telegram bot authorized", zap.String("username", api.Self.UserName))

	pollCtx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.done = make(chan struct{})

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.config.PollTimeout
	updates := api.GetUpdatesChan(updateConfig)

	go b.run(pollCtx, updates)
	return nil
}

// Stop halts polling and waits for the update loop to drain.
func (b *Bot) Stop() error {
	if b.api != nil {
		b.api.StopReceivingUpdates()
	}
	if b.cancel != nil {
		b.cancel()
		<-b.done
	}
	return nil
}

func (b *Bot) run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	defer close(b.done)
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.IsCommand() && update.Message.Command() == "start":
		b.onStart(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.onCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.Text != "":
		b.onMessage(ctx, update.Message)
	}
}

func (b *Bot) allowed(chatID int64) bool {
	for _, id := range b.config.AllowedUsers {
		if id == chatID {
			return true
		}
	}
	return false
}

func (b *Bot) onStart(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !b.allowed(chatID) {
		b.logger.Warn("Access denied", zap.Int64("chat_id", chatID))
		b.send(tgbotapi.NewMessage(chatID, "Sorry, you don't have access."))
		return
	}

	b.logger.Info("User started working with the bot", zap.Int64("chat_id", chatID))
	b.deleteTracked(chatID, b.startMessages)

	step, err := b.sessions.StartSession(ctx, chatID)
	if err != nil {
		b.reportError(chatID, err)
		return
	}
	b.render(ctx, chatID, step)
}

func (b *Bot) onCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID
	if !b.allowed(chatID) {
		return
	}
	b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	step, err := b.sessions.SubmitSelection(ctx, chatID, query.Data)
	if err != nil {
		b.reportError(chatID, err)
		return
	}
	b.render(ctx, chatID, step)
}

func (b *Bot) onMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !b.allowed(chatID) {
		return
	}

	step, err := b.sessions.SubmitText(ctx, chatID, strings.TrimSpace(msg.Text))
	if err != nil {
		b.reportError(chatID, err)
		return
	}
	b.render(ctx, chatID, step)
}

// render turns a session step result into chat output.
func (b *Bot) render(ctx context.Context, chatID int64, step *service.StepResult) {
	switch step.Kind {
	case service.StepMainMenu:
		b.deleteTracked(chatID, b.filterMessages)
		b.sendMainMenu(chatID)
	case service.StepPromptWallets:
		b.send(tgbotapi.NewMessage(chatID, "💼 Enter wallets (one per line):"))
	case service.StepPromptProject:
		b.sendProjectSelection(chatID, step.ProjectNames)
	case service.StepPromptDateDecision:
		if step.WalletCount > 0 {
			b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("💼 %d wallets received", step.WalletCount)))
		}
		b.sendDateDecision(chatID)
	case service.StepPromptDateRange:
		b.deleteTracked(chatID, b.filterMessages)
		b.send(tgbotapi.NewMessage(chatID, datePromptText))
	case service.StepInvalidDateRange:
		b.send(tgbotapi.NewMessage(chatID, "❌ Invalid date format.\nPlease use the format DD.MM.YY - DD.MM.YY"))
	case service.StepNoProjects:
		b.send(tgbotapi.NewMessage(chatID, "No projects available"))
	case service.StepCompleted:
		b.deleteTracked(chatID, b.filterMessages)
		b.deliverReport(ctx, chatID, step.Filter)
	}
}

// deliverReport builds the report and uploads it, then re-shows the menu so
// the operator can request another one.
func (b *Bot) deliverReport(ctx context.Context, chatID int64, filter *entity.ReportFilter) {
	path, err := b.reports.BuildReport(ctx, filter)
	switch {
	case errors.Is(err, entity.ErrNoData):
		b.send(tgbotapi.NewMessage(chatID, "The report was not found."))
	case errors.Is(err, entity.ErrProjectNotFound):
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Project %q was not found.", filter.ProjectName)))
	case err != nil:
		b.logger.Error("Error generating report", zap.Int64("chat_id", chatID), zap.Error(err))
		b.send(tgbotapi.NewMessage(chatID, "❌ Error generating report"))
	default:
		document := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
		if _, sendErr := b.api.Send(document); sendErr != nil {
			b.logger.Error("Failed to send report document",
				zap.Int64("chat_id", chatID),
				zap.Error(sendErr))
			b.send(tgbotapi.NewMessage(chatID, "❌ Error generating report"))
		} else {
			b.logger.Info("Report sent", zap.Int64("chat_id", chatID), zap.String("path", path))
		}
	}
	b.sendMainMenu(chatID)
}

func (b *Bot) sendMainMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, welcomeText)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Full Report", string(entity.ReportKindFull)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💼 Wallet Report", string(entity.ReportKindWallet)),
			tgbotapi.NewInlineKeyboardButtonData("📁 Project Report", string(entity.ReportKindProject)),
		),
	)

	sent, err := b.api.Send(msg)
	if err != nil {
		b.logger.Error("Failed to send main menu", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	b.track(chatID, b.startMessages, sent.MessageID)
}

func (b *Bot) sendDateDecision(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "📆 Filter by date?")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes", service.ChoiceFilterYes),
			tgbotapi.NewInlineKeyboardButtonData("🚫 No", service.ChoiceFilterNo),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", service.ChoiceGoBack),
		),
	)

	sent, err := b.api.Send(msg)
	if err != nil {
		b.logger.Error("Failed to send date decision", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	b.track(chatID, b.filterMessages, sent.MessageID)
}

func (b *Bot) sendProjectSelection(chatID int64, projectNames []string) {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(projectNames))
	for _, name := range projectNames {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(name, service.ProjectChoicePrefix+name),
		))
	}

	msg := tgbotapi.NewMessage(chatID, "📁 Select project:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(msg)
}

func (b *Bot) send(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message", zap.Int64("chat_id", msg.ChatID), zap.Error(err))
	}
}

func (b *Bot) reportError(chatID int64, err error) {
	b.logger.Error("Session error", zap.Int64("chat_id", chatID), zap.Error(err))
	b.send(tgbotapi.NewMessage(chatID, "❌ Something went wrong, try /start again"))
}

func (b *Bot) track(chatID int64, storage map[int64][]int, messageID int) {
	b.mu.Lock()
	storage[chatID] = append(storage[chatID], messageID)
	b.mu.Unlock()
}

// deleteTracked removes previously sent prompt messages for the chat.
func (b *Bot) deleteTracked(chatID int64, storage map[int64][]int) {
	b.mu.Lock()
	messageIDs := storage[chatID]
	storage[chatID] = nil
	b.mu.Unlock()

	for _, messageID := range messageIDs {
		if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
			b.logger.Warn("Failed to delete message",
				zap.Int64("chat_id", chatID),
				zap.Int("message_id", messageID),
				zap.Error(err))
		}
	}
}
