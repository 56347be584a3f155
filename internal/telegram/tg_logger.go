package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/earnhub/internal/config"
	"github.com/set-night/earnhub/internal/domain"
)

// TelegramLogger mirrors notable events into topics of an admin log chat.
type TelegramLogger struct {
	bot MessageSender
	cfg *config.Config
}

func NewTelegramLogger(b MessageSender, cfg *config.Config) *TelegramLogger {
	return &TelegramLogger{bot: b, cfg: cfg}
}

type LogType string

const (
	LogTypeError        LogType = "error"
	LogTypeRegistration LogType = "registration"
	LogTypeReferral     LogType = "referral"
	LogTypeTask         LogType = "task"
	LogTypeDeposit      LogType = "deposit"
	LogTypeWithdrawal   LogType = "withdrawal"
)

func (l *TelegramLogger) Log(logType LogType, message string) {
	if l == nil || l.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := l.getTopicID(logType)
	if topicID == 0 {
		return
	}

	message = Truncate(message, config.MaxTelegramMessageLen)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		ParseMode:       models.ParseModeMarkdownV1,
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *TelegramLogger) LogError(err error, context string) {
	msg := fmt.Sprintf("❌ *Error*\n\n*Context:* %s\n*Error:* `%s`\n*Time:* %s",
		EscapeMarkdown(context), err.Error(), time.Now().Format("2006-01-02 15:04:05"))
	l.Log(LogTypeError, msg)
}

func (l *TelegramLogger) LogRegistration(user *domain.User, referrerID int64) {
	msg := fmt.Sprintf("👤 *New Registration*\n\n*ID:* `%d`\n*Name:* %s\n*Username:* @%s\n*Start balance:* %d",
		user.ID, EscapeMarkdown(user.FirstName), EscapeMarkdown(user.Username), user.Balance)
	if referrerID != 0 {
		msg += fmt.Sprintf("\n*Referred by:* `%d`", referrerID)
	}
	l.Log(LogTypeRegistration, msg)
}

func (l *TelegramLogger) LogReferral(referrerID, referredID, points int64) {
	msg := fmt.Sprintf("🔗 *Referral Rewarded*\n\n*Referrer:* `%d`\n*New user:* `%d`\n*Points:* %d",
		referrerID, referredID, points)
	l.Log(LogTypeReferral, msg)
}

func (l *TelegramLogger) LogTaskCompleted(userID int64, task *domain.Task, balance int64) {
	msg := fmt.Sprintf("📋 *Task Completed*\n\n*User:* `%d`\n*Task:* %s\n*Points:* %d\n*Balance:* %d",
		userID, EscapeMarkdown(task.Name), task.Points, balance)
	l.Log(LogTypeTask, msg)
}

func (l *TelegramLogger) LogDeposit(t *domain.Transaction, opp *domain.Opportunity) {
	msg := fmt.Sprintf("🏦 *Deposit Confirmed*\n\n*User:* `%d`\n*Opportunity:* %s\n*Currency:* %s\n*Reference:* `%s`\n*Tx:* #%d",
		t.UserID, EscapeMarkdown(opp.Name), t.Currency, t.Reference, t.ID)
	l.Log(LogTypeDeposit, msg)
}

func (l *TelegramLogger) LogWithdrawal(t *domain.Transaction, opp *domain.Opportunity) {
	msg := fmt.Sprintf("💸 *Withdrawal Requested*\n\n*User:* `%d`\n*Opportunity:* %s\n*Amount:* %s %s\n*Reference:* `%s`\n*Tx:* #%d",
		t.UserID, EscapeMarkdown(opp.Name), t.Amount.String(), t.Currency, t.Reference, t.ID)
	l.Log(LogTypeWithdrawal, msg)
}

func (l *TelegramLogger) LogSettled(t *domain.Transaction) {
	msg := fmt.Sprintf("✅ *Transaction Settled*\n\n*Tx:* #%d\n*Type:* %s\n*User:* `%d`\n*Amount:* %s %s",
		t.ID, t.Type, t.UserID, t.Amount.String(), t.Currency)
	logType := LogTypeDeposit
	if t.Type == domain.TxTypeWithdrawal {
		logType = LogTypeWithdrawal
	}
	l.Log(logType, msg)
}

func (l *TelegramLogger) getTopicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypeRegistration:
		return l.cfg.LogTopicRegister
	case LogTypeReferral:
		return l.cfg.LogTopicReferral
	case LogTypeTask:
		return l.cfg.LogTopicTask
	case LogTypeDeposit:
		return l.cfg.LogTopicDeposit
	case LogTypeWithdrawal:
		return l.cfg.LogTopicWithdrawal
	default:
		return 0
	}
}
