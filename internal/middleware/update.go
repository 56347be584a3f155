package middleware

import (
	"strings"

	"github.com/go-telegram/bot/models"
)

// updateInfo is what the middlewares log about an update. Free text is never
// logged since form replies carry withdrawal details.
type updateInfo struct {
	kind   string
	chatID int64
	userID int64
	// command word for messages ("text" for free text), raw data for callbacks
	action string
}

func describe(update *models.Update) updateInfo {
	switch {
	case update.Message != nil:
		info := updateInfo{kind: "message", chatID: update.Message.Chat.ID, action: "text"}
		if update.Message.From != nil {
			info.userID = update.Message.From.ID
		}
		if strings.HasPrefix(update.Message.Text, "/") {
			info.action, _, _ = strings.Cut(update.Message.Text, " ")
		}
		return info
	case update.CallbackQuery != nil:
		info := updateInfo{
			kind:   "callback_query",
			userID: update.CallbackQuery.From.ID,
			action: update.CallbackQuery.Data,
		}
		if update.CallbackQuery.Message.Message != nil {
			info.chatID = update.CallbackQuery.Message.Message.Chat.ID
		}
		return info
	}
	return updateInfo{kind: "unknown"}
}

func (i updateInfo) attrs() []any {
	return []any{"type", i.kind, "chat_id", i.chatID, "user_id", i.userID, "action", i.action}
}
