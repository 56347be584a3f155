package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/set-night/earnhub/internal/config"
	"github.com/set-night/earnhub/internal/conversation"
	"github.com/set-night/earnhub/internal/service"
	"github.com/set-night/earnhub/internal/telegram"
)

// Messenger is the part of *bot.Bot the handlers talk to.
type Messenger interface {
	telegram.MessageSender
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot           *bot.Bot
	msg           Messenger
	cfg           *config.Config
	users         *service.UserService
	ledger        *service.LedgerService
	tasks         *service.TaskService
	opportunities *service.OpportunityService
	settings      *service.SettingsService
	stats         *service.StatsService
	membership    service.Membership
	conversations conversation.Store
	tgLogger      *telegram.TelegramLogger
	botUsername   string
}

// Deps contains all dependencies required to construct a Handler.
// Messenger defaults to Bot.
type Deps struct {
	Bot           *bot.Bot
	Messenger     Messenger
	Cfg           *config.Config
	Users         *service.UserService
	Ledger        *service.LedgerService
	Tasks         *service.TaskService
	Opportunities *service.OpportunityService
	Settings      *service.SettingsService
	Stats         *service.StatsService
	Membership    service.Membership
	Conversations conversation.Store
	TgLogger      *telegram.TelegramLogger
	BotUsername   string
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	h := &Handler{
		bot:           deps.Bot,
		msg:           deps.Messenger,
		cfg:           deps.Cfg,
		users:         deps.Users,
		ledger:        deps.Ledger,
		tasks:         deps.Tasks,
		opportunities: deps.Opportunities,
		settings:      deps.Settings,
		stats:         deps.Stats,
		membership:    deps.Membership,
		conversations: deps.Conversations,
		tgLogger:      deps.TgLogger,
		botUsername:   deps.BotUsername,
	}
	if h.msg == nil && deps.Bot != nil {
		h.msg = deps.Bot
	}
	return h
}
