package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/earnhub/internal/domain"
)

type ctxKey string

const (
	UserKey    ctxKey = "user"
	NewUserKey ctxKey = "new_user"
)

// UserFinder is implemented by *service.UserService.
type UserFinder interface {
	FindOrCreate(ctx context.Context, profile domain.NewUser) (*domain.User, bool, error)
}

// GetUser extracts user from context.
func GetUser(ctx context.Context) *domain.User {
	u, ok := ctx.Value(UserKey).(*domain.User)
	if !ok {
		return nil
	}
	return u
}

// IsNewUser reports whether the user was registered by this update.
func IsNewUser(ctx context.Context) bool {
	created, _ := ctx.Value(NewUserKey).(bool)
	return created
}

// WithUser stores the user in ctx.
func WithUser(ctx context.Context, user *domain.User, created bool) context.Context {
	ctx = context.WithValue(ctx, UserKey, user)
	return context.WithValue(ctx, NewUserKey, created)
}

// UserLoader returns middleware that loads or registers the sender and
// stores it in the context. Updates from group chats are not handled.
func UserLoader(users UserFinder) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var from *models.User
			var chatType models.ChatType

			if update.Message != nil {
				from = update.Message.From
				chatType = update.Message.Chat.Type
			} else if update.CallbackQuery != nil {
				from = &update.CallbackQuery.From
				if update.CallbackQuery.Message.Message != nil {
					chatType = update.CallbackQuery.Message.Message.Chat.Type
				}
			}

			if from == nil || from.IsBot || (chatType != "" && chatType != models.ChatTypePrivate) {
				return
			}

			user, created, err := users.FindOrCreate(ctx, domain.NewUser{
				ID:        from.ID,
				Username:  from.Username,
				FirstName: from.FirstName,
				LastName:  from.LastName,
			})
			if err != nil {
				slog.Error("load user", "error", err, "user_id", from.ID)
				return
			}

			next(WithUser(ctx, user, created), b, update)
		}
	}
}
