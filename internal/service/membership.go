package service

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/earnhub/internal/domain"
)

// ChatMemberGetter is implemented by *bot.Bot.
type ChatMemberGetter interface {
	GetChatMember(ctx context.Context, params *bot.GetChatMemberParams) (*models.ChatMember, error)
}

type MembershipVerifier struct {
	client ChatMemberGetter
}

func NewMembershipVerifier(client ChatMemberGetter) *MembershipVerifier {
	return &MembershipVerifier{client: client}
}

// IsMember reports whether userID belongs to channel. A failed lookup returns
// an error wrapping domain.ErrMembershipUnknown rather than false.
func (v *MembershipVerifier) IsMember(ctx context.Context, channel string, userID int64) (bool, error) {
	member, err := v.client.GetChatMember(ctx, &bot.GetChatMemberParams{
		ChatID: channel,
		UserID: userID,
	})
	if err != nil {
		return false, fmt.Errorf("get chat member %s: %v: %w", channel, err, domain.ErrMembershipUnknown)
	}
	if member == nil {
		return false, fmt.Errorf("get chat member %s: empty response: %w", channel, domain.ErrMembershipUnknown)
	}

	switch member.Type {
	case models.ChatMemberTypeMember, models.ChatMemberTypeAdministrator, models.ChatMemberTypeOwner:
		return true, nil
	}
	return false, nil
}
