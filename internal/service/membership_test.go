package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/earnhub/internal/domain"
)

type fakeChatMembers struct {
	member *models.ChatMember
	err    error
	params *bot.GetChatMemberParams
}

func (f *fakeChatMembers) GetChatMember(_ context.Context, params *bot.GetChatMemberParams) (*models.ChatMember, error) {
	f.params = params
	return f.member, f.err
}

func TestMembershipVerifier(t *testing.T) {
	tests := []struct {
		typ  models.ChatMemberType
		want bool
	}{
		{models.ChatMemberTypeOwner, true},
		{models.ChatMemberTypeAdministrator, true},
		{models.ChatMemberTypeMember, true},
		{models.ChatMemberTypeLeft, false},
		{models.ChatMemberTypeBanned, false},
		{models.ChatMemberTypeRestricted, false},
	}

	for _, tt := range tests {
		client := &fakeChatMembers{member: &models.ChatMember{Type: tt.typ}}
		got, err := NewMembershipVerifier(client).IsMember(context.Background(), "@news", 42)
		if err != nil {
			t.Fatalf("%s: %v", tt.typ, err)
		}
		if got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.typ, got, tt.want)
		}
		if client.params.ChatID != "@news" || client.params.UserID != 42 {
			t.Errorf("params = %+v", client.params)
		}
	}
}

func TestMembershipVerifierTransportError(t *testing.T) {
	client := &fakeChatMembers{err: errors.New("bad gateway")}
	ok, err := NewMembershipVerifier(client).IsMember(context.Background(), "@news", 42)
	if ok || !errors.Is(err, domain.ErrMembershipUnknown) {
		t.Fatalf("ok=%v err=%v, want false ErrMembershipUnknown", ok, err)
	}
}
