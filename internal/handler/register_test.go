package handler

import (
	"testing"

	"github.com/go-telegram/bot/models"
)

func TestIsCommand(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"/start", true},
		{"/start referral_42", true},
		{"/start@EarnHubBot", true},
		{"/start@EarnHubBot referral_42", true},
		{"/startx", false},
		{"/administrator", false},
		{"start", false},
		{"hello /start", false},
		{"", false},
	}
	match := isCommand("start")
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := match(&models.Update{Message: &models.Message{Text: tt.text}})
			if got != tt.want {
				t.Errorf("isCommand(start)(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}

	if isCommand("admin")(&models.Update{Message: &models.Message{Text: "/administrator"}}) {
		t.Error("/administrator matched /admin")
	}
	if isCommand("menu")(&models.Update{}) {
		t.Error("update without message matched")
	}
}
