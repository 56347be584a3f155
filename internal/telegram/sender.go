package telegram

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/earnhub/internal/config"
)

const maxCaptionLen = 1024

// MessageSender is the part of *bot.Bot used to deliver screens.
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
}

// Screen is one rendered bot message: Markdown text, an optional image and
// an inline keyboard.
type Screen struct {
	Text      string
	PhotoURL  string
	PhotoPNG  []byte
	Keyboard  *models.InlineKeyboardMarkup
	NoPreview bool
}

func (s Screen) hasPhoto() bool {
	return s.PhotoURL != "" || len(s.PhotoPNG) > 0
}

// Send delivers a screen. A photo that Telegram rejects is dropped and the
// text is sent on its own.
func Send(ctx context.Context, b MessageSender, chatID int64, s Screen) error {
	if s.hasPhoto() && utf8.RuneCountInString(s.Text) <= maxCaptionLen {
		_, err := b.SendPhoto(ctx, photoParams(chatID, s, s.Text, s.Keyboard))
		if err == nil {
			return nil
		}
		slog.Warn("photo send failed, falling back to text", "chat_id", chatID, "error", err)
		s.PhotoURL, s.PhotoPNG = "", nil
	}

	if s.hasPhoto() {
		if _, err := b.SendPhoto(ctx, photoParams(chatID, s, "", nil)); err != nil {
			slog.Warn("photo send failed", "chat_id", chatID, "error", err)
		}
	}

	return SendLongMessage(ctx, b, chatID, s.Text, s.Keyboard, s.NoPreview)
}

func photoParams(chatID int64, s Screen, caption string, keyboard *models.InlineKeyboardMarkup) *bot.SendPhotoParams {
	params := &bot.SendPhotoParams{
		ChatID:  chatID,
		Caption: caption,
	}
	if len(s.PhotoPNG) > 0 {
		params.Photo = &models.InputFileUpload{Filename: "qr.png", Data: bytes.NewReader(s.PhotoPNG)}
	} else {
		params.Photo = &models.InputFileString{Data: s.PhotoURL}
	}
	if caption != "" {
		params.ParseMode = models.ParseModeMarkdownV1
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	return params
}

// SendLongMessage sends text split into Telegram-sized parts; the keyboard
// is attached to the last part. Falls back to plain text if Markdown
// parsing fails.
func SendLongMessage(ctx context.Context, b MessageSender, chatID int64, text string, keyboard *models.InlineKeyboardMarkup, noPreview bool) error {
	parts := SplitMessage(text, config.MaxTelegramMessageLen)

	for i, part := range parts {
		params := &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      part,
			ParseMode: models.ParseModeMarkdownV1,
		}
		if noPreview {
			disabled := true
			params.LinkPreviewOptions = &models.LinkPreviewOptions{IsDisabled: &disabled}
		}
		if i == len(parts)-1 && keyboard != nil {
			params.ReplyMarkup = keyboard
		}

		_, err := b.SendMessage(ctx, params)
		if err != nil {
			slog.Warn("markdown send failed, falling back to plain text", "error", err)
			params.ParseMode = ""
			if _, err = b.SendMessage(ctx, params); err != nil {
				return fmt.Errorf("send message: %w", err)
			}
		}
	}

	return nil
}

// SendText sends a short message with an optional keyboard.
func SendText(ctx context.Context, b MessageSender, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) error {
	return SendLongMessage(ctx, b, chatID, text, keyboard, false)
}
