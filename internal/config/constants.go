package config

import "time"

const (
	// Telegram limits
	MaxTelegramMessageLen = 4096
	MaxCallbackDataLen    = 64

	// Rate limits (per minute, per chat)
	RateLimitMessages = 30
	RateLimitWindow   = time.Minute

	// Conversation store sweep interval for the in-memory fallback
	ConversationSweepInterval = time.Minute

	// Updates taking longer than this are logged as warnings
	SlowUpdateThreshold = 2 * time.Second

	// Postgres pool
	DBMaxConns          = 10
	DBMinConns          = 2
	DBHealthCheckPeriod = 30 * time.Second
	DBApplicationName   = "earnhub-bot"

	// Admin lists
	PendingTransactionsPerPage = 10

	// QR code size in pixels
	QRCodeSize = 256

	// HTTP server
	HTTPReadTimeout     = 10 * time.Second
	HTTPShutdownTimeout = 5 * time.Second

	// Referral deep link payload prefix
	ReferralPayloadPrefix = "referral_"
)
