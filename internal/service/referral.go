package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/set-night/earnhub/internal/config"
)

// ReferralLink is the deep link a user shares to refer others.
func ReferralLink(botUsername string, userID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%s%d", botUsername, config.ReferralPayloadPrefix, userID)
}

// ParseReferralPayload extracts the referrer id from a /start payload.
func ParseReferralPayload(payload string) (int64, bool) {
	raw, ok := strings.CutPrefix(strings.TrimSpace(payload), config.ReferralPayloadPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
