package service

import (
	"context"
	"sync"

	"github.com/set-night/earnhub/internal/config"
)

// fakeMembership answers membership checks from a fixed table.
type fakeMembership struct {
	mu      sync.Mutex
	members map[string]map[int64]bool
	err     error
	calls   int
}

func (f *fakeMembership) IsMember(_ context.Context, channel string, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.members[channel][userID], nil
}

func testConfig() *config.Config {
	return &config.Config{
		AdminIDs:              []int64{900},
		DefaultStartBalance:   100,
		DefaultReferralPoints: 5,
		RequiredChannelID:     "@vectoroad",
		RequiredChannelLink:   "https://t.me/vectoroad",
	}
}
