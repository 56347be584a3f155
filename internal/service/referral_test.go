package service

import "testing"

func TestReferralPayload(t *testing.T) {
	link := ReferralLink("earnhub_bot", 12345)
	if link != "https://t.me/earnhub_bot?start=referral_12345" {
		t.Errorf("link = %q", link)
	}

	tests := []struct {
		payload string
		id      int64
		ok      bool
	}{
		{"referral_12345", 12345, true},
		{" referral_7 ", 7, true},
		{"referral_", 0, false},
		{"referral_abc", 0, false},
		{"referral_-3", 0, false},
		{"promo_5", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		id, ok := ParseReferralPayload(tt.payload)
		if id != tt.id || ok != tt.ok {
			t.Errorf("ParseReferralPayload(%q) = %d %v, want %d %v", tt.payload, id, ok, tt.id, tt.ok)
		}
	}
}
