package domain

import "strings"

const (
	SettingChannelID      = "channel_id"
	SettingChannelLink    = "channel_link"
	SettingWelcomeLogo    = "welcome_logo"
	SettingHomeLogo       = "home_logo"
	SettingReferralPoints = "referral_points"
	SettingStartBalance   = "start_balance"
	SettingAd             = "ad"
)

// SettingSpec is an admin-editable setting. Path is "key" or "key.field"
// for values nested inside an object setting.
type SettingSpec struct {
	Path string
	FieldSpec
}

// Key returns the top-level settings key.
func (s SettingSpec) Key() string {
	key, _, _ := strings.Cut(s.Path, ".")
	return key
}

// Fields returns the nested field path below the key, nil for top-level values.
func (s SettingSpec) Fields() []string {
	_, rest, ok := strings.Cut(s.Path, ".")
	if !ok {
		return nil
	}
	return strings.Split(rest, ".")
}

var SettingSpecs = []SettingSpec{
	{Path: SettingChannelID, FieldSpec: FieldSpec{Name: SettingChannelID, Label: "Required channel", Kind: KindChannel}},
	{Path: SettingChannelLink, FieldSpec: FieldSpec{Name: SettingChannelLink, Label: "Channel invite link", Kind: KindURL}},
	{Path: SettingWelcomeLogo, FieldSpec: FieldSpec{Name: SettingWelcomeLogo, Label: "Welcome logo", Kind: KindURL, Optional: true}},
	{Path: SettingHomeLogo, FieldSpec: FieldSpec{Name: SettingHomeLogo, Label: "Home logo", Kind: KindURL, Optional: true}},
	{Path: SettingReferralPoints, FieldSpec: FieldSpec{Name: SettingReferralPoints, Label: "Referral points", Kind: KindInteger}},
	{Path: SettingStartBalance, FieldSpec: FieldSpec{Name: SettingStartBalance, Label: "Starting balance", Kind: KindInteger}},
	{Path: SettingAd + ".text", FieldSpec: FieldSpec{Name: SettingAd + ".text", Label: "Ad text", Kind: KindText}},
	{Path: SettingAd + ".link", FieldSpec: FieldSpec{Name: SettingAd + ".link", Label: "Ad link", Kind: KindURL}},
}

func LookupSetting(path string) (SettingSpec, bool) {
	for _, s := range SettingSpecs {
		if s.Path == path {
			return s, true
		}
	}
	return SettingSpec{}, false
}

// Ad is the promotional copy shown on the home screen.
type Ad struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

// BotSettings is a resolved snapshot of all settings with defaults applied.
type BotSettings struct {
	ChannelID      string
	ChannelLink    string
	WelcomeLogo    string
	HomeLogo       string
	ReferralPoints int64
	StartBalance   int64
	Ad             Ad
}

// Value returns the snapshot value for an editable setting path.
func (s BotSettings) Value(path string) string {
	switch path {
	case SettingChannelID:
		return s.ChannelID
	case SettingChannelLink:
		return s.ChannelLink
	case SettingWelcomeLogo:
		return s.WelcomeLogo
	case SettingHomeLogo:
		return s.HomeLogo
	case SettingReferralPoints:
		return itoa(s.ReferralPoints)
	case SettingStartBalance:
		return itoa(s.StartBalance)
	case SettingAd + ".text":
		return s.Ad.Text
	case SettingAd + ".link":
		return s.Ad.Link
	}
	return ""
}
