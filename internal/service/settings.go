package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/set-night/earnhub/internal/config"
	"github.com/set-night/earnhub/internal/domain"
)

// SettingsService resolves bot settings with defaults and applies admin edits.
type SettingsService struct {
	store    SettingsStore
	defaults domain.BotSettings
}

func NewSettingsService(store SettingsStore, cfg *config.Config) *SettingsService {
	return &SettingsService{
		store: store,
		defaults: domain.BotSettings{
			ChannelID:      cfg.RequiredChannelID,
			ChannelLink:    cfg.RequiredChannelLink,
			ReferralPoints: cfg.DefaultReferralPoints,
			StartBalance:   cfg.DefaultStartBalance,
		},
	}
}

// Snapshot returns every setting, falling back to defaults for keys that are
// unset or unreadable.
func (s *SettingsService) Snapshot(ctx context.Context) (domain.BotSettings, error) {
	stored, err := s.store.ListSettings(ctx)
	if err != nil {
		return domain.BotSettings{}, fmt.Errorf("list settings: %w", err)
	}

	out := s.defaults
	for key, raw := range stored {
		var err error
		switch key {
		case domain.SettingChannelID:
			err = decodeString(raw, &out.ChannelID)
		case domain.SettingChannelLink:
			err = decodeString(raw, &out.ChannelLink)
		case domain.SettingWelcomeLogo:
			err = decodeString(raw, &out.WelcomeLogo)
		case domain.SettingHomeLogo:
			err = decodeString(raw, &out.HomeLogo)
		case domain.SettingReferralPoints:
			err = decodeInt(raw, &out.ReferralPoints)
		case domain.SettingStartBalance:
			err = decodeInt(raw, &out.StartBalance)
		case domain.SettingAd:
			err = json.Unmarshal(raw, &out.Ad)
		}
		if err != nil {
			slog.Warn("ignoring malformed setting", "key", key, "error", err)
		}
	}
	return out, nil
}

// decodeString keeps the current value when raw is empty.
func decodeString(raw json.RawMessage, dst *string) error {
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	if v != "" {
		*dst = v
	}
	return nil
}

// decodeInt accepts both JSON numbers and numeric strings.
func decodeInt(raw json.RawMessage, dst *int64) error {
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		*dst = n
		return nil
	}
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return err
	}
	n, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func (s *SettingsService) ReferralPoints(ctx context.Context) (int64, error) {
	st, err := s.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return st.ReferralPoints, nil
}

func (s *SettingsService) StartBalance(ctx context.Context) (int64, error) {
	st, err := s.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return st.StartBalance, nil
}

// Update validates raw for the setting at path and stores it. Nested paths
// such as "ad.text" rewrite one field of an object setting and keep its
// siblings.
func (s *SettingsService) Update(ctx context.Context, path, raw string) error {
	spec, ok := domain.LookupSetting(path)
	if !ok {
		return fmt.Errorf("setting %q: %w", path, domain.ErrUnknownField)
	}

	value, err := spec.Normalize(raw)
	if err != nil {
		return err
	}

	var encoded interface{} = value
	if spec.Kind == domain.KindInteger {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", spec.Label, domain.ErrInvalidInput)
		}
		encoded = n
	}

	err = s.store.UpdateSetting(ctx, spec.Key(), func(old json.RawMessage) (json.RawMessage, error) {
		fields := spec.Fields()
		if len(fields) == 0 {
			return json.Marshal(encoded)
		}
		return setNested(old, fields, encoded)
	})
	if err != nil {
		return fmt.Errorf("update setting %s: %w", path, err)
	}
	return nil
}

// setNested writes value at fields inside the JSON object old. A missing or
// non-object old value is replaced by a fresh object.
func setNested(old json.RawMessage, fields []string, value interface{}) (json.RawMessage, error) {
	root := map[string]interface{}{}
	if len(old) > 0 {
		if err := json.Unmarshal(old, &root); err != nil || root == nil {
			root = map[string]interface{}{}
		}
	}

	node := root
	for _, f := range fields[:len(fields)-1] {
		child, ok := node[f].(map[string]interface{})
		if !ok {
			child = map[string]interface{}{}
			node[f] = child
		}
		node = child
	}
	node[fields[len(fields)-1]] = value

	return json.Marshal(root)
}
