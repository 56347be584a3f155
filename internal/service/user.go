package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/set-night/earnhub/internal/config"
	"github.com/set-night/earnhub/internal/domain"
)

const maxWithdrawalDetailLen = 256

type UserService struct {
	store    UserStore
	settings *SettingsService
	cfg      *config.Config
}

func NewUserService(store UserStore, settings *SettingsService, cfg *config.Config) *UserService {
	return &UserService{store: store, settings: settings, cfg: cfg}
}

// FindOrCreate loads the user behind an update, registering it with the
// configured starting balance on first contact. Profile changes are written
// back and configured admins are promoted. created reports a new registration.
func (s *UserService) FindOrCreate(ctx context.Context, profile domain.NewUser) (*domain.User, bool, error) {
	user, err := s.store.GetUser(ctx, profile.ID)
	if err == nil {
		if err := s.sync(ctx, user, profile); err != nil {
			return nil, false, err
		}
		return user, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, fmt.Errorf("get user: %w", err)
	}

	balance, err := s.settings.StartBalance(ctx)
	if err != nil {
		return nil, false, err
	}
	profile.Balance = balance
	profile.Role = domain.RoleUser
	if s.cfg.IsAdmin(profile.ID) {
		profile.Role = domain.RoleAdmin
	}

	// A concurrent update may have registered the user first; created is
	// then false and the existing row wins.
	created, err := s.store.CreateUser(ctx, profile)
	if err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}

	user, err = s.store.GetUser(ctx, profile.ID)
	if err != nil {
		return nil, false, fmt.Errorf("get created user: %w", err)
	}
	return user, created, nil
}

func (s *UserService) sync(ctx context.Context, user *domain.User, profile domain.NewUser) error {
	if user.Username != profile.Username || user.FirstName != profile.FirstName || user.LastName != profile.LastName {
		if err := s.store.UpdateUserProfile(ctx, user.ID, profile.Username, profile.FirstName, profile.LastName); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		user.Username, user.FirstName, user.LastName = profile.Username, profile.FirstName, profile.LastName
	}

	if !user.IsAdmin() && s.cfg.IsAdmin(user.ID) {
		if err := s.store.SetUserRole(ctx, user.ID, domain.RoleAdmin); err != nil {
			return fmt.Errorf("promote admin: %w", err)
		}
		user.Role = domain.RoleAdmin
	}
	return nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.store.GetUser(ctx, id)
}

// SetWithdrawalDetail stores one withdrawal detail slot.
func (s *UserService) SetWithdrawalDetail(ctx context.Context, userID int64, field domain.WithdrawalField, value string) error {
	if !field.Valid() {
		return fmt.Errorf("withdrawal field %q: %w", field, domain.ErrUnknownField)
	}
	value = strings.TrimSpace(value)
	if value == "" || utf8.RuneCountInString(value) > maxWithdrawalDetailLen {
		return fmt.Errorf("%s: %w", field.Label(), domain.ErrInvalidInput)
	}
	return s.store.SetWithdrawalDetail(ctx, userID, field, value)
}
