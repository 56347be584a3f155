package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// FieldKind determines how free-text input for a field is validated.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindInteger  FieldKind = "integer"
	KindDecimal  FieldKind = "decimal"
	KindChannel  FieldKind = "channel"
	KindURL      FieldKind = "url"
	KindCurrency FieldKind = "currency"
)

const maxTextLen = 1000

var (
	channelUsernameRe = regexp.MustCompile(`^@[A-Za-z][A-Za-z0-9_]{3,}$`)
	channelNumericRe  = regexp.MustCompile(`^-100\d{5,}$`)
	currencyRe        = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)
)

// FieldSpec describes one editable field of a task, opportunity or setting.
type FieldSpec struct {
	Name     string
	Label    string
	Kind     FieldKind
	Optional bool
}

// IsSkip reports whether input asks to leave an optional field empty.
func IsSkip(input string) bool {
	s := strings.ToLower(strings.TrimSpace(input))
	return s == "skip" || s == "-"
}

// Normalize validates raw input and returns its canonical string form.
func (f FieldSpec) Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if f.Optional && IsSkip(s) {
		return "", nil
	}
	if s == "" {
		return "", fmt.Errorf("%s is empty: %w", f.Label, ErrInvalidInput)
	}

	switch f.Kind {
	case KindText:
		if utf8.RuneCountInString(s) > maxTextLen {
			return "", fmt.Errorf("%s longer than %d characters: %w", f.Label, maxTextLen, ErrInvalidInput)
		}
		return s, nil

	case KindInteger:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 0 {
			return "", fmt.Errorf("%s must be a whole number >= 0: %w", f.Label, ErrInvalidInput)
		}
		return strconv.FormatInt(n, 10), nil

	case KindDecimal:
		d, err := decimal.NewFromString(s)
		if err != nil || d.IsNegative() {
			return "", fmt.Errorf("%s must be a number >= 0: %w", f.Label, ErrInvalidInput)
		}
		return d.String(), nil

	case KindChannel:
		if strings.HasPrefix(s, "https://t.me/") {
			s = "@" + strings.TrimPrefix(s, "https://t.me/")
		}
		if channelUsernameRe.MatchString(s) || channelNumericRe.MatchString(s) {
			return s, nil
		}
		return "", fmt.Errorf("%s must be @username or a -100… channel id: %w", f.Label, ErrInvalidInput)

	case KindURL:
		u, err := url.Parse(s)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return "", fmt.Errorf("%s must be an http(s) link: %w", f.Label, ErrInvalidInput)
		}
		return s, nil

	case KindCurrency:
		s = strings.ToUpper(s)
		if !currencyRe.MatchString(s) {
			return "", fmt.Errorf("%s must be a ticker like USDT: %w", f.Label, ErrInvalidInput)
		}
		return s, nil
	}

	return "", fmt.Errorf("field kind %q: %w", f.Kind, ErrUnknownField)
}

// LookupField finds a field spec by name.
func LookupField(specs []FieldSpec, name string) (FieldSpec, bool) {
	for _, s := range specs {
		if s.Name == name {
			return s, true
		}
	}
	return FieldSpec{}, false
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
