// Package conversation keeps the per-chat state of multi-step forms that are
// filled in with free-text replies.
package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/set-night/earnhub/internal/domain"
)

type Form string

const (
	FormWithdrawalDetail Form = "withdrawal_detail"
	FormAddTask          Form = "add_task"
	FormEditTask         Form = "edit_task"
	FormAddOpportunity   Form = "add_opportunity"
	FormEditOpportunity  Form = "edit_opportunity"
	FormEditSetting      Form = "edit_setting"
	FormSettleDeposit    Form = "settle_deposit"
)

// AdminOnly reports whether completing the form requires the admin role.
func (f Form) AdminOnly() bool {
	return f != FormWithdrawalDetail
}

var settleAmountField = domain.FieldSpec{Name: "amount", Label: "Credited amount", Kind: domain.KindDecimal}

// State is a pending form: which form, which field is awaited, and the
// values collected so far. A chat with no State is idle.
type State struct {
	Form      Form              `json:"form"`
	Step      int               `json:"step"`
	TargetID  int64             `json:"target_id,omitempty"`
	Key       string            `json:"key,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// New starts a form. TargetID is the edited entity; Key names the single
// field for edit forms, the withdrawal slot, or the setting path.
func New(form Form, targetID int64, key string) (*State, error) {
	s := &State{Form: form, TargetID: targetID, Key: key, Data: map[string]string{}}
	if len(s.Fields()) == 0 {
		return nil, fmt.Errorf("form %s key %q: %w", form, key, domain.ErrUnknownField)
	}
	return s, nil
}

// Fields returns the fields the form collects, in order.
func (s *State) Fields() []domain.FieldSpec {
	switch s.Form {
	case FormWithdrawalDetail:
		f := domain.WithdrawalField(s.Key)
		if !f.Valid() {
			return nil
		}
		return []domain.FieldSpec{{Name: s.Key, Label: f.Label(), Kind: domain.KindText}}
	case FormAddTask:
		return domain.TaskFields
	case FormEditTask:
		return single(domain.LookupField(domain.TaskFields, s.Key))
	case FormAddOpportunity:
		return domain.OpportunityFields
	case FormEditOpportunity:
		return single(domain.LookupField(domain.OpportunityFields, s.Key))
	case FormEditSetting:
		spec, ok := domain.LookupSetting(s.Key)
		return single(spec.FieldSpec, ok)
	case FormSettleDeposit:
		return []domain.FieldSpec{settleAmountField}
	}
	return nil
}

func single(spec domain.FieldSpec, ok bool) []domain.FieldSpec {
	if !ok {
		return nil
	}
	return []domain.FieldSpec{spec}
}

// Current returns the field awaiting input.
func (s *State) Current() domain.FieldSpec {
	fields := s.Fields()
	if s.Step < 0 || s.Step >= len(fields) {
		return domain.FieldSpec{}
	}
	return fields[s.Step]
}

// Prompt is the message asking for the current field.
func (s *State) Prompt() string {
	f := s.Current()
	var sb strings.Builder
	if n := len(s.Fields()); n > 1 {
		fmt.Fprintf(&sb, "(%d/%d) ", s.Step+1, n)
	}
	fmt.Fprintf(&sb, "Please enter the *%s*:", f.Label)
	if f.Optional {
		sb.WriteString("\nSend `skip` to leave it empty.")
	}
	sb.WriteString("\nSend `cancel` to abort.")
	return sb.String()
}

// Advance validates input for the current field. On success the value is
// stored and done reports whether every field has been collected. On
// invalid input the state is left unchanged and the error wraps
// domain.ErrInvalidInput.
func (s *State) Advance(input string) (done bool, err error) {
	fields := s.Fields()
	if s.Step >= len(fields) {
		return true, nil
	}
	value, err := fields[s.Step].Normalize(input)
	if err != nil {
		return false, err
	}
	if s.Data == nil {
		s.Data = map[string]string{}
	}
	s.Data[fields[s.Step].Name] = value
	s.Step++
	return s.Step >= len(fields), nil
}

// Value returns a collected value.
func (s *State) Value(name string) string {
	return s.Data[name]
}

// Expired reports whether the state outlived its TTL.
func (s *State) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// IsCancel reports whether a free-text reply aborts the pending form.
func IsCancel(input string) bool {
	s := strings.ToLower(strings.TrimSpace(input))
	return s == "cancel" || s == "/cancel"
}
