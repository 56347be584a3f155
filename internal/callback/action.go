// Package callback parses inline-button data into typed actions and builds
// the data strings carried by buttons.
package callback

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/set-night/earnhub/internal/domain"
)

type Kind string

const (
	KindJoinVerify        Kind = "join_verify"
	KindMainMenu          Kind = "main_menu"
	KindHome              Kind = "home"
	KindTasks             Kind = "tasks"
	KindRefer             Kind = "refer"
	KindEarn              Kind = "earn"
	KindWithdrawalSetup   Kind = "withdrawal_setup"
	KindWithdrawalDetails Kind = "withdrawal_details"
	KindSetWithdrawal     Kind = "set_withdrawal"
	KindCancel            Kind = "cancel"
	KindNoop              Kind = "noop"

	KindClaimTask       Kind = "claim_task"
	KindDeposit         Kind = "deposit"
	KindConfirmDeposit  Kind = "confirm_deposit"
	KindWithdraw        Kind = "withdraw"
	KindConfirmWithdraw Kind = "confirm_withdraw"

	KindAdmin                    Kind = "admin"
	KindAdminTasks               Kind = "admin_tasks"
	KindAdminAddTask             Kind = "admin_add_task"
	KindAdminOpportunities       Kind = "admin_opportunities"
	KindAdminAddOpportunity      Kind = "admin_add_opportunity"
	KindAdminSettings            Kind = "admin_settings"
	KindAdminTransactions        Kind = "admin_transactions"
	KindAdminTransactionsPage    Kind = "admin_transactions_page"
	KindEditTask                 Kind = "edit_task"
	KindEditTaskField            Kind = "edit_task_field"
	KindDeleteTask               Kind = "delete_task"
	KindConfirmDeleteTask        Kind = "confirm_delete_task"
	KindEditOpportunity          Kind = "edit_opportunity"
	KindEditOpportunityField     Kind = "edit_opportunity_field"
	KindDeleteOpportunity        Kind = "delete_opportunity"
	KindConfirmDeleteOpportunity Kind = "confirm_delete_opportunity"
	KindEditSetting              Kind = "edit_setting"
	KindSettleTx                 Kind = "settle_tx"
)

// Action is a parsed button press. ID is the embedded entity id; Field is
// the embedded field name, withdrawal slot or setting path.
type Action struct {
	Kind  Kind
	ID    int64
	Field string
}

// Admin reports whether the action is restricted to admins.
func (a Action) Admin() bool {
	for _, r := range routes {
		if r.kind == a.Kind {
			return r.admin
		}
	}
	return false
}

type shape int

const (
	shapeExact   shape = iota
	shapeID            // <token><id>
	shapeIDField       // <token><id>_<field>
	shapeKey           // <token><field>
)

type route struct {
	token string
	kind  Kind
	shape shape
	field string // preset field for exact routes
	admin bool
}

var routes = []route{
	{token: "verify", kind: KindJoinVerify},
	{token: "main_menu", kind: KindMainMenu},
	{token: "home", kind: KindHome},
	{token: "tasks", kind: KindTasks},
	{token: "refer", kind: KindRefer},
	{token: "earn", kind: KindEarn},
	{token: "withdrawal", kind: KindWithdrawalSetup},
	{token: "view_withdrawal_details", kind: KindWithdrawalDetails},
	{token: "set_exchange_id", kind: KindSetWithdrawal, field: string(domain.WithdrawalExchangeID)},
	{token: "set_crypto_address", kind: KindSetWithdrawal, field: string(domain.WithdrawalCryptoAddress)},
	{token: "set_bank_details", kind: KindSetWithdrawal, field: string(domain.WithdrawalBankDetails)},
	{token: "cancel", kind: KindCancel},
	{token: "noop", kind: KindNoop},

	{token: "verify_", kind: KindClaimTask, shape: shapeID},
	{token: "deposit_", kind: KindDeposit, shape: shapeID},
	{token: "confirm_deposit_", kind: KindConfirmDeposit, shape: shapeID},
	{token: "withdraw_", kind: KindWithdraw, shape: shapeID},
	{token: "confirm_withdraw_", kind: KindConfirmWithdraw, shape: shapeID},

	{token: "admin", kind: KindAdmin, admin: true},
	{token: "admin_tasks", kind: KindAdminTasks, admin: true},
	{token: "admin_add_task", kind: KindAdminAddTask, admin: true},
	{token: "admin_opportunities", kind: KindAdminOpportunities, admin: true},
	{token: "admin_add_opportunity", kind: KindAdminAddOpportunity, admin: true},
	{token: "admin_settings", kind: KindAdminSettings, admin: true},
	{token: "admin_transactions", kind: KindAdminTransactions, admin: true},
	{token: "admin_transactions_", kind: KindAdminTransactionsPage, shape: shapeID, admin: true}, // 1-based page
	{token: "edit_task_", kind: KindEditTask, shape: shapeID, admin: true},
	{token: "edit_field_task_", kind: KindEditTaskField, shape: shapeIDField, admin: true},
	{token: "delete_task_", kind: KindDeleteTask, shape: shapeID, admin: true},
	{token: "confirm_delete_task_", kind: KindConfirmDeleteTask, shape: shapeID, admin: true},
	{token: "opportunity_", kind: KindEditOpportunity, shape: shapeID, admin: true},
	{token: "edit_field_opportunity_", kind: KindEditOpportunityField, shape: shapeIDField, admin: true},
	{token: "delete_opportunity_", kind: KindDeleteOpportunity, shape: shapeID, admin: true},
	{token: "confirm_delete_opportunity_", kind: KindConfirmDeleteOpportunity, shape: shapeID, admin: true},
	{token: "edit_setting_", kind: KindEditSetting, shape: shapeKey, admin: true},
	{token: "settle_tx_", kind: KindSettleTx, shape: shapeID, admin: true},
}

var (
	exact    = make(map[string]route)
	prefixes []route
)

func init() {
	for _, r := range routes {
		if r.shape == shapeExact {
			exact[r.token] = r
			continue
		}
		prefixes = append(prefixes, r)
	}
	// Longest prefix first, so a prefix that starts another can never shadow it.
	sort.SliceStable(prefixes, func(i, j int) bool {
		return len(prefixes[i].token) > len(prefixes[j].token)
	})
}

// Parse turns button data into an Action. Unknown or malformed data
// returns an error wrapping domain.ErrUnknownAction.
func Parse(data string) (Action, error) {
	if r, ok := exact[data]; ok {
		return Action{Kind: r.kind, Field: r.field}, nil
	}

	for _, r := range prefixes {
		rest, ok := strings.CutPrefix(data, r.token)
		if !ok {
			continue
		}
		switch r.shape {
		case shapeID:
			id, err := parseID(rest)
			if err != nil {
				return Action{}, fmt.Errorf("%q: %w", data, domain.ErrUnknownAction)
			}
			return Action{Kind: r.kind, ID: id}, nil

		case shapeIDField:
			idPart, field, found := strings.Cut(rest, "_")
			id, err := parseID(idPart)
			if !found || field == "" || err != nil {
				return Action{}, fmt.Errorf("%q: %w", data, domain.ErrUnknownAction)
			}
			return Action{Kind: r.kind, ID: id, Field: field}, nil

		case shapeKey:
			if rest == "" {
				return Action{}, fmt.Errorf("%q: %w", data, domain.ErrUnknownAction)
			}
			return Action{Kind: r.kind, Field: rest}, nil
		}
	}

	return Action{}, fmt.Errorf("%q: %w", data, domain.ErrUnknownAction)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("non-positive id %d", id)
	}
	return id, nil
}

// String encodes the action as button data.
func (a Action) String() string {
	for _, r := range routes {
		if r.kind != a.Kind {
			continue
		}
		switch r.shape {
		case shapeExact:
			if r.field == a.Field {
				return r.token
			}
		case shapeID:
			return r.token + strconv.FormatInt(a.ID, 10)
		case shapeIDField:
			return r.token + strconv.FormatInt(a.ID, 10) + "_" + a.Field
		case shapeKey:
			return r.token + a.Field
		}
	}
	return ""
}

// Data builds button data for an action without parameters.
func Data(kind Kind) string {
	return Action{Kind: kind}.String()
}

// WithID builds button data for an action on one entity.
func WithID(kind Kind, id int64) string {
	return Action{Kind: kind, ID: id}.String()
}

// WithField builds button data for an action on one field of an entity, or
// on a withdrawal slot / setting path when id is zero.
func WithField(kind Kind, id int64, field string) string {
	return Action{Kind: kind, ID: id, Field: field}.String()
}
