package domain

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrTaskNotFound        = errors.New("task not found")
	ErrOpportunityNotFound = errors.New("opportunity not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTaskAlreadyDone     = errors.New("task already completed")
	ErrNotMember           = errors.New("not a channel member")
	ErrMembershipUnknown   = errors.New("membership could not be verified")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAlreadySettled      = errors.New("transaction already settled")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnknownField        = errors.New("unknown field")
	ErrUnknownAction       = errors.New("unknown action")
	ErrForbidden           = errors.New("admin role required")
	ErrNoConversation      = errors.New("no pending conversation")
)
