package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a transfer or account failure. The first four kinds are
// caller errors: state is guaranteed unchanged and retrying without
// correcting the request will fail again. KindInternal covers everything
// unexpected; balances are still unchanged but no detail reaches the caller.
type Kind int

const (
	KindUnknown Kind = iota
	KindAccountNotFound
	KindInsufficientFunds
	KindInvalidArgument
	KindDuplicateAccount
	KindInternal
)

// String returns a stable name for the kind, used in logs and metrics labels.
func (k Kind) String() string {
	switch k {
	case KindAccountNotFound:
		return "account_not_found"
	case KindInsufficientFunds:
		return "insufficient_funds"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindDuplicateAccount:
		return "duplicate_account"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the single failure type raised by the store and the engine.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// ErrAccountNotFound reports that the referenced account id does not exist.
func ErrAccountNotFound(accountID string) *Error {
	return &Error{Kind: KindAccountNotFound, Message: fmt.Sprintf("account not found: %s", accountID)}
}

// ErrInsufficientFunds reports that the source balance cannot cover the amount.
func ErrInsufficientFunds(accountID string) *Error {
	return &Error{Kind: KindInsufficientFunds, Message: fmt.Sprintf("insufficient funds in account: %s", accountID)}
}

// ErrInvalidArgument reports a request that fails validation.
func ErrInvalidArgument(msg string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: msg}
}

// ErrDuplicateAccount reports an attempt to create an account id that exists.
func ErrDuplicateAccount(accountID string) *Error {
	return &Error{Kind: KindDuplicateAccount, Message: fmt.Sprintf("account id already exists: %s", accountID)}
}

// KindOf extracts the failure kind from an error chain. Errors that do not
// carry a Kind classify as KindInternal: the boundary must not leak them.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsCallerError reports whether the failure is client-correctable.
func IsCallerError(err error) bool {
	switch KindOf(err) {
	case KindAccountNotFound, KindInsufficientFunds, KindInvalidArgument, KindDuplicateAccount:
		return true
	default:
		return false
	}
}
