package domain

import "github.com/shopspring/decimal"

// Account is a ledger entry with a unique id and a non-negative balance.
// Account values are immutable; balance changes go through WithBalance so a
// stored account is always replaced wholesale, never patched in place.
type Account struct {
	ID      string          `json:"account_id"`
	Balance decimal.Decimal `json:"balance"`
}

// NewAccount creates an account with the given id and starting balance.
func NewAccount(id string, balance decimal.Decimal) Account {
	return Account{ID: id, Balance: balance}
}

// WithBalance returns a copy of the account carrying the new balance.
func (a Account) WithBalance(balance decimal.Decimal) Account {
	return Account{ID: a.ID, Balance: balance}
}

// TransferRequest asks to move a positive amount from one account to another.
// It is a transient value object and is never persisted.
type TransferRequest struct {
	SourceAccountID      string          `json:"source_account_id"`
	DestinationAccountID string          `json:"destination_account_id"`
	Amount               decimal.Decimal `json:"amount"`
}
