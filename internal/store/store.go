package store

import (
	"sync"

	"github.com/nathanyu/balance-transfer/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountStore is the in-memory registry of accounts. It is the only shared
// mutable resource in the process: account values are replaced wholesale
// under the write lock, and UpdatePair replaces both sides of a transfer in
// one locked section so plain reads never observe a half-applied transfer.
type AccountStore struct {
	accounts map[string]domain.Account
	mu       sync.RWMutex
}

// NewAccountStore creates an empty account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts: make(map[string]domain.Account),
	}
}

// Create inserts a new account. It fails with a duplicate-account error if
// the id is already taken; on success the account is visible to all
// subsequent reads.
func (s *AccountStore) Create(account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.ID]; exists {
		return domain.ErrDuplicateAccount(account.ID)
	}

	s.accounts[account.ID] = account
	return nil
}

// Get returns the current snapshot of the account. Absence is a normal
// outcome, reported through the second return value.
func (s *AccountStore) Get(id string) (domain.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, exists := s.accounts[id]
	return account, exists
}

// Update replaces the stored value for the account's id with the given
// snapshot. The id is assumed to exist; only the engine calls this, after
// validation.
func (s *AccountStore) Update(account domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.ID] = account
}

// UpdatePair replaces both snapshots under a single write lock, in argument
// order. When both carry the same id the second replacement wins, which is
// what a net-zero self-transfer needs.
func (s *AccountStore) UpdatePair(first, second domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[first.ID] = first
	s.accounts[second.ID] = second
}

// All returns a copy of every account keyed by id.
func (s *AccountStore) All() map[string]domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]domain.Account, len(s.accounts))
	for id, account := range s.accounts {
		result[id] = account
	}
	return result
}

// Count returns the number of accounts.
func (s *AccountStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

// TotalBalance returns the sum of all account balances.
func (s *AccountStore) TotalBalance() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, account := range s.accounts {
		total = total.Add(account.Balance)
	}
	return total
}

// Clear removes all accounts. Test/reset hook, not used in production flows.
func (s *AccountStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = make(map[string]domain.Account)
}
