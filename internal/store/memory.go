package store

import (
	"context"
	"sync"

	"github.com/sango-bank/sango_bank/internal/bank"
)

type memoryRepository struct {
	mu       sync.RWMutex
	accounts []bank.Account
}

// NewMemoryRepository constructs an in-memory snapshot store for tests and
// database-less development runs.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Load(_ context.Context) ([]bank.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]bank.Account, len(r.accounts))
	copy(out, r.accounts)
	return out, nil
}

func (r *memoryRepository) Save(_ context.Context, accounts []bank.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = make([]bank.Account, len(accounts))
	copy(r.accounts, accounts)
	return nil
}
