package identity

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu        sync.RWMutex
	operators map[string]Operator
}

// NewMemoryRepository builds an in-memory operator store for tests and
// database-less development runs.
func NewMemoryRepository() Repository {
	return &memoryRepository{operators: make(map[string]Operator)}
}

func (r *memoryRepository) Create(_ context.Context, op Operator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.operators[op.Username]; exists {
		return ErrOperatorExists
	}
	r.operators[op.Username] = op
	return nil
}

func (r *memoryRepository) FindByUsername(_ context.Context, username string) (Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.operators[username]
	if !ok {
		return Operator{}, ErrOperatorNotFound
	}
	return op, nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, op := range r.operators {
		if op.ID == id {
			return op, nil
		}
	}
	return Operator{}, ErrOperatorNotFound
}

func (r *memoryRepository) UpdateTokenVersion(_ context.Context, id string, version int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for username, op := range r.operators {
		if op.ID == id {
			op.TokenVersion = version
			r.operators[username] = op
			return nil
		}
	}
	return ErrOperatorNotFound
}
