package identity

import "time"

// Operator represents a bank employee allowed to mutate the ledger.
type Operator struct {
	ID           string
	Username     string
	Role         string
	PINHash      []byte
	TokenVersion int
	CreatedAt    time.Time
}

// Credentials carries a login attempt.
type Credentials struct {
	Username string
	PIN      string
}
