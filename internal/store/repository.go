package store

import (
	"context"

	"github.com/sango-bank/sango_bank/internal/bank"
)

// Repository persists ledger snapshots between process runs. The ledger
// itself stays memory-resident; a snapshot is loaded once at boot and saved
// on graceful shutdown.
type Repository interface {
	Load(ctx context.Context) ([]bank.Account, error)
	Save(ctx context.Context, accounts []bank.Account) error
}
