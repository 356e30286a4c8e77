package store

import (
	"context"
	"testing"

	"github.com/sango-bank/sango_bank/internal/bank"
)

func TestMemoryRepositoryRoundTrip(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	initial, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if len(initial) != 0 {
		t.Fatalf("expected empty snapshot, got %d accounts", len(initial))
	}

	want := []bank.Account{
		{Name: "Alice", Balance: 1000.0, Loan: 400.0},
		{Name: "Bob", Balance: 500.0},
	}
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d accounts, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("account %d mismatch: %+v != %+v", i, got[i], want[i])
		}
	}

	// The snapshot handed back must be a copy, not shared state.
	got[0].Balance = 1
	again, _ := repo.Load(ctx)
	if again[0].Balance != 1000.0 {
		t.Fatalf("repository leaked internal state")
	}
}

func TestMemoryRepositoryFeedsLedgerRestore(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	source := bank.NewLedger(0)
	if err := source.AddAccount("Alice", 1000.0); err != nil {
		t.Fatalf("add account: %v", err)
	}
	if err := source.ApproveLoan("Alice", 200.0); err != nil {
		t.Fatalf("approve loan: %v", err)
	}
	if err := repo.Save(ctx, source.Snapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}

	accounts, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	restored := bank.NewLedger(0)
	restored.Restore(accounts)

	if got := restored.TotalDeposits(); got != source.TotalDeposits() {
		t.Fatalf("expected total %f after restore, got %f", source.TotalDeposits(), got)
	}
}
