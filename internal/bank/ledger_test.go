package bank

import (
	"fmt"
	"math"
	"sync"
	"testing"
)

const epsilon = 0.0001

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

// newTestLedger returns a ledger seeded with the two accounts used across
// most scenarios.
func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger(DefaultLoanCeiling)
	if err := l.AddAccount("Alice", 1000.0); err != nil {
		t.Fatalf("add Alice: %v", err)
	}
	if err := l.AddAccount("Bob", 500.0); err != nil {
		t.Fatalf("add Bob: %v", err)
	}
	return l
}

// checkAggregate recomputes total deposits from scratch and compares it to
// the incrementally maintained value: sum of balances minus outstanding loans.
func checkAggregate(t *testing.T, l *Ledger) {
	t.Helper()
	var want float64
	for _, a := range l.Snapshot() {
		if a.Balance < 0 {
			t.Fatalf("account %s has negative balance %f", a.Name, a.Balance)
		}
		if a.Loan < 0 {
			t.Fatalf("account %s has negative loan %f", a.Name, a.Loan)
		}
		want += a.Balance - a.Loan
	}
	if got := l.TotalDeposits(); !almostEqual(got, want) {
		t.Fatalf("aggregate drifted: maintained %f, recomputed %f", got, want)
	}
}

func TestAddAccountIncreasesTotalDeposits(t *testing.T) {
	l := newTestLedger(t)

	if err := l.AddAccount("Charlie", 300.0); err != nil {
		t.Fatalf("add Charlie: %v", err)
	}

	if got := l.TotalDeposits(); !almostEqual(got, 1800.0) {
		t.Fatalf("expected total 1800, got %f", got)
	}
	balance, err := l.Balance("Charlie")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !almostEqual(balance, 300.0) {
		t.Fatalf("expected balance 300, got %f", balance)
	}
	checkAggregate(t, l)
}

func TestAddAccountRejectsNegativeInitialBalance(t *testing.T) {
	l := newTestLedger(t)

	if err := l.AddAccount("Mallory", -1.0); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := l.Balance("Mallory"); err != ErrAccountNotFound {
		t.Fatalf("rejected account must not exist, got %v", err)
	}
	checkAggregate(t, l)
}

func TestAddAccountRejectsDuplicateName(t *testing.T) {
	l := newTestLedger(t)
	before := l.TotalDeposits()

	if err := l.AddAccount("Alice", 50.0); err != ErrDuplicateAccount {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}
	if got := l.TotalDeposits(); !almostEqual(got, before) {
		t.Fatalf("total changed on rejected creation: %f -> %f", before, got)
	}
}

func TestAddAccountRejectsEmptyName(t *testing.T) {
	l := NewLedger(0)
	if err := l.AddAccount("", 100.0); err != ErrInvalidName {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestAddAccountAllowsZeroInitialBalance(t *testing.T) {
	l := NewLedger(0)
	if err := l.AddAccount("Empty", 0.0); err != nil {
		t.Fatalf("zero initial balance must be valid: %v", err)
	}
	if got := l.TotalDeposits(); !almostEqual(got, 0.0) {
		t.Fatalf("expected total 0, got %f", got)
	}
}

func TestDepositUpdatesBalanceAndTotal(t *testing.T) {
	l := newTestLedger(t)

	if err := l.Deposit("Alice", 200.0); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	balance, _ := l.Balance("Alice")
	if !almostEqual(balance, 1200.0) {
		t.Fatalf("expected balance 1200, got %f", balance)
	}
	if got := l.TotalDeposits(); !almostEqual(got, 1700.0) {
		t.Fatalf("expected total 1700, got %f", got)
	}
	checkAggregate(t, l)
}

func TestDepositRejectsNonPositiveAmounts(t *testing.T) {
	l := newTestLedger(t)
	before := l.TotalDeposits()

	for _, amount := range []float64{-50.0, 0.0} {
		if err := l.Deposit("Alice", amount); err != ErrInvalidAmount {
			t.Fatalf("deposit %f: expected ErrInvalidAmount, got %v", amount, err)
		}
	}

	balance, _ := l.Balance("Alice")
	if !almostEqual(balance, 1000.0) {
		t.Fatalf("balance changed on rejected deposit: %f", balance)
	}
	if got := l.TotalDeposits(); !almostEqual(got, before) {
		t.Fatalf("total changed on rejected deposit: %f", got)
	}
}

func TestDepositUnknownAccount(t *testing.T) {
	l := newTestLedger(t)
	if err := l.Deposit("DoesNotExist", 10.0); err != ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestWithdrawUpdatesBalanceAndTotal(t *testing.T) {
	l := newTestLedger(t)
	before := l.TotalDeposits()

	if err := l.Withdraw("Bob", 300.0); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	balance, _ := l.Balance("Bob")
	if !almostEqual(balance, 200.0) {
		t.Fatalf("expected balance 200, got %f", balance)
	}
	if got := l.TotalDeposits(); !almostEqual(got, before-300.0) {
		t.Fatalf("expected total %f, got %f", before-300.0, got)
	}
	checkAggregate(t, l)
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	l := newTestLedger(t)
	before := l.TotalDeposits()

	if err := l.Withdraw("Alice", 2000.0); err != ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	balance, _ := l.Balance("Alice")
	if !almostEqual(balance, 1000.0) {
		t.Fatalf("balance changed on rejected withdrawal: %f", balance)
	}
	if got := l.TotalDeposits(); !almostEqual(got, before) {
		t.Fatalf("total changed on rejected withdrawal: %f", got)
	}
}

func TestWithdrawRejectsNonPositiveAmounts(t *testing.T) {
	l := newTestLedger(t)
	for _, amount := range []float64{-10.0, 0.0} {
		if err := l.Withdraw("Bob", amount); err != ErrInvalidAmount {
			t.Fatalf("withdraw %f: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestWithdrawExactBalance(t *testing.T) {
	l := newTestLedger(t)
	if err := l.Withdraw("Bob", 500.0); err != nil {
		t.Fatalf("withdrawing the full balance must succeed: %v", err)
	}
	balance, _ := l.Balance("Bob")
	if !almostEqual(balance, 0.0) {
		t.Fatalf("expected balance 0, got %f", balance)
	}
	checkAggregate(t, l)
}

func TestApproveLoanSetsLoanAndReducesTotal(t *testing.T) {
	l := newTestLedger(t)
	before := l.TotalDeposits()

	if err := l.ApproveLoan("Alice", 400.0); err != nil {
		t.Fatalf("approve loan: %v", err)
	}

	loan, err := l.Loan("Alice")
	if err != nil {
		t.Fatalf("loan: %v", err)
	}
	if !almostEqual(loan, 400.0) {
		t.Fatalf("expected loan 400, got %f", loan)
	}
	// The loan leaves the deposit pool; the account balance is untouched.
	balance, _ := l.Balance("Alice")
	if !almostEqual(balance, 1000.0) {
		t.Fatalf("balance must not change on loan approval, got %f", balance)
	}
	if got := l.TotalDeposits(); !almostEqual(got, before-400.0) {
		t.Fatalf("expected total %f, got %f", before-400.0, got)
	}
	checkAggregate(t, l)
}

func TestApproveLoanRespectsCeiling(t *testing.T) {
	l := NewLedger(1000.0)
	if err := l.AddAccount("Alice", 1000.0); err != nil {
		t.Fatalf("add account: %v", err)
	}

	if err := l.ApproveLoan("Alice", 1000.0); err != nil {
		t.Fatalf("loan at the ceiling must succeed: %v", err)
	}
	if err := l.ApproveLoan("Alice", 1000.5); err != ErrLoanLimitExceeded {
		t.Fatalf("expected ErrLoanLimitExceeded, got %v", err)
	}

	loan, _ := l.Loan("Alice")
	if !almostEqual(loan, 1000.0) {
		t.Fatalf("loan changed on rejected approval: %f", loan)
	}
	checkAggregate(t, l)
}

func TestRepayLoanReducesLoanAndRestoresTotal(t *testing.T) {
	l := newTestLedger(t)
	if err := l.ApproveLoan("Alice", 400.0); err != nil {
		t.Fatalf("approve loan: %v", err)
	}
	before := l.TotalDeposits()

	if err := l.RepayLoan("Alice", 150.0); err != nil {
		t.Fatalf("repay loan: %v", err)
	}

	loan, _ := l.Loan("Alice")
	if !almostEqual(loan, 250.0) {
		t.Fatalf("expected loan 250, got %f", loan)
	}
	if got := l.TotalDeposits(); !almostEqual(got, before+150.0) {
		t.Fatalf("expected total %f, got %f", before+150.0, got)
	}
	checkAggregate(t, l)
}

func TestRepayMoreThanOutstandingLoan(t *testing.T) {
	l := newTestLedger(t)
	if err := l.ApproveLoan("Alice", 300.0); err != nil {
		t.Fatalf("approve loan: %v", err)
	}
	before := l.TotalDeposits()

	if err := l.RepayLoan("Alice", 500.0); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	loan, _ := l.Loan("Alice")
	if !almostEqual(loan, 300.0) {
		t.Fatalf("loan changed on rejected repayment: %f", loan)
	}
	if got := l.TotalDeposits(); !almostEqual(got, before) {
		t.Fatalf("total changed on rejected repayment: %f", got)
	}
}

func TestLoanRoundTripRestoresState(t *testing.T) {
	l := newTestLedger(t)
	beforeTotal := l.TotalDeposits()

	if err := l.ApproveLoan("Bob", 250.0); err != nil {
		t.Fatalf("approve loan: %v", err)
	}
	if err := l.RepayLoan("Bob", 250.0); err != nil {
		t.Fatalf("repay loan: %v", err)
	}

	loan, _ := l.Loan("Bob")
	if !almostEqual(loan, 0.0) {
		t.Fatalf("expected loan fully repaid, got %f", loan)
	}
	if got := l.TotalDeposits(); !almostEqual(got, beforeTotal) {
		t.Fatalf("expected total restored to %f, got %f", beforeTotal, got)
	}
	checkAggregate(t, l)
}

func TestDepositWithdrawRoundTrip(t *testing.T) {
	l := newTestLedger(t)
	beforeBalance, _ := l.Balance("Alice")
	beforeTotal := l.TotalDeposits()

	for _, amount := range []float64{50.0, 100.0, 150.0} {
		if err := l.Deposit("Alice", amount); err != nil {
			t.Fatalf("deposit %f: %v", amount, err)
		}
		if err := l.Withdraw("Alice", amount); err != nil {
			t.Fatalf("withdraw %f: %v", amount, err)
		}
	}

	balance, _ := l.Balance("Alice")
	if !almostEqual(balance, beforeBalance) {
		t.Fatalf("expected balance restored to %f, got %f", beforeBalance, balance)
	}
	if got := l.TotalDeposits(); !almostEqual(got, beforeTotal) {
		t.Fatalf("expected total restored to %f, got %f", beforeTotal, got)
	}
}

func TestQueriesForMissingAccount(t *testing.T) {
	l := newTestLedger(t)

	if _, err := l.Balance("DoesNotExist"); err != ErrAccountNotFound {
		t.Fatalf("balance: expected ErrAccountNotFound, got %v", err)
	}
	if _, err := l.Loan("DoesNotExist"); err != ErrAccountNotFound {
		t.Fatalf("loan: expected ErrAccountNotFound, got %v", err)
	}
}

func TestLoanIsZeroForNewAccount(t *testing.T) {
	l := newTestLedger(t)
	loan, err := l.Loan("Alice")
	if err != nil {
		t.Fatalf("loan: %v", err)
	}
	if !almostEqual(loan, 0.0) {
		t.Fatalf("expected zero loan, got %f", loan)
	}
}

func TestEmptyLedgerTotalDeposits(t *testing.T) {
	l := NewLedger(0)
	if got := l.TotalDeposits(); got != 0 {
		t.Fatalf("expected 0 for empty ledger, got %f", got)
	}
}

func TestManyAlternatingCyclesLeaveBalanceUnchanged(t *testing.T) {
	l := newTestLedger(t)
	beforeBalance, _ := l.Balance("Alice")

	for i := 0; i < 1_000; i++ {
		if err := l.Deposit("Alice", 1.0); err != nil {
			t.Fatalf("cycle %d deposit: %v", i, err)
		}
		if err := l.Withdraw("Alice", 1.0); err != nil {
			t.Fatalf("cycle %d withdraw: %v", i, err)
		}
	}

	balance, _ := l.Balance("Alice")
	if !almostEqual(balance, beforeBalance) {
		t.Fatalf("expected balance %f after 1000 cycles, got %f", beforeBalance, balance)
	}
	checkAggregate(t, l)
}

func TestConcurrentMutationsKeepAggregateConsistent(t *testing.T) {
	l := NewLedger(0)
	const workers = 10
	const rounds = 100

	for i := 0; i < workers; i++ {
		if err := l.AddAccount(fmt.Sprintf("acct-%d", i), 1_000.0); err != nil {
			t.Fatalf("add account %d: %v", i, err)
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("acct-%d", i)
			for r := 0; r < rounds; r++ {
				if err := l.Deposit(name, 5.0); err != nil {
					t.Errorf("deposit %s: %v", name, err)
				}
				if err := l.Withdraw(name, 5.0); err != nil {
					t.Errorf("withdraw %s: %v", name, err)
				}
				if err := l.ApproveLoan(name, 2.0); err != nil {
					t.Errorf("approve %s: %v", name, err)
				}
				if err := l.RepayLoan(name, 2.0); err != nil {
					t.Errorf("repay %s: %v", name, err)
				}
			}
		}(i)
	}
	wg.Wait()

	if got := l.TotalDeposits(); !almostEqual(got, workers*1_000.0) {
		t.Fatalf("expected total %f after balanced concurrent cycles, got %f", workers*1_000.0, got)
	}
	checkAggregate(t, l)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	l := newTestLedger(t)
	if err := l.ApproveLoan("Alice", 400.0); err != nil {
		t.Fatalf("approve loan: %v", err)
	}
	wantTotal := l.TotalDeposits()

	restored := NewLedger(DefaultLoanCeiling)
	restored.Restore(l.Snapshot())

	balance, err := restored.Balance("Alice")
	if err != nil {
		t.Fatalf("balance after restore: %v", err)
	}
	if !almostEqual(balance, 1000.0) {
		t.Fatalf("expected balance 1000 after restore, got %f", balance)
	}
	loan, _ := restored.Loan("Alice")
	if !almostEqual(loan, 400.0) {
		t.Fatalf("expected loan 400 after restore, got %f", loan)
	}
	if got := restored.TotalDeposits(); !almostEqual(got, wantTotal) {
		t.Fatalf("expected total %f after restore, got %f", wantTotal, got)
	}
	checkAggregate(t, restored)
}
