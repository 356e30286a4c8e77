package bank

import "sync"

// DefaultLoanCeiling is the per-request loan cap used when no ceiling is
// configured. Expressed in currency units.
const DefaultLoanCeiling = 10_000.0

// Ledger owns the full set of accounts and the bank-wide total-deposits
// aggregate. One lock guards both: every mutating operation touches an
// individual account and the aggregate, and the two updates must never be
// visible separately.
type Ledger struct {
	mu            sync.RWMutex
	accounts      map[string]*Account
	totalDeposits float64
	loanCeiling   float64
}

// NewLedger creates an empty ledger with the given per-request loan ceiling.
// A non-positive ceiling falls back to DefaultLoanCeiling.
func NewLedger(loanCeiling float64) *Ledger {
	if loanCeiling <= 0 {
		loanCeiling = DefaultLoanCeiling
	}
	return &Ledger{
		accounts:    make(map[string]*Account),
		loanCeiling: loanCeiling,
	}
}

// AddAccount creates an account with the given initial balance and no loan.
// The initial balance counts toward total deposits.
func (l *Ledger) AddAccount(name string, initialBalance float64) error {
	if name == "" {
		return ErrInvalidName
	}
	if initialBalance < 0 {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.accounts[name]; exists {
		return ErrDuplicateAccount
	}

	l.accounts[name] = &Account{Name: name, Balance: initialBalance}
	l.totalDeposits += initialBalance
	return nil
}

// Deposit adds a positive amount to the account balance and to total deposits.
func (l *Ledger) Deposit(name string, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.accounts[name]
	if !ok {
		return ErrAccountNotFound
	}

	a.Balance += amount
	l.totalDeposits += amount
	return nil
}

// Withdraw removes a positive amount from the account balance and from total
// deposits. The balance must cover the full amount.
func (l *Ledger) Withdraw(name string, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.accounts[name]
	if !ok {
		return ErrAccountNotFound
	}
	if amount > a.Balance {
		return ErrInsufficientFunds
	}

	a.Balance -= amount
	l.totalDeposits -= amount
	return nil
}

// ApproveLoan increases the account's outstanding loan and decreases total
// deposits by the same amount: the loan is funded from the bank's deposit
// pool. The account balance is not touched. Requests above the configured
// ceiling are rejected.
func (l *Ledger) ApproveLoan(name string, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > l.loanCeiling {
		return ErrLoanLimitExceeded
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.accounts[name]
	if !ok {
		return ErrAccountNotFound
	}

	a.Loan += amount
	l.totalDeposits -= amount
	return nil
}

// RepayLoan reduces the account's outstanding loan and returns the amount to
// total deposits. Repaying more than the outstanding loan is an invalid
// amount, not an insufficient-funds condition.
func (l *Ledger) RepayLoan(name string, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.accounts[name]
	if !ok {
		return ErrAccountNotFound
	}
	if amount > a.Loan {
		return ErrInvalidAmount
	}

	a.Loan -= amount
	l.totalDeposits += amount
	return nil
}

// Balance returns the current balance for an existing account.
func (l *Ledger) Balance(name string) (float64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	a, ok := l.accounts[name]
	if !ok {
		return 0, ErrAccountNotFound
	}
	return a.Balance, nil
}

// Loan returns the outstanding loan for an existing account. Zero for any
// account without an active loan.
func (l *Ledger) Loan(name string) (float64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	a, ok := l.accounts[name]
	if !ok {
		return 0, ErrAccountNotFound
	}
	return a.Loan, nil
}

// TotalDeposits returns the bank-wide aggregate. It is maintained
// incrementally and equals the sum of all balances minus all outstanding
// loans. Zero for an empty ledger; never fails.
func (l *Ledger) TotalDeposits() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalDeposits
}

// LoanCeiling reports the configured per-request loan cap.
func (l *Ledger) LoanCeiling() float64 {
	return l.loanCeiling
}

// Snapshot returns value copies of every account, suitable for persistence.
func (l *Ledger) Snapshot() []Account {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Account, 0, len(l.accounts))
	for _, a := range l.accounts {
		out = append(out, *a)
	}
	return out
}

// Restore replaces the ledger contents with the given accounts and rebuilds
// the total-deposits aggregate from them.
func (l *Ledger) Restore(accounts []Account) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.accounts = make(map[string]*Account, len(accounts))
	l.totalDeposits = 0
	for _, a := range accounts {
		cp := a
		l.accounts[cp.Name] = &cp
		l.totalDeposits += cp.Balance - cp.Loan
	}
}
