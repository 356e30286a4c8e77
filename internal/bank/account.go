package bank

// Account is a named balance-and-loan record. Accounts exist only inside a
// Ledger; callers always receive value copies.
type Account struct {
	Name    string
	Balance float64
	Loan    float64
}
