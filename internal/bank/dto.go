package bank

// CreateAccountRequest captures data to open a new account.
type CreateAccountRequest struct {
	Name           string  `json:"name"`
	InitialBalance float64 `json:"initial_balance"`
}

// AmountRequest carries the amount for deposit, withdrawal and loan operations.
type AmountRequest struct {
	Amount float64 `json:"amount"`
}

// AccountResponse represents the API view of an account.
type AccountResponse struct {
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
	Loan    float64 `json:"loan"`
}
