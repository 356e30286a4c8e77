package bank

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/sango-bank/sango_bank/internal/notification"
)

// Handler exposes ledger operations over HTTP.
type Handler struct {
	ledger   *Ledger
	notifier notification.Notifier
}

// NewHandler constructs an account handler.
func NewHandler(ledger *Ledger, notifier notification.Notifier) *Handler {
	return &Handler{ledger: ledger, notifier: notifier}
}

// Create opens a new account with an initial balance.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	if err := h.ledger.AddAccount(req.Name, req.InitialBalance); err != nil {
		return mapLedgerError(err)
	}

	return c.Status(http.StatusCreated).JSON(AccountResponse{
		Name:    req.Name,
		Balance: req.InitialBalance,
	})
}

// Deposit credits an account.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	name := c.Params("name")
	var req AmountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	if err := h.ledger.Deposit(name, req.Amount); err != nil {
		return mapLedgerError(err)
	}

	return h.accountJSON(c, http.StatusOK, name)
}

// Withdraw debits an account.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	name := c.Params("name")
	var req AmountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	if err := h.ledger.Withdraw(name, req.Amount); err != nil {
		return mapLedgerError(err)
	}

	return h.accountJSON(c, http.StatusOK, name)
}

// ApproveLoan grants a loan against the bank's deposit pool.
func (h *Handler) ApproveLoan(c *fiber.Ctx) error {
	name := c.Params("name")
	var req AmountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	if err := h.ledger.ApproveLoan(name, req.Amount); err != nil {
		return mapLedgerError(err)
	}

	if h.notifier != nil {
		_ = h.notifier.Send(c.UserContext(), notification.Message{
			Kind:        notification.KindLoanApproved,
			Destination: name,
			Body:        fmt.Sprintf("Loan of %.2f approved for account %s", req.Amount, name),
		})
	}

	return h.accountJSON(c, http.StatusCreated, name)
}

// RepayLoan pays down an outstanding loan.
func (h *Handler) RepayLoan(c *fiber.Ctx) error {
	name := c.Params("name")
	var req AmountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	if err := h.ledger.RepayLoan(name, req.Amount); err != nil {
		return mapLedgerError(err)
	}

	if h.notifier != nil {
		_ = h.notifier.Send(c.UserContext(), notification.Message{
			Kind:        notification.KindLoanRepaid,
			Destination: name,
			Body:        fmt.Sprintf("Repayment of %.2f received on account %s", req.Amount, name),
		})
	}

	return h.accountJSON(c, http.StatusOK, name)
}

// Balance returns the current balance for an account.
func (h *Handler) Balance(c *fiber.Ctx) error {
	name := c.Params("name")
	balance, err := h.ledger.Balance(name)
	if err != nil {
		return mapLedgerError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"name":    name,
		"balance": balance,
	})
}

// Loan returns the outstanding loan for an account.
func (h *Handler) Loan(c *fiber.Ctx) error {
	name := c.Params("name")
	loan, err := h.ledger.Loan(name)
	if err != nil {
		return mapLedgerError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"name": name,
		"loan": loan,
	})
}

// TotalDeposits returns the bank-wide deposit aggregate.
func (h *Handler) TotalDeposits(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"total_deposits": h.ledger.TotalDeposits(),
	})
}

func (h *Handler) accountJSON(c *fiber.Ctx, status int, name string) error {
	balance, err := h.ledger.Balance(name)
	if err != nil {
		return mapLedgerError(err)
	}
	loan, err := h.ledger.Loan(name)
	if err != nil {
		return mapLedgerError(err)
	}
	return c.Status(status).JSON(AccountResponse{Name: name, Balance: balance, Loan: loan})
}

func mapLedgerError(err error) error {
	switch {
	case errors.Is(err, ErrAccountNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateAccount):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrLoanLimitExceeded):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
