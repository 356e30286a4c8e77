package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sango-bank/sango_bank/internal/bank"
)

// RegisterAccountRoutes wires ledger endpoints: read-only queries on the
// public router, mutations on the protected router behind the rate limiter.
func RegisterAccountRoutes(public fiber.Router, protected fiber.Router, h *bank.Handler, limiter fiber.Handler) {
	public.Get("/accounts/:name/balance", h.Balance)
	public.Get("/accounts/:name/loan", h.Loan)
	public.Get("/bank/total-deposits", h.TotalDeposits)

	protected.Post("/accounts", h.Create)
	protected.Post("/accounts/:name/deposit", limiter, h.Deposit)
	protected.Post("/accounts/:name/withdraw", limiter, h.Withdraw)
	protected.Post("/accounts/:name/loans", limiter, h.ApproveLoan)
	protected.Post("/accounts/:name/loans/repay", limiter, h.RepayLoan)
}
