package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sango-bank/sango_bank/internal/bank"
)

// PostgresRepository stores ledger snapshots in PostgreSQL, one row per
// account keyed by name.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a snapshot store backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Load reads every persisted account.
func (r *PostgresRepository) Load(ctx context.Context) ([]bank.Account, error) {
	rows, err := r.db.Query(ctx, `SELECT name, balance, loan FROM bank_accounts ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []bank.Account
	for rows.Next() {
		var a bank.Account
		if err := rows.Scan(&a.Name, &a.Balance, &a.Loan); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Save upserts the full snapshot inside one transaction so a crash mid-save
// never leaves a half-written snapshot.
func (r *PostgresRepository) Save(ctx context.Context, accounts []bank.Account) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	for _, a := range accounts {
		if _, err := tx.Exec(ctx, `INSERT INTO bank_accounts (id, name, balance, loan, updated_at)
            VALUES ($1, $2, $3, $4, now())
            ON CONFLICT (name) DO UPDATE SET balance = $3, loan = $4, updated_at = now()`,
			uuid.New(), a.Name, a.Balance, a.Loan); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
