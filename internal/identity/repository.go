package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrOperatorNotFound occurs when a lookup references an unknown operator.
var ErrOperatorNotFound = errors.New("operator not found")

// ErrOperatorExists occurs when registration reuses a username.
var ErrOperatorExists = errors.New("operator already exists")

// Repository persists operators.
type Repository interface {
	Create(ctx context.Context, op Operator) error
	FindByUsername(ctx context.Context, username string) (Operator, error)
	FindByID(ctx context.Context, id string) (Operator, error)
	UpdateTokenVersion(ctx context.Context, id string, version int) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed operator repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new operator.
func (r *PostgresRepository) Create(ctx context.Context, op Operator) error {
	opID, err := uuid.Parse(op.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO operators (id, username, role, pin_hash, token_version, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`, opID, op.Username, op.Role, op.PINHash, op.TokenVersion, op.CreatedAt.UTC())
	return err
}

// FindByUsername fetches an operator by username.
func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (Operator, error) {
	row := r.db.QueryRow(ctx, `SELECT id, username, role, pin_hash, token_version, created_at
        FROM operators WHERE username = $1`, username)
	return scanOperator(row)
}

// FindByID fetches an operator by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Operator, error) {
	opID, err := uuid.Parse(id)
	if err != nil {
		return Operator{}, ErrOperatorNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, username, role, pin_hash, token_version, created_at
        FROM operators WHERE id = $1`, opID)
	return scanOperator(row)
}

// UpdateTokenVersion bumps the operator's token version, invalidating older tokens.
func (r *PostgresRepository) UpdateTokenVersion(ctx context.Context, id string, version int) error {
	opID, err := uuid.Parse(id)
	if err != nil {
		return ErrOperatorNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE operators SET token_version = $1 WHERE id = $2`, version, opID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrOperatorNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOperator(row rowScanner) (Operator, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		op        Operator
	)
	if err := row.Scan(&id, &op.Username, &op.Role, &op.PINHash, &op.TokenVersion, &createdAt); err != nil {
		return Operator{}, err
	}
	op.ID = id.String()
	op.CreatedAt = createdAt.UTC()
	return op, nil
}
