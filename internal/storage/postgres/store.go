package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/sheikh-saqib/account-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-service/internal/models"
)

// postgres error code for unique constraint violations
const uniqueViolation = "23505"

// Store is the durable LedgerStore on top of postgres. See schema.sql for
// the table layout.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects and pings. The returned *sql.DB owns the connection pool;
// hand it to NewStore and close it on shutdown.
func Open(url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (s *Store) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	const query = `SELECT id, number, name, active FROM accounts WHERE id = $1`

	var account models.Account
	err := s.db.QueryRowContext(ctx, query, accountID).
		Scan(&account.ID, &account.Number, &account.Name, &account.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Store) FindIdempotency(ctx context.Context, requestKey string) (*models.IdempotencyRecord, error) {
	const query = `SELECT request_key, request, result FROM idempotency WHERE request_key = $1`

	var record models.IdempotencyRecord
	err := s.db.QueryRowContext(ctx, query, requestKey).
		Scan(&record.RequestKey, &record.Request, &record.Result)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// SaveMovement writes the movement row and its idempotency record in one
// transaction. The unique constraint on idempotency.request_key closes the
// concurrent-duplicate race; the loser's commit fails with
// ErrDuplicateRequestKey and the whole transaction rolls back.
func (s *Store) SaveMovement(ctx context.Context, movement models.Movement, record models.IdempotencyRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insertMovement = `INSERT INTO movements (id, account_id, movement_date, kind, amount)
	VALUES ($1, $2, $3, $4, $5)`

	if _, err := tx.ExecContext(ctx, insertMovement,
		movement.ID, movement.AccountID, movement.Date, movement.Kind, movement.Amount); err != nil {
		return wrapDuplicate(err)
	}

	const insertRecord = `INSERT INTO idempotency (request_key, request, result)
	VALUES ($1, $2, $3)`

	if _, err := tx.ExecContext(ctx, insertRecord,
		record.RequestKey, record.Request, record.Result); err != nil {
		return wrapDuplicate(err)
	}

	return tx.Commit()
}

func (s *Store) GetMovementsByAccount(ctx context.Context, accountID string) ([]models.Movement, error) {
	const query = `SELECT id, account_id, movement_date, kind, amount FROM movements
	WHERE account_id = $1`

	rows, err := s.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMovements(rows)
}

func (s *Store) GetMovements(ctx context.Context) ([]models.Movement, error) {
	const query = `SELECT id, account_id, movement_date, kind, amount FROM movements`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMovements(rows)
}

func scanMovements(rows *sql.Rows) ([]models.Movement, error) {
	var movements []models.Movement
	for rows.Next() {
		var m models.Movement
		if err := rows.Scan(&m.ID, &m.AccountID, &m.Date, &m.Kind, &m.Amount); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movements, nil
}

func wrapDuplicate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %v", interfaces.ErrDuplicateRequestKey, err)
	}
	return err
}

// Compile-time check: Store implements the LedgerStore interface.
var _ interfaces.LedgerStore = (*Store)(nil)
