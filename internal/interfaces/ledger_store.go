package interfaces

import (
	"context"
	"errors"

	"github.com/sheikh-saqib/account-ledger-service/internal/models"
)

// Store-level sentinels. The ledger service translates these into its own
// error kinds; anything else coming out of a store is a fatal persistence
// failure.
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrDuplicateRequestKey = errors.New("request key already recorded")
)

type LedgerStore interface {
	// GetAccount returns ErrAccountNotFound when no row matches.
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
	// FindIdempotency returns (nil, nil) when the key has never been seen.
	FindIdempotency(ctx context.Context, requestKey string) (*models.IdempotencyRecord, error)
	// SaveMovement persists the movement row and its idempotency record as a
	// single logical commit. A concurrent duplicate of the same request key
	// fails with ErrDuplicateRequestKey and leaves no partial row behind.
	SaveMovement(ctx context.Context, movement models.Movement, record models.IdempotencyRecord) error
	GetMovementsByAccount(ctx context.Context, accountID string) ([]models.Movement, error)
	GetMovements(ctx context.Context) ([]models.Movement, error)
}
