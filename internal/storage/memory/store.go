package memory

import (
	"context"
	"sync"

	"github.com/sheikh-saqib/account-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-service/internal/models"
)

// Store is an in-memory LedgerStore backing tests and database-less local
// runs. Movements keep insertion order so the audit listing is stable.
type Store struct {
	mu          sync.Mutex
	accounts    map[string]models.Account
	movements   []models.Movement
	idempotency map[string]models.IdempotencyRecord
}

func NewStore() *Store {
	return &Store{
		accounts:    make(map[string]models.Account),
		idempotency: make(map[string]models.IdempotencyRecord),
	}
}

// SeedAccount registers an account. Accounts are provisioned outside the
// ledger core, so seeding is a Store method rather than part of the
// LedgerStore interface.
func (s *Store) SeedAccount(account models.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[account.ID] = account
}

func (s *Store) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return nil, interfaces.ErrAccountNotFound
	}
	return &account, nil
}

func (s *Store) FindIdempotency(ctx context.Context, requestKey string) (*models.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.idempotency[requestKey]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// SaveMovement appends the movement and records the idempotency key under a
// single lock, so either both are visible or neither is.
func (s *Store) SaveMovement(ctx context.Context, movement models.Movement, record models.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.idempotency[record.RequestKey]; exists {
		return interfaces.ErrDuplicateRequestKey
	}
	s.movements = append(s.movements, movement)
	s.idempotency[record.RequestKey] = record
	return nil
}

func (s *Store) GetMovementsByAccount(ctx context.Context, accountID string) ([]models.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.Movement
	for _, m := range s.movements {
		if m.AccountID == accountID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (s *Store) GetMovements(ctx context.Context) ([]models.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]models.Movement, len(s.movements))
	copy(copied, s.movements)
	return copied, nil
}

// Compile-time check: Store implements the LedgerStore interface.
var _ interfaces.LedgerStore = (*Store)(nil)
