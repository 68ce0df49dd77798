package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/account-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-service/internal/models"
	"github.com/sheikh-saqib/account-ledger-service/internal/models/events"
)

// MovementRequest is the processor input. RequestKey is the caller-supplied
// idempotency key; Kind accepts either letter case.
type MovementRequest struct {
	RequestKey string          `json:"requestKey"`
	AccountID  string          `json:"accountId"`
	Amount     decimal.Decimal `json:"amount"`
	Kind       string          `json:"kind"`
}

// Service processes movements and computes balances. It holds no request
// state of its own; everything shared lives in the store, so a single
// Service value is safe for concurrent use.
type Service struct {
	store  interfaces.LedgerStore
	events interfaces.EventPublisher // nil disables event publishing
	log    *slog.Logger
}

func NewService(store interfaces.LedgerStore, events interfaces.EventPublisher, log *slog.Logger) *Service {
	return &Service{store: store, events: events, log: log}
}

// ProcessMovement applies a credit or debit exactly once per request key and
// returns the movement id. A replayed key is answered from the idempotency
// record before any validation runs, so the stored result is returned even
// if the account or the request parameters would no longer pass.
func (s *Service) ProcessMovement(ctx context.Context, req MovementRequest) (string, error) {
	prior, err := s.store.FindIdempotency(ctx, req.RequestKey)
	if err != nil {
		return "", s.storeFailure("idempotency lookup", err)
	}
	if prior != nil {
		s.log.Info("movement replayed", "request_key", req.RequestKey, "movement_id", prior.Result)
		return prior.Result, nil
	}

	if _, err := s.activeAccount(ctx, req.AccountID); err != nil {
		return "", err
	}
	if !req.Amount.IsPositive() {
		return "", errInvalidAmount
	}
	kind, ok := models.NormalizeKind(req.Kind)
	if !ok {
		return "", errInvalidKind
	}

	now := time.Now()
	movement := models.Movement{
		ID:        uuid.New().String(),
		AccountID: req.AccountID,
		Date:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		Kind:      kind,
		Amount:    req.Amount,
	}

	raw, err := json.Marshal(req)
	if err != nil {
		return "", s.storeFailure("serialize request", err)
	}
	record := models.IdempotencyRecord{
		RequestKey: req.RequestKey,
		Request:    string(raw),
		Result:     movement.ID,
	}

	if err := s.store.SaveMovement(ctx, movement, record); err != nil {
		return "", s.storeFailure("save movement", err)
	}

	s.publish(ctx, movement)
	s.log.Info("movement recorded",
		"movement_id", movement.ID, "account_id", movement.AccountID, "kind", movement.Kind)
	return movement.ID, nil
}

// Balance folds the account's full movement history into a signed total.
// Nothing is cached; the snapshot always reflects the latest committed rows.
func (s *Service) Balance(ctx context.Context, accountID string) (*models.BalanceSnapshot, error) {
	account, err := s.activeAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	movements, err := s.store.GetMovementsByAccount(ctx, accountID)
	if err != nil {
		return nil, s.storeFailure("movement fetch", err)
	}

	balance := decimal.Zero
	for _, m := range movements {
		if strings.EqualFold(m.Kind, models.KindCredit) {
			balance = balance.Add(m.Amount)
		} else {
			balance = balance.Sub(m.Amount)
		}
	}

	return &models.BalanceSnapshot{
		AccountNumber: account.Number,
		HolderName:    account.Name,
		QueriedAt:     time.Now(),
		Balance:       balance,
	}, nil
}

// Movements returns the full ledger in insertion order, for auditing.
func (s *Service) Movements(ctx context.Context) ([]models.Movement, error) {
	movements, err := s.store.GetMovements(ctx)
	if err != nil {
		return nil, s.storeFailure("movement fetch", err)
	}
	if movements == nil {
		movements = []models.Movement{}
	}
	return movements, nil
}

// activeAccount confirms the account exists and is active. Shared by the
// movement and balance paths; no side effects.
func (s *Service) activeAccount(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := s.store.GetAccount(ctx, accountID)
	if errors.Is(err, interfaces.ErrAccountNotFound) {
		return nil, errAccountNotFound
	}
	if err != nil {
		return nil, s.storeFailure("account lookup", err)
	}
	if !account.Active {
		return nil, errAccountInactive
	}
	return account, nil
}

func (s *Service) publish(ctx context.Context, m models.Movement) {
	if s.events == nil {
		return
	}
	event := events.MovementRecorded{
		MovementID: m.ID,
		AccountID:  m.AccountID,
		Kind:       m.Kind,
		Amount:     m.Amount,
		OccurredAt: time.Now(),
	}
	// Best effort: the movement is already committed, a lost event must not
	// fail the request.
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("event publish failed", "movement_id", m.ID, "error", err)
	}
}

// storeFailure wraps a store error as a persistence failure without leaking
// query detail to the caller.
func (s *Service) storeFailure(op string, err error) error {
	if errors.Is(err, interfaces.ErrDuplicateRequestKey) {
		s.log.Error("request key lost a concurrent write race", "error", err)
		return persistence("request key was committed concurrently, retry to replay")
	}
	s.log.Error("ledger store failure", "op", op, "error", err)
	return persistence("ledger store unavailable")
}
