package ledger_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/account-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-service/internal/ledger"
	"github.com/sheikh-saqib/account-ledger-service/internal/models"
	"github.com/sheikh-saqib/account-ledger-service/internal/models/events"
	"github.com/sheikh-saqib/account-ledger-service/internal/storage/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seededStore() *memory.Store {
	store := memory.NewStore()
	store.SeedAccount(models.Account{ID: "A1", Number: 123, Name: "Katherine Sanchez", Active: true})
	store.SeedAccount(models.Account{ID: "A2", Number: 456, Name: "Eva Woodward", Active: false})
	return store
}

func creditRequest(key, amount string) ledger.MovementRequest {
	return ledger.MovementRequest{
		RequestKey: key,
		AccountID:  "A1",
		Amount:     decimal.RequireFromString(amount),
		Kind:       "C",
	}
}

func ledgerKind(t *testing.T, err error) string {
	t.Helper()
	var lerr *ledger.Error
	require.ErrorAs(t, err, &lerr)
	return lerr.Kind
}

func TestProcessMovement_RecordsCredit(t *testing.T) {
	store := seededStore()
	svc := ledger.NewService(store, nil, discardLogger())

	id, err := svc.ProcessMovement(context.Background(), creditRequest("K1", "100.50"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	movements, err := store.GetMovements(context.Background())
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, id, movements[0].ID)
	assert.Equal(t, "A1", movements[0].AccountID)
	assert.Equal(t, models.KindCredit, movements[0].Kind)
	assert.True(t, movements[0].Amount.Equal(decimal.RequireFromString("100.50")))

	record, err := store.FindIdempotency(context.Background(), "K1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, id, record.Result)
	assert.Contains(t, record.Request, "K1")
}

func TestProcessMovement_ReplayReturnsSameID(t *testing.T) {
	store := seededStore()
	svc := ledger.NewService(store, nil, discardLogger())

	first, err := svc.ProcessMovement(context.Background(), creditRequest("K1", "100.50"))
	require.NoError(t, err)

	second, err := svc.ProcessMovement(context.Background(), creditRequest("K1", "100.50"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	movements, err := store.GetMovements(context.Background())
	require.NoError(t, err)
	assert.Len(t, movements, 1, "replay must not write a second row")
}

func TestProcessMovement_ReplayIgnoresStateChanges(t *testing.T) {
	store := seededStore()
	svc := ledger.NewService(store, nil, discardLogger())

	first, err := svc.ProcessMovement(context.Background(), creditRequest("K1", "100.50"))
	require.NoError(t, err)

	// Deactivate the account and resubmit the key with parameters that would
	// fail validation. The stored result must come back untouched.
	store.SeedAccount(models.Account{ID: "A1", Number: 123, Name: "Katherine Sanchez", Active: false})
	replay := ledger.MovementRequest{
		RequestKey: "K1",
		AccountID:  "A1",
		Amount:     decimal.NewFromInt(-5),
		Kind:       "X",
	}

	second, err := svc.ProcessMovement(context.Background(), replay)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	movements, err := store.GetMovements(context.Background())
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}

func TestProcessMovement_RejectsNonPositiveAmount(t *testing.T) {
	for _, amount := range []string{"0", "-10.25"} {
		t.Run(amount, func(t *testing.T) {
			svc := ledger.NewService(seededStore(), nil, discardLogger())

			_, err := svc.ProcessMovement(context.Background(), creditRequest("K1", amount))
			assert.Equal(t, ledger.KindInvalidValue, ledgerKind(t, err))
		})
	}
}

func TestProcessMovement_RejectsUnknownKind(t *testing.T) {
	for _, kind := range []string{"X", "", "CC"} {
		t.Run("kind "+kind, func(t *testing.T) {
			svc := ledger.NewService(seededStore(), nil, discardLogger())

			req := creditRequest("K1", "10")
			req.Kind = kind
			_, err := svc.ProcessMovement(context.Background(), req)
			assert.Equal(t, ledger.KindInvalidType, ledgerKind(t, err))
		})
	}
}

func TestProcessMovement_NormalizesLowercaseKind(t *testing.T) {
	store := seededStore()
	svc := ledger.NewService(store, nil, discardLogger())

	req := creditRequest("K1", "10")
	req.Kind = "d"
	_, err := svc.ProcessMovement(context.Background(), req)
	require.NoError(t, err)

	movements, err := store.GetMovements(context.Background())
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, models.KindDebit, movements[0].Kind)
}

func TestProcessMovement_UnknownAccount(t *testing.T) {
	svc := ledger.NewService(seededStore(), nil, discardLogger())

	req := creditRequest("K1", "10")
	req.AccountID = "missing"
	_, err := svc.ProcessMovement(context.Background(), req)
	assert.Equal(t, ledger.KindInvalidAccount, ledgerKind(t, err))
}

func TestProcessMovement_InactiveAccount(t *testing.T) {
	svc := ledger.NewService(seededStore(), nil, discardLogger())

	req := creditRequest("K1", "10")
	req.AccountID = "A2"
	_, err := svc.ProcessMovement(context.Background(), req)
	assert.Equal(t, ledger.KindInactiveAccount, ledgerKind(t, err))
}

// racingStore simulates losing the check-then-record race: the key was not
// found, but another request committed it before our write.
type racingStore struct {
	*memory.Store
}

func (r *racingStore) SaveMovement(ctx context.Context, movement models.Movement, record models.IdempotencyRecord) error {
	return interfaces.ErrDuplicateRequestKey
}

func TestProcessMovement_DuplicateKeyRaceIsFatal(t *testing.T) {
	svc := ledger.NewService(&racingStore{Store: seededStore()}, nil, discardLogger())

	_, err := svc.ProcessMovement(context.Background(), creditRequest("K1", "10"))
	var lerr *ledger.Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, ledger.KindPersistenceFailure, lerr.Kind)
	assert.True(t, lerr.Fatal())
}

type capturePublisher struct {
	published []any
}

func (p *capturePublisher) Publish(ctx context.Context, event any) error {
	p.published = append(p.published, event)
	return nil
}

func TestProcessMovement_PublishesEvent(t *testing.T) {
	publisher := &capturePublisher{}
	svc := ledger.NewService(seededStore(), publisher, discardLogger())

	id, err := svc.ProcessMovement(context.Background(), creditRequest("K1", "100.50"))
	require.NoError(t, err)

	require.Len(t, publisher.published, 1)
	event, ok := publisher.published[0].(events.MovementRecorded)
	require.True(t, ok)
	assert.Equal(t, id, event.MovementID)
	assert.Equal(t, "A1", event.AccountID)
	assert.Equal(t, models.KindCredit, event.Kind)
	assert.True(t, event.Amount.Equal(decimal.RequireFromString("100.50")))
}

func TestBalance_FoldsCreditsAndDebits(t *testing.T) {
	svc := ledger.NewService(seededStore(), nil, discardLogger())

	_, err := svc.ProcessMovement(context.Background(), creditRequest("K1", "100.50"))
	require.NoError(t, err)

	debit := creditRequest("K2", "50.25")
	debit.Kind = "D"
	_, err = svc.ProcessMovement(context.Background(), debit)
	require.NoError(t, err)

	snapshot, err := svc.Balance(context.Background(), "A1")
	require.NoError(t, err)
	assert.Equal(t, 123, snapshot.AccountNumber)
	assert.Equal(t, "Katherine Sanchez", snapshot.HolderName)
	assert.False(t, snapshot.QueriedAt.IsZero())
	assert.True(t, snapshot.Balance.Equal(decimal.RequireFromString("50.25")),
		"got %s", snapshot.Balance)
}

func TestBalance_NoMovementsIsZero(t *testing.T) {
	svc := ledger.NewService(seededStore(), nil, discardLogger())

	snapshot, err := svc.Balance(context.Background(), "A1")
	require.NoError(t, err)
	assert.True(t, snapshot.Balance.IsZero())
}

func TestBalance_DecimalPrecision(t *testing.T) {
	svc := ledger.NewService(seededStore(), nil, discardLogger())

	// 1000 credits of 0.10 and one debit of 99.99 would drift under floats.
	for i := 0; i < 1000; i++ {
		_, err := svc.ProcessMovement(context.Background(),
			creditRequest(fmt.Sprintf("K-%d", i), "0.10"))
		require.NoError(t, err)
	}
	debit := creditRequest("K-debit", "99.99")
	debit.Kind = "d"
	_, err := svc.ProcessMovement(context.Background(), debit)
	require.NoError(t, err)

	snapshot, err := svc.Balance(context.Background(), "A1")
	require.NoError(t, err)
	assert.True(t, snapshot.Balance.Equal(decimal.RequireFromString("0.01")),
		"got %s", snapshot.Balance)
}

func TestBalance_UnknownAccount(t *testing.T) {
	svc := ledger.NewService(seededStore(), nil, discardLogger())

	_, err := svc.Balance(context.Background(), "missing")
	assert.Equal(t, ledger.KindInvalidAccount, ledgerKind(t, err))
}

func TestBalance_InactiveAccount(t *testing.T) {
	svc := ledger.NewService(seededStore(), nil, discardLogger())

	_, err := svc.Balance(context.Background(), "A2")
	assert.Equal(t, ledger.KindInactiveAccount, ledgerKind(t, err))
}

func TestMovements_EmptyLedgerIsEmptySlice(t *testing.T) {
	svc := ledger.NewService(seededStore(), nil, discardLogger())

	movements, err := svc.Movements(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, movements)
	assert.Empty(t, movements)
}
