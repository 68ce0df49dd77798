package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementRecorded is published after a movement has been committed to the
// ledger store.
type MovementRecorded struct {
	MovementID string          `json:"movement_id"`
	AccountID  string          `json:"account_id"`
	Kind       string          `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurred_at"`
}
