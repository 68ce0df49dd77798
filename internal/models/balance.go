package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSnapshot is the derived balance of an account at query time. It is
// recomputed from the movement rows on every call and never persisted.
type BalanceSnapshot struct {
	AccountNumber int             `json:"accountNumber"`
	HolderName    string          `json:"holderName"`
	QueriedAt     time.Time       `json:"queriedAt"`
	Balance       decimal.Decimal `json:"balance"`
}
