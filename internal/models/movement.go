package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Movement kinds as stored. Input is accepted in either letter case and
// normalized before persisting.
const (
	KindCredit = "C"
	KindDebit  = "D"
)

// NormalizeKind maps a raw movement kind to its stored form. ok is false for
// anything other than C/c/D/d.
func NormalizeKind(raw string) (kind string, ok bool) {
	switch strings.ToUpper(raw) {
	case KindCredit:
		return KindCredit, true
	case KindDebit:
		return KindDebit, true
	}
	return "", false
}

// Movement is a single credit or debit recorded against an account.
// Rows are immutable once written and are never deleted.
type Movement struct {
	ID        string          `json:"id"`
	AccountID string          `json:"accountId"`
	Date      time.Time       `json:"date"` // day granularity, local server time
	Kind      string          `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
}
