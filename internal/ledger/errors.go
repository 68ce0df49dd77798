package ledger

// Stable machine-readable error kinds. These strings are part of the wire
// contract and must not change.
const (
	KindInvalidAccount     = "INVALID_ACCOUNT"
	KindInactiveAccount    = "INACTIVE_ACCOUNT"
	KindInvalidValue       = "INVALID_VALUE"
	KindInvalidType        = "INVALID_TYPE"
	KindPersistenceFailure = "PERSISTENCE_FAILURE"
)

// Error is a tagged ledger failure. Kind is the machine string the gateway
// returns to callers; Message is human text and carries no internal detail.
type Error struct {
	Kind    string
	Message string
}

func (e *Error) Error() string { return e.Kind + ": " + e.Message }

// Fatal reports whether the error is a persistence failure rather than a
// business-rule rejection. Fatal errors map to server-error status codes and
// are safe to retry with the same request key.
func (e *Error) Fatal() bool { return e.Kind == KindPersistenceFailure }

var (
	errAccountNotFound = &Error{Kind: KindInvalidAccount, Message: "account is not registered"}
	errAccountInactive = &Error{Kind: KindInactiveAccount, Message: "account is inactive"}
	errInvalidAmount   = &Error{Kind: KindInvalidValue, Message: "amount must be positive"}
	errInvalidKind     = &Error{Kind: KindInvalidType, Message: "movement kind must be C or D"}
)

func persistence(message string) *Error {
	return &Error{Kind: KindPersistenceFailure, Message: message}
}
