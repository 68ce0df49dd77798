package models

// IdempotencyRecord maps a caller-supplied request key to the result it
// produced. Request holds a serialized copy of the original request for
// auditing; it is informational only and never re-parsed.
type IdempotencyRecord struct {
	RequestKey string
	Request    string
	Result     string
}
