package models

// Account is a checking account row. Accounts are provisioned outside this
// service; the ledger only ever reads them.
type Account struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}
