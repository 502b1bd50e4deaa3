// Package bank defines the common structs and logic used throughout bank
// implementations.
package bank

import (
	"context"
	"time"
)

type BankScraper interface {
	// Login authenticates with the bank and establishes a session
	Login(ctx context.Context, creds Credentials) error
	// Logout walks the bank's logout confirmation and ends the session
	Logout(ctx context.Context) error
	// IsAlive reports whether the session is still inside its validity window
	IsAlive() bool
	Summary(ctx context.Context) (*AccountSummary, error)
	TransactionHistory(ctx context.Context, accountNumber string, from, to time.Time) ([]Transaction, error)
}

type BankCode string

const (
	BankBNI BankCode = "BNI"
)

// Credentials are the retail user credentials typed into the login form.
type Credentials struct {
	UserID   string
	Password string
}
