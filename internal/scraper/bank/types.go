package bank

import "time"

// Session is the authenticated state held by a scraper between calls.
type Session struct {
	BankCode      BankCode
	Authenticated bool
	DisplayName   string
	// ExpiresAt is zero until a successful login.
	ExpiresAt  time.Time
	LandingURL string
}

// AliveAt reports whether the session is still valid at the given instant.
func (s *Session) AliveAt(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.Before(s.ExpiresAt)
}

// Reset returns the session to the logged out state.
func (s *Session) Reset() {
	s.Authenticated = false
	s.ExpiresAt = time.Time{}
}

// AccountSummary is the overview page plus one entry per account detail link,
// in link order.
type AccountSummary struct {
	TotalBalance string
	Accounts     []AccountDetail
}

// AccountDetail holds the two fixed rows of an account detail page. Values are
// kept exactly as the bank renders them.
type AccountDetail struct {
	General GeneralDetails
	Balance BalanceDetails
}

type GeneralDetails struct {
	AccountNumber string
	ShortName     string
	Name          string
	Product       string
	Currency      string
}

type BalanceDetails struct {
	EffectiveBalance    string
	BlockingBalance     string
	NotEffectiveBalance string
	Interest            string
	Balance             string
}

// Transaction is one row of the transaction history result.
type Transaction struct {
	Date        string
	Description string
	Type        string
	Amount      string
	Balance     string
}
