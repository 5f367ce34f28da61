package entities

import "time"

// SessionCookieName is the cookie holding the opaque session id.
const SessionCookieName = "user_session"

// Session is the authenticated binding between a client and a wallet.
// It is only ever issued after the presenter proved control of the wallet
// secret, and it lives server-side; the client holds an opaque id.
type Session struct {
	WalletAddress string    `json:"walletAddress"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Currency      string    `json:"currency"`
	IssuedAt      time.Time `json:"issuedAt"`
}

// WellFormed reports whether the session carries every required field.
// The currency field is the canonical marker of a complete session.
func (s *Session) WellFormed() bool {
	return s != nil && s.WalletAddress != "" && s.Currency != ""
}
