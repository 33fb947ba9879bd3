package models

import "github.com/google/uuid"

// SystemInviterID is the inviter recorded for accounts that registered
// without an invite grant.
var SystemInviterID = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("anni.mmf.moe")).String()

// Account is a registered user. The password hash never leaves the server.
type Account struct {
	ID           string `json:"user_id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	Nickname     string `json:"nickname"`
	Avatar       string `json:"avatar"`
	InviterID    string `json:"inviter_id"`
	PasswordHash string `json:"-"`
}

// SecondFactor binds a TOTP secret to an account.
type SecondFactor struct {
	UserID string
	Secret string
}
