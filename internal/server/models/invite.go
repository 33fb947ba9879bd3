package models

// InviteGrant is one row of the invite ledger. Invitee restricts the grant
// to a single email; an empty Invitee admits any email.
type InviteGrant struct {
	ID        int64
	Code      string
	InviterID string
	Invitee   string
	UsesLeft  int
}
