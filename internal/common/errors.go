// Package common defines the error taxonomy shared by the server layers.
// Every user-visible failure is one of the Error kinds below; each kind maps
// to exactly one stable numeric status code carried in the response
// envelope. Callers should use errors.Is to match kinds.
package common

import (
	"errors"
	"fmt"
)

// Error is a stable, user-visible error kind.
type Error struct {
	name string
	code uint32
}

var byCode = map[uint32]*Error{}

func newError(name string, code uint32) *Error {
	e := &Error{name: name, code: code}
	byCode[code] = e
	return e
}

// ForCode resolves a numeric status received over the wire back to its
// kind. Unknown codes resolve to nil.
func ForCode(code uint32) *Error {
	return byCode[code]
}

// Error returns the kind name, e.g. "InviteCodeExhausted".
func (e *Error) Error() string { return e.name }

// Code returns the numeric status code reported to clients.
func (e *Error) Code() uint32 { return e.code }

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Infrastructure.
	ErrFatal              = newError("FatalError", 900000)
	ErrDatabaseConnection = newError("DatabaseConnectionError", 900001)
	ErrDatabaseWrite      = newError("DatabaseWriteError", 901000)
	ErrDatabaseRead       = newError("DatabaseReadError", 901001)

	// Input validation.
	ErrContentNotFound       = newError("ContentNotFound", 902000)
	ErrNoPermission          = newError("NoPermission", 902001)
	ErrInvalidParameters     = newError("InvalidParameters", 902002)
	ErrInvalidPasswordFormat = newError("InvalidPasswordFormat", 902003)

	// Accounts.
	ErrUsernameUnavailable  = newError("UsernameUnavailable", 102000)
	ErrEmailUnavailable     = newError("EmailUnavailable", 102001)
	ErrWrongEmailOrPassword = newError("WrongEmailOrPassword", 102010)
	ErrNoUserForRevoke      = newError("NoUserForRevoke", 102020)

	// feature: invite
	ErrInviteSystemNotEnabled = newError("InviteSystemNotEnabled", 201000)
	ErrInvalidInviteCode      = newError("InvalidInviteCode", 201001)
	ErrInvitedUserMismatch    = newError("InvitedUserMismatch", 201002)
	ErrInviteCodeExhausted    = newError("InviteCodeExhausted", 201003)

	// feature: 2fa
	ErrNotEnabled2FA    = newError("NotEnabled2FA", 202000)
	ErrInvalid2FACode   = newError("Invalid2FACode", 202001)
	ErrInvalid2FASecret = newError("Invalid2FASecret", 202002)

	// feature: close
	ErrRegisterClosed = newError("RegisterClosed", 203000)
)

// Wrap attaches a cause to an error kind. The result matches kind with
// errors.Is, while the cause is kept in the message for server-side logs.
func Wrap(kind *Error, cause error) error {
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %v", kind, cause)
}

// KindOf returns the error kind carried by err. Errors that carry no kind
// are reported as ErrFatal; nil yields nil.
func KindOf(err error) *Error {
	if err == nil {
		return nil
	}
	var kind *Error
	if errors.As(err, &kind) {
		return kind
	}
	return ErrFatal
}

// CodeOf returns the numeric status for err; 0 means success.
func CodeOf(err error) uint32 {
	if err == nil {
		return 0
	}
	return KindOf(err).Code()
}
