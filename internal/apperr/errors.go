// Package apperr defines the closed set of error kinds the auth service
// reports. Boundary handlers switch on Kind; nothing compares messages.
package apperr

import "errors"

type Kind string

const (
	KindBadRequest   Kind = "BAD_REQUEST"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindInternal     Kind = "INTERNAL_ERROR"

	KindAuthUserAlreadyExists  Kind = "AUTH.USER_ALREADY_EXISTS"
	KindAuthUserNotFound       Kind = "AUTH.USER_NOT_FOUND"
	KindAuthInvalidPassword    Kind = "AUTH.INVALID_PASSWORD"
	KindAuthInvalidAccessToken Kind = "AUTH.INVALID_ACCESS_TOKEN"

	KindUserNotFound        Kind = "USER.USER_NOT_FOUND"
	KindUserAlreadyExists   Kind = "USER.USER_ALREADY_EXISTS"
	KindUserInvalidID       Kind = "USER.INVALID_ID"
	KindUserInvalidUsername Kind = "USER.INVALID_USERNAME"
)

// Error is a kind-tagged failure. Wrap it with fmt.Errorf("...: %w") to add
// context; KindOf still resolves it.
type Error struct {
	Kind Kind
}

func (e *Error) Error() string { return string(e.Kind) }

var (
	ErrBadRequest   = &Error{Kind: KindBadRequest}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrInternal     = &Error{Kind: KindInternal}

	ErrUserAlreadyExists  = &Error{Kind: KindAuthUserAlreadyExists}
	ErrUserNotFound       = &Error{Kind: KindAuthUserNotFound}
	ErrInvalidPassword    = &Error{Kind: KindAuthInvalidPassword}
	ErrInvalidAccessToken = &Error{Kind: KindAuthInvalidAccessToken}

	ErrRemoteUserNotFound      = &Error{Kind: KindUserNotFound}
	ErrRemoteUserAlreadyExists = &Error{Kind: KindUserAlreadyExists}
	ErrRemoteInvalidID         = &Error{Kind: KindUserInvalidID}
	ErrRemoteInvalidUsername   = &Error{Kind: KindUserInvalidUsername}
)

var byKind = map[Kind]*Error{
	KindBadRequest:             ErrBadRequest,
	KindUnauthorized:           ErrUnauthorized,
	KindInternal:               ErrInternal,
	KindAuthUserAlreadyExists:  ErrUserAlreadyExists,
	KindAuthUserNotFound:       ErrUserNotFound,
	KindAuthInvalidPassword:    ErrInvalidPassword,
	KindAuthInvalidAccessToken: ErrInvalidAccessToken,
	KindUserNotFound:           ErrRemoteUserNotFound,
	KindUserAlreadyExists:      ErrRemoteUserAlreadyExists,
	KindUserInvalidID:          ErrRemoteInvalidID,
	KindUserInvalidUsername:    ErrRemoteInvalidUsername,
}

// KindOf returns the kind carried by err. Untagged errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// FromKind returns the sentinel for k, or ErrInternal for an unknown kind.
func FromKind(k Kind) error {
	if e, ok := byKind[k]; ok {
		return e
	}
	return ErrInternal
}
