package domain

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUpstream
	KindMissingToken
	KindInvalidToken
	KindUnauthorized
	KindPolicy
	KindMissingPassword
	KindInvalidPassword
	KindInvalidCredentials
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	case KindMissingToken:
		return "missing_token"
	case KindInvalidToken:
		return "invalid_token"
	case KindUnauthorized:
		return "unauthorized"
	case KindPolicy:
		return "policy"
	case KindMissingPassword:
		return "missing_current_password"
	case KindInvalidPassword:
		return "invalid_current_password"
	case KindInvalidCredentials:
		return "invalid_credentials"
	}
	return "internal"
}

// Error 业务错误；Msg 返回给客户端，Err 只进日志
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(k Kind, msg string) *Error { return &Error{Kind: k, Msg: msg} }

// KindOf 非 *Error 一律视为 internal
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

var (
	ErrNoBody                 = newErr(KindValidation, "No body")
	ErrMissingToken           = newErr(KindMissingToken, "Missing token")
	ErrInvalidToken           = newErr(KindInvalidToken, "Invalid token")
	ErrUnauthorized           = newErr(KindUnauthorized, "Unauthorized")
	ErrDemoDisabled           = newErr(KindPolicy, "Demo account disabled")
	ErrMissingCurrentPassword = newErr(KindMissingPassword, "Missing current password")
	ErrInvalidCurrentPassword = newErr(KindInvalidPassword, "Invalid current password")
	ErrInvalidCredentials     = newErr(KindInvalidCredentials, "Invalid credentials")
	ErrNoGistID               = newErr(KindValidation, "No gist ID provided")
	ErrGistNotFound           = newErr(KindUpstream, "No gist with that ID")
	ErrInvalidGist            = newErr(KindUpstream, "Invalid gist")
)

func InvalidUUID(id string) error { return newErr(KindValidation, fmt.Sprintf("Invalid UUID '%s'", id)) }

func UserNotFound(id string) error {
	return newErr(KindNotFound, fmt.Sprintf("No user with ID '%s'", id))
}

func MissingFields(fields []string) error {
	return newErr(KindValidation, "Missing fields: "+strings.Join(fields, ", "))
}

func ExtraFields(fields []string) error {
	return newErr(KindValidation, "Extra fields: "+strings.Join(fields, ", "))
}

func InvalidFields(fields []string) error {
	return newErr(KindValidation, "Invalid fields: "+strings.Join(fields, ", "))
}

func InvalidValue(field string) error {
	return newErr(KindValidation, fmt.Sprintf("Invalid value for field '%s'", field))
}

func InvalidEmail(v string) error { return newErr(KindValidation, fmt.Sprintf("Invalid email '%s'", v)) }

func InvalidUsername(v string) error {
	return newErr(KindValidation, fmt.Sprintf("Invalid username '%s'", v))
}

func AlreadyExists(f UniqueField, v string) error { return Conflict(f, v, nil) }

func GistLookupFailed(err error) error {
	return &Error{Kind: KindUpstream, Msg: "Gist lookup failed", Err: err}
}

// Conflict 存储层唯一约束冲突；field 未知时给出通用提示
func Conflict(f UniqueField, v string, err error) error {
	if f == "" {
		return &Error{Kind: KindConflict, Msg: "User already exists", Err: err}
	}
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf("User with %s '%s' already exists", f, v), Err: err}
}
