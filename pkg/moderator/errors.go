package moderator

import "fmt"

// ErrorKind identifies the class of a moderation failure
type ErrorKind int

const (
	KindParameterMissing ErrorKind = iota + 1
	KindMissingPermissions
	KindMissingAccess
	KindUserAlreadyMuted
	KindUserNotMuted
	KindInvalidDuration
	KindNoWarnData
	KindWarnNotFound
	KindManagerDisabled
	KindConfigurationError
	KindRoleNotFound
	KindUserAlreadyBlocked
	KindUserNotBlocked
)

// String returns the name of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindParameterMissing:
		return "ParameterMissing"
	case KindMissingPermissions:
		return "MissingPermissions"
	case KindMissingAccess:
		return "MissingAccess"
	case KindUserAlreadyMuted:
		return "UserAlreadyMuted"
	case KindUserNotMuted:
		return "UserNotMuted"
	case KindInvalidDuration:
		return "InvalidDuration"
	case KindNoWarnData:
		return "NoWarnData"
	case KindWarnNotFound:
		return "WarnNotFound"
	case KindManagerDisabled:
		return "ManagerDisabled"
	case KindConfigurationError:
		return "ConfigurationError"
	case KindRoleNotFound:
		return "RoleNotFound"
	case KindUserAlreadyBlocked:
		return "UserAlreadyBlocked"
	case KindUserNotBlocked:
		return "UserNotBlocked"
	default:
		return "Unknown"
	}
}

// Error is returned by every manager operation that fails validation.
// Two errors match under errors.Is when their kinds are equal.
type Error struct {
	Kind ErrorKind
	// Param is the missing parameter, option name or manager name depending on Kind
	Param    string
	ID       string
	UserID   string
	Expected string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindParameterMissing:
		return fmt.Sprintf("moderator: the parameter '%s' was not received", e.Param)
	case KindMissingPermissions:
		return "moderator: missing permissions"
	case KindMissingAccess:
		return "moderator: missing access"
	case KindUserAlreadyMuted:
		return fmt.Sprintf("moderator: the user with ID '%s' is already muted", e.UserID)
	case KindUserNotMuted:
		return fmt.Sprintf("moderator: the user with ID '%s' is not muted", e.UserID)
	case KindInvalidDuration:
		return fmt.Sprintf("moderator: wrong time format received: '%s'", e.Param)
	case KindNoWarnData:
		return fmt.Sprintf("moderator: the user with ID '%s' has no warns", e.UserID)
	case KindWarnNotFound:
		return fmt.Sprintf("moderator: warn #%s not found for user '%s'", e.ID, e.UserID)
	case KindManagerDisabled:
		return fmt.Sprintf("moderator: %s is disabled", e.Param)
	case KindConfigurationError:
		return fmt.Sprintf("moderator: option '%s' must be %s", e.Param, e.Expected)
	case KindRoleNotFound:
		return fmt.Sprintf("moderator: role '%s' not found", e.ID)
	case KindUserAlreadyBlocked:
		return fmt.Sprintf("moderator: the user with ID '%s' is already blacklisted", e.UserID)
	case KindUserNotBlocked:
		return fmt.Sprintf("moderator: the user with ID '%s' is not blacklisted", e.UserID)
	default:
		return "moderator: unknown error"
	}
}

// Is matches any *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is
var (
	ErrParameterMissing   = &Error{Kind: KindParameterMissing}
	ErrMissingPermissions = &Error{Kind: KindMissingPermissions}
	ErrMissingAccess      = &Error{Kind: KindMissingAccess}
	ErrUserAlreadyMuted   = &Error{Kind: KindUserAlreadyMuted}
	ErrUserNotMuted       = &Error{Kind: KindUserNotMuted}
	ErrInvalidDuration    = &Error{Kind: KindInvalidDuration}
	ErrNoWarnData         = &Error{Kind: KindNoWarnData}
	ErrWarnNotFound       = &Error{Kind: KindWarnNotFound}
	ErrManagerDisabled    = &Error{Kind: KindManagerDisabled}
	ErrConfiguration      = &Error{Kind: KindConfigurationError}
	ErrRoleNotFound       = &Error{Kind: KindRoleNotFound}
	ErrUserAlreadyBlocked = &Error{Kind: KindUserAlreadyBlocked}
	ErrUserNotBlocked     = &Error{Kind: KindUserNotBlocked}
)

func errParameterMissing(param string) error {
	return &Error{Kind: KindParameterMissing, Param: param}
}

func errManagerDisabled(name string) error {
	return &Error{Kind: KindManagerDisabled, Param: name}
}

func errConfiguration(option, expected string) error {
	return &Error{Kind: KindConfigurationError, Param: option, Expected: expected}
}

func errRoleNotFound(roleID string) error {
	return &Error{Kind: KindRoleNotFound, ID: roleID}
}

func errUser(kind ErrorKind, userID string) error {
	return &Error{Kind: kind, UserID: userID}
}
