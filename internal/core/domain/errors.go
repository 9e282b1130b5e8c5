package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrAccessDenied       = errors.New("feature access denied")
	ErrNotFound           = errors.New("not found")
	ErrLastAdminProtected = errors.New("last admin protected")
	ErrSelfActionDenied   = errors.New("self action denied")
	ErrCapacityExceeded   = errors.New("capacity exceeded")
	ErrConflict           = errors.New("conflict")
	ErrTemporary          = errors.New("temporary failure")
	ErrTimeout            = errors.New("timeout")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// ErrorKind returns the stable machine-checkable kind for an error.
func ErrorKind(err error) string {
	switch {
	case IsKind(err, ErrValidation):
		return "validation"
	case IsKind(err, ErrUnauthenticated):
		return "unauthenticated"
	case IsKind(err, ErrSelfActionDenied):
		return "self_action_denied"
	case IsKind(err, ErrLastAdminProtected):
		return "last_admin_protected"
	case IsKind(err, ErrAccessDenied):
		return "access_denied"
	case IsKind(err, ErrForbidden):
		return "forbidden"
	case IsKind(err, ErrNotFound):
		return "not_found"
	case IsKind(err, ErrConflict):
		return "conflict"
	case IsKind(err, ErrCapacityExceeded):
		return "capacity_exceeded"
	case IsKind(err, ErrTimeout):
		return "timeout"
	case IsKind(err, ErrTemporary):
		return "temporary"
	default:
		return "internal"
	}
}
