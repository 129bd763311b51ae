package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyInUse  = errors.New("email already in use")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrPermissionNotFound = errors.New("permission not found")
	ErrCreationFailed     = errors.New("creation failed")
)

// AccountLockedError is returned while an account lock is in effect. UnlockAt
// is the moment the lock expires and is included in the login error response.
type AccountLockedError struct {
	UnlockAt time.Time
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked until %s", e.UnlockAt.Format(time.RFC3339))
}

// ForbiddenError is returned when an authenticated user lacks one or more of
// the permission codes a route requires.
type ForbiddenError struct {
	Missing []string
}

func (e *ForbiddenError) Error() string {
	return "insufficient permissions: missing " + strings.Join(e.Missing, ", ")
}
