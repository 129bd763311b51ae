package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../../mocks/mock_repository.go -package=mocks github.com/Testing-de-software-2025/JWT/internal/auth/domain UserRepository,RoleRepository,PermissionRepository

// LockState is the pair of lockout fields persisted on a user row.
type LockState struct {
	FailedLoginAttempts int
	LockedUntil         *time.Time
}

// UserRepository is the user store. Lookups return (nil, nil) when no row
// matches; lock-state mutations must be single atomic statements so that
// concurrent login attempts against one account cannot lose updates.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error

	// RecordLoginFailure increments the failure counter and, when the new
	// count reaches maxFailed, sets locked_until to the given timestamp, all
	// in one conditional write. It returns the post-update state.
	RecordLoginFailure(ctx context.Context, userID string, maxFailed int, lockUntil time.Time) (LockState, error)

	// ResetLockState zeroes the failure counter and clears locked_until.
	ResetLockState(ctx context.Context, userID string) error

	AssignRoles(ctx context.Context, userID string, roleIDs []string) error
	RemoveRole(ctx context.Context, userID, roleID string) error
}

// RoleRepository is the role side of the role/permission directory.
type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	GetByID(ctx context.Context, id string) (*Role, error)
	List(ctx context.Context) ([]Role, error)
	Update(ctx context.Context, role *Role) error
	Delete(ctx context.Context, id string) error
	AssignPermissions(ctx context.Context, roleID string, permissionIDs []string) error
	RemovePermission(ctx context.Context, roleID, permissionID string) error
}

type PermissionRepository interface {
	Create(ctx context.Context, permission *Permission) error
	GetByID(ctx context.Context, id string) (*Permission, error)
	List(ctx context.Context) ([]Permission, error)
	Update(ctx context.Context, permission *Permission) error
	Delete(ctx context.Context, id string) error
}
