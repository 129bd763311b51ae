package domain

import "time"

type User struct {
	ID                  string
	Email               string
	PasswordHash        string
	FailedLoginAttempts int
	LockedUntil         *time.Time
	Roles               []Role
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type Role struct {
	ID          string
	Name        string
	Permissions []Permission
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Permission struct {
	ID        string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PermissionCodes flattens the user's roles into the set of permission codes
// the user holds. The result is duplicate-free; order is not significant.
func (u *User) PermissionCodes() []string {
	seen := make(map[string]struct{})
	var codes []string
	for _, role := range u.Roles {
		for _, perm := range role.Permissions {
			if _, ok := seen[perm.Code]; ok {
				continue
			}
			seen[perm.Code] = struct{}{}
			codes = append(codes, perm.Code)
		}
	}
	return codes
}

// HasPermissions reports whether the user holds every code in required.
// An empty required set is always satisfied; missing lists the codes the
// user lacks.
func (u *User) HasPermissions(required []string) (bool, []string) {
	if len(required) == 0 {
		return true, nil
	}
	held := make(map[string]struct{})
	for _, code := range u.PermissionCodes() {
		held[code] = struct{}{}
	}
	var missing []string
	for _, code := range required {
		if _, ok := held[code]; !ok {
			missing = append(missing, code)
		}
	}
	return len(missing) == 0, missing
}
