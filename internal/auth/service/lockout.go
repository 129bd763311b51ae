package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Testing-de-software-2025/JWT/internal/auth/domain"
	apperrors "github.com/Testing-de-software-2025/JWT/internal/errors"
)

// LockoutTracker drives the per-account lockout state machine. There is no
// background timer; an expired lock is cleared lazily on the next attempt.
// All state lives in the user store, so concurrent attempts against the same
// account are serialized by the store's atomic lock-state writes.
type LockoutTracker struct {
	repo         domain.UserRepository
	log          *zap.Logger
	maxFailed    int
	lockDuration time.Duration
}

func NewLockoutTracker(repo domain.UserRepository, log *zap.Logger, maxFailed, lockDurationMinutes int) *LockoutTracker {
	return &LockoutTracker{
		repo:         repo,
		log:          log,
		maxFailed:    maxFailed,
		lockDuration: time.Duration(lockDurationMinutes) * time.Minute,
	}
}

// Check rejects the attempt while the lock is in effect; an attempt against a
// locked account does not itself count as a failure. An expired lock is
// cleared here, before the credential is evaluated, and the in-memory user is
// updated to match.
func (t *LockoutTracker) Check(ctx context.Context, user *domain.User) error {
	if user.LockedUntil == nil {
		return nil
	}

	if time.Now().Before(*user.LockedUntil) {
		return &apperrors.AccountLockedError{UnlockAt: *user.LockedUntil}
	}

	if err := t.repo.ResetLockState(ctx, user.ID); err != nil {
		return err
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil

	return nil
}

// OnFailure records a credential mismatch through a single conditional store
// write and reports AccountLocked when that write tripped the threshold.
func (t *LockoutTracker) OnFailure(ctx context.Context, user *domain.User) error {
	state, err := t.repo.RecordLoginFailure(ctx, user.ID, t.maxFailed, time.Now().Add(t.lockDuration))
	if err != nil {
		return err
	}

	if state.LockedUntil != nil {
		t.log.Warn("account locked after repeated failed logins",
			zap.String("user_id", user.ID),
			zap.Int("failed_attempts", state.FailedLoginAttempts),
			zap.Time("locked_until", *state.LockedUntil))
		return &apperrors.AccountLockedError{UnlockAt: *state.LockedUntil}
	}

	t.log.Info("failed login attempt",
		zap.String("user_id", user.ID),
		zap.Int("failed_attempts", state.FailedLoginAttempts))

	return apperrors.ErrInvalidCredentials
}

// OnSuccess resets the lockout fields after a successful authentication.
func (t *LockoutTracker) OnSuccess(ctx context.Context, user *domain.User) error {
	if user.FailedLoginAttempts == 0 && user.LockedUntil == nil {
		return nil
	}

	if err := t.repo.ResetLockState(ctx, user.ID); err != nil {
		return err
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil

	return nil
}
