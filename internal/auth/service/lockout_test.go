package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Testing-de-software-2025/JWT/internal/auth/domain"
	"github.com/Testing-de-software-2025/JWT/internal/auth/service"
	apperrors "github.com/Testing-de-software-2025/JWT/internal/errors"
	"github.com/Testing-de-software-2025/JWT/internal/mocks"
)

func newTracker(repo domain.UserRepository) *service.LockoutTracker {
	return service.NewLockoutTracker(repo, zap.NewNop(), 5, 15)
}

func TestLockoutTracker_Check(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	tracker := newTracker(mockRepo)
	ctx := context.Background()

	t.Run("unlocked account passes untouched", func(t *testing.T) {
		user := &domain.User{ID: "user-1"}

		err := tracker.Check(ctx, user)
		require.NoError(t, err)
	})

	t.Run("active lock rejects with unlock time", func(t *testing.T) {
		unlockAt := time.Now().Add(10 * time.Minute)
		user := &domain.User{ID: "user-1", FailedLoginAttempts: 5, LockedUntil: &unlockAt}

		err := tracker.Check(ctx, user)

		var locked *apperrors.AccountLockedError
		require.ErrorAs(t, err, &locked)
		assert.Equal(t, unlockAt, locked.UnlockAt)
		// The stored counter stays untouched while locked.
		assert.Equal(t, 5, user.FailedLoginAttempts)
	})

	t.Run("expired lock is cleared lazily", func(t *testing.T) {
		expired := time.Now().Add(-time.Minute)
		user := &domain.User{ID: "user-1", FailedLoginAttempts: 5, LockedUntil: &expired}

		mockRepo.EXPECT().ResetLockState(gomock.Any(), "user-1").Return(nil)

		err := tracker.Check(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, 0, user.FailedLoginAttempts)
		assert.Nil(t, user.LockedUntil)
	})

	t.Run("store failure clearing an expired lock is a hard error", func(t *testing.T) {
		expired := time.Now().Add(-time.Minute)
		user := &domain.User{ID: "user-1", LockedUntil: &expired}
		storeErr := errors.New("store unavailable")

		mockRepo.EXPECT().ResetLockState(gomock.Any(), "user-1").Return(storeErr)

		err := tracker.Check(ctx, user)
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestLockoutTracker_OnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	tracker := newTracker(mockRepo)
	ctx := context.Background()
	user := &domain.User{ID: "user-1"}

	t.Run("below threshold reports invalid credentials", func(t *testing.T) {
		mockRepo.EXPECT().
			RecordLoginFailure(gomock.Any(), "user-1", 5, gomock.Any()).
			Return(domain.LockState{FailedLoginAttempts: 2}, nil)

		err := tracker.OnFailure(ctx, user)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("reaching threshold locks the account", func(t *testing.T) {
		unlockAt := time.Now().Add(15 * time.Minute)
		mockRepo.EXPECT().
			RecordLoginFailure(gomock.Any(), "user-1", 5, gomock.Any()).
			Return(domain.LockState{FailedLoginAttempts: 5, LockedUntil: &unlockAt}, nil)

		err := tracker.OnFailure(ctx, user)

		var locked *apperrors.AccountLockedError
		require.ErrorAs(t, err, &locked)
		assert.Equal(t, unlockAt, locked.UnlockAt)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		storeErr := errors.New("store unavailable")
		mockRepo.EXPECT().
			RecordLoginFailure(gomock.Any(), "user-1", 5, gomock.Any()).
			Return(domain.LockState{}, storeErr)

		err := tracker.OnFailure(ctx, user)
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestLockoutTracker_OnSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	tracker := newTracker(mockRepo)
	ctx := context.Background()

	t.Run("clean state writes nothing", func(t *testing.T) {
		user := &domain.User{ID: "user-1"}

		err := tracker.OnSuccess(ctx, user)
		require.NoError(t, err)
	})

	t.Run("accumulated failures are reset", func(t *testing.T) {
		user := &domain.User{ID: "user-1", FailedLoginAttempts: 3}

		mockRepo.EXPECT().ResetLockState(gomock.Any(), "user-1").Return(nil)

		err := tracker.OnSuccess(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, 0, user.FailedLoginAttempts)
		assert.Nil(t, user.LockedUntil)
	})
}
