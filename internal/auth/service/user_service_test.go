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
	"golang.org/x/crypto/bcrypt"

	"github.com/Testing-de-software-2025/JWT/internal/auth/domain"
	"github.com/Testing-de-software-2025/JWT/internal/auth/dto"
	"github.com/Testing-de-software-2025/JWT/internal/auth/service"
	apperrors "github.com/Testing-de-software-2025/JWT/internal/errors"
	"github.com/Testing-de-software-2025/JWT/internal/mocks"
)

func newUserService(repo domain.UserRepository, roleRepo domain.RoleRepository, tokens service.TokenGenerator) *service.UserService {
	lockout := service.NewLockoutTracker(repo, zap.NewNop(), 5, 15)
	return service.NewUserService(repo, roleRepo, tokens, lockout, zap.NewNop())
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestUserService_Register_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	s := newUserService(mockRepo, nil, nil)

	input := dto.RegisterInput{
		Email:    "test@example.com",
		Password: "password123",
	}

	mockRepo.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(nil, nil)
	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	user, err := s.Register(context.Background(), input)

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, input.Email, user.Email)
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, user.PasswordHash)
	assert.Equal(t, 0, user.FailedLoginAttempts)
	assert.Nil(t, user.LockedUntil)
	assert.NotZero(t, user.CreatedAt)

	// Registration must store a hash, never the password itself.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)))
}

func TestUserService_Register_EmailAlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	s := newUserService(mockRepo, nil, nil)

	input := dto.RegisterInput{Email: "test@example.com", Password: "password123"}

	mockRepo.EXPECT().GetByEmail(gomock.Any(), input.Email).
		Return(&domain.User{ID: "existing-id", Email: input.Email}, nil)

	user, err := s.Register(context.Background(), input)

	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyInUse)
	assert.Nil(t, user)
}

func TestUserService_Register_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	s := newUserService(mockRepo, nil, nil)

	input := dto.RegisterInput{Email: "test@example.com", Password: "password123"}
	storeErr := errors.New("database error")

	mockRepo.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(nil, nil)
	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(storeErr)

	user, err := s.Register(context.Background(), input)

	assert.ErrorIs(t, err, storeErr)
	assert.Nil(t, user)
}

func TestUserService_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockTokens := mocks.NewMockTokenGenerator(ctrl)
	s := newUserService(mockRepo, nil, mockTokens)

	user := &domain.User{
		ID:           "user-123",
		Email:        "test@example.com",
		PasswordHash: hashPassword(t, "password123"),
	}

	mockRepo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
	mockTokens.EXPECT().Issue(user.Email, service.TokenClassAccess).Return("access-token", nil)
	mockTokens.EXPECT().Issue(user.Email, service.TokenClassRefresh).Return("refresh-token", nil)

	tokens, err := s.Login(context.Background(), dto.LoginInput{Email: user.Email, Password: "password123"})

	require.NoError(t, err)
	assert.Equal(t, "access-token", tokens.AccessToken)
	assert.Equal(t, "refresh-token", tokens.RefreshToken)
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	s := newUserService(mockRepo, nil, nil)

	mockRepo.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(nil, nil)

	// Unknown email reports the same error as a wrong password; the caller
	// cannot tell whether the account exists.
	_, err := s.Login(context.Background(), dto.LoginInput{Email: "ghost@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	s := newUserService(mockRepo, nil, nil)

	user := &domain.User{
		ID:           "user-123",
		Email:        "test@example.com",
		PasswordHash: hashPassword(t, "password123"),
	}

	mockRepo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
	mockRepo.EXPECT().
		RecordLoginFailure(gomock.Any(), user.ID, 5, gomock.Any()).
		Return(domain.LockState{FailedLoginAttempts: 1}, nil)

	_, err := s.Login(context.Background(), dto.LoginInput{Email: user.Email, Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestUserService_Login_LockedAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	s := newUserService(mockRepo, nil, nil)

	unlockAt := time.Now().Add(10 * time.Minute)
	user := &domain.User{
		ID:                  "user-123",
		Email:               "test@example.com",
		PasswordHash:        hashPassword(t, "password123"),
		FailedLoginAttempts: 5,
		LockedUntil:         &unlockAt,
	}

	mockRepo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)

	// Even the correct password is rejected while the lock holds.
	_, err := s.Login(context.Background(), dto.LoginInput{Email: user.Email, Password: "password123"})

	var locked *apperrors.AccountLockedError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, unlockAt, locked.UnlockAt)
}

func TestUserService_Login_SuccessResetsFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockTokens := mocks.NewMockTokenGenerator(ctrl)
	s := newUserService(mockRepo, nil, mockTokens)

	user := &domain.User{
		ID:                  "user-123",
		Email:               "test@example.com",
		PasswordHash:        hashPassword(t, "password123"),
		FailedLoginAttempts: 3,
	}

	mockRepo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
	mockRepo.EXPECT().ResetLockState(gomock.Any(), user.ID).Return(nil)
	mockTokens.EXPECT().Issue(user.Email, service.TokenClassAccess).Return("access-token", nil)
	mockTokens.EXPECT().Issue(user.Email, service.TokenClassRefresh).Return("refresh-token", nil)

	tokens, err := s.Login(context.Background(), dto.LoginInput{Email: user.Email, Password: "password123"})

	require.NoError(t, err)
	assert.NotNil(t, tokens)
	assert.Equal(t, 0, user.FailedLoginAttempts)
}

func TestUserService_Refresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTokens := mocks.NewMockTokenGenerator(ctrl)
	s := newUserService(mocks.NewMockUserRepository(ctrl), nil, mockTokens)

	expected := &dto.TokenResponse{AccessToken: "new-access", RefreshToken: "same-refresh"}
	mockTokens.EXPECT().Rotate("same-refresh").Return(expected, nil)

	tokens, err := s.Refresh("same-refresh")
	require.NoError(t, err)
	assert.Equal(t, expected, tokens)
}

func TestUserService_CanDo(t *testing.T) {
	s := newUserService(nil, nil, nil)

	holder := &domain.User{Roles: []domain.Role{
		{Name: "delivery", Permissions: []domain.Permission{{Code: "delivery_create"}}},
	}}

	assert.NoError(t, s.CanDo(holder, "delivery_create"))

	err := s.CanDo(holder, "delivery_delete")
	var forbidden *apperrors.ForbiddenError
	require.ErrorAs(t, err, &forbidden)
	assert.Equal(t, []string{"delivery_delete"}, forbidden.Missing)
}

func TestUserService_AssignRoles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockRoleRepo := mocks.NewMockRoleRepository(ctrl)
	s := newUserService(mockRepo, mockRoleRepo, nil)

	ctx := context.Background()
	user := &domain.User{ID: "user-123", Email: "test@example.com"}
	role := &domain.Role{ID: "role-1", Name: "delivery"}

	t.Run("success", func(t *testing.T) {
		updated := &domain.User{ID: user.ID, Email: user.Email, Roles: []domain.Role{*role}}

		mockRepo.EXPECT().GetByID(ctx, user.ID).Return(user, nil)
		mockRoleRepo.EXPECT().GetByID(ctx, role.ID).Return(role, nil)
		mockRepo.EXPECT().AssignRoles(ctx, user.ID, []string{role.ID}).Return(nil)
		mockRepo.EXPECT().GetByID(ctx, user.ID).Return(updated, nil)

		got, err := s.AssignRoles(ctx, user.ID, dto.AssignRolesInput{RoleIDs: []string{role.ID}})
		require.NoError(t, err)
		assert.Len(t, got.Roles, 1)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(ctx, "missing").Return(nil, nil)

		_, err := s.AssignRoles(ctx, "missing", dto.AssignRolesInput{RoleIDs: []string{role.ID}})
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("unknown role", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(ctx, user.ID).Return(user, nil)
		mockRoleRepo.EXPECT().GetByID(ctx, "missing").Return(nil, nil)

		_, err := s.AssignRoles(ctx, user.ID, dto.AssignRolesInput{RoleIDs: []string{"missing"}})
		assert.ErrorIs(t, err, apperrors.ErrRoleNotFound)
	})
}

func TestUserService_RemoveRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockRoleRepo := mocks.NewMockRoleRepository(ctrl)
	s := newUserService(mockRepo, mockRoleRepo, nil)

	ctx := context.Background()
	user := &domain.User{ID: "user-123"}
	role := &domain.Role{ID: "role-1", Name: "delivery"}

	mockRepo.EXPECT().GetByID(ctx, user.ID).Return(user, nil)
	mockRoleRepo.EXPECT().GetByID(ctx, role.ID).Return(role, nil)
	mockRepo.EXPECT().RemoveRole(ctx, user.ID, role.ID).Return(nil)

	assert.NoError(t, s.RemoveRole(ctx, user.ID, role.ID))
}
