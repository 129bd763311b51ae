package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Testing-de-software-2025/JWT/internal/auth/domain"
	"github.com/Testing-de-software-2025/JWT/internal/auth/dto"
	apperrors "github.com/Testing-de-software-2025/JWT/internal/errors"
)

const bcryptCost = 10

// dummyHash is compared against when the email is unknown so that the
// response time does not reveal whether the account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), bcryptCost)

type UserService struct {
	repo         domain.UserRepository
	roleRepo     domain.RoleRepository
	tokenService TokenGenerator
	lockout      *LockoutTracker
	log          *zap.Logger
}

func NewUserService(repo domain.UserRepository, roleRepo domain.RoleRepository, tokenService TokenGenerator, lockout *LockoutTracker, log *zap.Logger) *UserService {
	return &UserService{
		repo:         repo,
		roleRepo:     roleRepo,
		tokenService: tokenService,
		lockout:      lockout,
		log:          log,
	}
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	existingUser, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, apperrors.ErrEmailAlreadyInUse
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	user := &domain.User{
		ID:                  uuid.New().String(),
		Email:               input.Email,
		PasswordHash:        string(hashedPassword),
		FailedLoginAttempts: 0,
		LockedUntil:         nil,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login validates credentials, runs the lockout state machine and, on
// success, returns a fresh access/refresh token pair.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Level the timing against the known-email path.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(input.Password))
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.lockout.Check(ctx, user); err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, s.lockout.OnFailure(ctx, user)
	}

	if err := s.lockout.OnSuccess(ctx, user); err != nil {
		return nil, err
	}

	accessToken, err := s.tokenService.Issue(user.Email, TokenClassAccess)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokenService.Issue(user.Email, TokenClassRefresh)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID))

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *UserService) Refresh(refreshToken string) (*dto.TokenResponse, error) {
	return s.tokenService.Rotate(refreshToken)
}

func (s *UserService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

// CanDo reports whether the user holds the given permission code.
func (s *UserService) CanDo(user *domain.User, permission string) error {
	ok, missing := user.HasPermissions([]string{permission})
	if !ok {
		return &apperrors.ForbiddenError{Missing: missing}
	}
	return nil
}

func (s *UserService) AssignRoles(ctx context.Context, userID string, input dto.AssignRolesInput) (*domain.User, error) {
	if _, err := s.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	for _, roleID := range input.RoleIDs {
		role, err := s.roleRepo.GetByID(ctx, roleID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, apperrors.ErrRoleNotFound
		}
	}

	if err := s.repo.AssignRoles(ctx, userID, input.RoleIDs); err != nil {
		return nil, err
	}

	return s.FindByID(ctx, userID)
}

func (s *UserService) RemoveRole(ctx context.Context, userID, roleID string) error {
	if _, err := s.FindByID(ctx, userID); err != nil {
		return err
	}

	role, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return apperrors.ErrRoleNotFound
	}

	return s.repo.RemoveRole(ctx, userID, roleID)
}
