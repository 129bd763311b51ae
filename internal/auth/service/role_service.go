package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Testing-de-software-2025/JWT/internal/auth/domain"
	"github.com/Testing-de-software-2025/JWT/internal/auth/dto"
	apperrors "github.com/Testing-de-software-2025/JWT/internal/errors"
)

type RoleService struct {
	repo           domain.RoleRepository
	permissionRepo domain.PermissionRepository
}

func NewRoleService(repo domain.RoleRepository, permissionRepo domain.PermissionRepository) *RoleService {
	return &RoleService{repo: repo, permissionRepo: permissionRepo}
}

func (s *RoleService) Create(ctx context.Context, input dto.CreateRoleInput) (*domain.Role, error) {
	now := time.Now()
	role := &domain.Role{
		ID:        uuid.New().String(),
		Name:      input.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, role); err != nil {
		return nil, err
	}

	return role, nil
}

func (s *RoleService) List(ctx context.Context) ([]domain.Role, error) {
	return s.repo.List(ctx)
}

func (s *RoleService) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperrors.ErrRoleNotFound
	}
	return role, nil
}

func (s *RoleService) Update(ctx context.Context, id string, input dto.CreateRoleInput) (*domain.Role, error) {
	role, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	role.Name = input.Name
	role.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, role); err != nil {
		return nil, err
	}

	return role, nil
}

func (s *RoleService) Delete(ctx context.Context, id string) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *RoleService) AssignPermissions(ctx context.Context, id string, input dto.AssignPermissionsInput) (*domain.Role, error) {
	if _, err := s.FindByID(ctx, id); err != nil {
		return nil, err
	}

	for _, permissionID := range input.PermissionIDs {
		permission, err := s.permissionRepo.GetByID(ctx, permissionID)
		if err != nil {
			return nil, err
		}
		if permission == nil {
			return nil, apperrors.ErrPermissionNotFound
		}
	}

	if err := s.repo.AssignPermissions(ctx, id, input.PermissionIDs); err != nil {
		return nil, err
	}

	return s.FindByID(ctx, id)
}

func (s *RoleService) RemovePermission(ctx context.Context, id, permissionID string) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}

	permission, err := s.permissionRepo.GetByID(ctx, permissionID)
	if err != nil {
		return err
	}
	if permission == nil {
		return apperrors.ErrPermissionNotFound
	}

	return s.repo.RemovePermission(ctx, id, permissionID)
}
