package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Testing-de-software-2025/JWT/internal/auth/domain"
	"github.com/Testing-de-software-2025/JWT/internal/auth/dto"
	apperrors "github.com/Testing-de-software-2025/JWT/internal/errors"
)

type PermissionService struct {
	repo domain.PermissionRepository
}

func NewPermissionService(repo domain.PermissionRepository) *PermissionService {
	return &PermissionService{repo: repo}
}

func (s *PermissionService) Create(ctx context.Context, input dto.CreatePermissionInput) (*domain.Permission, error) {
	now := time.Now()
	permission := &domain.Permission{
		ID:        uuid.New().String(),
		Code:      input.Code,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, permission); err != nil {
		return nil, err
	}

	return permission, nil
}

func (s *PermissionService) List(ctx context.Context) ([]domain.Permission, error) {
	return s.repo.List(ctx)
}

func (s *PermissionService) FindByID(ctx context.Context, id string) (*domain.Permission, error) {
	permission, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if permission == nil {
		return nil, apperrors.ErrPermissionNotFound
	}
	return permission, nil
}

func (s *PermissionService) Update(ctx context.Context, id string, input dto.CreatePermissionInput) (*domain.Permission, error) {
	permission, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	permission.Code = input.Code
	permission.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, permission); err != nil {
		return nil, err
	}

	return permission, nil
}

func (s *PermissionService) Delete(ctx context.Context, id string) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
