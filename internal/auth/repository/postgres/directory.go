package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Testing-de-software-2025/JWT/internal/auth/domain"
	apperrors "github.com/Testing-de-software-2025/JWT/internal/errors"
)

// PostgresRoleRepository and PostgresPermissionRepository back the
// role/permission directory.
type PostgresRoleRepository struct {
	db Querier
}

func NewPostgresRoleRepository(db Querier) *PostgresRoleRepository {
	return &PostgresRoleRepository{db: db}
}

func (r *PostgresRoleRepository) Create(ctx context.Context, role *domain.Role) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO roles (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`, role.ID, role.Name, role.CreatedAt, role.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return apperrors.ErrCreationFailed
	}

	return err
}

func (r *PostgresRoleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, created_at, updated_at
		FROM roles
		WHERE id = $1
		LIMIT 1;
	`, id)

	var role domain.Role
	err := row.Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	permissions, err := r.loadPermissions(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	role.Permissions = permissions

	return &role, nil
}

func (r *PostgresRoleRepository) loadPermissions(ctx context.Context, roleID string) ([]domain.Permission, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.code
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1
	`, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load role permissions: %w", err)
	}
	defer rows.Close()

	var permissions []domain.Permission
	for rows.Next() {
		var perm domain.Permission
		if err := rows.Scan(&perm.ID, &perm.Code); err != nil {
			return nil, err
		}
		permissions = append(permissions, perm)
	}

	return permissions, rows.Err()
}

func (r *PostgresRoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, created_at, updated_at
		FROM roles
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var roles []domain.Role
	index := make(map[string]int)
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		index[role.ID] = len(roles)
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(roles) == 0 {
		return roles, nil
	}

	permRows, err := r.db.Query(ctx, `
		SELECT rp.role_id, p.id, p.code
		FROM role_permissions rp
		JOIN permissions p ON p.id = rp.permission_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list role permissions: %w", err)
	}
	defer permRows.Close()

	for permRows.Next() {
		var roleID string
		var perm domain.Permission
		if err := permRows.Scan(&roleID, &perm.ID, &perm.Code); err != nil {
			return nil, err
		}
		if i, ok := index[roleID]; ok {
			roles[i].Permissions = append(roles[i].Permissions, perm)
		}
	}

	return roles, permRows.Err()
}

func (r *PostgresRoleRepository) Update(ctx context.Context, role *domain.Role) error {
	_, err := r.db.Exec(ctx, `
		UPDATE roles SET name = $2, updated_at = $3 WHERE id = $1
	`, role.ID, role.Name, role.UpdatedAt)
	return err
}

func (r *PostgresRoleRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, query := range []string{
		`DELETE FROM role_permissions WHERE role_id = $1`,
		`DELETE FROM user_roles WHERE role_id = $1`,
		`DELETE FROM roles WHERE id = $1`,
	} {
		if _, err := tx.Exec(ctx, query, id); err != nil {
			return fmt.Errorf("failed to delete role: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresRoleRepository) AssignPermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, permissionID := range permissionIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO role_permissions (role_id, permission_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, roleID, permissionID)
		if err != nil {
			return fmt.Errorf("failed to assign permission %s: %w", permissionID, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresRoleRepository) RemovePermission(ctx context.Context, roleID, permissionID string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2
	`, roleID, permissionID)
	return err
}

type PostgresPermissionRepository struct {
	db Querier
}

func NewPostgresPermissionRepository(db Querier) *PostgresPermissionRepository {
	return &PostgresPermissionRepository{db: db}
}

func (r *PostgresPermissionRepository) Create(ctx context.Context, permission *domain.Permission) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO permissions (id, code, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`, permission.ID, permission.Code, permission.CreatedAt, permission.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return apperrors.ErrCreationFailed
	}

	return err
}

func (r *PostgresPermissionRepository) GetByID(ctx context.Context, id string) (*domain.Permission, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, code, created_at, updated_at
		FROM permissions
		WHERE id = $1
		LIMIT 1;
	`, id)

	var permission domain.Permission
	err := row.Scan(&permission.ID, &permission.Code, &permission.CreatedAt, &permission.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}

	return &permission, nil
}

func (r *PostgresPermissionRepository) List(ctx context.Context) ([]domain.Permission, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, code, created_at, updated_at
		FROM permissions
		ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	defer rows.Close()

	var permissions []domain.Permission
	for rows.Next() {
		var perm domain.Permission
		if err := rows.Scan(&perm.ID, &perm.Code, &perm.CreatedAt, &perm.UpdatedAt); err != nil {
			return nil, err
		}
		permissions = append(permissions, perm)
	}

	return permissions, rows.Err()
}

func (r *PostgresPermissionRepository) Update(ctx context.Context, permission *domain.Permission) error {
	_, err := r.db.Exec(ctx, `
		UPDATE permissions SET code = $2, updated_at = $3 WHERE id = $1
	`, permission.ID, permission.Code, permission.UpdatedAt)
	return err
}

func (r *PostgresPermissionRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, query := range []string{
		`DELETE FROM role_permissions WHERE permission_id = $1`,
		`DELETE FROM permissions WHERE id = $1`,
	} {
		if _, err := tx.Exec(ctx, query, id); err != nil {
			return fmt.Errorf("failed to delete permission: %w", err)
		}
	}

	return tx.Commit(ctx)
}
