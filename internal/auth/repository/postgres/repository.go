package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Testing-de-software-2025/JWT/internal/auth/domain"
	apperrors "github.com/Testing-de-software-2025/JWT/internal/errors"
)

const uniqueViolationCode = "23505"

// Querier is the subset of pgxpool.Pool the repositories use; pgxmock's pool
// satisfies it in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PostgresUserRepository struct {
	db Querier
}

func NewPostgresUserRepository(db Querier) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, failed_login_attempts, locked_until, created_at, updated_at
		FROM users
		WHERE email = $1
		LIMIT 1;
	`
	return r.getUser(ctx, query, email)
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, failed_login_attempts, locked_until, created_at, updated_at
		FROM users
		WHERE id = $1
		LIMIT 1;
	`
	return r.getUser(ctx, query, id)
}

func (r *PostgresUserRepository) getUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	row := r.db.QueryRow(ctx, query, arg)

	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash,
		&user.FailedLoginAttempts, &user.LockedUntil, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	roles, err := r.loadRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles

	return &user, nil
}

func (r *PostgresUserRepository) loadRoles(ctx context.Context, userID string) ([]domain.Role, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.name
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}
	defer rows.Close()

	var roles []domain.Role
	index := make(map[string]int)
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		index[role.ID] = len(roles)
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(roles) == 0 {
		return nil, nil
	}

	permRows, err := r.db.Query(ctx, `
		SELECT rp.role_id, p.id, p.code
		FROM role_permissions rp
		JOIN permissions p ON p.id = rp.permission_id
		JOIN user_roles ur ON ur.role_id = rp.role_id
		WHERE ur.user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load permissions: %w", err)
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
	if err := permRows.Err(); err != nil {
		return nil, err
	}

	return roles, nil
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO users (id, email, password_hash, failed_login_attempts, locked_until, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, user.ID, user.Email, user.PasswordHash, user.FailedLoginAttempts, user.LockedUntil, user.CreatedAt, user.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return apperrors.ErrEmailAlreadyInUse
	}

	return err
}

// RecordLoginFailure bumps the failure counter and conditionally imposes the
// lock in one statement, so concurrent attempts cannot under-count. The
// post-update state is read back through RETURNING.
func (r *PostgresUserRepository) RecordLoginFailure(ctx context.Context, userID string, maxFailed int, lockUntil time.Time) (domain.LockState, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1,
		    locked_until = CASE WHEN failed_login_attempts + 1 >= $2 THEN $3 ELSE locked_until END,
		    updated_at = now()
		WHERE id = $1
		RETURNING failed_login_attempts, locked_until
	`, userID, maxFailed, lockUntil)

	var state domain.LockState
	if err := row.Scan(&state.FailedLoginAttempts, &state.LockedUntil); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.LockState{}, apperrors.ErrUserNotFound
		}
		return domain.LockState{}, fmt.Errorf("failed to record login failure: %w", err)
	}

	return state, nil
}

func (r *PostgresUserRepository) ResetLockState(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET failed_login_attempts = 0, locked_until = NULL, updated_at = now()
		WHERE id = $1 AND (failed_login_attempts <> 0 OR locked_until IS NOT NULL)
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to reset lock state: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) AssignRoles(ctx context.Context, userID string, roleIDs []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, roleID := range roleIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, userID, roleID)
		if err != nil {
			return fmt.Errorf("failed to assign role %s: %w", roleID, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresUserRepository) RemoveRole(ctx context.Context, userID, roleID string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2
	`, userID, roleID)
	return err
}
