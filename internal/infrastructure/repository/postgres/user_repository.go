package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jpvandijk/koopflow/internal/core/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, name, password_hash, is_admin,
COALESCE(organization_id, ''), COALESCE(pending_organization_id, ''), created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (
	id, email, name, password_hash, is_admin, organization_id, pending_organization_id, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),NULLIF($7,''),$8,$9)
`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.IsAdmin,
		user.OrganizationID, user.PendingOrganizationID, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query, arg string) (*domain.User, error) {
	var user domain.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.IsAdmin,
		&user.OrganizationID, &user.PendingOrganizationID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get user", errors.New("no such user"))
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}

// ListByOrganization returns approved members together with accounts pending
// approval for the same organization.
func (r *UserRepository) ListByOrganization(ctx context.Context, organizationID string) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE organization_id = $1 OR pending_organization_id = $1
ORDER BY created_at ASC
`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.IsAdmin,
			&user.OrganizationID, &user.PendingOrganizationID, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) SetMembership(ctx context.Context, id, organizationID, pendingOrganizationID string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET organization_id = NULLIF($2, ''), pending_organization_id = NULLIF($3, ''), updated_at = $4
WHERE id = $1
`, id, organizationID, pendingOrganizationID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set membership: %w", err)
	}
	return requireAffected(res, "set membership")
}

func (r *UserRepository) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET is_admin = $2, updated_at = $3 WHERE id = $1
`, id, isAdmin, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set admin: %w", err)
	}
	return requireAffected(res, "set admin")
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireAffected(res, "delete user")
}

func (r *UserRepository) CountAdmins(ctx context.Context, organizationID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM users WHERE organization_id = $1 AND is_admin
`, organizationID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return count, nil
}

func requireAffected(res sql.Result, operation string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, operation, errors.New("no such user"))
	}
	return nil
}
