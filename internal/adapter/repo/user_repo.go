// Package repo implements the domain repositories against PostgreSQL through
// the logging SQL runner.
package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"engmate/internal/domain"
	"engmate/internal/infra"
	"engmate/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(sql infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{sql: sql}
}

// GetByID fetches a user by UUID.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QSelectUserByID, id))
}

// GetByEmail fetches a user by email, case-insensitively.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QSelectUserByEmail, email))
}

// UpdatePlan assigns a new plan and returns the updated user.
func (r *UserRepositoryPG) UpdatePlan(ctx context.Context, id string, plan domain.UserPlan) (*domain.User, error) {
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QUpdateUserPlan, id, string(plan)))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var role, plan string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Locale, &role, &plan, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.Role = domain.UserRole(role)
	u.Plan = domain.ParsePlan(plan)
	return &u, nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
