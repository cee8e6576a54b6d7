package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	userDatamodel "github.com/frahmantamala/timeclock/internal/core/datamodel/user"
	"github.com/frahmantamala/timeclock/internal/user"
	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const selectUserColumns = `SELECT id, login, name, is_active, created_at, updated_at FROM users`

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*user.User, error) {
	var u userDatamodel.User
	query := r.db.Rebind(selectUserColumns + ` WHERE login = ?`)
	if err := r.db.GetContext(ctx, &u, query, login); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("get user by login: %w", err)
	}
	return user.FromDataModel(&u), nil
}

// Upsert inserts the user or refreshes name and active flag of an existing login.
func (r *UserRepository) Upsert(ctx context.Context, u *user.User) error {
	query := r.db.Rebind(`
INSERT INTO users (login, name, is_active, created_at, updated_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
ON CONFLICT (login) DO UPDATE SET name = excluded.name, is_active = excluded.is_active, updated_at = CURRENT_TIMESTAMP
RETURNING id`)

	if err := r.db.QueryRowxContext(ctx, query, u.Login, u.Name, u.IsActive).Scan(&u.ID); err != nil {
		return fmt.Errorf("upsert user %q: %w", u.Login, err)
	}
	return nil
}

func (r *UserRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("delete users: %w", err)
	}
	return nil
}
