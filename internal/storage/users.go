package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"minhasfinancas/internal/core"
)

// UserRepository is the UserDirectory view of a Repository.
type UserRepository struct {
	repo *Repository
}

// Users returns the user directory backed by the same database.
func (r *Repository) Users() *UserRepository {
	return &UserRepository{repo: r}
}

func (r *UserRepository) findUser(ctx context.Context, where string, arg any) (core.User, bool, error) {
	query := fmt.Sprintf(`SELECT id, name, email, password FROM %s WHERE %s = %s`,
		r.repo.dialect.users, where, r.repo.dialect.placeholder(1))

	var u core.User
	err := r.repo.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Email, &u.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, false, nil
	}
	if err != nil {
		return core.User{}, false, fmt.Errorf("get user by %s: %w", where, err)
	}
	return u, true, nil
}

// FindByEmail matches the email exactly.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (core.User, bool, error) {
	return r.findUser(ctx, "email", email)
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (core.User, bool, error) {
	return r.findUser(ctx, "id", id)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE email = %s)`,
		r.repo.dialect.users, r.repo.dialect.placeholder(1))

	var exists bool
	if err := r.repo.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

// Save inserts the user when its ID is zero and updates it otherwise.
func (r *UserRepository) Save(ctx context.Context, u core.User) (core.User, error) {
	d := r.repo.dialect
	err := r.repo.inTx(ctx, func(tx *sql.Tx) error {
		if u.ID == 0 {
			query := fmt.Sprintf(`INSERT INTO %s (name, email, password) VALUES (%s, %s, %s) RETURNING id`,
				d.users, d.placeholder(1), d.placeholder(2), d.placeholder(3))
			return tx.QueryRowContext(ctx, query, u.Name, u.Email, u.Password).Scan(&u.ID)
		}
		query := fmt.Sprintf(`UPDATE %s SET name = %s, email = %s, password = %s WHERE id = %s`,
			d.users, d.placeholder(1), d.placeholder(2), d.placeholder(3), d.placeholder(4))
		res, err := tx.ExecContext(ctx, query, u.Name, u.Email, u.Password, u.ID)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
	if err != nil {
		return core.User{}, fmt.Errorf("store user: %w", err)
	}
	return u, nil
}
