// Package sqlite implements the repositories on database/sql with the go-sqlite3 driver.
// It backs local development and the repository tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/user"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/observability"
)

const userColumns = `id, email, username, password, name, role, is_verified, created_at, updated_at`

type UsersRepo struct {
	db   *sql.DB
	prom *observability.Prom
}

func NewUsersRepo(db *sql.DB, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{db: db, prom: prom}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (user.User, error) {
	var u user.User
	var role string

	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Name, &role, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt)
	u.Role = user.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()

	return u, err
}

// Create and Update read the row back with a plain SELECT; the driver only maps DATETIME
// columns to time.Time when the column declaration is known.
func (r *UsersRepo) Create(ctx context.Context, in user.CreateParams) (user.User, error) {
	var id int64
	now := time.Now().UTC()

	err := r.observe("users.create", func() error {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO users (email, username, password, name, role, is_verified, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
			in.Email, in.Username, in.PasswordHash, in.Name, string(in.Role), now, now,
		)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return user.User{}, user.ErrEmailOrUsernameTaken
		}
		return user.User{}, err
	}

	return r.GetByID(ctx, id)
}

func (r *UsersRepo) Update(ctx context.Context, id int64, req user.UpdateUserRequest) (user.User, error) {
	var affected int64

	err := r.observe("users.update", func() error {
		res, err := r.db.ExecContext(ctx,
			`UPDATE users
				SET email = ?, username = ?, name = ?, role = ?, updated_at = ?
			WHERE id = ?`,
			req.Email, req.Username, req.Name, string(req.Role), time.Now().UTC(), id,
		)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return user.User{}, user.ErrEmailOrUsernameTaken
		}
		return user.User{}, err
	}

	if affected == 0 {
		return user.User{}, user.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	return r.getOne(ctx, "users.get_by_id", `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_email", `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *UsersRepo) getOne(ctx context.Context, op, query string, arg any) (user.User, error) {
	var u user.User

	err := r.observe(op, func() error {
		var err error
		u, err = scanUser(r.db.QueryRowContext(ctx, query, arg))
		return err
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	out := make([]user.User, 0)

	err := r.observe("users.list", func() error {
		rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return err
			}
			out = append(out, u)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}
