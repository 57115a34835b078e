package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ovaphlow/pitchfork/service-tasks-go/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-tasks-go/pkg/hateoas"
)

// ErrDuplicate is returned when a write violates the username unique constraint.
var ErrDuplicate = errors.New("duplicate username")

// SortColumns maps API sort fields to columns.
var SortColumns = map[string]string{
	"id":       "id",
	"username": "username",
}

const userColumns = `id, username, password_hash, roles, created_at, updated_at`

// UserRepo provides data access for users table using sqlx.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts u and fills its timestamps.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	const q = `INSERT INTO users (id, username, password_hash, roles)
		VALUES (:id, :username, :password_hash, :roles) RETURNING created_at, updated_at`
	rows, err := r.db.NamedQueryContext(ctx, q, u)
	if err != nil {
		return mapErr(err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return mapErr(err)
		}
		return errors.New("insert returned no row")
	}
	return rows.Scan(&u.CreatedAt, &u.UpdatedAt)
}

// GetByID returns the user or sql.ErrNoRows.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	var u entity.User
	if err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id=$1`, id); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername returns the user or sql.ErrNoRows.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var u entity.User
	if err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE username=$1`, username); err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns one page of users whose username contains search, plus the
// total number of matches.
func (r *UserRepo) List(ctx context.Context, search string, p hateoas.Pageable) ([]*entity.User, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users WHERE strpos(username, $1) > 0`, search); err != nil {
		return nil, 0, err
	}
	q := fmt.Sprintf(`SELECT %s FROM users WHERE strpos(username, $1) > 0 ORDER BY %s LIMIT $2 OFFSET $3`,
		userColumns, p.OrderBy("id"))
	users := []*entity.User{}
	if err := r.db.SelectContext(ctx, &users, q, search, p.Size, p.Offset()); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update overwrites username, password hash and roles. It returns the number
// of rows touched.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) (int64, error) {
	const q = `UPDATE users SET username=$2, password_hash=$3, roles=$4, updated_at=NOW() WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, u.ID, u.Username, u.PasswordHash, u.Roles)
	if err != nil {
		return 0, mapErr(err)
	}
	return res.RowsAffected()
}

func (r *UserRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func mapErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
