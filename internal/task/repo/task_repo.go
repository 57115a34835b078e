package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-tasks-go/internal/task/entity"
	"github.com/ovaphlow/pitchfork/service-tasks-go/pkg/hateoas"
)

// SortColumns maps API sort fields to columns.
var SortColumns = map[string]string{
	"id":      "id",
	"title":   "title",
	"status":  "status",
	"dueDate": "due_date",
}

const taskColumns = `id, title, description, status, due_date, created_at, updated_at`

// Repo is the tasks table accessor.
type Repo struct {
	db *sqlx.DB
}

func NewRepo(db *sqlx.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Create(ctx context.Context, t *entity.Task) error {
	const q = `INSERT INTO tasks (id, title, description, status, due_date)
		VALUES (:id, :title, :description, :status, :due_date) RETURNING created_at, updated_at`
	rows, err := r.db.NamedQueryContext(ctx, q, t)
	if err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return errors.New("insert returned no row")
	}
	return rows.Scan(&t.CreatedAt, &t.UpdatedAt)
}

// GetByID returns the task or sql.ErrNoRows.
func (r *Repo) GetByID(ctx context.Context, id int64) (*entity.Task, error) {
	var t entity.Task
	if err := r.db.GetContext(ctx, &t, `SELECT `+taskColumns+` FROM tasks WHERE id=$1`, id); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns one page of tasks whose title contains search and the total
// number of matches.
func (r *Repo) List(ctx context.Context, search string, p hateoas.Pageable) ([]*entity.Task, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM tasks WHERE strpos(title, $1) > 0`, search); err != nil {
		return nil, 0, err
	}
	q := fmt.Sprintf(`SELECT %s FROM tasks WHERE strpos(title, $1) > 0 ORDER BY %s LIMIT $2 OFFSET $3`,
		taskColumns, p.OrderBy("id"))
	tasks := []*entity.Task{}
	if err := r.db.SelectContext(ctx, &tasks, q, search, p.Size, p.Offset()); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *Repo) Update(ctx context.Context, t *entity.Task) (int64, error) {
	const q = `UPDATE tasks SET title=$2, description=$3, status=$4, due_date=$5, updated_at=NOW() WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, t.ID, t.Title, t.Description, t.Status, t.DueDate)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *Repo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
