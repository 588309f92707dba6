package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/worklog"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/observability"
)

const workLogColumns = `id, user_id, project_name, project_part, hours_worked, description, created_at, updated_at`

type WorkLogsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

// constructor function

func NewWorkLogsRepo(pool *pgxpool.Pool, prom *observability.Prom) *WorkLogsRepo {
	return &WorkLogsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *WorkLogsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func scanWorkLog(row pgx.Row) (worklog.WorkLog, error) {
	var w worklog.WorkLog
	err := row.Scan(&w.ID, &w.UserID, &w.ProjectName, &w.ProjectPart, &w.HoursWorked, &w.Description, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

func (r *WorkLogsRepo) Create(ctx context.Context, userID int64, req worklog.Request) (worklog.WorkLog, error) {
	var w worklog.WorkLog

	err := r.observe("work_logs.create", func() error {
		var err error
		w, err = scanWorkLog(r.pool.QueryRow(ctx,
			`INSERT INTO work_logs (user_id, project_name, project_part, hours_worked, description, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			RETURNING `+workLogColumns,
			userID, req.ProjectName, req.ProjectPart, req.HoursWorked, req.Description,
		))
		return err
	})

	if err != nil {
		return worklog.WorkLog{}, err
	}

	return w, nil
}

func (r *WorkLogsRepo) ListAll(ctx context.Context) ([]worklog.WorkLog, error) {
	return r.list(ctx, "work_logs.list_all", `SELECT `+workLogColumns+` FROM work_logs ORDER BY created_at DESC, id DESC`)
}

func (r *WorkLogsRepo) ListByUser(ctx context.Context, userID int64, filter worklog.ListFilter) ([]worklog.WorkLog, error) {
	conds := []string{"user_id = $1"}
	args := []interface{}{userID}

	argsPosition := 2

	// filtered conditional checks.
	if filter.From != nil {
		conds = append(conds, fmt.Sprintf("created_at >= $%d", argsPosition))
		args = append(args, *filter.From)
		argsPosition++
	}

	if filter.To != nil {
		conds = append(conds, fmt.Sprintf("created_at <= $%d", argsPosition))
		args = append(args, *filter.To)
		argsPosition++
	}

	if filter.Project != nil && strings.TrimSpace(*filter.Project) != "" {
		conds = append(conds, fmt.Sprintf("project_name ILIKE $%d", argsPosition))
		args = append(args, "%"+escapeLike(strings.TrimSpace(*filter.Project))+"%")
	}

	query := `SELECT ` + workLogColumns + ` FROM work_logs WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY created_at DESC, id DESC`

	return r.list(ctx, "work_logs.list_by_user", query, args...)
}

func (r *WorkLogsRepo) list(ctx context.Context, op, query string, args ...interface{}) ([]worklog.WorkLog, error) {
	out := make([]worklog.WorkLog, 0)

	err := r.observe(op, func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			w, err := scanWorkLog(rows)
			if err != nil {
				return err
			}
			out = append(out, w)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *WorkLogsRepo) GetForUser(ctx context.Context, id, userID int64) (worklog.WorkLog, error) {
	var w worklog.WorkLog

	err := r.observe("work_logs.get_for_user", func() error {
		var err error
		w, err = scanWorkLog(r.pool.QueryRow(ctx,
			`SELECT `+workLogColumns+` FROM work_logs WHERE id = $1 AND user_id = $2`, id, userID))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return worklog.WorkLog{}, worklog.ErrNotFound
		}
		return worklog.WorkLog{}, err
	}

	return w, nil
}

// UpdateForUser overwrites the row matching (id, userID) and reports how many rows changed.
func (r *WorkLogsRepo) UpdateForUser(ctx context.Context, id, userID int64, req worklog.Request) (int64, error) {
	var affected int64

	err := r.observe("work_logs.update_for_user", func() error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE work_logs
				SET project_name = $3,
					project_part = $4,
					hours_worked = $5,
					description = $6,
					updated_at = NOW()
			WHERE id = $1 AND user_id = $2`,
			id, userID, req.ProjectName, req.ProjectPart, req.HoursWorked, req.Description,
		)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})

	return affected, err
}

func (r *WorkLogsRepo) DeleteForUser(ctx context.Context, id, userID int64) (int64, error) {
	var affected int64

	err := r.observe("work_logs.delete_for_user", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM work_logs WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})

	return affected, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
