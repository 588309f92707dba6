package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/worklog"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/observability"
)

const workLogColumns = `id, user_id, project_name, project_part, hours_worked, description, created_at, updated_at`

type WorkLogsRepo struct {
	db   *sql.DB
	prom *observability.Prom
}

func NewWorkLogsRepo(db *sql.DB, prom *observability.Prom) *WorkLogsRepo {
	return &WorkLogsRepo{db: db, prom: prom}
}

func (r *WorkLogsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func scanWorkLog(row rowScanner) (worklog.WorkLog, error) {
	var w worklog.WorkLog
	err := row.Scan(&w.ID, &w.UserID, &w.ProjectName, &w.ProjectPart, &w.HoursWorked, &w.Description, &w.CreatedAt, &w.UpdatedAt)
	w.CreatedAt = w.CreatedAt.UTC()
	w.UpdatedAt = w.UpdatedAt.UTC()
	return w, err
}

func (r *WorkLogsRepo) Create(ctx context.Context, userID int64, req worklog.Request) (worklog.WorkLog, error) {
	var id int64
	now := time.Now().UTC()

	err := r.observe("work_logs.create", func() error {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO work_logs (user_id, project_name, project_part, hours_worked, description, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			userID, req.ProjectName, req.ProjectPart, req.HoursWorked, req.Description, now, now,
		)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})

	if err != nil {
		return worklog.WorkLog{}, err
	}

	return r.GetForUser(ctx, id, userID)
}

func (r *WorkLogsRepo) ListAll(ctx context.Context) ([]worklog.WorkLog, error) {
	return r.list(ctx, "work_logs.list_all", worklog.ListFilter{},
		`SELECT `+workLogColumns+` FROM work_logs ORDER BY created_at DESC, id DESC`)
}

// ListByUser narrows by owner in SQL and applies the date/project filter in memory,
// since the driver stores timestamps as text.
func (r *WorkLogsRepo) ListByUser(ctx context.Context, userID int64, filter worklog.ListFilter) ([]worklog.WorkLog, error) {
	return r.list(ctx, "work_logs.list_by_user", filter,
		`SELECT `+workLogColumns+` FROM work_logs WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

func (r *WorkLogsRepo) list(ctx context.Context, op string, filter worklog.ListFilter, query string, args ...any) ([]worklog.WorkLog, error) {
	out := make([]worklog.WorkLog, 0)

	err := r.observe(op, func() error {
		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			w, err := scanWorkLog(rows)
			if err != nil {
				return err
			}
			if filter.Matches(w) {
				out = append(out, w)
			}
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
		w, err = scanWorkLog(r.db.QueryRowContext(ctx,
			`SELECT `+workLogColumns+` FROM work_logs WHERE id = ? AND user_id = ?`, id, userID))
		return err
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return worklog.WorkLog{}, worklog.ErrNotFound
		}
		return worklog.WorkLog{}, err
	}

	return w, nil
}

func (r *WorkLogsRepo) UpdateForUser(ctx context.Context, id, userID int64, req worklog.Request) (int64, error) {
	var affected int64

	err := r.observe("work_logs.update_for_user", func() error {
		res, err := r.db.ExecContext(ctx,
			`UPDATE work_logs
				SET project_name = ?, project_part = ?, hours_worked = ?, description = ?, updated_at = ?
			WHERE id = ? AND user_id = ?`,
			req.ProjectName, req.ProjectPart, req.HoursWorked, req.Description, time.Now().UTC(), id, userID,
		)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})

	return affected, err
}

func (r *WorkLogsRepo) DeleteForUser(ctx context.Context, id, userID int64) (int64, error) {
	var affected int64

	err := r.observe("work_logs.delete_for_user", func() error {
		res, err := r.db.ExecContext(ctx, `DELETE FROM work_logs WHERE id = ? AND user_id = ?`, id, userID)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})

	return affected, err
}
