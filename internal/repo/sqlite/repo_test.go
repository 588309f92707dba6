package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/db"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/user"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/worklog"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/repo/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	d, err := db.OpenSQLite("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	return d
}

func seedUser(t *testing.T, users *sqlite.UsersRepo, email, username string) user.User {
	t.Helper()

	u, err := users.Create(context.Background(), user.CreateParams{
		Email:        email,
		Username:     username,
		PasswordHash: "hash",
		Name:         "Test " + username,
		Role:         user.RoleStudent,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	return u
}

func countWorkLogs(t *testing.T, d *sql.DB) int {
	t.Helper()

	var n int
	if err := d.QueryRow(`SELECT COUNT(*) FROM work_logs`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestUsersRepo_CreateUpdateGet(t *testing.T) {
	d := openDB(t)
	users := sqlite.NewUsersRepo(d, nil)
	ctx := context.Background()

	u := seedUser(t, users, "ana@example.com", "ana")
	if u.ID == 0 || u.IsVerified || u.CreatedAt.IsZero() {
		t.Fatalf("unexpected created user: %+v", u)
	}

	got, err := users.GetByEmail(ctx, "ana@example.com")
	if err != nil || got.ID != u.ID {
		t.Fatalf("get by email: %v %+v", err, got)
	}

	updated, err := users.Update(ctx, u.ID, user.UpdateUserRequest{
		Email:    "ana.b@example.com",
		Username: "anab",
		Name:     "Ana B",
		Role:     user.RoleTutor,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Email != "ana.b@example.com" || updated.Role != user.RoleTutor || updated.PasswordHash != "hash" {
		t.Fatalf("unexpected updated user: %+v", updated)
	}

	_, err = users.Update(ctx, 999, user.UpdateUserRequest{Email: "x@example.com", Username: "x", Name: "x", Role: user.RoleStudent})
	if !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("update missing user: got %v, want ErrNotFound", err)
	}

	list, err := users.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}
}

func TestUsersRepo_UniqueViolation(t *testing.T) {
	d := openDB(t)
	users := sqlite.NewUsersRepo(d, nil)
	ctx := context.Background()

	seedUser(t, users, "dup@example.com", "first")

	_, err := users.Create(ctx, user.CreateParams{Email: "dup@example.com", Username: "second", PasswordHash: "h", Name: "n", Role: user.RoleStudent})
	if !errors.Is(err, user.ErrEmailOrUsernameTaken) {
		t.Fatalf("duplicate email: got %v", err)
	}

	_, err = users.Create(ctx, user.CreateParams{Email: "other@example.com", Username: "first", PasswordHash: "h", Name: "n", Role: user.RoleStudent})
	if !errors.Is(err, user.ErrEmailOrUsernameTaken) {
		t.Fatalf("duplicate username: got %v", err)
	}
}

func TestWorkLogsRepo_RoundTrip(t *testing.T) {
	d := openDB(t)
	users := sqlite.NewUsersRepo(d, nil)
	logs := sqlite.NewWorkLogsRepo(d, nil)
	ctx := context.Background()

	u := seedUser(t, users, "dev@example.com", "dev")

	in := worklog.Request{ProjectName: "Alpha", ProjectPart: "API", HoursWorked: 3, Description: "wired routes"}
	created, err := logs.Create(ctx, u.ID, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := logs.ListByUser(ctx, u.ID, worklog.ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d logs, want 1", len(list))
	}

	got := list[0]
	if got.ID == 0 || got.ID != created.ID {
		t.Fatalf("id mismatch: %d vs %d", got.ID, created.ID)
	}
	if got.UserID != u.ID || got.ProjectName != in.ProjectName || got.ProjectPart != in.ProjectPart ||
		got.HoursWorked != in.HoursWorked || got.Description != in.Description {
		t.Fatalf("fields differ from input: %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not generated: %+v", got)
	}
}

func TestWorkLogsRepo_MismatchedOwnerIsNoop(t *testing.T) {
	d := openDB(t)
	users := sqlite.NewUsersRepo(d, nil)
	logs := sqlite.NewWorkLogsRepo(d, nil)
	ctx := context.Background()

	owner := seedUser(t, users, "owner@example.com", "owner")
	other := seedUser(t, users, "other@example.com", "other")

	w, err := logs.Create(ctx, owner.ID, worklog.Request{ProjectName: "Alpha", ProjectPart: "API", HoursWorked: 2, Description: "d"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	n, err := logs.UpdateForUser(ctx, w.ID, other.ID, worklog.Request{ProjectName: "Hijack", ProjectPart: "x", HoursWorked: 1, Description: "x"})
	if err != nil || n != 0 {
		t.Fatalf("update with wrong owner: affected=%d err=%v", n, err)
	}

	n, err = logs.DeleteForUser(ctx, w.ID, other.ID)
	if err != nil || n != 0 {
		t.Fatalf("delete with wrong owner: affected=%d err=%v", n, err)
	}

	if c := countWorkLogs(t, d); c != 1 {
		t.Fatalf("row count changed: %d", c)
	}

	still, err := logs.GetForUser(ctx, w.ID, owner.ID)
	if err != nil || still.ProjectName != "Alpha" {
		t.Fatalf("row was modified: %+v %v", still, err)
	}

	if _, err := logs.GetForUser(ctx, w.ID, other.ID); !errors.Is(err, worklog.ErrNotFound) {
		t.Fatalf("get with wrong owner: got %v", err)
	}

	n, err = logs.UpdateForUser(ctx, w.ID, owner.ID, worklog.Request{ProjectName: "Beta", ProjectPart: "UI", HoursWorked: 4, Description: "moved"})
	if err != nil || n != 1 {
		t.Fatalf("owner update: affected=%d err=%v", n, err)
	}

	n, err = logs.DeleteForUser(ctx, w.ID, owner.ID)
	if err != nil || n != 1 {
		t.Fatalf("owner delete: affected=%d err=%v", n, err)
	}
	if c := countWorkLogs(t, d); c != 0 {
		t.Fatalf("row not deleted: %d", c)
	}
}

func TestWorkLogsRepo_ConcurrentCreatesProduceDistinctRows(t *testing.T) {
	d := openDB(t)
	users := sqlite.NewUsersRepo(d, nil)
	logs := sqlite.NewWorkLogsRepo(d, nil)

	u := seedUser(t, users, "busy@example.com", "busy")

	reqs := []worklog.Request{
		{ProjectName: "Alpha", ProjectPart: "API", HoursWorked: 3, Description: "first"},
		{ProjectName: "Beta", ProjectPart: "UI", HoursWorked: 5, Description: "second"},
	}

	var wg sync.WaitGroup
	ids := make([]int64, len(reqs))
	errs := make([]error, len(reqs))

	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req worklog.Request) {
			defer wg.Done()
			w, err := logs.Create(context.Background(), u.ID, req)
			ids[i], errs[i] = w.ID, err
		}(i, req)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if ids[0] == ids[1] {
		t.Fatalf("expected distinct ids, got %d twice", ids[0])
	}

	list, err := logs.ListByUser(context.Background(), u.ID, worklog.ListFilter{})
	if err != nil || len(list) != 2 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}

	descs := map[string]bool{}
	for _, w := range list {
		descs[w.Description] = true
	}
	if !descs["first"] || !descs["second"] {
		t.Fatalf("payloads merged or overwritten: %+v", list)
	}
}

func TestWorkLogsRepo_ListByUserFilter(t *testing.T) {
	d := openDB(t)
	users := sqlite.NewUsersRepo(d, nil)
	logs := sqlite.NewWorkLogsRepo(d, nil)
	ctx := context.Background()

	u := seedUser(t, users, "f@example.com", "f")
	other := seedUser(t, users, "g@example.com", "g")

	for _, p := range []string{"Alpha", "Beta"} {
		if _, err := logs.Create(ctx, u.ID, worklog.Request{ProjectName: p, ProjectPart: "x", HoursWorked: 1, Description: "d"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := logs.Create(ctx, other.ID, worklog.Request{ProjectName: "Alpha", ProjectPart: "x", HoursWorked: 1, Description: "d"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	project := "alp"
	list, err := logs.ListByUser(ctx, u.ID, worklog.ListFilter{Project: &project})
	if err != nil || len(list) != 1 || list[0].ProjectName != "Alpha" {
		t.Fatalf("project filter: %v %+v", err, list)
	}

	future := time.Now().UTC().Add(time.Hour)
	list, err = logs.ListByUser(ctx, u.ID, worklog.ListFilter{From: &future})
	if err != nil || len(list) != 0 {
		t.Fatalf("from filter: %v %+v", err, list)
	}

	all, err := logs.ListAll(ctx)
	if err != nil || len(all) != 3 {
		t.Fatalf("list all: %v len=%d", err, len(all))
	}
}
