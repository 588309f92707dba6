package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/cache"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/user"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/worklog"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/http/handlers"
)

// The first listing snapshots the rows and then blocks until a create has committed
// and invalidated the cache. Its result must not be cached over the newer row.
func TestReadCache_ListStartedBeforeCreateIsNotCached(t *testing.T) {
	paths := []string{
		"/api/users/1/workLogs",
		"/api/users/1/dashboard",
		"/api/admin/dashboard",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			var (
				mu    sync.Mutex
				rows  []worklog.WorkLog
				first sync.Once
			)
			started := make(chan struct{})
			release := make(chan struct{})

			list := func() []worklog.WorkLog {
				mu.Lock()
				snapshot := append([]worklog.WorkLog(nil), rows...)
				mu.Unlock()

				first.Do(func() {
					close(started)
					<-release
				})
				return snapshot
			}

			users := &fakeUsersRepo{
				getByIDFn: func(ctx context.Context, id int64) (user.User, error) {
					return user.User{ID: id}, nil
				},
			}
			logs := &fakeWorkLogsRepo{
				listAllFn: func(ctx context.Context) ([]worklog.WorkLog, error) {
					return list(), nil
				},
				listByUserFn: func(ctx context.Context, userID int64, filter worklog.ListFilter) ([]worklog.WorkLog, error) {
					return list(), nil
				},
				createFn: func(ctx context.Context, userID int64, req worklog.Request) (worklog.WorkLog, error) {
					mu.Lock()
					defer mu.Unlock()

					now := time.Now().UTC()
					w := worklog.WorkLog{
						ID:          int64(len(rows) + 1),
						UserID:      userID,
						ProjectName: req.ProjectName,
						ProjectPart: req.ProjectPart,
						HoursWorked: req.HoursWorked,
						Description: req.Description,
						CreatedAt:   now,
						UpdatedAt:   now,
					}
					rows = append(rows, w)
					return w, nil
				},
			}
			rc := handlers.NewReadCache(cache.New(time.Minute), nil)
			r := newTestRouterWithCache(users, logs, rc)

			done := make(chan int)
			go func() {
				w := httptest.NewRecorder()
				r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
				done <- w.Code
			}()

			<-started

			w, _ := doJSON(t, r, http.MethodPost, "/api/users/1/workLogs", validLogBody)
			if w.Code != http.StatusCreated {
				t.Fatalf("create: got status %d", w.Code)
			}

			close(release)
			if code := <-done; code != http.StatusOK {
				t.Fatalf("blocked read: got status %d", code)
			}

			w, env := doJSON(t, r, http.MethodGet, path, "")
			if w.Code != http.StatusOK {
				t.Fatalf("read after create: got status %d", w.Code)
			}

			var got []worklog.Response
			if err := json.Unmarshal(env.Data, &got); err != nil {
				t.Fatalf("decode data: %v", err)
			}
			if len(got) != 1 || got[0].ProjectName != "Atlas" {
				t.Fatalf("list after create: %+v, want the created row", got)
			}
		})
	}
}

func TestReadCache_KeepsResultWithoutConcurrentWrite(t *testing.T) {
	logs := &fakeWorkLogsRepo{
		listByUserFn: func(ctx context.Context, userID int64, filter worklog.ListFilter) ([]worklog.WorkLog, error) {
			return sampleLogs(), nil
		},
	}
	rc := handlers.NewReadCache(cache.New(time.Minute), nil)
	r := newTestRouterWithCache(&fakeUsersRepo{}, logs, rc)

	doJSON(t, r, http.MethodGet, "/api/users/1/workLogs", "")
	doJSON(t, r, http.MethodGet, "/api/users/1/workLogs", "")

	if logs.Calls() != 1 {
		t.Fatalf("second read should be served from cache, got %d repo calls", logs.Calls())
	}
}
