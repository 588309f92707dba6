package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/user"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/worklog"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/http/handlers"
)

// fakeUsersRepo counts every call so tests can assert that rejected requests never reach persistence.
type fakeUsersRepo struct {
	mu    sync.Mutex
	calls int

	createFn  func(ctx context.Context, in user.CreateParams) (user.User, error)
	updateFn  func(ctx context.Context, id int64, req user.UpdateUserRequest) (user.User, error)
	getByIDFn func(ctx context.Context, id int64) (user.User, error)
	listFn    func(ctx context.Context) ([]user.User, error)
}

func (f *fakeUsersRepo) hit() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeUsersRepo) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeUsersRepo) Create(ctx context.Context, in user.CreateParams) (user.User, error) {
	f.hit()
	if f.createFn == nil {
		panic("unexpected Create")
	}
	return f.createFn(ctx, in)
}

func (f *fakeUsersRepo) Update(ctx context.Context, id int64, req user.UpdateUserRequest) (user.User, error) {
	f.hit()
	if f.updateFn == nil {
		panic("unexpected Update")
	}
	return f.updateFn(ctx, id, req)
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	f.hit()
	if f.getByIDFn == nil {
		panic("unexpected GetByID")
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]user.User, error) {
	f.hit()
	if f.listFn == nil {
		panic("unexpected List")
	}
	return f.listFn(ctx)
}

type fakeWorkLogsRepo struct {
	mu    sync.Mutex
	calls int

	createFn     func(ctx context.Context, userID int64, req worklog.Request) (worklog.WorkLog, error)
	listAllFn    func(ctx context.Context) ([]worklog.WorkLog, error)
	listByUserFn func(ctx context.Context, userID int64, filter worklog.ListFilter) ([]worklog.WorkLog, error)
	getFn        func(ctx context.Context, id, userID int64) (worklog.WorkLog, error)
	updateFn     func(ctx context.Context, id, userID int64, req worklog.Request) (int64, error)
	deleteFn     func(ctx context.Context, id, userID int64) (int64, error)
}

func (f *fakeWorkLogsRepo) hit() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeWorkLogsRepo) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeWorkLogsRepo) Create(ctx context.Context, userID int64, req worklog.Request) (worklog.WorkLog, error) {
	f.hit()
	if f.createFn == nil {
		panic("unexpected Create")
	}
	return f.createFn(ctx, userID, req)
}

func (f *fakeWorkLogsRepo) ListAll(ctx context.Context) ([]worklog.WorkLog, error) {
	f.hit()
	if f.listAllFn == nil {
		panic("unexpected ListAll")
	}
	return f.listAllFn(ctx)
}

func (f *fakeWorkLogsRepo) ListByUser(ctx context.Context, userID int64, filter worklog.ListFilter) ([]worklog.WorkLog, error) {
	f.hit()
	if f.listByUserFn == nil {
		panic("unexpected ListByUser")
	}
	return f.listByUserFn(ctx, userID, filter)
}

func (f *fakeWorkLogsRepo) GetForUser(ctx context.Context, id, userID int64) (worklog.WorkLog, error) {
	f.hit()
	if f.getFn == nil {
		panic("unexpected GetForUser")
	}
	return f.getFn(ctx, id, userID)
}

func (f *fakeWorkLogsRepo) UpdateForUser(ctx context.Context, id, userID int64, req worklog.Request) (int64, error) {
	f.hit()
	if f.updateFn == nil {
		panic("unexpected UpdateForUser")
	}
	return f.updateFn(ctx, id, userID, req)
}

func (f *fakeWorkLogsRepo) DeleteForUser(ctx context.Context, id, userID int64) (int64, error) {
	f.hit()
	if f.deleteFn == nil {
		panic("unexpected DeleteForUser")
	}
	return f.deleteFn(ctx, id, userID)
}

// newTestRouter mounts the handlers on the same paths the API uses, without cache.
func newTestRouter(users *fakeUsersRepo, logs *fakeWorkLogsRepo) *gin.Engine {
	return newTestRouterWithCache(users, logs, nil)
}

func newTestRouterWithCache(users *fakeUsersRepo, logs *fakeWorkLogsRepo, rc *handlers.ReadCache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	admin := handlers.NewAdminUsersHandler(users, rc, 4)
	dash := handlers.NewDashboardHandler(logs, rc)
	wl := handlers.NewWorkLogsHandler(logs, users, rc)

	r.GET("/api/admin/dashboard", dash.Admin)
	r.GET("/api/admin/users", admin.List)
	r.POST("/api/admin/users", admin.Create)
	r.PUT("/api/admin/users/:userId", admin.Update)
	r.GET("/api/users/:userId/dashboard", dash.User)
	r.GET("/api/users/:userId/workLogs", wl.List)
	r.POST("/api/users/:userId/workLogs", wl.Create)
	r.PUT("/api/users/:userId/workLogs/:workLogId", wl.Update)
	r.DELETE("/api/users/:userId/workLogs/:workLogId", wl.Delete)

	return r
}

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Errors  []handlers.FieldError `json:"errors"`
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("failed to unmarshal envelope: %v body=%s", err, w.Body.String())
		}
	}
	return w, env
}

// doWithContentType sends body with an explicit Content-Type; an empty contentType omits the header.
func doWithContentType(t *testing.T, r http.Handler, method, path, body, contentType string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to unmarshal envelope: %v body=%s", err, w.Body.String())
	}
	return w, env
}
