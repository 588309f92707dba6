package client_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/client"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/config"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/db"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/user"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/worklog"
	apphttp "github.com/opengig-mvps/tmt-izsb0sdo3/internal/http"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/repo/sqlite"
)

func newServer(t *testing.T) *client.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	sqlDB, err := db.OpenSQLite("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	router := apphttp.NewRouter(apphttp.Deps{
		Config:   config.Config{Env: "test", BcryptCost: 4, MaxBodyBytes: 1 << 20},
		Users:    sqlite.NewUsersRepo(sqlDB, nil),
		WorkLogs: sqlite.NewWorkLogsRepo(sqlDB, nil),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return client.New(srv.URL+"/", srv.Client())
}

func TestClient_EndToEnd(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	u, msg, err := c.CreateUser(ctx, user.CreateUserRequest{
		Email: "eve@example.com", Password: "secret123", Username: "eve", Name: "Eve", Role: user.RoleStudent,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if msg != "User created successfully" || u.ID == 0 {
		t.Fatalf("got %q %+v", msg, u)
	}

	created, _, err := c.CreateWorkLog(ctx, u.ID, worklog.Request{
		ProjectName: "Alpha", ProjectPart: "API", HoursWorked: 3, Description: "wired routes",
	})
	if err != nil {
		t.Fatalf("create log: %v", err)
	}

	logs, err := c.ListWorkLogs(ctx, u.ID, client.WorkLogQuery{Project: "alp"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 1 || logs[0].ID != created.ID || logs[0].Description != "wired routes" {
		t.Fatalf("unexpected logs %+v", logs)
	}

	deleted, _, err := c.DeleteWorkLog(ctx, u.ID+1, created.ID)
	if err != nil || deleted != 0 {
		t.Fatalf("mismatched delete: deleted=%d err=%v", deleted, err)
	}

	deleted, _, err = c.DeleteWorkLog(ctx, u.ID, created.ID)
	if err != nil || deleted != 1 {
		t.Fatalf("delete: deleted=%d err=%v", deleted, err)
	}

	dash, err := c.UserDashboard(ctx, u.ID)
	if err != nil || len(dash) != 0 {
		t.Fatalf("dashboard: %+v %v", dash, err)
	}
}

func TestClient_APIErrorCarriesServerMessage(t *testing.T) {
	c := newServer(t)

	_, _, err := c.CreateWorkLog(context.Background(), 77, worklog.Request{
		ProjectName: "Alpha", ProjectPart: "API", HoursWorked: 3, Description: "x",
	})

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Message != "User not found" {
		t.Fatalf("got %+v", apiErr)
	}
}

func TestClient_NonEnvelopeResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := client.New(srv.URL, nil).AdminDashboard(context.Background())

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Message != "" {
		t.Fatalf("got %+v", apiErr)
	}
}

func TestClient_ForwardsFilterQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"message":"ok","data":[]}`)
	}))
	defer srv.Close()

	_, err := client.New(srv.URL, nil).ListWorkLogs(context.Background(), 3, client.WorkLogQuery{
		StartDate: "2024-01-01", EndDate: "2024-01-31", Project: "atlas",
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotQuery != "endDate=2024-01-31&project=atlas&startDate=2024-01-01" {
		t.Fatalf("got query %q", gotQuery)
	}
}
