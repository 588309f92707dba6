// Package client is a typed Go client for the time tracker API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/user"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/worklog"
)

// APIError is a response whose envelope reported success=false, or that had no envelope at all.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for baseURL ("http://localhost:8080"). A nil httpClient gets a 10s timeout default.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// WorkLogQuery is forwarded as startDate, endDate and project.
type WorkLogQuery struct {
	StartDate string
	EndDate   string
	Project   string
}

func (q WorkLogQuery) values() url.Values {
	v := url.Values{}
	if q.StartDate != "" {
		v.Set("startDate", q.StartDate)
	}
	if q.EndDate != "" {
		v.Set("endDate", q.EndDate)
	}
	if q.Project != "" {
		v.Set("project", q.Project)
	}
	return v
}

func (c *Client) ListUsers(ctx context.Context) ([]user.Response, error) {
	var out []user.Response
	_, err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, nil, &out)
	return out, err
}

func (c *Client) CreateUser(ctx context.Context, req user.CreateUserRequest) (user.Response, string, error) {
	var out user.Response
	msg, err := c.do(ctx, http.MethodPost, "/api/admin/users", nil, req, &out)
	return out, msg, err
}

func (c *Client) UpdateUser(ctx context.Context, id int64, req user.UpdateUserRequest) (user.Response, string, error) {
	var out user.Response
	msg, err := c.do(ctx, http.MethodPut, "/api/admin/users/"+idStr(id), nil, req, &out)
	return out, msg, err
}

func (c *Client) AdminDashboard(ctx context.Context) ([]worklog.Response, error) {
	var out []worklog.Response
	_, err := c.do(ctx, http.MethodGet, "/api/admin/dashboard", nil, nil, &out)
	return out, err
}

func (c *Client) UserDashboard(ctx context.Context, userID int64) ([]worklog.Response, error) {
	var out []worklog.Response
	_, err := c.do(ctx, http.MethodGet, "/api/users/"+idStr(userID)+"/dashboard", nil, nil, &out)
	return out, err
}

func (c *Client) ListWorkLogs(ctx context.Context, userID int64, q WorkLogQuery) ([]worklog.Response, error) {
	var out []worklog.Response
	_, err := c.do(ctx, http.MethodGet, "/api/users/"+idStr(userID)+"/workLogs", q.values(), nil, &out)
	return out, err
}

func (c *Client) CreateWorkLog(ctx context.Context, userID int64, req worklog.Request) (worklog.Response, string, error) {
	var out worklog.Response
	msg, err := c.do(ctx, http.MethodPost, "/api/users/"+idStr(userID)+"/workLogs", nil, req, &out)
	return out, msg, err
}

func (c *Client) UpdateWorkLog(ctx context.Context, userID, logID int64, req worklog.Request) (worklog.Response, string, error) {
	var out worklog.Response
	msg, err := c.do(ctx, http.MethodPut, "/api/users/"+idStr(userID)+"/workLogs/"+idStr(logID), nil, req, &out)
	return out, msg, err
}

// DeleteWorkLog returns how many rows the server removed; zero means the pair matched nothing.
func (c *Client) DeleteWorkLog(ctx context.Context, userID, logID int64) (int64, string, error) {
	var out struct {
		Deleted int64 `json:"deleted"`
	}
	msg, err := c.do(ctx, http.MethodDelete, "/api/users/"+idStr(userID)+"/workLogs/"+idStr(logID), nil, nil, &out)
	return out.Deleted, msg, err
}

// do sends one request and decodes the envelope's data into out. It returns the envelope message.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (string, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// proxies and panics answer without an envelope
		return "", &APIError{Status: res.StatusCode}
	}

	if !env.Success || res.StatusCode >= http.StatusBadRequest {
		return env.Message, &APIError{Status: res.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return env.Message, fmt.Errorf("decode data: %w", err)
		}
	}

	return env.Message, nil
}

func idStr(id int64) string {
	return strconv.FormatInt(id, 10)
}
