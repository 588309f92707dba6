package pages

import (
	"context"
	"strings"
	"time"

	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/client"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/worklog"
)

type AdminWorkLogsAPI interface {
	AdminDashboard(ctx context.Context) ([]worklog.Response, error)
}

// AdminWorkLogsPage shows every user's logs with client-side filtering.
type AdminWorkLogsPage struct {
	api    AdminWorkLogsAPI
	notify Notifier

	WorkLogs []worklog.Response
	Loading  bool
}

func NewAdminWorkLogsPage(api AdminWorkLogsAPI, notify Notifier) *AdminWorkLogsPage {
	return &AdminWorkLogsPage{api: api, notify: notify}
}

func (p *AdminWorkLogsPage) Load(ctx context.Context) error {
	p.Loading = true
	defer func() { p.Loading = false }()

	logs, err := p.api.AdminDashboard(ctx)
	if err != nil {
		p.notify.Error(errorMessage(err))
		return err
	}

	p.WorkLogs = logs
	return nil
}

// Filtered keeps logs whose project name contains search and whose createdAt lies within [from, to].
func (p *AdminWorkLogsPage) Filtered(search string, from, to *time.Time) []worklog.Response {
	needle := strings.ToLower(strings.TrimSpace(search))

	out := make([]worklog.Response, 0, len(p.WorkLogs))
	for _, l := range p.WorkLogs {
		if needle != "" && !containsFold(l.ProjectName, needle) {
			continue
		}
		if !inRange(l.CreatedAt, from, to) {
			continue
		}
		out = append(out, l)
	}
	return out
}

type UserWorkLogsAPI interface {
	ListWorkLogs(ctx context.Context, userID int64, q client.WorkLogQuery) ([]worklog.Response, error)
	UpdateWorkLog(ctx context.Context, userID, logID int64, req worklog.Request) (worklog.Response, string, error)
	DeleteWorkLog(ctx context.Context, userID, logID int64) (int64, string, error)
}

// UserWorkLogsPage is one user's own log list. Filters are sent to the server.
type UserWorkLogsPage struct {
	api    UserWorkLogsAPI
	notify Notifier
	userID int64

	Query    client.WorkLogQuery
	WorkLogs []worklog.Response
	Loading  bool
}

func NewUserWorkLogsPage(api UserWorkLogsAPI, notify Notifier, userID int64) *UserWorkLogsPage {
	return &UserWorkLogsPage{api: api, notify: notify, userID: userID}
}

// Load fetches with q and remembers it for refetches after writes.
func (p *UserWorkLogsPage) Load(ctx context.Context, q client.WorkLogQuery) error {
	p.Query = q
	return p.refetch(ctx)
}

func (p *UserWorkLogsPage) refetch(ctx context.Context) error {
	p.Loading = true
	defer func() { p.Loading = false }()

	logs, err := p.api.ListWorkLogs(ctx, p.userID, p.Query)
	if err != nil {
		p.notify.Error(errorMessage(err))
		return err
	}

	p.WorkLogs = logs
	return nil
}

func (p *UserWorkLogsPage) Update(ctx context.Context, logID int64, req worklog.Request) error {
	if err := validateWorkLog(req); err != nil {
		p.notify.Error(errorMessage(err))
		return err
	}

	_, msg, err := p.api.UpdateWorkLog(ctx, p.userID, logID, req)
	if err != nil {
		p.notify.Error(errorMessage(err))
		return err
	}

	p.notify.Success(successMessage(msg, "Work log updated successfully!"))
	return p.refetch(ctx)
}

// Delete removes a log. The server acknowledges unknown ids too, so the refetch is what shows the outcome.
func (p *UserWorkLogsPage) Delete(ctx context.Context, logID int64) error {
	_, msg, err := p.api.DeleteWorkLog(ctx, p.userID, logID)
	if err != nil {
		p.notify.Error(errorMessage(err))
		return err
	}

	p.notify.Success(successMessage(msg, "Work log deleted successfully!"))
	return p.refetch(ctx)
}

// Filtered searches project name, project part and description.
func (p *UserWorkLogsPage) Filtered(search string) []worklog.Response {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return p.WorkLogs
	}

	out := make([]worklog.Response, 0, len(p.WorkLogs))
	for _, l := range p.WorkLogs {
		if containsFold(l.ProjectName, needle) || containsFold(l.ProjectPart, needle) || containsFold(l.Description, needle) {
			out = append(out, l)
		}
	}
	return out
}
