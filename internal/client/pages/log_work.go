package pages

import (
	"context"
	"strings"

	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/worklog"
)

// ValidationError is a form problem caught before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// validateWorkLog mirrors the form rules: every field set, 1 to 24 hours.
func validateWorkLog(req worklog.Request) error {
	switch {
	case strings.TrimSpace(req.ProjectName) == "":
		return &ValidationError{Field: "projectName", Message: "Project name is required"}
	case strings.TrimSpace(req.ProjectPart) == "":
		return &ValidationError{Field: "projectPart", Message: "Project part is required"}
	case req.HoursWorked < 1:
		return &ValidationError{Field: "hoursWorked", Message: "Number of hours must be at least 1"}
	case req.HoursWorked > 24:
		return &ValidationError{Field: "hoursWorked", Message: "Number of hours cannot exceed 24"}
	case strings.TrimSpace(req.Description) == "":
		return &ValidationError{Field: "description", Message: "Short description is required"}
	}
	return nil
}

type LogWorkAPI interface {
	CreateWorkLog(ctx context.Context, userID int64, req worklog.Request) (worklog.Response, string, error)
	UserDashboard(ctx context.Context, userID int64) ([]worklog.Response, error)
}

// LogWorkPage is the "log work" form plus the user's dashboard list under it.
type LogWorkPage struct {
	api    LogWorkAPI
	notify Notifier
	userID int64

	Form       worklog.Request
	Recent     []worklog.Response
	Submitting bool
}

func NewLogWorkPage(api LogWorkAPI, notify Notifier, userID int64) *LogWorkPage {
	return &LogWorkPage{api: api, notify: notify, userID: userID}
}

// Submit validates the form, creates the log, then resets the form and refetches the dashboard.
func (p *LogWorkPage) Submit(ctx context.Context) error {
	if err := validateWorkLog(p.Form); err != nil {
		p.notify.Error(errorMessage(err))
		return err
	}

	p.Submitting = true
	defer func() { p.Submitting = false }()

	_, msg, err := p.api.CreateWorkLog(ctx, p.userID, p.Form)
	if err != nil {
		p.notify.Error(errorMessage(err))
		return err
	}

	p.notify.Success(successMessage(msg, "Work log created successfully!"))
	p.Form = worklog.Request{}

	return p.Refresh(ctx)
}

func (p *LogWorkPage) Refresh(ctx context.Context) error {
	logs, err := p.api.UserDashboard(ctx, p.userID)
	if err != nil {
		p.notify.Error(errorMessage(err))
		return err
	}
	p.Recent = logs
	return nil
}
