package worklog

import (
	"errors"
	"strings"
	"time"
)

type WorkLog struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	ProjectName string    `json:"projectName"`
	ProjectPart string    `json:"projectPart"`
	HoursWorked float64   `json:"hoursWorked"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("work log not found")

// Request is the body shared by create and update.
type Request struct {
	ProjectName string  `json:"projectName" binding:"required,max=120"`
	ProjectPart string  `json:"projectPart" binding:"required,max=120"`
	HoursWorked float64 `json:"hoursWorked" binding:"required,gt=0,lte=24"`
	Description string  `json:"description" binding:"required,max=2000"`
}

// with pointers if optional, it will be nil
type ListFilter struct {
	From    *time.Time
	To      *time.Time
	Project *string
}

func (f ListFilter) IsZero() bool {
	return f.From == nil && f.To == nil && f.Project == nil
}

// Matches applies the filter in memory. Project matching is a case-insensitive substring.
func (f ListFilter) Matches(w WorkLog) bool {
	if f.From != nil && w.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && w.CreatedAt.After(*f.To) {
		return false
	}
	if f.Project != nil {
		needle := strings.ToLower(strings.TrimSpace(*f.Project))
		if needle != "" && !strings.Contains(strings.ToLower(w.ProjectName), needle) {
			return false
		}
	}
	return true
}
