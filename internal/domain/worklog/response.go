package worklog

import "github.com/opengig-mvps/tmt-izsb0sdo3/internal/utils"

type Response struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"userId"`
	ProjectName string  `json:"projectName"`
	ProjectPart string  `json:"projectPart"`
	HoursWorked float64 `json:"hoursWorked"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func (w WorkLog) Response() Response {
	return Response{
		ID:          w.ID,
		UserID:      w.UserID,
		ProjectName: w.ProjectName,
		ProjectPart: w.ProjectPart,
		HoursWorked: w.HoursWorked,
		Description: w.Description,
		CreatedAt:   utils.FormatISO(w.CreatedAt),
		UpdatedAt:   utils.FormatISO(w.UpdatedAt),
	}
}

func Responses(logs []WorkLog) []Response {
	out := make([]Response, 0, len(logs))
	for _, w := range logs {
		out = append(out, w.Response())
	}
	return out
}
