package user

import "github.com/opengig-mvps/tmt-izsb0sdo3/internal/utils"

// Response is the wire shape of a user. Timestamps are ISO-8601 strings.
type Response struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	IsVerified bool   `json:"isVerified"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

func (u User) Response() Response {
	return Response{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		Name:       u.Name,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		CreatedAt:  utils.FormatISO(u.CreatedAt),
		UpdatedAt:  utils.FormatISO(u.UpdatedAt),
	}
}

func Responses(users []User) []Response {
	out := make([]Response, 0, len(users))
	for _, u := range users {
		out = append(out, u.Response())
	}
	return out
}
