package pages

import (
	"context"
	"strings"

	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/user"
)

type UsersAPI interface {
	ListUsers(ctx context.Context) ([]user.Response, error)
	CreateUser(ctx context.Context, req user.CreateUserRequest) (user.Response, string, error)
	UpdateUser(ctx context.Context, id int64, req user.UpdateUserRequest) (user.Response, string, error)
}

// UserManagementPage lists accounts and lets an admin add or edit them.
type UserManagementPage struct {
	api    UsersAPI
	notify Notifier

	Users      []user.Response
	Loading    bool
	Submitting bool
}

func NewUserManagementPage(api UsersAPI, notify Notifier) *UserManagementPage {
	return &UserManagementPage{api: api, notify: notify}
}

func (p *UserManagementPage) Load(ctx context.Context) error {
	p.Loading = true
	defer func() { p.Loading = false }()

	users, err := p.api.ListUsers(ctx)
	if err != nil {
		p.notify.Error(errorMessage(err))
		return err
	}

	p.Users = users
	return nil
}

// Create adds a user and reloads the table.
func (p *UserManagementPage) Create(ctx context.Context, req user.CreateUserRequest) error {
	p.Submitting = true
	defer func() { p.Submitting = false }()

	_, msg, err := p.api.CreateUser(ctx, req)
	if err != nil {
		p.notify.Error(errorMessage(err))
		return err
	}

	p.notify.Success(successMessage(msg, "User added successfully!"))
	return p.Load(ctx)
}

func (p *UserManagementPage) Update(ctx context.Context, id int64, req user.UpdateUserRequest) error {
	p.Submitting = true
	defer func() { p.Submitting = false }()

	_, msg, err := p.api.UpdateUser(ctx, id, req)
	if err != nil {
		p.notify.Error(errorMessage(err))
		return err
	}

	p.notify.Success(successMessage(msg, "User updated successfully!"))
	return p.Load(ctx)
}

// Filtered matches search against name, email, username and role.
func (p *UserManagementPage) Filtered(search string) []user.Response {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return p.Users
	}

	out := make([]user.Response, 0, len(p.Users))
	for _, u := range p.Users {
		if containsFold(u.Name, needle) || containsFold(u.Email, needle) ||
			containsFold(u.Username, needle) || containsFold(string(u.Role), needle) {
			out = append(out, u)
		}
	}
	return out
}
