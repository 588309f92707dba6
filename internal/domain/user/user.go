package user

import (
	"errors"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTutor   Role = "tutor"
	RoleStudent Role = "student"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTutor, RoleStudent:
		return true
	default:
		return false
	}
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	IsVerified   bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var (
	ErrNotFound             = errors.New("user not found")
	ErrEmailOrUsernameTaken = errors.New("email or username already in use")
)

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Username string `json:"username" binding:"required,min=2,max=64"`
	Name     string `json:"name" binding:"required,max=120"`
	Role     Role   `json:"role" binding:"required,oneof=admin tutor student"`
}

// full overwrite of the profile fields, the password is not part of it
type UpdateUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Username string `json:"username" binding:"required,min=2,max=64"`
	Name     string `json:"name" binding:"required,max=120"`
	Role     Role   `json:"role" binding:"required,oneof=admin tutor student"`
}

// CreateParams is what the persistence layer stores for a new user.
type CreateParams struct {
	Email        string
	Username     string
	PasswordHash string
	Name         string
	Role         Role
}
