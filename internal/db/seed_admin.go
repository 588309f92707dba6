package db

import (
	"context"
	"errors"

	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/config"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/user"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/security"
)

type AdminSeeder interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, in user.CreateParams) (user.User, error)
}

// EnsureAdminUser creates the bootstrap admin once. Without ADMIN_EMAIL/ADMIN_PASSWORD it does nothing.
func EnsureAdminUser(ctx context.Context, users AdminSeeder, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	// check if the user exists

	_, err := users.GetByEmail(ctx, cfg.AdminEmail)

	if err == nil {
		return nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword, cfg.BcryptCost)

	if err != nil {
		return err
	}

	_, err = users.Create(ctx, user.CreateParams{
		Email:        cfg.AdminEmail,
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
		Name:         cfg.AdminName,
		Role:         user.RoleAdmin,
	})

	if errors.Is(err, user.ErrEmailOrUsernameTaken) {
		// another instance won the race
		return nil
	}

	return err
}
