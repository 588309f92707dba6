package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/apperr"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/config"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/user"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/security"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/utils"
)

// UsersRepo is the slice of the user repository the admin endpoints need.
type UsersRepo interface {
	Create(ctx context.Context, in user.CreateParams) (user.User, error)
	Update(ctx context.Context, id int64, req user.UpdateUserRequest) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
}

type AdminUsersHandler struct {
	repo       UsersRepo
	cache      *ReadCache
	bcryptCost int
}

func NewAdminUsersHandler(repo UsersRepo, readCache *ReadCache, bcryptCost int) *AdminUsersHandler {
	return &AdminUsersHandler{repo: repo, cache: readCache, bcryptCost: bcryptCost}
}

// GET /api/admin/users
func (h *AdminUsersHandler) List(ctx *gin.Context) {
	var cached []user.Response
	hit, gen := h.cache.get(ctx.Request.Context(), "users", scopeUsers, utils.AdminUsersCacheKey, &cached)
	if hit {
		RespondSuccess(ctx, http.StatusOK, "Users retrieved successfully", cached)
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	users, err := h.repo.List(cctx)
	if err != nil {
		RespondInternal(ctx, "admin_users.list", err)
		return
	}

	out := user.Responses(users)
	h.cache.set(ctx.Request.Context(), scopeUsers, gen, utils.AdminUsersCacheKey, out)

	RespondSuccess(ctx, http.StatusOK, "Users retrieved successfully", out)
}

// POST /api/admin/users
func (h *AdminUsersHandler) Create(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	hash, err := security.HashPassword(req.Password, h.bcryptCost)
	if err != nil {
		RespondInternal(ctx, "admin_users.hash_password", err)
		return
	}

	created, err := h.repo.Create(cctx, user.CreateParams{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         req.Role,
	})
	if err != nil {
		RespondAppError(ctx, "admin_users.create", userError(err))
		return
	}

	h.cache.invalidateUsers(ctx.Request.Context())

	RespondSuccess(ctx, http.StatusCreated, "User created successfully", created.Response())
}

// PUT /api/admin/users/:userId
func (h *AdminUsersHandler) Update(ctx *gin.Context) {
	id, ok := utils.ParseID(ctx.Param("userId"))
	if !ok {
		RespondBadRequest(ctx, msgInvalidUserID, nil)
		return
	}

	var req user.UpdateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	updated, err := h.repo.Update(cctx, id, req)
	if err != nil {
		RespondAppError(ctx, "admin_users.update", userError(err))
		return
	}

	h.cache.invalidateUsers(ctx.Request.Context())

	RespondSuccess(ctx, http.StatusOK, "User updated successfully", updated.Response())
}

func userError(err error) error {
	switch {
	case errors.Is(err, user.ErrNotFound):
		return apperr.NotFound(msgUserNotFound)
	case errors.Is(err, user.ErrEmailOrUsernameTaken):
		return apperr.Conflict(msgEmailOrUsernameTaken, err)
	default:
		return apperr.Internal(err)
	}
}
