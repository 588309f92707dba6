package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/config"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/worklog"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/utils"
)

// DashboardHandler serves the two read-only work log views. Both carry an ETag.
type DashboardHandler struct {
	logs  WorkLogsRepo
	cache *ReadCache
}

func NewDashboardHandler(logs WorkLogsRepo, readCache *ReadCache) *DashboardHandler {
	return &DashboardHandler{logs: logs, cache: readCache}
}

// GET /api/admin/dashboard
func (h *DashboardHandler) Admin(ctx *gin.Context) {
	const message = "All users' work logs retrieved successfully"

	var cached []worklog.Response
	hit, gen := h.cache.get(ctx.Request.Context(), "dashboard", scopeAllWorkLogs, utils.AdminDashboardCacheKey, &cached)
	if hit {
		RespondSuccessWithETag(ctx, message, cached)
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	logs, err := h.logs.ListAll(cctx)
	if err != nil {
		RespondInternal(ctx, "dashboard.admin", err)
		return
	}

	out := worklog.Responses(logs)
	h.cache.set(ctx.Request.Context(), scopeAllWorkLogs, gen, utils.AdminDashboardCacheKey, out)

	RespondSuccessWithETag(ctx, message, out)
}

// GET /api/users/:userId/dashboard
func (h *DashboardHandler) User(ctx *gin.Context) {
	const message = "Work logs retrieved successfully"

	userID, ok := utils.ParseID(ctx.Param("userId"))
	if !ok {
		RespondBadRequest(ctx, msgInvalidUserID, nil)
		return
	}

	key := utils.UserDashboardCacheKey(userID)

	scope := scopeUserWorkLogs(userID)

	var cached []worklog.Response
	hit, gen := h.cache.get(ctx.Request.Context(), "dashboard", scope, key, &cached)
	if hit {
		RespondSuccessWithETag(ctx, message, cached)
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	logs, err := h.logs.ListByUser(cctx, userID, worklog.ListFilter{})
	if err != nil {
		RespondInternal(ctx, "dashboard.user", err)
		return
	}

	out := worklog.Responses(logs)
	h.cache.set(ctx.Request.Context(), scope, gen, key, out)

	RespondSuccessWithETag(ctx, message, out)
}
