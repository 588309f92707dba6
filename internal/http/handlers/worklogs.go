package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/config"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/user"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/worklog"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/utils"
)

type WorkLogsRepo interface {
	Create(ctx context.Context, userID int64, req worklog.Request) (worklog.WorkLog, error)
	ListAll(ctx context.Context) ([]worklog.WorkLog, error)
	ListByUser(ctx context.Context, userID int64, filter worklog.ListFilter) ([]worklog.WorkLog, error)
	GetForUser(ctx context.Context, id, userID int64) (worklog.WorkLog, error)
	// UpdateForUser and DeleteForUser return the number of rows matched by (id, userID).
	UpdateForUser(ctx context.Context, id, userID int64, req worklog.Request) (int64, error)
	DeleteForUser(ctx context.Context, id, userID int64) (int64, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (user.User, error)
}

type WorkLogsHandler struct {
	logs  WorkLogsRepo
	users UserLookup
	cache *ReadCache
}

func NewWorkLogsHandler(logs WorkLogsRepo, users UserLookup, readCache *ReadCache) *WorkLogsHandler {
	return &WorkLogsHandler{logs: logs, users: users, cache: readCache}
}

// GET /api/users/:userId/workLogs?startDate=&endDate=&project=
func (h *WorkLogsHandler) List(ctx *gin.Context) {
	userID, ok := utils.ParseID(ctx.Param("userId"))
	if !ok {
		RespondBadRequest(ctx, msgInvalidUserID, nil)
		return
	}

	filter, fieldErr := parseListFilter(ctx)
	if fieldErr != nil {
		RespondBadRequest(ctx, "Invalid query parameters", []FieldError{*fieldErr})
		return
	}

	key := utils.UserWorkLogsCacheKey(userID, filter.Project, filter.From, filter.To)

	scope := scopeUserWorkLogs(userID)

	var cached []worklog.Response
	hit, gen := h.cache.get(ctx.Request.Context(), "worklogs", scope, key, &cached)
	if hit {
		RespondSuccess(ctx, http.StatusOK, "Work logs retrieved successfully", cached)
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	logs, err := h.logs.ListByUser(cctx, userID, filter)
	if err != nil {
		RespondInternal(ctx, "worklogs.list", err)
		return
	}

	out := worklog.Responses(logs)
	h.cache.set(ctx.Request.Context(), scope, gen, key, out)

	RespondSuccess(ctx, http.StatusOK, "Work logs retrieved successfully", out)
}

// POST /api/users/:userId/workLogs
func (h *WorkLogsHandler) Create(ctx *gin.Context) {
	userID, ok := utils.ParseID(ctx.Param("userId"))
	if !ok {
		RespondBadRequest(ctx, msgInvalidUserID, nil)
		return
	}

	var req worklog.Request
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if _, err := h.users.GetByID(cctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, msgUserNotFound)
			return
		}
		RespondInternal(ctx, "worklogs.create.user_lookup", err)
		return
	}

	created, err := h.logs.Create(cctx, userID, req)
	if err != nil {
		RespondInternal(ctx, "worklogs.create", err)
		return
	}

	h.cache.invalidateWorkLogs(ctx.Request.Context(), userID)

	RespondSuccess(ctx, http.StatusCreated, "Work log created successfully", created.Response())
}

// PUT /api/users/:userId/workLogs/:workLogId
func (h *WorkLogsHandler) Update(ctx *gin.Context) {
	userID, logID, ok := parseWorkLogPath(ctx)
	if !ok {
		RespondBadRequest(ctx, msgInvalidUserOrLogID, nil)
		return
	}

	var req worklog.Request
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	affected, err := h.logs.UpdateForUser(cctx, logID, userID, req)
	if err != nil {
		RespondInternal(ctx, "worklogs.update", err)
		return
	}
	if affected == 0 {
		RespondNotFound(ctx, msgWorkLogNotFound)
		return
	}

	h.cache.invalidateWorkLogs(ctx.Request.Context(), userID)

	updated, err := h.logs.GetForUser(cctx, logID, userID)
	if err != nil {
		if errors.Is(err, worklog.ErrNotFound) {
			// deleted between the update and the read-back
			RespondNotFound(ctx, msgWorkLogNotFound)
			return
		}
		RespondInternal(ctx, "worklogs.update.readback", err)
		return
	}

	RespondSuccess(ctx, http.StatusOK, "Work log updated successfully", updated.Response())
}

// DELETE /api/users/:userId/workLogs/:workLogId
// A pair that matches nothing is still acknowledged; data.deleted tells the caller what happened.
func (h *WorkLogsHandler) Delete(ctx *gin.Context) {
	userID, logID, ok := parseWorkLogPath(ctx)
	if !ok {
		RespondBadRequest(ctx, msgInvalidUserOrLogID, nil)
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	deleted, err := h.logs.DeleteForUser(cctx, logID, userID)
	if err != nil {
		RespondInternal(ctx, "worklogs.delete", err)
		return
	}

	if deleted > 0 {
		h.cache.invalidateWorkLogs(ctx.Request.Context(), userID)
	}

	RespondSuccess(ctx, http.StatusOK, "Work log deleted successfully", gin.H{"deleted": deleted})
}

func parseWorkLogPath(ctx *gin.Context) (userID, logID int64, ok bool) {
	userID, ok = utils.ParseID(ctx.Param("userId"))
	if !ok {
		return 0, 0, false
	}
	logID, ok = utils.ParseID(ctx.Param("workLogId"))
	if !ok {
		return 0, 0, false
	}
	return userID, logID, true
}

// parseListFilter reads startDate, endDate and project. A date-only endDate covers the whole day.
func parseListFilter(ctx *gin.Context) (worklog.ListFilter, *FieldError) {
	var filter worklog.ListFilter

	if raw := strings.TrimSpace(ctx.Query("startDate")); raw != "" {
		from, err := utils.ParseDateParam(raw)
		if err != nil {
			return filter, &FieldError{Field: "startDate", Rule: "date", Message: "must be YYYY-MM-DD or RFC 3339"}
		}
		filter.From = &from
	}

	if raw := strings.TrimSpace(ctx.Query("endDate")); raw != "" {
		to, err := utils.ParseDateParam(raw)
		if err != nil {
			return filter, &FieldError{Field: "endDate", Rule: "date", Message: "must be YYYY-MM-DD or RFC 3339"}
		}
		if len(raw) == len(time.DateOnly) {
			to = to.Add(24*time.Hour - time.Millisecond)
		}
		filter.To = &to
	}

	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return filter, &FieldError{Field: "endDate", Rule: "gtefield", Param: "startDate", Message: "must not be before startDate"}
	}

	if raw := strings.TrimSpace(ctx.Query("project")); raw != "" {
		filter.Project = &raw
	}

	return filter, nil
}
