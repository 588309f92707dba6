package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/config"
)

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Pinger
}

// create a new instance of the health handler; nil checks are skipped
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	kept := make(map[string]Pinger, len(checks))
	for name, ping := range checks {
		if ping != nil {
			kept[name] = ping
		}
	}
	return &HealthHandler{checks: kept}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz pings every dependency and answers 503 if any of them fails.
func (h *HealthHandler) Readyz(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	ready := true

	for name, ping := range h.checks {
		if err := ping(cctx); err != nil {
			results[name] = "down"
			ready = false
			continue
		}
		results[name] = "up"
	}

	if !ready {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "checks": results})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready", "checks": results})
}
