package handlers

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/cache"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/observability"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/utils"
)

const (
	scopeAllWorkLogs = "worklogs"
	scopeUsers       = "users"
)

func scopeUserWorkLogs(userID int64) string {
	return "worklogs:" + strconv.FormatInt(userID, 10)
}

// ReadCache fronts the list endpoints. A nil *ReadCache or a nil store disables caching.
//
// Every invalidation bumps a per-scope generation. A read that missed only stores its
// result if no invalidation of its scope happened since the lookup, so a listing taken
// before a concurrent write never outlives that write.
type ReadCache struct {
	store cache.Store
	prom  *observability.Prom

	mu  sync.Mutex
	gen map[string]uint64
}

func NewReadCache(store cache.Store, prom *observability.Prom) *ReadCache {
	return &ReadCache{store: store, prom: prom, gen: make(map[string]uint64)}
}

func (c *ReadCache) enabled() bool {
	return c != nil && c.store != nil
}

func (c *ReadCache) observe(family, result string) {
	if c.prom != nil {
		c.prom.ObserveCache(family, result)
	}
}

func (c *ReadCache) generation(scope string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen[scope]
}

func (c *ReadCache) bump(scopes ...string) {
	c.mu.Lock()
	for _, s := range scopes {
		c.gen[s]++
	}
	c.mu.Unlock()
}

// get reports a hit only when out was filled. Cache errors are logged and treated as a miss.
// The returned generation must be handed to set along with the fresh result.
func (c *ReadCache) get(ctx context.Context, family, scope, key string, out any) (bool, uint64) {
	if !c.enabled() {
		return false, 0
	}

	gen := c.generation(scope)

	hit, err := cache.GetJSON(ctx, c.store, key, out)
	switch {
	case err != nil:
		c.observe(family, "error")
		slog.Default().WarnContext(ctx, "cache get failed", "key", key, "err", err)
		return false, gen
	case hit:
		c.observe(family, "hit")
		return true, gen
	default:
		c.observe(family, "miss")
		return false, gen
	}
}

// set drops v when scope was invalidated after the matching get.
func (c *ReadCache) set(ctx context.Context, scope string, gen uint64, key string, v any) {
	if !c.enabled() {
		return
	}

	// held across the write so a bump cannot slip between the check and the store
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen[scope] != gen {
		return
	}
	if err := cache.SetJSON(ctx, c.store, key, v); err != nil {
		slog.Default().WarnContext(ctx, "cache set failed", "key", key, "err", err)
	}
}

// invalidateWorkLogs drops every cached listing that may contain logs of userID.
func (c *ReadCache) invalidateWorkLogs(ctx context.Context, userID int64) {
	if !c.enabled() {
		return
	}

	c.bump(scopeAllWorkLogs, scopeUserWorkLogs(userID))

	if err := c.store.Delete(ctx, utils.AdminDashboardCacheKey, utils.UserDashboardCacheKey(userID)); err != nil {
		slog.Default().WarnContext(ctx, "cache delete failed", "user_id", userID, "err", err)
	}
	if err := c.store.DeletePrefix(ctx, utils.UserWorkLogsCachePrefix(userID)); err != nil {
		slog.Default().WarnContext(ctx, "cache prefix delete failed", "user_id", userID, "err", err)
	}
}

func (c *ReadCache) invalidateUsers(ctx context.Context) {
	if !c.enabled() {
		return
	}

	c.bump(scopeUsers)

	if err := c.store.Delete(ctx, utils.AdminUsersCacheKey); err != nil {
		slog.Default().WarnContext(ctx, "cache delete failed", "key", utils.AdminUsersCacheKey, "err", err)
	}
}
