package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// ReportCache serves rendered report payloads from a cache before
// recomputing them. All cache failures degrade to a recompute; a nil
// backing cache disables it entirely.
type ReportCache struct {
	cache  ports.ReportCache
	ttl    time.Duration
	logger *slog.Logger
}

func NewReportCache(cache ports.ReportCache, ttl time.Duration, logger *slog.Logger) *ReportCache {
	return &ReportCache{cache: cache, ttl: ttl, logger: logger}
}

// cacheKey identifies one report variant for one window.
func cacheKey(report string, rng domain.DateRange) string {
	return fmt.Sprintf("%s:%s:%s", report,
		rng.From.Format("2006-01-02"), rng.To.Format("2006-01-02"))
}

// serve writes the cached payload when present and returns true.
func (c *ReportCache) serve(w http.ResponseWriter, r *http.Request, key string) bool {
	if c == nil || c.cache == nil {
		return false
	}
	payload, err := c.cache.Get(r.Context(), key)
	if err != nil {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "hit")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
	return true
}

// store saves a rendered payload. Failures are logged and swallowed.
func (c *ReportCache) store(r *http.Request, key string, payload []byte) {
	if c == nil || c.cache == nil {
		return
	}
	if err := c.cache.Set(r.Context(), key, payload, c.ttl); err != nil {
		c.logger.Warn("report cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
