package middleware

import (
    "fmt"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/onsale-practice/internal/repository"
)

// refreshKey namespaces the fixed-window refresh counter per player.
const refreshKey = "practice:refresh:%s"

// RefreshLimit returns a middleware that allows at most one request per
// window per player.  It exists to keep the "smash refresh" reflex from
// hammering catalog generation: the original UI debounced the refresh
// button the same way.  The counter lives in the shared KV store; with
// the in-memory fallback the limit is per-process, which is fine.
func RefreshLimit(kv repository.KV, window time.Duration) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            playerID := PlayerID(c)
            if playerID == "" {
                return next(c)
            }

            key := fmt.Sprintf(refreshKey, playerID)
            n, err := kv.Incr(c.Request().Context(), key, window)
            if err != nil {
                // A broken counter must not block play.
                c.Logger().Warnf("ratelimit: incr failed for %s: %v", playerID, err)
                return next(c)
            }
            if n > 1 {
                return c.JSON(http.StatusTooManyRequests, echo.Map{
                    "error":       "too many refreshes",
                    "retry_after": int(window.Seconds()),
                })
            }
            return next(c)
        }
    }
}
