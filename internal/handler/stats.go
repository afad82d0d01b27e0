package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/onsale-practice/internal/game"
    "github.com/iliyamo/onsale-practice/internal/middleware"
)

// StatsHandler serves the score panel: session counters, the durable
// all-time record and the derived success rate.
type StatsHandler struct {
    Manager *game.Manager
}

// NewStatsHandler constructs a StatsHandler.
func NewStatsHandler(manager *game.Manager) *StatsHandler {
    if manager == nil {
        panic("nil manager passed to NewStatsHandler")
    }
    return &StatsHandler{Manager: manager}
}

// GetStats handles GET /v1/stats.
func (h *StatsHandler) GetStats(c echo.Context) error {
    playerID := middleware.PlayerID(c)
    if playerID == "" {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    t := h.Manager.Tracker(playerID)
    return c.JSON(http.StatusOK, echo.Map{
        "session":      t.SessionStats(),
        "all_time":     t.AllTimeStats(),
        "success_rate": t.SuccessRate(),
    })
}

// ResetSession handles POST /v1/stats/reset-session; the durable record is
// untouched.
func (h *StatsHandler) ResetSession(c echo.Context) error {
    playerID := middleware.PlayerID(c)
    if playerID == "" {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    h.Manager.Tracker(playerID).ResetSession()
    return c.NoContent(http.StatusNoContent)
}

// ResetAll handles DELETE /v1/stats: everything, including the persisted
// record, goes back to zero.
func (h *StatsHandler) ResetAll(c echo.Context) error {
    playerID := middleware.PlayerID(c)
    if playerID == "" {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    h.Manager.Tracker(playerID).ResetAll()
    return c.NoContent(http.StatusNoContent)
}
