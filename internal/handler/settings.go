package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/onsale-practice/internal/middleware"
    "github.com/iliyamo/onsale-practice/internal/model"
    "github.com/iliyamo/onsale-practice/internal/repository"
)

// SettingsHandler reads and writes the player's sticky choices.  An
// unknown difficulty name in the request is not an error: it normalizes
// to medium, the same recovery the read path applies to corrupted
// persisted records.
type SettingsHandler struct {
    Settings *repository.SettingsRepo
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(settings *repository.SettingsRepo) *SettingsHandler {
    if settings == nil {
        panic("nil settings repository passed to NewSettingsHandler")
    }
    return &SettingsHandler{Settings: settings}
}

// GetSettings handles GET /v1/settings.
func (h *SettingsHandler) GetSettings(c echo.Context) error {
    playerID := middleware.PlayerID(c)
    if playerID == "" {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    s := h.Settings.Get(c.Request().Context(), playerID)
    return c.JSON(http.StatusOK, s)
}

// UpdateSettings handles PUT /v1/settings.
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
    playerID := middleware.PlayerID(c)
    if playerID == "" {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body model.PlayerSettings
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := h.Settings.Put(c.Request().Context(), playerID, body); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save settings"})
    }
    // Echo back the normalized record so the client learns about any
    // difficulty fallback.
    return c.JSON(http.StatusOK, h.Settings.Get(c.Request().Context(), playerID))
}
