package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/onsale-practice/internal/model"
    "github.com/iliyamo/onsale-practice/internal/utils"
)

// PlayerHandler mints anonymous player identities and serves the static
// difficulty table.  There is no registration or password: one browser
// profile equals one player, identified by the long-lived token it stores.
type PlayerHandler struct {
    Secret  string // JWT signing secret
    TTLDays int    // player token lifetime
}

// NewPlayerHandler constructs a PlayerHandler.
func NewPlayerHandler(secret string, ttlDays int) *PlayerHandler {
    if secret == "" {
        panic("empty JWT secret passed to NewPlayerHandler")
    }
    return &PlayerHandler{Secret: secret, TTLDays: ttlDays}
}

// CreatePlayer handles POST /v1/players.  It returns a fresh player ID
// and its bearer token; the client stores both and never calls this again
// unless the token is lost (which also orphans the stats history).
func (h *PlayerHandler) CreatePlayer(c echo.Context) error {
    id, err := utils.NewPlayerID()
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate player id"})
    }
    tok, err := utils.NewPlayerToken(h.Secret, id, h.TTLDays)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to sign token"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "player_id":  tok.PlayerID,
        "token":      tok.Token,
        "expires_at": tok.Exp,
    })
}

// GetDifficulties handles GET /v1/difficulties and returns the full
// difficulty table for the picker UI.
func (h *PlayerHandler) GetDifficulties(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{"difficulties": model.AllDifficulties()})
}
