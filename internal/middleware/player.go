package middleware // reusable HTTP middleware for the simulator API

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/onsale-practice/internal/utils"
)

// PlayerIDKey is the context key under which the authenticated player's
// identifier is stored.
const PlayerIDKey = "player_id"

// PlayerAuth returns an Echo middleware that validates a Bearer player
// token and injects the player ID into the request context.  The secret
// must match the one used when minting tokens.  Handlers read the
// identity via c.Get(PlayerIDKey).
func PlayerAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            playerID, err := utils.ParsePlayerToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            c.Set(PlayerIDKey, playerID)
            return next(c)
        }
    }
}

// PlayerID extracts the authenticated player from the context.  An empty
// string means the middleware did not run.
func PlayerID(c echo.Context) string {
    id, _ := c.Get(PlayerIDKey).(string)
    return id
}
