package handler

import (
    "encoding/json"
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/onsale-practice/internal/game"
    "github.com/iliyamo/onsale-practice/internal/middleware"
)

// EventsHandler streams session events over server-sent events so the
// page reacts to countdown ticks, hold timers and competitor activity
// without polling.
type EventsHandler struct {
    Manager *game.Manager
}

// NewEventsHandler constructs an EventsHandler.
func NewEventsHandler(manager *game.Manager) *EventsHandler {
    if manager == nil {
        panic("nil manager passed to NewEventsHandler")
    }
    return &EventsHandler{Manager: manager}
}

// Stream handles GET /v1/events.  The response stays open until the
// client disconnects or the session ends; each bus event becomes one SSE
// frame named after its kind.
func (h *EventsHandler) Stream(c echo.Context) error {
    playerID := middleware.PlayerID(c)
    if playerID == "" {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    s, ok := h.Manager.Session(playerID)
    if !ok {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no session"})
    }

    res := c.Response()
    res.Header().Set(echo.HeaderContentType, "text/event-stream")
    res.Header().Set(echo.HeaderCacheControl, "no-cache")
    res.Header().Set(echo.HeaderConnection, "keep-alive")
    res.WriteHeader(http.StatusOK)
    res.Flush()

    events, unsubscribe := s.Bus().Subscribe()
    defer unsubscribe()

    done := c.Request().Context().Done()
    for {
        select {
        case <-done:
            return nil
        case ev, open := <-events:
            if !open {
                // Session ended; one final frame tells the client why.
                fmt.Fprint(res, "event: stream_closed\ndata: {}\n\n")
                res.Flush()
                return nil
            }
            data, err := json.Marshal(ev)
            if err != nil {
                continue
            }
            fmt.Fprintf(res, "event: %s\ndata: %s\n\n", ev.Kind, data)
            res.Flush()
        }
    }
}
