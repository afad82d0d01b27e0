package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/onsale-practice/internal/game"
    "github.com/iliyamo/onsale-practice/internal/middleware"
    "github.com/iliyamo/onsale-practice/internal/model"
    "github.com/iliyamo/onsale-practice/internal/repository"
)

// SessionHandler drives the practice session lifecycle: creation (with or
// without an onsale countdown), catalog reads, quantity changes, the
// listing detail view and skip/abandon.  Each player has at most one live
// session; creating a new one replaces the old with all timers cancelled.
type SessionHandler struct {
    Manager          *game.Manager
    Settings         *repository.SettingsRepo
    DefaultCountdown int // countdown seconds when the request omits one
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(manager *game.Manager, settings *repository.SettingsRepo, defaultCountdown int) *SessionHandler {
    if manager == nil || settings == nil {
        panic("nil dependency passed to NewSessionHandler")
    }
    return &SessionHandler{Manager: manager, Settings: settings, DefaultCountdown: defaultCountdown}
}

// CreateSession handles POST /v1/sessions.  The body carries the venue's
// section identifiers (the map is the client's concern; without its
// identifiers nothing downstream can be generated), the ticket quantity
// and an optional countdown.  Zero countdown seconds means a quick
// refresh with an immediate onsale.
func (h *SessionHandler) CreateSession(c echo.Context) error {
    playerID := middleware.PlayerID(c)
    if playerID == "" {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    // countdown_seconds distinguishes absent (server default) from an
    // explicit zero (quick refresh, onsale starts immediately).
    var body struct {
        SectionIDs       []string `json:"section_ids"`
        TicketQuantity   int      `json:"ticket_quantity"`
        CountdownSeconds *int     `json:"countdown_seconds"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if len(body.SectionIDs) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "section_ids is required"})
    }
    countdown := h.DefaultCountdown
    if body.CountdownSeconds != nil {
        countdown = *body.CountdownSeconds
    }
    if countdown < 0 {
        countdown = 0
    }

    settings := h.Settings.Get(c.Request().Context(), playerID)
    profile, _ := model.SelectDifficulty(settings.Difficulty)

    s := h.Manager.StartSession(game.Config{
        PlayerID:         playerID,
        SectionIDs:       body.SectionIDs,
        Quantity:         body.TicketQuantity,
        Profile:          profile,
        CountdownSeconds: countdown,
    })
    return c.JSON(http.StatusCreated, s.Snapshot())
}

// session resolves the caller's live session or writes the 404.
func (h *SessionHandler) session(c echo.Context) (*game.Session, bool) {
    playerID := middleware.PlayerID(c)
    if playerID == "" {
        _ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
        return nil, false
    }
    s, ok := h.Manager.Session(playerID)
    if !ok {
        _ = c.JSON(http.StatusNotFound, echo.Map{"error": "no session"})
        return nil, false
    }
    return s, true
}

// GetSession handles GET /v1/sessions/current.
func (h *SessionHandler) GetSession(c echo.Context) error {
    s, ok := h.session(c)
    if !ok {
        return nil
    }
    return c.JSON(http.StatusOK, s.Snapshot())
}

// GetListings handles GET /v1/sessions/current/listings: the live listing
// sequence, price-ascending.  An empty catalog is an empty list, not an
// error.
func (h *SessionHandler) GetListings(c echo.Context) error {
    s, ok := h.session(c)
    if !ok {
        return nil
    }
    listings := s.Listings()
    return c.JSON(http.StatusOK, echo.Map{
        "count":    len(listings),
        "listings": listings,
    })
}

// GetSections handles GET /v1/sessions/current/sections: one summary per
// available section for map coloring plus the price histogram.
func (h *SessionHandler) GetSections(c echo.Context) error {
    s, ok := h.session(c)
    if !ok {
        return nil
    }
    counts, min, max := s.Histogram()
    return c.JSON(http.StatusOK, echo.Map{
        "sections": s.SectionSummaries(),
        "histogram": echo.Map{
            "counts":    counts,
            "min_price": min,
            "max_price": max,
        },
    })
}

// UpdateQuantity handles PUT /v1/sessions/current/quantity.  The catalog
// is rebuilt in full for the new quantity.
func (h *SessionHandler) UpdateQuantity(c echo.Context) error {
    s, ok := h.session(c)
    if !ok {
        return nil
    }
    var body struct {
        Quantity int `json:"quantity"`
    }
    if err := c.Bind(&body); err != nil || body.Quantity == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity is required"})
    }
    applied := s.SetQuantity(body.Quantity)
    return c.JSON(http.StatusOK, echo.Map{
        "quantity":      applied,
        "listing_count": s.ListingCount(),
    })
}

// ViewListing handles POST /v1/sessions/current/view: opens the detail
// view and starts the hold timer.  A listing that was just bought out
// from under the player yields 410.
func (h *SessionHandler) ViewListing(c echo.Context) error {
    s, ok := h.session(c)
    if !ok {
        return nil
    }
    var body struct {
        SectionID string `json:"section_id"`
        Row       string `json:"row"`
    }
    if err := c.Bind(&body); err != nil || body.SectionID == "" || body.Row == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "section_id and row are required"})
    }

    listing, err := s.View(body.SectionID, body.Row)
    switch {
    case errors.Is(err, game.ErrNotActive):
        return c.JSON(http.StatusConflict, echo.Map{"error": "session is not active"})
    case errors.Is(err, game.ErrListingGone):
        return c.JSON(http.StatusGone, echo.Map{"error": "listing is no longer available"})
    case err != nil:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to open listing"})
    }
    return c.JSON(http.StatusOK, listing)
}

// CloseView handles DELETE /v1/sessions/current/view.
func (h *SessionHandler) CloseView(c echo.Context) error {
    s, ok := h.session(c)
    if !ok {
        return nil
    }
    s.CloseView()
    return c.NoContent(http.StatusNoContent)
}

// SkipCountdown handles POST /v1/sessions/current/skip: the wait ends and
// the onsale starts immediately.
func (h *SessionHandler) SkipCountdown(c echo.Context) error {
    s, ok := h.session(c)
    if !ok {
        return nil
    }
    if err := s.SkipCountdown(); err != nil {
        return c.JSON(http.StatusConflict, echo.Map{"error": "no countdown is waiting"})
    }
    return c.JSON(http.StatusOK, s.Snapshot())
}

// Abandon handles POST /v1/sessions/current/abandon: the attempt is
// recorded as a failure and the session torn down.
func (h *SessionHandler) Abandon(c echo.Context) error {
    playerID := middleware.PlayerID(c)
    if playerID == "" {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    if _, ok := h.Manager.Session(playerID); !ok {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no session"})
    }
    h.Manager.Tracker(playerID).RecordFailure("abandoned")
    h.Manager.EndSession(playerID)
    return c.NoContent(http.StatusNoContent)
}
