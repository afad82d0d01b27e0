package handler

import (
    "context"
    "errors"
    "log"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/onsale-practice/internal/game"
    "github.com/iliyamo/onsale-practice/internal/middleware"
    "github.com/iliyamo/onsale-practice/internal/model"
    "github.com/iliyamo/onsale-practice/internal/queue"
    "github.com/iliyamo/onsale-practice/internal/repository"
    queue_publisher "github.com/iliyamo/onsale-practice/internal/service"
)

// CheckoutHandler completes attempts and bridges to the separate checkout
// page: the purchase detail is parked in the key-value store with a TTL
// and read back exactly once by the page on the other side of the
// redirect.
type CheckoutHandler struct {
    Manager *game.Manager
    Repo    *repository.CheckoutRepo
}

// NewCheckoutHandler constructs a CheckoutHandler.
func NewCheckoutHandler(manager *game.Manager, checkout *repository.CheckoutRepo) *CheckoutHandler {
    if manager == nil || checkout == nil {
        panic("nil dependency passed to NewCheckoutHandler")
    }
    return &CheckoutHandler{Manager: manager, Repo: checkout}
}

// Checkout handles POST /v1/sessions/current/checkout.  The viewed listing
// is bought: the attempt is recorded, the handoff and success records are
// parked for the checkout page, and the confirmation event goes to the
// broker in the background.
func (h *CheckoutHandler) Checkout(c echo.Context) error {
    playerID := middleware.PlayerID(c)
    if playerID == "" {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    s, ok := h.Manager.Session(playerID)
    if !ok {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no session"})
    }

    out, err := s.Checkout()
    switch {
    case errors.Is(err, game.ErrNotActive):
        return c.JSON(http.StatusConflict, echo.Map{"error": "session is not active"})
    case errors.Is(err, game.ErrNoView):
        return c.JSON(http.StatusConflict, echo.Map{"error": "no listing is being viewed"})
    case errors.Is(err, game.ErrListingGone):
        return c.JSON(http.StatusGone, echo.Map{"error": "listing is no longer available"})
    case err != nil:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "checkout failed"})
    }

    rec := out.Record
    ctx := c.Request().Context()

    startedAt := rec.Timestamp.Add(-time.Duration(rec.DurationMillis) * time.Millisecond)
    // A dead store drops the handoff for the checkout page but must not
    // fail the purchase itself.
    if err := h.Repo.PutHandoff(ctx, playerID, model.CheckoutHandoff{
        StartedAt: startedAt,
        Section:   rec.Section,
        Row:       rec.Row,
        Price:     rec.Price,
        Quantity:  rec.Quantity,
        Rating:    out.Rating,
        HasAisle:  out.HasAisle,
    }); err != nil {
        log.Printf("checkout: park handoff for %s failed: %v", playerID, err)
    }
    if err := h.Repo.PutSuccess(ctx, playerID, rec); err != nil {
        log.Printf("checkout: park success record for %s failed: %v", playerID, err)
    }

    // Broker publish happens off the request path; a dead broker must not
    // slow the confirmation down.
    go func() {
        pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        _ = queue_publisher.PublishPurchaseConfirmed(pubCtx, queue.PurchaseConfirmedEvent{
            PlayerID:       playerID,
            Difficulty:     rec.Difficulty,
            Section:        rec.Section,
            Row:            rec.Row,
            Price:          rec.Price,
            Quantity:       rec.Quantity,
            Rating:         out.Rating,
            HasAisle:       out.HasAisle,
            DurationMillis: rec.DurationMillis,
            ConfirmedAt:    rec.Timestamp.UTC().Format(time.RFC3339),
        })
    }()

    return c.JSON(http.StatusOK, echo.Map{
        "record":     rec,
        "section_id": out.SectionID,
        "rating":     out.Rating,
        "has_aisle":  out.HasAisle,
    })
}

// GetHandoff handles GET /v1/checkout/handoff.  The record is consumed on
// read; a second request finds nothing.
func (h *CheckoutHandler) GetHandoff(c echo.Context) error {
    playerID := middleware.PlayerID(c)
    if playerID == "" {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    handoff, err := h.Repo.TakeHandoff(c.Request().Context(), playerID)
    if errors.Is(err, repository.ErrNoHandoff) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no checkout in progress"})
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load checkout"})
    }
    return c.JSON(http.StatusOK, handoff)
}

// GetSuccess handles GET /v1/checkout/success, read-once like the handoff.
func (h *CheckoutHandler) GetSuccess(c echo.Context) error {
    playerID := middleware.PlayerID(c)
    if playerID == "" {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    rec, err := h.Repo.TakeSuccess(c.Request().Context(), playerID)
    if errors.Is(err, repository.ErrNoSuccess) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no completed purchase"})
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load purchase"})
    }
    return c.JSON(http.StatusOK, rec)
}
