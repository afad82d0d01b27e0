package router // package router defines how HTTP routes are registered for the API

import (
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/onsale-practice/internal/handler"
    "github.com/iliyamo/onsale-practice/internal/middleware"
    "github.com/iliyamo/onsale-practice/internal/repository"
)

// RegisterRoutes registers routes that do not require a player token on the
// provided Echo instance.  Besides the health check this covers player
// bootstrap (a brand-new browser has no token yet) and the read-only
// difficulty catalog the settings screen renders before sign-in.
func RegisterRoutes(e *echo.Echo, p *handler.PlayerHandler) {
    // Load balancers and monitoring probe this endpoint.
    e.GET("/healthz", handler.Health)
    // First visit: mint an anonymous player identity and its token.
    e.POST("/v1/players", p.CreatePlayer)
    // Static difficulty catalog, safe to serve unauthenticated.
    e.GET("/v1/difficulties", p.GetDifficulties)
}

// Deps bundles the handlers and middleware inputs the protected surface
// needs, so main wires one struct instead of a long parameter list.
type Deps struct {
    Session  *handler.SessionHandler
    Checkout *handler.CheckoutHandler
    Stats    *handler.StatsHandler
    Settings *handler.SettingsHandler
    Events   *handler.EventsHandler

    JWTSecret     string
    KV            repository.KV
    RefreshWindow time.Duration
}

// RegisterAPI registers every player-scoped endpoint under /v1.  All routes
// in the group run the bearer-token middleware; session creation also runs
// the refresh limiter so a held-down refresh key cannot hammer catalog
// generation.
func RegisterAPI(e *echo.Echo, d Deps) {
    v1 := e.Group("/v1")
    v1.Use(middleware.PlayerAuth(d.JWTSecret))

    // Sticky per-player choices (difficulty, dismissed banner).
    v1.GET("/settings", d.Settings.GetSettings)
    v1.PUT("/settings", d.Settings.UpdateSettings)

    // Session lifecycle.  POST is the "refresh" action and gets the
    // fixed-window limiter.
    v1.POST("/sessions", d.Session.CreateSession, middleware.RefreshLimit(d.KV, d.RefreshWindow))
    v1.GET("/sessions/current", d.Session.GetSession)
    v1.POST("/sessions/current/skip", d.Session.SkipCountdown)
    v1.POST("/sessions/current/abandon", d.Session.Abandon)

    // Live catalog reads.
    v1.GET("/sessions/current/listings", d.Session.GetListings)
    v1.GET("/sessions/current/sections", d.Session.GetSections)
    v1.PUT("/sessions/current/quantity", d.Session.UpdateQuantity)

    // Listing detail view and the hold it starts.
    v1.POST("/sessions/current/view", d.Session.ViewListing)
    v1.DELETE("/sessions/current/view", d.Session.CloseView)

    // Checkout and the read-once records the checkout page consumes.
    v1.POST("/sessions/current/checkout", d.Checkout.Checkout)
    v1.GET("/checkout/handoff", d.Checkout.GetHandoff)
    v1.GET("/checkout/success", d.Checkout.GetSuccess)

    // Server-sent event stream for the live session.
    v1.GET("/events", d.Events.Stream)

    // Score panel.
    v1.GET("/stats", d.Stats.GetStats)
    v1.POST("/stats/reset-session", d.Stats.ResetSession)
    v1.DELETE("/stats", d.Stats.ResetAll)
}
