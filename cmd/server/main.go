package main // Entry point package

import (
    "context"
    "log"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/iliyamo/onsale-practice/internal/config"
    "github.com/iliyamo/onsale-practice/internal/database"
    "github.com/iliyamo/onsale-practice/internal/game"
    "github.com/iliyamo/onsale-practice/internal/handler"
    "github.com/iliyamo/onsale-practice/internal/repository"
    "github.com/iliyamo/onsale-practice/internal/router"
)

func main() {
    // Local development keeps its settings in a .env file; in real
    // deployments the variables come from the environment and the file is
    // simply absent.
    if err := godotenv.Load(); err != nil {
        log.Printf("no .env file loaded: %v", err)
    }

    cfg := config.Load()

    // Durable stats live in MySQL.  A missing database degrades to
    // in-memory stats rather than refusing to start: the simulator itself
    // needs no storage at all.
    var store game.StatsStore
    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Printf("mysql unavailable, stats will not persist: %v", err)
    } else {
        stats := repository.NewStatsRepo(db)
        ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        if err := stats.EnsureSchema(ctx); err != nil {
            cancel()
            log.Fatalf("failed to ensure schema: %v", err)
        }
        cancel()
        store = stats
    }

    // Settings, checkout handoff and the refresh window all live in the
    // key-value store; without Redis they fall back to process memory.
    kv := repository.NewKV(config.NewRedisClient())
    settingsRepo := repository.NewSettingsRepo(kv)
    checkoutRepo := repository.NewCheckoutRepo(kv)

    manager := game.NewManager(store)

    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Recover())
    e.Use(echomw.CORS())

    playerHandler := handler.NewPlayerHandler(cfg.JWTSecret, cfg.PlayerTTLDays)
    router.RegisterRoutes(e, playerHandler)
    router.RegisterAPI(e, router.Deps{
        Session:       handler.NewSessionHandler(manager, settingsRepo, cfg.CountdownSeconds),
        Checkout:      handler.NewCheckoutHandler(manager, checkoutRepo),
        Stats:         handler.NewStatsHandler(manager),
        Settings:      handler.NewSettingsHandler(settingsRepo),
        Events:        handler.NewEventsHandler(manager),
        JWTSecret:     cfg.JWTSecret,
        KV:            kv,
        RefreshWindow: time.Duration(cfg.RefreshWindowSec) * time.Second,
    })

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
