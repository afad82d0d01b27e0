package config // package config loads application configuration from environment variables

import (
    "log"
    "os"
    "strconv"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  The HTTP port and JWT secret are required;
// the rest default so that a bare `go run` on a laptop starts a working
// (if non-durable) simulator.
type Config struct {
    Env              string // application environment (e.g. "dev", "prod")
    Port             string // HTTP port to listen on
    DBUser           string // database username
    DBPass           string // database password (optional)
    DBHost           string // database host address
    DBPort           string // database port number
    DBName           string // database name
    JWTSecret        string // secret used to sign player tokens
    PlayerTTLDays    int    // player token time-to-live in days
    CountdownSeconds int    // default onsale countdown length
    RefreshWindowSec int    // minimum seconds between session creations per player
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:              getenvDefault("APP_ENV", "dev"),
        Port:             must("APP_PORT"),
        DBUser:           getenvDefault("DB_USER", "root"),
        DBPass:           os.Getenv("DB_PASS"),
        DBHost:           getenvDefault("DB_HOST", "localhost"),
        DBPort:           getenvDefault("DB_PORT", "3306"),
        DBName:           getenvDefault("DB_NAME", "onsale_practice"),
        JWTSecret:        must("JWT_SECRET"),
        PlayerTTLDays:    intDefault("PLAYER_TOKEN_TTL_DAYS", 365),
        CountdownSeconds: intDefault("ONSALE_COUNTDOWN_SEC", 10),
        RefreshWindowSec: intDefault("REFRESH_WINDOW_SEC", 2),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// getenvDefault returns the variable's value or the given default.
func getenvDefault(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

// intDefault parses an optional integer variable, falling back to the
// default on absence or parse failure.
func intDefault(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        log.Printf("config: invalid int for %s: %q, using %d", key, v, def)
        return def
    }
    return n
}
