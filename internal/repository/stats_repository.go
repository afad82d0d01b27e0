package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/onsale-practice/internal/model"
)

// StatsRepo persists all-time player statistics in MySQL across three
// tables: one row of aggregates per player, the bounded purchase history
// and the per-difficulty tallies.  It implements game.StatsStore.  Writes
// replace the player's full record inside one transaction; the record is
// small (at most 50 history rows) so the simplicity wins over incremental
// updates.
type StatsRepo struct {
    db *sql.DB
}

// NewStatsRepo returns a StatsRepo bound to the provided database.
func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

// EnsureSchema creates the statistics tables when they do not exist.
// Called once at startup.
func (r *StatsRepo) EnsureSchema(ctx context.Context) error {
    stmts := []string{
        `CREATE TABLE IF NOT EXISTS player_stats (
            player_id       VARCHAR(64) PRIMARY KEY,
            total_attempts  INT NOT NULL DEFAULT 0,
            total_successes INT NOT NULL DEFAULT 0,
            total_failures  INT NOT NULL DEFAULT 0,
            best_time_ms    BIGINT NOT NULL DEFAULT 0,
            best_section    VARCHAR(64) NOT NULL DEFAULT '',
            best_price      INT NOT NULL DEFAULT 0,
            average_ms      DOUBLE NOT NULL DEFAULT 0,
            total_spent     INT NOT NULL DEFAULT 0,
            updated_at      DATETIME NOT NULL
        )`,
        `CREATE TABLE IF NOT EXISTS purchase_history (
            id          BIGINT AUTO_INCREMENT PRIMARY KEY,
            player_id   VARCHAR(64) NOT NULL,
            purchased_at DATETIME NOT NULL,
            duration_ms BIGINT NOT NULL,
            difficulty  VARCHAR(16) NOT NULL,
            section     VARCHAR(64) NOT NULL,
            row_label   VARCHAR(16) NOT NULL,
            price       INT NOT NULL,
            quantity    INT NOT NULL,
            INDEX idx_history_player (player_id, id)
        )`,
        `CREATE TABLE IF NOT EXISTS difficulty_stats (
            player_id  VARCHAR(64) NOT NULL,
            difficulty VARCHAR(16) NOT NULL,
            attempts   INT NOT NULL DEFAULT 0,
            successes  INT NOT NULL DEFAULT 0,
            PRIMARY KEY (player_id, difficulty)
        )`,
    }
    for _, stmt := range stmts {
        if _, err := r.db.ExecContext(ctx, stmt); err != nil {
            return err
        }
    }
    return nil
}

// Load reads a player's full record.  A player with no rows yet gets a
// fresh empty record, not an error.
func (r *StatsRepo) Load(ctx context.Context, playerID string) (model.AllTimeStats, error) {
    stats := model.NewAllTimeStats()

    err := r.db.QueryRowContext(ctx,
        `SELECT total_attempts, total_successes, total_failures, best_time_ms,
                best_section, best_price, average_ms, total_spent
         FROM player_stats WHERE player_id = ?`, playerID,
    ).Scan(&stats.TotalAttempts, &stats.TotalSuccesses, &stats.TotalFailures,
        &stats.BestTimeMillis, &stats.BestSection, &stats.BestPrice,
        &stats.AverageMillis, &stats.TotalSpent)
    if err == sql.ErrNoRows {
        return stats, nil
    }
    if err != nil {
        return stats, err
    }

    rows, err := r.db.QueryContext(ctx,
        `SELECT difficulty, attempts, successes FROM difficulty_stats WHERE player_id = ?`,
        playerID)
    if err != nil {
        return stats, err
    }
    for rows.Next() {
        var name string
        var tally model.DifficultyTally
        if err := rows.Scan(&name, &tally.Attempts, &tally.Successes); err != nil {
            rows.Close()
            return stats, err
        }
        stats.Difficulty[name] = tally
    }
    if err := rows.Close(); err != nil {
        return stats, err
    }

    // History rows are inserted oldest first, so descending id order is
    // most-recent-first.
    rows, err = r.db.QueryContext(ctx,
        `SELECT purchased_at, duration_ms, difficulty, section, row_label, price, quantity
         FROM purchase_history WHERE player_id = ?
         ORDER BY id DESC LIMIT ?`, playerID, model.HistoryLimit)
    if err != nil {
        return stats, err
    }
    defer rows.Close()
    for rows.Next() {
        var rec model.PurchaseRecord
        if err := rows.Scan(&rec.Timestamp, &rec.DurationMillis, &rec.Difficulty,
            &rec.Section, &rec.Row, &rec.Price, &rec.Quantity); err != nil {
            return stats, err
        }
        stats.History = append(stats.History, rec)
    }
    return stats, rows.Err()
}

// Save replaces the player's persisted record with the given one.
func (r *StatsRepo) Save(ctx context.Context, playerID string, stats model.AllTimeStats) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    _, err = tx.ExecContext(ctx,
        `INSERT INTO player_stats
            (player_id, total_attempts, total_successes, total_failures, best_time_ms,
             best_section, best_price, average_ms, total_spent, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON DUPLICATE KEY UPDATE
            total_attempts = VALUES(total_attempts),
            total_successes = VALUES(total_successes),
            total_failures = VALUES(total_failures),
            best_time_ms = VALUES(best_time_ms),
            best_section = VALUES(best_section),
            best_price = VALUES(best_price),
            average_ms = VALUES(average_ms),
            total_spent = VALUES(total_spent),
            updated_at = VALUES(updated_at)`,
        playerID, stats.TotalAttempts, stats.TotalSuccesses, stats.TotalFailures,
        stats.BestTimeMillis, stats.BestSection, stats.BestPrice,
        stats.AverageMillis, stats.TotalSpent, time.Now().UTC())
    if err != nil {
        return err
    }

    for name, tally := range stats.Difficulty {
        if _, err = tx.ExecContext(ctx,
            `INSERT INTO difficulty_stats (player_id, difficulty, attempts, successes)
             VALUES (?, ?, ?, ?)
             ON DUPLICATE KEY UPDATE
                attempts = VALUES(attempts), successes = VALUES(successes)`,
            playerID, name, tally.Attempts, tally.Successes); err != nil {
            return err
        }
    }

    if _, err = tx.ExecContext(ctx,
        `DELETE FROM purchase_history WHERE player_id = ?`, playerID); err != nil {
        return err
    }
    // History arrives most-recent-first; insert oldest first to keep id
    // order aligned with recency.
    for i := len(stats.History) - 1; i >= 0; i-- {
        rec := stats.History[i]
        if _, err = tx.ExecContext(ctx,
            `INSERT INTO purchase_history
                (player_id, purchased_at, duration_ms, difficulty, section, row_label, price, quantity)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
            playerID, rec.Timestamp.UTC(), rec.DurationMillis, rec.Difficulty,
            rec.Section, rec.Row, rec.Price, rec.Quantity); err != nil {
            return err
        }
    }

    if err = tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// Reset permanently deletes everything stored for the player.
func (r *StatsRepo) Reset(ctx context.Context, playerID string) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    for _, table := range []string{"player_stats", "purchase_history", "difficulty_stats"} {
        if _, err = tx.ExecContext(ctx,
            `DELETE FROM `+table+` WHERE player_id = ?`, playerID); err != nil {
            return err
        }
    }
    if err = tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
