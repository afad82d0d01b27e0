package game

import (
    "context"
    "log"
    "strings"
    "sync"
    "time"

    "github.com/iliyamo/onsale-practice/internal/model"
)

// StatsStore persists a player's all-time statistics.  The MySQL
// repository implements it; tests and degraded deployments use the
// in-memory variant.
type StatsStore interface {
    Load(ctx context.Context, playerID string) (model.AllTimeStats, error)
    Save(ctx context.Context, playerID string, stats model.AllTimeStats) error
    Reset(ctx context.Context, playerID string) error
}

// persistTimeout bounds every store call issued from a game callback,
// which has no request context of its own.
const persistTimeout = 2 * time.Second

// unrankedSection is the comparison fallback for section names without
// digits: they never beat a numbered section.
const unrankedSection = 999

// Tracker records attempt, success and failure outcomes for one player.
// Session-scoped counters live only in memory; the all-time record is
// mirrored in memory and written through to the store after every change.
// A failing store degrades to memory-only tracking with a logged warning.
type Tracker struct {
    mu           sync.Mutex
    playerID     string
    store        StatsStore
    now          func() time.Time
    session      model.SessionStats
    allTime      model.AllTimeStats
    attemptStart time.Time
    difficulty   string
}

// NewTracker loads the player's all-time record from the store.  A nil
// store or an unreadable record falls back to an empty record.
func NewTracker(playerID string, store StatsStore, now func() time.Time) *Tracker {
    if now == nil {
        now = time.Now
    }
    t := &Tracker{
        playerID: playerID,
        store:    store,
        now:      now,
        allTime:  model.NewAllTimeStats(),
    }
    if store != nil {
        ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
        defer cancel()
        stats, err := store.Load(ctx, playerID)
        if err != nil {
            log.Printf("tracker: load stats for %s failed, starting empty: %v", playerID, err)
        } else {
            if stats.Difficulty == nil {
                stats.Difficulty = model.NewAllTimeStats().Difficulty
            }
            t.allTime = stats
        }
    }
    return t
}

// StartAttempt marks the beginning of one refresh/onsale attempt.  It must
// be called exactly once per attempt; the difficulty is recorded for the
// per-difficulty tallies.
func (t *Tracker) StartAttempt(difficulty string) {
    t.mu.Lock()
    t.attemptStart = t.now()
    t.difficulty = difficulty
    t.session.Attempts++
    t.allTime.TotalAttempts++
    tally := t.allTime.Difficulty[difficulty]
    tally.Attempts++
    t.allTime.Difficulty[difficulty] = tally
    t.mu.Unlock()

    t.persist()
}

// RecordSuccess registers a completed checkout.  Bests only move on strict
// improvement: a faster duration, a lower-numbered section, a lower price.
// The purchase is prepended to the bounded history and the running average
// duration is recomputed over all recorded successes including this one.
func (t *Tracker) RecordSuccess(section, row string, price, quantity int) model.PurchaseRecord {
    t.mu.Lock()
    endTime := t.now()
    var duration int64
    if !t.attemptStart.IsZero() {
        duration = endTime.Sub(t.attemptStart).Milliseconds()
    }

    record := model.PurchaseRecord{
        Timestamp:      endTime,
        DurationMillis: duration,
        Difficulty:     t.difficulty,
        Section:        section,
        Row:            row,
        Price:          price,
        Quantity:       quantity,
    }

    t.session.Successes++
    t.session.LastPurchase = &record
    if t.session.BestTimeMillis == 0 || duration < t.session.BestTimeMillis {
        t.session.BestTimeMillis = duration
    }

    t.allTime.TotalSuccesses++
    if t.allTime.BestTimeMillis == 0 || duration < t.allTime.BestTimeMillis {
        t.allTime.BestTimeMillis = duration
    }
    if sectionRank(section) < sectionRank(t.allTime.BestSection) {
        t.allTime.BestSection = section
    }
    if t.allTime.BestPrice == 0 || price < t.allTime.BestPrice {
        t.allTime.BestPrice = price
    }
    t.allTime.TotalSpent += price * quantity

    // Average over the recorded history plus this success, then prepend
    // and trim to the bounded length.
    total := duration
    for _, p := range t.allTime.History {
        total += p.DurationMillis
    }
    t.allTime.AverageMillis = float64(total) / float64(len(t.allTime.History)+1)

    t.allTime.History = append([]model.PurchaseRecord{record}, t.allTime.History...)
    if len(t.allTime.History) > model.HistoryLimit {
        t.allTime.History = t.allTime.History[:model.HistoryLimit]
    }

    tally := t.allTime.Difficulty[t.difficulty]
    tally.Successes++
    t.allTime.Difficulty[t.difficulty] = tally
    t.mu.Unlock()

    t.persist()
    return record
}

// RecordFailure increments the failure counters only; timing, price and
// section bests are untouched.
func (t *Tracker) RecordFailure(reason string) {
    t.mu.Lock()
    t.session.Failures++
    t.allTime.TotalFailures++
    t.mu.Unlock()

    log.Printf("tracker: attempt failed for %s: %s", t.playerID, reason)
    t.persist()
}

// ResetSession zeroes the session-scoped counters without touching the
// all-time record.
func (t *Tracker) ResetSession() {
    t.mu.Lock()
    t.session = model.SessionStats{}
    t.attemptStart = time.Time{}
    t.mu.Unlock()
}

// ResetAll wipes everything, including the persisted history.  A full
// reset is not recoverable.
func (t *Tracker) ResetAll() {
    t.mu.Lock()
    t.session = model.SessionStats{}
    t.attemptStart = time.Time{}
    t.allTime = model.NewAllTimeStats()
    t.mu.Unlock()

    if t.store == nil {
        return
    }
    ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
    defer cancel()
    if err := t.store.Reset(ctx, t.playerID); err != nil {
        log.Printf("tracker: reset stats for %s failed: %v", t.playerID, err)
    }
}

// ElapsedMillis reports the time since the current attempt started, or 0
// when no attempt is running.
func (t *Tracker) ElapsedMillis() int64 {
    t.mu.Lock()
    defer t.mu.Unlock()
    if t.attemptStart.IsZero() {
        return 0
    }
    return t.now().Sub(t.attemptStart).Milliseconds()
}

// SessionStats returns a copy of the session-scoped counters.
func (t *Tracker) SessionStats() model.SessionStats {
    t.mu.Lock()
    defer t.mu.Unlock()
    return t.session
}

// AllTimeStats returns a deep copy of the all-time record.
func (t *Tracker) AllTimeStats() model.AllTimeStats {
    t.mu.Lock()
    defer t.mu.Unlock()
    out := t.allTime
    out.History = append([]model.PurchaseRecord(nil), t.allTime.History...)
    out.Difficulty = make(map[string]model.DifficultyTally, len(t.allTime.Difficulty))
    for k, v := range t.allTime.Difficulty {
        out.Difficulty[k] = v
    }
    return out
}

// SuccessRate is the all-time success percentage, 0 with no attempts.
func (t *Tracker) SuccessRate() float64 {
    t.mu.Lock()
    defer t.mu.Unlock()
    if t.allTime.TotalAttempts == 0 {
        return 0
    }
    return float64(t.allTime.TotalSuccesses) / float64(t.allTime.TotalAttempts) * 100
}

// persist writes the all-time record through to the store, logging and
// swallowing errors so a down store never interrupts play.
func (t *Tracker) persist() {
    if t.store == nil {
        return
    }
    stats := t.AllTimeStats()

    ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
    defer cancel()
    if err := t.store.Save(ctx, t.playerID, stats); err != nil {
        log.Printf("tracker: save stats for %s failed: %v", t.playerID, err)
    }
}

// sectionRank extracts the numeric part of a section name for best-section
// comparison; names without digits rank last.
func sectionRank(section string) int {
    if section == "" {
        return unrankedSection
    }
    digits := strings.Builder{}
    for _, r := range section {
        if r >= '0' && r <= '9' {
            digits.WriteRune(r)
        }
    }
    if digits.Len() == 0 {
        return unrankedSection
    }
    n := 0
    for _, r := range digits.String() {
        n = n*10 + int(r-'0')
    }
    return n
}
