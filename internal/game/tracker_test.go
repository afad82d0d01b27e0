package game

import (
    "context"
    "errors"
    "fmt"
    "sync"
    "testing"
    "time"

    "github.com/iliyamo/onsale-practice/internal/model"
)

// memStore is an in-memory StatsStore for tracker tests.
type memStore struct {
    mu      sync.Mutex
    records map[string]model.AllTimeStats
    saves   int
    failAll bool
}

func newMemStore() *memStore {
    return &memStore{records: make(map[string]model.AllTimeStats)}
}

func (m *memStore) Load(_ context.Context, playerID string) (model.AllTimeStats, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    if m.failAll {
        return model.AllTimeStats{}, errors.New("store down")
    }
    if s, ok := m.records[playerID]; ok {
        return s, nil
    }
    return model.NewAllTimeStats(), nil
}

func (m *memStore) Save(_ context.Context, playerID string, stats model.AllTimeStats) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    if m.failAll {
        return errors.New("store down")
    }
    m.records[playerID] = stats
    m.saves++
    return nil
}

func (m *memStore) Reset(_ context.Context, playerID string) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    if m.failAll {
        return errors.New("store down")
    }
    delete(m.records, playerID)
    return nil
}

// fakeClock hands out strictly increasing times in fixed steps.
type fakeClock struct {
    mu   sync.Mutex
    t    time.Time
    step time.Duration
}

func newFakeClock(step time.Duration) *fakeClock {
    return &fakeClock{t: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC), step: step}
}

func (c *fakeClock) now() time.Time {
    c.mu.Lock()
    defer c.mu.Unlock()
    c.t = c.t.Add(c.step)
    return c.t
}

// advance shifts the clock without consuming a step.
func (c *fakeClock) advance(d time.Duration) {
    c.mu.Lock()
    c.t = c.t.Add(d)
    c.mu.Unlock()
}

func newTestTracker(t *testing.T, store StatsStore, step time.Duration) (*Tracker, *fakeClock) {
    t.Helper()
    clock := newFakeClock(step)
    return NewTracker("p1", store, clock.now), clock
}

func TestTrackerBestsMoveOnlyOnStrictImprovement(t *testing.T) {
    tr, clock := newTestTracker(t, nil, 0)

    tr.StartAttempt(model.DifficultyMedium)
    clock.advance(5 * time.Second)
    tr.RecordSuccess("Section 105", "C", 300, 2)

    stats := tr.AllTimeStats()
    if stats.BestTimeMillis != 5000 {
        t.Fatalf("best time = %d, want 5000", stats.BestTimeMillis)
    }
    if stats.BestSection != "Section 105" || stats.BestPrice != 300 {
        t.Fatalf("bests = (%q,%d)", stats.BestSection, stats.BestPrice)
    }

    // Slower, worse section, higher price: nothing moves.
    tr.StartAttempt(model.DifficultyMedium)
    clock.advance(8 * time.Second)
    tr.RecordSuccess("Section 203", "A", 450, 2)

    stats = tr.AllTimeStats()
    if stats.BestTimeMillis != 5000 {
        t.Fatalf("best time moved to %d on a slower run", stats.BestTimeMillis)
    }
    if stats.BestSection != "Section 105" {
        t.Fatalf("best section moved to %q; 105 outranks 203", stats.BestSection)
    }
    if stats.BestPrice != 300 {
        t.Fatalf("best price moved to %d", stats.BestPrice)
    }

    // Faster, better section, cheaper: every best moves.
    tr.StartAttempt(model.DifficultyHard)
    clock.advance(3 * time.Second)
    tr.RecordSuccess("Section 101", "B", 250, 4)

    stats = tr.AllTimeStats()
    if stats.BestTimeMillis != 3000 {
        t.Fatalf("best time = %d, want 3000", stats.BestTimeMillis)
    }
    if stats.BestSection != "Section 101" || stats.BestPrice != 250 {
        t.Fatalf("bests = (%q,%d), want (Section 101,250)", stats.BestSection, stats.BestPrice)
    }
    if stats.TotalSpent != 300*2+450*2+250*4 {
        t.Fatalf("total spent = %d", stats.TotalSpent)
    }
}

func TestTrackerSectionRankIgnoresLetters(t *testing.T) {
    tr, _ := newTestTracker(t, nil, time.Second)

    tr.StartAttempt(model.DifficultyMedium)
    tr.RecordSuccess("Floor GA", "A", 900, 2) // no digits: never a best section
    if s := tr.AllTimeStats().BestSection; s != "" {
        t.Fatalf("letter-only section became best: %q", s)
    }

    tr.StartAttempt(model.DifficultyMedium)
    tr.RecordSuccess("Section 334", "B", 200, 2)
    if s := tr.AllTimeStats().BestSection; s != "Section 334" {
        t.Fatalf("best section = %q, want Section 334", s)
    }
}

func TestTrackerHistoryBoundedMostRecentFirst(t *testing.T) {
    tr, _ := newTestTracker(t, nil, time.Second)

    for i := 0; i < model.HistoryLimit*2; i++ {
        tr.StartAttempt(model.DifficultyEasy)
        tr.RecordSuccess(fmt.Sprintf("Section %d", 100+i), "A", 100+i, 1)
    }

    stats := tr.AllTimeStats()
    if len(stats.History) != model.HistoryLimit {
        t.Fatalf("history length %d, want %d", len(stats.History), model.HistoryLimit)
    }
    // The newest purchase sits at the front.
    if stats.History[0].Section != "Section 199" {
        t.Fatalf("history[0] = %q, want the latest purchase", stats.History[0].Section)
    }
    for i := 1; i < len(stats.History); i++ {
        if stats.History[i].Timestamp.After(stats.History[i-1].Timestamp) {
            t.Fatalf("history not newest-first at %d", i)
        }
    }
    if stats.TotalSuccesses != model.HistoryLimit*2 {
        t.Fatalf("total successes = %d, counters must outlive trimming", stats.TotalSuccesses)
    }
}

func TestTrackerAverageCoversHistoryPlusCurrent(t *testing.T) {
    tr, clock := newTestTracker(t, nil, 0)

    durations := []time.Duration{2 * time.Second, 4 * time.Second, 6 * time.Second}
    for _, d := range durations {
        tr.StartAttempt(model.DifficultyMedium)
        clock.advance(d)
        tr.RecordSuccess("Section 110", "A", 100, 2)
    }

    if avg := tr.AllTimeStats().AverageMillis; avg != 4000 {
        t.Fatalf("average = %v, want 4000", avg)
    }
}

func TestTrackerFailuresAndRates(t *testing.T) {
    tr, _ := newTestTracker(t, nil, time.Second)

    tr.StartAttempt(model.DifficultyHard)
    tr.RecordSuccess("Section 101", "A", 100, 2)
    tr.StartAttempt(model.DifficultyHard)
    tr.RecordFailure("hold expired")
    tr.StartAttempt(model.DifficultyHard)
    tr.RecordFailure("sold")
    tr.StartAttempt(model.DifficultyEasy)
    tr.RecordSuccess("Section 102", "B", 90, 1)

    stats := tr.AllTimeStats()
    if stats.TotalAttempts != 4 || stats.TotalSuccesses != 2 || stats.TotalFailures != 2 {
        t.Fatalf("counters = (%d,%d,%d)", stats.TotalAttempts, stats.TotalSuccesses, stats.TotalFailures)
    }
    if got := tr.SuccessRate(); got != 50 {
        t.Fatalf("success rate = %v, want 50", got)
    }
    hard := stats.Difficulty[model.DifficultyHard]
    if hard.Attempts != 3 || hard.Successes != 1 {
        t.Fatalf("hard tally = %+v", hard)
    }
    easy := stats.Difficulty[model.DifficultyEasy]
    if easy.Attempts != 1 || easy.Successes != 1 {
        t.Fatalf("easy tally = %+v", easy)
    }

    session := tr.SessionStats()
    if session.Attempts != 4 || session.Successes != 2 || session.Failures != 2 {
        t.Fatalf("session counters = %+v", session)
    }
    if session.LastPurchase == nil || session.LastPurchase.Section != "Section 102" {
        t.Fatalf("last purchase = %+v", session.LastPurchase)
    }
}

func TestTrackerResetSessionKeepsAllTime(t *testing.T) {
    tr, _ := newTestTracker(t, nil, time.Second)

    tr.StartAttempt(model.DifficultyMedium)
    tr.RecordSuccess("Section 120", "A", 150, 2)
    tr.ResetSession()

    if s := tr.SessionStats(); s.Attempts != 0 || s.Successes != 0 || s.LastPurchase != nil {
        t.Fatalf("session stats survived reset: %+v", s)
    }
    if a := tr.AllTimeStats(); a.TotalSuccesses != 1 {
        t.Fatalf("all-time record lost on session reset: %+v", a)
    }
    if tr.ElapsedMillis() != 0 {
        t.Fatal("attempt clock survived session reset")
    }
}

func TestTrackerPersistsThroughStore(t *testing.T) {
    store := newMemStore()
    tr, _ := newTestTracker(t, store, time.Second)

    tr.StartAttempt(model.DifficultyMedium)
    tr.RecordSuccess("Section 115", "C", 220, 2)

    store.mu.Lock()
    saved, saves := store.records["p1"], store.saves
    store.mu.Unlock()
    if saves == 0 {
        t.Fatal("tracker never wrote through to the store")
    }
    if saved.TotalSuccesses != 1 || len(saved.History) != 1 {
        t.Fatalf("stored record = %+v", saved)
    }

    // A fresh tracker for the same player resumes from the stored record.
    resumed := NewTracker("p1", store, nil)
    if got := resumed.AllTimeStats(); got.TotalSuccesses != 1 || got.BestPrice != 220 {
        t.Fatalf("resumed record = %+v", got)
    }

    resumed.ResetAll()
    store.mu.Lock()
    _, kept := store.records["p1"]
    store.mu.Unlock()
    if kept {
        t.Fatal("ResetAll left the stored record behind")
    }
    if got := resumed.AllTimeStats(); got.TotalSuccesses != 0 {
        t.Fatalf("in-memory record survived ResetAll: %+v", got)
    }
}

func TestTrackerDegradesWhenStoreFails(t *testing.T) {
    store := newMemStore()
    store.failAll = true
    tr := NewTracker("p1", store, nil)

    // Every operation keeps working against memory despite the dead store.
    tr.StartAttempt(model.DifficultyMedium)
    tr.RecordSuccess("Section 101", "A", 100, 2)
    tr.RecordFailure("sold")

    if got := tr.AllTimeStats(); got.TotalSuccesses != 1 || got.TotalFailures != 1 {
        t.Fatalf("in-memory tracking broken under store failure: %+v", got)
    }
}
