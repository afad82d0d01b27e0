package game

import (
    "sync"
    "time"
)

// Manager owns every player's tracker and at most one live session per
// player.  Starting a new session replaces (and fully stops) the previous
// one, so reused section identifiers can never be mutated by a stale
// timer.
type Manager struct {
    mu       sync.Mutex
    store    StatsStore
    sessions map[string]*Session
    trackers map[string]*Tracker
    now      func() time.Time
}

// NewManager builds a manager over the given stats store; a nil store is
// allowed and keeps statistics in memory only.
func NewManager(store StatsStore) *Manager {
    return &Manager{
        store:    store,
        sessions: make(map[string]*Session),
        trackers: make(map[string]*Tracker),
        now:      time.Now,
    }
}

// Tracker returns the player's tracker, creating (and loading) it on first
// use.
func (m *Manager) Tracker(playerID string) *Tracker {
    m.mu.Lock()
    defer m.mu.Unlock()
    if t, ok := m.trackers[playerID]; ok {
        return t
    }
    t := NewTracker(playerID, m.store, m.now)
    m.trackers[playerID] = t
    return t
}

// StartSession replaces the player's current session with a new one built
// from cfg and starts it.  The old session, if any, is ended first.
func (m *Manager) StartSession(cfg Config) *Session {
    if cfg.Tracker == nil {
        cfg.Tracker = m.Tracker(cfg.PlayerID)
    }

    m.mu.Lock()
    old := m.sessions[cfg.PlayerID]
    s := NewSession(cfg)
    m.sessions[cfg.PlayerID] = s
    m.mu.Unlock()

    if old != nil {
        old.End()
    }
    s.Start()
    return s
}

// Session returns the player's live session, if one exists.
func (m *Manager) Session(playerID string) (*Session, bool) {
    m.mu.Lock()
    defer m.mu.Unlock()
    s, ok := m.sessions[playerID]
    return s, ok
}

// EndSession stops and forgets the player's session.  A no-op when none
// exists.
func (m *Manager) EndSession(playerID string) {
    m.mu.Lock()
    s := m.sessions[playerID]
    delete(m.sessions, playerID)
    m.mu.Unlock()

    if s != nil {
        s.End()
    }
}
