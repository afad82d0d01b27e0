package game

import (
    "sync"
    "time"

    "github.com/iliyamo/onsale-practice/internal/model"
)

// Competitor simulates the rival buyers eroding the live catalog while a
// session is active.  States: idle -> running (scheduled ticking) -> idle
// on Stop or Reset.  The tick cadence is the profile's fixed period; the
// decay work itself runs in Session.competitorTick so that all catalog
// mutation stays under the session lock.
type Competitor struct {
    mu           sync.Mutex
    running      bool
    cancel       chan struct{}
    listingsSold int
    sectionsGone int
}

// NewCompetitor returns an idle competitor.
func NewCompetitor() *Competitor {
    return &Competitor{}
}

// Start schedules the recurring decay tick.  A no-op when the profile has
// the competitor disabled or the competitor is already running.
func (b *Competitor) Start(profile model.DifficultyProfile, tick func()) {
    if !profile.CompetitorEnabled {
        return
    }
    b.mu.Lock()
    if b.running {
        b.mu.Unlock()
        return
    }
    b.running = true
    cancel := make(chan struct{})
    b.cancel = cancel
    b.mu.Unlock()

    period := time.Duration(profile.CompetitorTickMilli) * time.Millisecond
    go func() {
        t := time.NewTicker(period)
        defer t.Stop()
        for {
            select {
            case <-cancel:
                return
            case <-t.C:
                tick()
            }
        }
    }()
}

// Stop cancels the scheduled tick.  Idempotent.
func (b *Competitor) Stop() {
    b.mu.Lock()
    defer b.mu.Unlock()
    if !b.running {
        return
    }
    b.running = false
    close(b.cancel)
}

// Reset stops the competitor and clears its removal bookkeeping for a
// fresh session.
func (b *Competitor) Reset() {
    b.Stop()
    b.mu.Lock()
    b.listingsSold = 0
    b.sectionsGone = 0
    b.mu.Unlock()
}

// Running reports whether a tick is scheduled.
func (b *Competitor) Running() bool {
    b.mu.Lock()
    defer b.mu.Unlock()
    return b.running
}

// Stats returns how many listings the competitor has bought and how many
// sections it has emptied since the last Reset.
func (b *Competitor) Stats() (listingsSold, sectionsGone int) {
    b.mu.Lock()
    defer b.mu.Unlock()
    return b.listingsSold, b.sectionsGone
}

func (b *Competitor) addSold(n int) {
    b.mu.Lock()
    b.listingsSold += n
    b.mu.Unlock()
}

func (b *Competitor) addSectionGone() {
    b.mu.Lock()
    b.sectionsGone++
    b.mu.Unlock()
}

// competitorTick performs one decay pass, in order: a section-wipe roll
// (someone bought a whole section), then bulk listing erosion gated per
// removal by the profile's disappear rate.  Emptied sections leave the
// available set; if the viewed listing is among the casualties the view
// is invalidated.  All under the session lock.
func (s *Session) competitorTick() {
    s.mu.Lock()
    defer s.mu.Unlock()

    if s.state != StateActive || len(s.listings) == 0 {
        return
    }
    agg := s.profile.Aggressiveness

    // Section-wipe roll first; on success the rest of the tick is skipped.
    if s.rng.Float64() < agg.WipeChance && len(s.availableIDs) > 0 {
        victim := s.availableIDs[s.rng.Intn(len(s.availableIDs))]
        s.wipeSectionLocked(victim)
        return
    }

    // Bulk erosion: base + random extra attempts, capped at what remains.
    attempts := agg.BaseRemovals
    if agg.MaxExtra > 0 {
        attempts += s.rng.Intn(agg.MaxExtra)
    }
    if attempts > len(s.listings) {
        attempts = len(s.listings)
    }

    removed := 0
    affected := make(map[string]struct{})
    for i := 0; i < attempts && len(s.listings) > 0; i++ {
        if s.rng.Float64() >= s.profile.DisappearRate {
            continue
        }
        idx := s.rng.Intn(len(s.listings))
        victim := s.listings[idx]
        s.listings = append(s.listings[:idx], s.listings[idx+1:]...)
        affected[victim.SectionID] = struct{}{}
        removed++

        if s.viewed != nil && s.viewed.key == victim.Key() {
            s.invalidateViewLocked("sold")
        }
    }

    // Sections left with zero listings are removed, same as a wipe.
    // Iterate the affected set, not availableIDs: removal mutates that
    // slice in place and would skip the element after each hit.
    for id := range affected {
        if s.sectionListingCountLocked(id) == 0 {
            s.removeSectionLocked(id)
        }
    }

    if removed > 0 {
        s.bot.addSold(removed)
        s.publishCatalogLocked()
    }
}

// wipeSectionLocked sells out one whole section: every listing it still
// has disappears and the section leaves the available set.  The session
// lock must be held.
func (s *Session) wipeSectionLocked(sectionID string) {
    if s.viewed != nil && s.viewed.sectionID == sectionID {
        s.invalidateViewLocked("section sold out")
    }

    kept := s.listings[:0]
    removed := 0
    for _, l := range s.listings {
        if l.SectionID == sectionID {
            removed++
            continue
        }
        kept = append(kept, l)
    }
    s.listings = kept
    if removed > 0 {
        s.bot.addSold(removed)
    }
    s.removeSectionLocked(sectionID)
    s.publishCatalogLocked()
}
