package game

import (
    "errors"
    "math/rand"
    "sync"
    "time"

    "github.com/iliyamo/onsale-practice/internal/model"
)

// State is the lifecycle phase of a practice session.
type State string

const (
    // StateCountdown means the session is waiting for the onsale moment.
    StateCountdown State = "countdown"
    // StateActive means the catalog is live and the clock is running.
    StateActive State = "active"
    // StateEnded means the attempt finished (checkout, abandon or replace).
    StateEnded State = "ended"
)

// Sentinel errors returned by session operations.  These are expected
// game-state conditions, not faults.
var (
    ErrNotActive   = errors.New("session is not active")
    ErrNoView      = errors.New("no listing is being viewed")
    ErrListingGone = errors.New("listing is no longer available")
    ErrNoCountdown = errors.New("no onsale countdown is waiting")
)

// Ticket quantity bounds; 6 stands for "6+" in the picker.
const (
    minQuantity     = 1
    maxQuantity     = 6
    defaultQuantity = 2
)

// viewRef identifies the listing currently open in the detail view.
type viewRef struct {
    sectionID   string
    sectionName string
    row         string
    key         string
}

// Config describes a new practice session.
//
// Fields:
//  PlayerID         – owner of the session.
//  SectionIDs       – the venue's full set of section identifiers.
//  Quantity         – requested ticket quantity, clamped to 1..6.
//  Profile          – difficulty profile parameterizing everything.
//  CountdownSeconds – pre-onsale wait; 0 means a quick refresh.
//  Rand             – random source; nil seeds from the clock.
//  Tracker          – the player's session tracker.
type Config struct {
    PlayerID         string
    SectionIDs       []string
    Quantity         int
    Profile          model.DifficultyProfile
    CountdownSeconds int
    Rand             *rand.Rand
    Tracker          *Tracker
}

// Session owns all mutable state of one play-through: the available
// section set, the generated sections, the live listing catalog, the
// viewed listing and the three timers.  Every mutation happens under one
// lock, so a competitor tick and a hold expiry racing on the same listing
// serialize and the second invalidation becomes a no-op.
type Session struct {
    mu            sync.Mutex
    playerID      string
    rng           *rand.Rand
    profile       model.DifficultyProfile
    quantity      int
    allSectionIDs []string
    available     map[string]struct{}
    availableIDs  []string
    sections      []model.Section
    listings      []model.Listing
    viewed        *viewRef
    state         State

    bus       *Bus
    bot       *Competitor
    hold      *HoldTimer
    countdown *Countdown
    elapsed   repeater
    tracker   *Tracker

    countdownSeconds int
}

// NewSession builds a session in its pre-start state.  Call Start to begin
// the countdown (or the immediate onsale when no countdown was asked for).
func NewSession(cfg Config) *Session {
    rng := cfg.Rand
    if rng == nil {
        rng = rand.New(rand.NewSource(time.Now().UnixNano()))
    }
    q := cfg.Quantity
    if q == 0 {
        q = defaultQuantity
    }
    if q < minQuantity {
        q = minQuantity
    }
    if q > maxQuantity {
        q = maxQuantity
    }
    return &Session{
        playerID:         cfg.PlayerID,
        rng:              rng,
        profile:          cfg.Profile,
        quantity:         q,
        allSectionIDs:    append([]string(nil), cfg.SectionIDs...),
        state:            StateCountdown,
        bus:              NewBus(),
        bot:              NewCompetitor(),
        hold:             NewHoldTimer(),
        countdown:        NewCountdown(),
        tracker:          cfg.Tracker,
        countdownSeconds: cfg.CountdownSeconds,
    }
}

// Bus exposes the session's event stream for subscription.
func (s *Session) Bus() *Bus { return s.bus }

// PlayerID returns the owning player.
func (s *Session) PlayerID() string { return s.playerID }

// Start begins the session: with a positive countdown it enters the
// waiting state and ticks toward the onsale moment, otherwise the onsale
// starts immediately.
func (s *Session) Start() {
    if s.countdownSeconds > 0 {
        s.countdown.Start(s.countdownSeconds, s.onCountdownTick, s.startOnsale)
        return
    }
    s.startOnsale()
}

func (s *Session) onCountdownTick(remaining time.Duration) {
    s.bus.Publish(Event{Kind: EventCountdownTick, RemainingMillis: remaining.Milliseconds()})
}

// startOnsale flips the session live: it generates the catalog, starts the
// attempt clock, the competitor and the elapsed ticker.  Idempotent so a
// racing skip and countdown completion start exactly one onsale.
func (s *Session) startOnsale() {
    s.mu.Lock()
    if s.state != StateCountdown {
        s.mu.Unlock()
        return
    }
    s.state = StateActive
    s.generateCatalogLocked()
    listingCount := len(s.listings)
    sectionCount := len(s.availableIDs)
    s.mu.Unlock()

    s.tracker.StartAttempt(s.profile.Name)
    s.bus.Publish(Event{Kind: EventOnsaleStarted, Listings: listingCount, Sections: sectionCount})
    s.bot.Start(s.profile, s.competitorTick)
    s.elapsed.start(time.Second, func() {
        s.bus.Publish(Event{Kind: EventElapsedTick, ElapsedMillis: s.tracker.ElapsedMillis()})
    })
}

// generateCatalogLocked re-rolls availability, synthesizes the available
// sections and builds the listing catalog.
func (s *Session) generateCatalogLocked() {
    s.available = SelectAvailable(s.allSectionIDs, s.profile, s.rng)
    s.availableIDs = s.availableIDs[:0]
    s.sections = s.sections[:0]
    for _, id := range s.allSectionIDs {
        if _, ok := s.available[id]; !ok {
            continue
        }
        s.availableIDs = append(s.availableIDs, id)
        s.sections = append(s.sections, GenerateSection(id, s.rng))
    }
    s.listings = BuildListings(s.sections, s.quantity, s.rng)
}

// SkipCountdown ends the wait immediately and proceeds straight to the
// onsale start.
func (s *Session) SkipCountdown() error {
    s.mu.Lock()
    if s.state != StateCountdown {
        s.mu.Unlock()
        return ErrNoCountdown
    }
    s.mu.Unlock()

    s.countdown.Skip()
    return nil
}

// View opens a listing's detail: the hold timer starts and the listing is
// marked as the one the competitor can snipe.  Returns ErrListingGone when
// the listing has already been bought.
func (s *Session) View(sectionID, row string) (model.Listing, error) {
    s.mu.Lock()
    if s.state != StateActive {
        s.mu.Unlock()
        return model.Listing{}, ErrNotActive
    }
    key := sectionID + "-" + row
    listing, ok := s.findListingLocked(key)
    if !ok {
        s.mu.Unlock()
        return model.Listing{}, ErrListingGone
    }
    s.viewed = &viewRef{
        sectionID:   listing.SectionID,
        sectionName: listing.SectionName,
        row:         listing.Row,
        key:         key,
    }
    s.mu.Unlock()

    s.hold.Start(key, s.profile.HoldSeconds, s.onHoldTick, s.onHoldExpired)
    return listing, nil
}

// CloseView dismisses the detail view without penalty and stops the hold
// timer.
func (s *Session) CloseView() {
    s.mu.Lock()
    s.viewed = nil
    s.mu.Unlock()
    s.hold.Stop()
}

func (s *Session) onHoldTick(key string, remaining int, percent float64) {
    s.bus.Publish(Event{
        Kind:            EventHoldTick,
        RemainingMillis: int64(remaining) * 1000,
        Percent:         percent,
    })
}

// onHoldExpired treats an expired hold exactly like a competitor purchase
// of the viewed listing: the view is invalidated once.
func (s *Session) onHoldExpired(key string) {
    s.bus.Publish(Event{Kind: EventHoldExpired})

    s.mu.Lock()
    defer s.mu.Unlock()
    if s.viewed == nil || s.viewed.key != key {
        return
    }
    s.invalidateViewLocked("hold expired")
}

// Checkout completes the attempt with the currently viewed listing.  The
// listing must still exist; on success all timers stop, the purchase is
// recorded and the session ends.
func (s *Session) Checkout() (Outcome, error) {
    s.mu.Lock()
    if s.state != StateActive {
        s.mu.Unlock()
        return Outcome{}, ErrNotActive
    }
    if s.viewed == nil {
        s.mu.Unlock()
        return Outcome{}, ErrNoView
    }
    listing, ok := s.findListingLocked(s.viewed.key)
    if !ok {
        s.viewed = nil
        s.mu.Unlock()
        return Outcome{}, ErrListingGone
    }
    s.removeListingLocked(s.viewed.key)
    s.viewed = nil
    s.state = StateEnded
    quantity := s.quantity
    s.mu.Unlock()

    s.hold.Stop()
    s.bot.Stop()
    s.elapsed.stop()

    record := s.tracker.RecordSuccess(listing.SectionName, listing.Row, listing.Price, quantity)
    s.bus.Publish(Event{Kind: EventSessionUpdated, Listings: s.ListingCount(), Sections: s.SectionCount()})

    return Outcome{
        Record:    record,
        SectionID: listing.SectionID,
        Rating:    listing.Rating,
        HasAisle:  listing.Perks.Aisle,
    }, nil
}

// Outcome summarizes a successful checkout for the caller.
type Outcome struct {
    Record    model.PurchaseRecord
    SectionID string
    Rating    int
    HasAisle  bool
}

// SetQuantity rebuilds the listing catalog for a new ticket quantity.  The
// detail view, if open, is dismissed (a quantity change invalidates the
// block being looked at, though it is not a failure).
func (s *Session) SetQuantity(q int) int {
    if q < minQuantity {
        q = minQuantity
    }
    if q > maxQuantity {
        q = maxQuantity
    }

    s.mu.Lock()
    s.quantity = q
    if s.state == StateActive {
        s.listings = BuildListings(s.availableSectionsLocked(), q, s.rng)
        s.viewed = nil
        s.publishCatalogLocked()
    }
    s.mu.Unlock()

    s.hold.Stop()
    return q
}

// End terminates the session unconditionally: all three timers are
// cancelled so no orphaned tick can mutate a discarded catalog, and the
// event bus closes.  Idempotent.
func (s *Session) End() {
    s.countdown.Cancel()
    s.bot.Stop()
    s.hold.Stop()
    s.elapsed.stop()

    s.mu.Lock()
    s.state = StateEnded
    s.viewed = nil
    s.mu.Unlock()

    s.bus.Close()
}

// invalidateViewLocked clears the detail view and emits the invalidation
// signal exactly once; calling it with no view open is a no-op.  The
// session lock must be held.
func (s *Session) invalidateViewLocked(reason string) {
    if s.viewed == nil {
        return
    }
    v := s.viewed
    s.viewed = nil
    s.hold.Stop()
    s.bus.Publish(Event{
        Kind:        EventListingInvalidated,
        SectionID:   v.sectionID,
        SectionName: v.sectionName,
        Row:         v.row,
        Reason:      reason,
    })
    go s.tracker.RecordFailure(reason)
}

// findListingLocked looks a listing up by its section-row key.
func (s *Session) findListingLocked(key string) (model.Listing, bool) {
    for _, l := range s.listings {
        if l.Key() == key {
            return l, true
        }
    }
    return model.Listing{}, false
}

// removeListingLocked drops a listing from the catalog by key.
func (s *Session) removeListingLocked(key string) {
    for i, l := range s.listings {
        if l.Key() == key {
            s.listings = append(s.listings[:i], s.listings[i+1:]...)
            return
        }
    }
}

// sectionListingCountLocked counts the live listings of one section.
func (s *Session) sectionListingCountLocked(sectionID string) int {
    n := 0
    for _, l := range s.listings {
        if l.SectionID == sectionID {
            n++
        }
    }
    return n
}

// removeSectionLocked takes a section out of the available set.  Removal
// is idempotent: the sold-out signal fires only on the first call.
func (s *Session) removeSectionLocked(sectionID string) {
    if _, ok := s.available[sectionID]; !ok {
        return
    }
    delete(s.available, sectionID)
    for i, id := range s.availableIDs {
        if id == sectionID {
            s.availableIDs = append(s.availableIDs[:i], s.availableIDs[i+1:]...)
            break
        }
    }
    s.bot.addSectionGone()
    s.bus.Publish(Event{Kind: EventSectionSoldOut, SectionID: sectionID})
}

// availableSectionsLocked returns the generated sections still in the
// available set, in venue order.
func (s *Session) availableSectionsLocked() []model.Section {
    out := make([]model.Section, 0, len(s.availableIDs))
    for _, sec := range s.sections {
        if _, ok := s.available[sec.ID]; ok {
            out = append(out, sec)
        }
    }
    return out
}

// publishCatalogLocked announces the catalog's new shape.
func (s *Session) publishCatalogLocked() {
    s.bus.Publish(Event{
        Kind:     EventSessionUpdated,
        Listings: len(s.listings),
        Sections: len(s.availableIDs),
    })
}

// Listings returns a copy of the live listing sequence, price-ascending.
func (s *Session) Listings() []model.Listing {
    s.mu.Lock()
    defer s.mu.Unlock()
    return append([]model.Listing(nil), s.listings...)
}

// ListingCount reports the size of the live catalog.
func (s *Session) ListingCount() int {
    s.mu.Lock()
    defer s.mu.Unlock()
    return len(s.listings)
}

// SectionCount reports how many sections still have inventory.
func (s *Session) SectionCount() int {
    s.mu.Lock()
    defer s.mu.Unlock()
    return len(s.availableIDs)
}

// SectionSummary is the per-section view the map coloring needs.
type SectionSummary struct {
    ID          string `json:"id"`
    Name        string `json:"name"`
    Tier        string `json:"tier"`
    LowestPrice int    `json:"lowest_price"`
    Listings    int    `json:"listings"`
}

// SectionSummaries returns one summary per available section with its
// cheapest live listing price (base price when the section has inventory
// but no qualifying listing yet).
func (s *Session) SectionSummaries() []SectionSummary {
    s.mu.Lock()
    defer s.mu.Unlock()

    out := make([]SectionSummary, 0, len(s.availableIDs))
    for _, sec := range s.sections {
        if _, ok := s.available[sec.ID]; !ok {
            continue
        }
        sum := SectionSummary{ID: sec.ID, Name: sec.Name, Tier: sec.Tier, LowestPrice: sec.BasePrice}
        for _, l := range s.listings {
            if l.SectionID != sec.ID {
                continue
            }
            sum.Listings++
            if sum.Listings == 1 || l.Price < sum.LowestPrice {
                sum.LowestPrice = l.Price
            }
        }
        out = append(out, sum)
    }
    return out
}

// Histogram buckets the live listing prices for the price filter UI.
func (s *Session) Histogram() (counts []int, min, max int) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return PriceHistogram(s.listings)
}

// Snapshot is the point-in-time session summary handed to the client.
type Snapshot struct {
    State             State    `json:"state"`
    Difficulty        string   `json:"difficulty"`
    Quantity          int      `json:"quantity"`
    AvailableSections []string `json:"available_sections"`
    ListingCount      int      `json:"listing_count"`
    CountdownMillis   int64    `json:"countdown_ms"`
    ElapsedMillis     int64    `json:"elapsed_ms"`
    HoldRemaining     int      `json:"hold_remaining,omitempty"`
    ViewedSection     string   `json:"viewed_section,omitempty"`
    ViewedRow         string   `json:"viewed_row,omitempty"`
}

// Snapshot captures the session's current shape.
func (s *Session) Snapshot() Snapshot {
    s.mu.Lock()
    snap := Snapshot{
        State:             s.state,
        Difficulty:        s.profile.Name,
        Quantity:          s.quantity,
        AvailableSections: append([]string(nil), s.availableIDs...),
        ListingCount:      len(s.listings),
    }
    if s.viewed != nil {
        snap.ViewedSection = s.viewed.sectionID
        snap.ViewedRow = s.viewed.row
    }
    state := s.state
    s.mu.Unlock()

    if remaining, waiting := s.countdown.Remaining(); waiting {
        snap.CountdownMillis = remaining.Milliseconds()
    }
    if state == StateActive {
        snap.ElapsedMillis = s.tracker.ElapsedMillis()
        if remaining, counting := s.hold.Remaining(); counting {
            snap.HoldRemaining = remaining
        }
    }
    return snap
}
