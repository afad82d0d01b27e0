package game

import "sync"

// EventKind enumerates every signal the simulation core can emit.  The
// presentation layer subscribes to these instead of polling game state.
type EventKind string

const (
    // EventCountdownTick fires once per second while waiting for onsale.
    EventCountdownTick EventKind = "countdown_tick"
    // EventOnsaleStarted fires when the countdown reaches zero (or is
    // skipped) and the catalog becomes interactive.
    EventOnsaleStarted EventKind = "onsale_started"
    // EventElapsedTick carries the attempt clock while a session is active.
    EventElapsedTick EventKind = "elapsed_tick"
    // EventHoldTick carries the remaining hold time for the viewed listing.
    EventHoldTick EventKind = "hold_tick"
    // EventHoldExpired fires when the viewed listing's hold runs out.
    EventHoldExpired EventKind = "hold_expired"
    // EventListingInvalidated fires when the viewed listing is gone, either
    // through hold expiry or a competitor purchase.  It is emitted at most
    // once per view.
    EventListingInvalidated EventKind = "listing_invalidated"
    // EventSectionSoldOut fires when a section loses its last listing.
    EventSectionSoldOut EventKind = "section_sold_out"
    // EventSessionUpdated fires whenever the live catalog changes shape.
    EventSessionUpdated EventKind = "session_updated"
)

// Event is one bus message.  Only the fields relevant to the kind are set.
type Event struct {
    Kind            EventKind `json:"kind"`
    SectionID       string    `json:"section_id,omitempty"`
    SectionName     string    `json:"section_name,omitempty"`
    Row             string    `json:"row,omitempty"`
    Reason          string    `json:"reason,omitempty"`
    RemainingMillis int64     `json:"remaining_ms,omitempty"`
    Percent         float64   `json:"percent,omitempty"`
    ElapsedMillis   int64     `json:"elapsed_ms,omitempty"`
    Listings        int       `json:"listings,omitempty"`
    Sections        int       `json:"sections,omitempty"`
}

// subscriber buffer depth.  A subscriber that falls further behind than
// this loses droppable events rather than blocking timer callbacks.
const busBuffer = 64

// droppable reports whether the kind may be discarded when a subscriber's
// buffer is full.  Tick and catalog-shape kinds recur, so a lagging
// subscriber catches up on the next one; the invalidation kinds fire once
// per view and must reach the subscriber.
func droppable(k EventKind) bool {
    switch k {
    case EventListingInvalidated, EventHoldExpired, EventSectionSoldOut:
        return false
    }
    return true
}

// Bus fans events out to any number of subscribers.  Publish never blocks:
// the competitor and timer goroutines must not stall on a slow SSE client.
type Bus struct {
    mu     sync.Mutex
    subs   map[int]chan Event
    nextID int
    closed bool
}

// NewBus returns an empty bus.
func NewBus() *Bus {
    return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a new subscriber and returns its channel together
// with an unsubscribe function.  The channel is closed on unsubscribe and
// when the bus itself closes.
func (b *Bus) Subscribe() (<-chan Event, func()) {
    b.mu.Lock()
    defer b.mu.Unlock()
    if b.closed {
        ch := make(chan Event)
        close(ch)
        return ch, func() {}
    }
    id := b.nextID
    b.nextID++
    ch := make(chan Event, busBuffer)
    b.subs[id] = ch
    return ch, func() {
        b.mu.Lock()
        defer b.mu.Unlock()
        if c, ok := b.subs[id]; ok {
            delete(b.subs, id)
            close(c)
        }
    }
}

// Publish delivers the event to every subscriber.  Droppable kinds are
// discarded for subscribers with no buffer room; the rest evict the
// subscriber's oldest buffered event until they fit, so Publish still
// never blocks on a slow SSE client.
func (b *Bus) Publish(ev Event) {
    b.mu.Lock()
    defer b.mu.Unlock()
    if b.closed {
        return
    }
    for _, ch := range b.subs {
        select {
        case ch <- ev:
            continue
        default:
        }
        if droppable(ev.Kind) {
            continue
        }
        // The bus lock keeps other publishers out, so the buffer only
        // shrinks here and the loop terminates.
        for delivered := false; !delivered; {
            select {
            case ch <- ev:
                delivered = true
            default:
                select {
                case <-ch:
                default:
                }
            }
        }
    }
}

// Close shuts the bus down and closes all subscriber channels.  Further
// publishes and subscribes are no-ops.
func (b *Bus) Close() {
    b.mu.Lock()
    defer b.mu.Unlock()
    if b.closed {
        return
    }
    b.closed = true
    for id, ch := range b.subs {
        delete(b.subs, id)
        close(ch)
    }
}
