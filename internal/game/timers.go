package game

import (
    "sync"
    "time"

    "github.com/iliyamo/onsale-practice/internal/model"
)

// repeater runs a function on a fixed period until stopped.  start and
// stop are idempotent; the callback is never invoked after stop returns
// observable effects because callers re-check their own state under their
// own lock.
type repeater struct {
    mu      sync.Mutex
    running bool
    cancel  chan struct{}
}

func (r *repeater) start(period time.Duration, fn func()) {
    r.mu.Lock()
    if r.running {
        r.mu.Unlock()
        return
    }
    r.running = true
    cancel := make(chan struct{})
    r.cancel = cancel
    r.mu.Unlock()

    go func() {
        t := time.NewTicker(period)
        defer t.Stop()
        for {
            select {
            case <-cancel:
                return
            case <-t.C:
                fn()
            }
        }
    }()
}

func (r *repeater) stop() {
    r.mu.Lock()
    defer r.mu.Unlock()
    if !r.running {
        return
    }
    r.running = false
    close(r.cancel)
}

// HoldTimer is the per-viewed-listing countdown.  States: inactive ->
// counting (on Start with a finite hold time) -> inactive (on Stop or
// expiry).  An unlimited hold never enters counting.  Ticks decrement once
// per second; tickPeriod is only shortened by tests.
type HoldTimer struct {
    mu         sync.Mutex
    running    bool
    cancel     chan struct{}
    remaining  int
    total      int
    key        string
    tickPeriod time.Duration
}

// NewHoldTimer returns an inactive hold timer.
func NewHoldTimer() *HoldTimer {
    return &HoldTimer{tickPeriod: time.Second}
}

// Start cancels any running countdown and begins a new one for the given
// listing key.  onTick receives the remaining seconds and percent of total
// after each decrement; onExpire fires once when the hold reaches zero.
// With seconds == model.HoldUnlimited the timer stays inactive.
func (h *HoldTimer) Start(listingKey string, seconds int, onTick func(key string, remaining int, percent float64), onExpire func(key string)) {
    h.Stop()
    if seconds == model.HoldUnlimited {
        return
    }

    h.mu.Lock()
    h.running = true
    h.remaining = seconds
    h.total = seconds
    h.key = listingKey
    cancel := make(chan struct{})
    h.cancel = cancel
    period := h.tickPeriod
    h.mu.Unlock()

    go func() {
        t := time.NewTicker(period)
        defer t.Stop()
        for {
            select {
            case <-cancel:
                return
            case <-t.C:
                h.mu.Lock()
                if !h.running {
                    h.mu.Unlock()
                    return
                }
                h.remaining--
                remaining := h.remaining
                percent := float64(remaining) / float64(h.total) * 100
                expired := remaining <= 0
                if expired {
                    h.running = false
                }
                h.mu.Unlock()

                if expired {
                    onExpire(listingKey)
                    return
                }
                onTick(listingKey, remaining, percent)
            }
        }
    }()
}

// Stop cancels the countdown and zeroes the remaining time.  Idempotent.
func (h *HoldTimer) Stop() {
    h.mu.Lock()
    defer h.mu.Unlock()
    if !h.running {
        return
    }
    h.running = false
    h.remaining = 0
    close(h.cancel)
}

// Remaining reports the seconds left and whether the timer is counting.
func (h *HoldTimer) Remaining() (int, bool) {
    h.mu.Lock()
    defer h.mu.Unlock()
    return h.remaining, h.running
}

// Countdown gates a session on a wall-clock onsale time.  States: idle ->
// waiting (counting down to the target) -> idle, firing onDone exactly
// once when the target is reached or the wait is skipped.
type Countdown struct {
    mu         sync.Mutex
    running    bool
    cancel     chan struct{}
    target     time.Time
    onDone     func()
    tickPeriod time.Duration
}

// NewCountdown returns an idle countdown.
func NewCountdown() *Countdown {
    return &Countdown{tickPeriod: time.Second}
}

// Start computes the absolute target time (now + seconds) and ticks at a
// 1-second cadence, reporting the remaining duration until the target.
// When the target is reached the countdown returns to idle and fires
// onDone.  Starting an already waiting countdown is a no-op.
func (cd *Countdown) Start(seconds int, onTick func(remaining time.Duration), onDone func()) {
    cd.mu.Lock()
    if cd.running {
        cd.mu.Unlock()
        return
    }
    cd.running = true
    cd.target = time.Now().Add(time.Duration(seconds) * time.Second)
    cd.onDone = onDone
    cancel := make(chan struct{})
    cd.cancel = cancel
    period := cd.tickPeriod
    cd.mu.Unlock()

    go func() {
        t := time.NewTicker(period)
        defer t.Stop()
        for {
            select {
            case <-cancel:
                return
            case <-t.C:
                cd.mu.Lock()
                if !cd.running {
                    cd.mu.Unlock()
                    return
                }
                remaining := time.Until(cd.target)
                done := remaining <= 0
                if done {
                    cd.running = false
                }
                cd.mu.Unlock()

                if done {
                    onDone()
                    return
                }
                onTick(remaining)
            }
        }
    }()
}

// Skip ends the wait immediately and proceeds to onsale: onDone fires as
// if the countdown had completed.  A no-op when idle.
func (cd *Countdown) Skip() {
    cd.mu.Lock()
    if !cd.running {
        cd.mu.Unlock()
        return
    }
    cd.running = false
    close(cd.cancel)
    done := cd.onDone
    cd.mu.Unlock()

    if done != nil {
        done()
    }
}

// Cancel ends the wait without triggering onsale.  Idempotent.
func (cd *Countdown) Cancel() {
    cd.mu.Lock()
    defer cd.mu.Unlock()
    if !cd.running {
        return
    }
    cd.running = false
    close(cd.cancel)
}

// Remaining reports the time left until onsale and whether a wait is
// active.
func (cd *Countdown) Remaining() (time.Duration, bool) {
    cd.mu.Lock()
    defer cd.mu.Unlock()
    if !cd.running {
        return 0, false
    }
    d := time.Until(cd.target)
    if d < 0 {
        d = 0
    }
    return d, true
}
