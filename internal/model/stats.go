package model

import "time"

// HistoryLimit caps the rolling purchase history at the 50 most recent
// records; older entries are dropped on append.
const HistoryLimit = 50

// PurchaseRecord is one successful practice checkout.
//
// Fields:
//  Timestamp      – wall-clock completion time.
//  DurationMillis – elapsed from onsale start to checkout.
//  Difficulty     – difficulty the attempt was played at.
//  Section        – purchased section display name.
//  Row            – purchased row label.
//  Price          – per-ticket price paid.
//  Quantity       – number of tickets.
type PurchaseRecord struct {
    Timestamp      time.Time `json:"timestamp"`
    DurationMillis int64     `json:"duration_ms"`
    Difficulty     string    `json:"difficulty"`
    Section        string    `json:"section"`
    Row            string    `json:"row"`
    Price          int       `json:"price"`
    Quantity       int       `json:"quantity"`
}

// DifficultyTally counts attempts and successes for one difficulty.
type DifficultyTally struct {
    Attempts  int `json:"attempts"`
    Successes int `json:"successes"`
}

// AllTimeStats is the durable per-player record.  Zero values mean "never
// recorded": BestTimeMillis 0, BestPrice 0 and BestSection "" are unset
// rather than real results (real durations and prices are always positive).
//
// Fields:
//  TotalAttempts  – refresh/onsale starts ever recorded.
//  TotalSuccesses – completed checkouts.
//  TotalFailures  – recorded failures (expiry, sellout, abandon).
//  BestTimeMillis – fastest successful checkout ever.
//  BestSection    – lowest-numbered section ever purchased.
//  BestPrice      – lowest per-ticket price ever paid.
//  AverageMillis  – running average duration over recorded successes.
//  TotalSpent     – sum of price*quantity over all successes.
//  History        – bounded purchase history, most recent first.
//  Difficulty     – per-difficulty attempt/success tallies.
type AllTimeStats struct {
    TotalAttempts  int                        `json:"total_attempts"`
    TotalSuccesses int                        `json:"total_successes"`
    TotalFailures  int                        `json:"total_failures"`
    BestTimeMillis int64                      `json:"best_time_ms"`
    BestSection    string                     `json:"best_section"`
    BestPrice      int                        `json:"best_price"`
    AverageMillis  float64                    `json:"average_ms"`
    TotalSpent     int                        `json:"total_spent"`
    History        []PurchaseRecord           `json:"history"`
    Difficulty     map[string]DifficultyTally `json:"difficulty"`
}

// NewAllTimeStats returns an empty record with the difficulty map seeded
// for every known difficulty, matching the persisted schema.
func NewAllTimeStats() AllTimeStats {
    d := make(map[string]DifficultyTally, len(difficultyOrder))
    for _, name := range difficultyOrder {
        d[name] = DifficultyTally{}
    }
    return AllTimeStats{Difficulty: d}
}

// SessionStats are the counters that reset with ResetSession and never
// touch the durable record.
//
// Fields:
//  Attempts     – attempts this session.
//  Successes    – successful checkouts this session.
//  Failures     – failures this session.
//  BestTimeMillis – fastest checkout this session (0 = unset).
//  LastPurchase – most recent success this session, if any.
type SessionStats struct {
    Attempts       int             `json:"attempts"`
    Successes      int             `json:"successes"`
    Failures       int             `json:"failures"`
    BestTimeMillis int64           `json:"best_time_ms"`
    LastPurchase   *PurchaseRecord `json:"last_purchase,omitempty"`
}

// PlayerSettings is the small JSON blob of sticky UI choices, the analog of
// the original profile-scoped settings record.
//
// Fields:
//  Difficulty      – selected difficulty name (validated on read).
//  BannerDismissed – whether the intro banner was closed.
type PlayerSettings struct {
    Difficulty      string `json:"difficulty"`
    BannerDismissed bool   `json:"banner_dismissed"`
}

// DefaultPlayerSettings is what a brand-new or unreadable settings record
// decodes to.
func DefaultPlayerSettings() PlayerSettings {
    return PlayerSettings{Difficulty: DifficultyMedium}
}

// CheckoutHandoff is the transient record handed to the separate checkout
// flow when the player proceeds from a listing, and read back on return.
//
// Fields mirror the listing detail the checkout page renders plus the
// attempt start time so the checkout page can show a live clock.
type CheckoutHandoff struct {
    StartedAt time.Time `json:"started_at"`
    Section   string    `json:"section"`
    Row       string    `json:"row"`
    Price     int       `json:"price"`
    Quantity  int       `json:"quantity"`
    Rating    int       `json:"rating"`
    HasAisle  bool      `json:"has_aisle"`
}
