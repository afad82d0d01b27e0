package model

// Difficulty names form a fixed enumerated set.  Anything outside this set
// is mapped to DifficultyMedium by SelectDifficulty so a corrupted or stale
// saved setting can never break a session.
const (
    DifficultyEasy      = "easy"
    DifficultyMedium    = "medium"
    DifficultyHard      = "hard"
    DifficultyNightmare = "nightmare"
)

// HoldUnlimited marks a difficulty whose viewed listings never expire on
// their own.  The hold timer stays inactive for such profiles.
const HoldUnlimited = 0

// AvailabilityRange is the closed interval of the fraction of sections that
// receive any inventory when a catalog is generated.  Both bounds are in
// [0,1] with Min <= Max.
type AvailabilityRange struct {
    Min float64 `json:"min"`
    Max float64 `json:"max"`
}

// CompetitorAggressiveness bundles the per-tick erosion parameters of the
// simulated rival buyers.
//
// Fields:
//  BaseRemovals – listings targeted on every tick before the random extra.
//  MaxExtra     – upper bound (exclusive) of the random extra removals.
//  WipeChance   – probability per tick that one whole section sells out.
type CompetitorAggressiveness struct {
    BaseRemovals int     `json:"base_removals"`
    MaxExtra     int     `json:"max_extra"`
    WipeChance   float64 `json:"wipe_chance"`
}

// DifficultyProfile is one immutable row of the difficulty table.  It
// parameterizes catalog generation, the competitor simulator and the hold
// timer for every session played at that difficulty.
//
// Fields:
//  Name                – enumerated key (easy/medium/hard/nightmare).
//  Label               – human readable name for UI display.
//  Description         – one-line flavour text for the difficulty picker.
//  Availability        – fraction range of sections with inventory.
//  CompetitorEnabled   – whether the competitor simulator runs at all.
//  CompetitorTickMilli – period between competitor decay passes.
//  Aggressiveness      – per-tick removal counts and section wipe chance.
//  DisappearRate       – probability gate applied to each attempted removal.
//  HoldSeconds         – lifetime of a viewed listing; HoldUnlimited = none.
type DifficultyProfile struct {
    Name                string                   `json:"name"`
    Label               string                   `json:"label"`
    Description         string                   `json:"description"`
    Availability        AvailabilityRange        `json:"availability"`
    CompetitorEnabled   bool                     `json:"competitor_enabled"`
    CompetitorTickMilli int                      `json:"competitor_tick_ms"`
    Aggressiveness      CompetitorAggressiveness `json:"aggressiveness"`
    DisappearRate       float64                  `json:"disappear_rate"`
    HoldSeconds         int                      `json:"hold_seconds"`
}

// difficultyTable is the canonical profile set.  Values merge the two app
// variants that shipped side by side: availability ranges and hold times
// from the settings module, competitor cadence and erosion parameters from
// the in-page table.
var difficultyTable = map[string]DifficultyProfile{
    DifficultyEasy: {
        Name:         DifficultyEasy,
        Label:        "Easy",
        Description:  "Practice mode - learn the interface, no competition",
        Availability: AvailabilityRange{Min: 0.65, Max: 0.80},
        HoldSeconds:  HoldUnlimited,
    },
    DifficultyMedium: {
        Name:                DifficultyMedium,
        Label:               "Medium",
        Description:         "Some tickets sell out while browsing",
        Availability:        AvailabilityRange{Min: 0.45, Max: 0.60},
        CompetitorEnabled:   true,
        CompetitorTickMilli: 2000,
        Aggressiveness:      CompetitorAggressiveness{BaseRemovals: 1, MaxExtra: 2, WipeChance: 0.03},
        DisappearRate:       0.08,
        HoldSeconds:         60,
    },
    DifficultyHard: {
        Name:                DifficultyHard,
        Label:               "Hard",
        Description:         "High demand event, tickets go fast",
        Availability:        AvailabilityRange{Min: 0.25, Max: 0.40},
        CompetitorEnabled:   true,
        CompetitorTickMilli: 1000,
        Aggressiveness:      CompetitorAggressiveness{BaseRemovals: 2, MaxExtra: 3, WipeChance: 0.08},
        DisappearRate:       0.15,
        HoldSeconds:         30,
    },
    DifficultyNightmare: {
        Name:                DifficultyNightmare,
        Label:               "Nightmare",
        Description:         "Stadium onsale day - thousands competing",
        Availability:        AvailabilityRange{Min: 0.10, Max: 0.20},
        CompetitorEnabled:   true,
        CompetitorTickMilli: 500,
        Aggressiveness:      CompetitorAggressiveness{BaseRemovals: 3, MaxExtra: 5, WipeChance: 0.15},
        DisappearRate:       0.25,
        HoldSeconds:         15,
    },
}

// difficultyOrder fixes the display order for the difficulty picker.
var difficultyOrder = []string{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyNightmare}

// SelectDifficulty returns the profile for the given name.  Unknown names
// fall back to medium; the second return reports whether the name was a
// known key so callers can normalize what they persist.
func SelectDifficulty(name string) (DifficultyProfile, bool) {
    if p, ok := difficultyTable[name]; ok {
        return p, true
    }
    return difficultyTable[DifficultyMedium], false
}

// AllDifficulties returns the profiles in picker order.  The slice is a
// fresh copy on every call; the table itself is never handed out mutably.
func AllDifficulties() []DifficultyProfile {
    out := make([]DifficultyProfile, 0, len(difficultyOrder))
    for _, name := range difficultyOrder {
        out = append(out, difficultyTable[name])
    }
    return out
}
