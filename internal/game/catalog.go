// Package game implements the simulation core of the onsale practice
// trainer: catalog generation, listing aggregation, the competitor
// simulator, hold and countdown timers, and session statistics.  Everything
// here is independent of the HTTP layer and takes an explicit random source
// so behaviour is reproducible under a fixed seed.
package game

import (
    "math"
    "math/rand"
    "strconv"
    "strings"

    "github.com/iliyamo/onsale-practice/internal/model"
)

// tierConfig supplies the price band and nominal layout for one venue tier.
type tierConfig struct {
    priceLo     int
    priceHi     int
    rows        int
    seatsPerRow int
}

// tierTable mirrors the stadium configuration the trainer simulates: floor
// sections are priciest, the 400 level is the cheapest and largest.
var tierTable = map[string]tierConfig{
    model.TierFloor: {priceLo: 800, priceHi: 2500, rows: 30, seatsPerRow: 20},
    model.TierClub:  {priceLo: 500, priceHi: 1000, rows: 10, seatsPerRow: 15},
    model.Tier100:   {priceLo: 400, priceHi: 800, rows: 22, seatsPerRow: 25},
    model.Tier200:   {priceLo: 300, priceHi: 500, rows: 15, seatsPerRow: 20},
    model.Tier300:   {priceLo: 200, priceHi: 400, rows: 17, seatsPerRow: 22},
    model.Tier400:   {priceLo: 100, priceHi: 250, rows: 30, seatsPerRow: 28},
}

// ClassifySection maps a section identifier to its venue tier.  Club codes
// ("C..." suffixed club boxes) are checked before the floor pattern so that
// a bare "C" still reads as a club box; single letters A-H and "GA..."
// general admission codes are floor; purely numeric identifiers bucket by
// hundreds range; anything else defaults to the cheapest tier.
func ClassifySection(id string) string {
    switch {
    case strings.HasPrefix(id, "C"):
        return model.TierClub
    case len(id) == 1 && id[0] >= 'A' && id[0] <= 'H':
        return model.TierFloor
    case strings.HasPrefix(id, "GA"):
        return model.TierFloor
    }
    n, err := strconv.Atoi(id)
    if err != nil {
        return model.Tier400
    }
    switch {
    case n >= 100 && n < 200:
        return model.Tier100
    case n >= 200 && n < 300:
        return model.Tier200
    case n >= 300 && n < 400:
        return model.Tier300
    default:
        return model.Tier400
    }
}

// SelectAvailable decides which sections have any inventory this session.
// It draws a fraction p uniformly from the profile's availability range,
// shuffles a copy of the identifiers and keeps the first floor(len*p).
// Every section has an equal marginal chance of inclusion.
func SelectAvailable(ids []string, profile model.DifficultyProfile, rng *rand.Rand) map[string]struct{} {
    r := profile.Availability
    p := r.Min + rng.Float64()*(r.Max-r.Min)
    n := int(math.Floor(float64(len(ids)) * p))

    shuffled := make([]string, len(ids))
    copy(shuffled, ids)
    rng.Shuffle(len(shuffled), func(i, j int) {
        shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
    })

    out := make(map[string]struct{}, n)
    for _, id := range shuffled[:n] {
        out[id] = struct{}{}
    }
    return out
}

// rowLabel converts a 1-based row index to its label: A..Z, then AA1, AA2...
func rowLabel(r int) string {
    if r <= 26 {
        return string(rune('A' + r - 1))
    }
    return "AA" + strconv.Itoa(r-26)
}

// layoutJitter returns the tier's nominal count shifted by -5..+4.
func layoutJitter(nominal int, rng *rand.Rand) int {
    return nominal - 5 + rng.Intn(10)
}

// GenerateSection synthesizes one section's rows, seats and prices.  The
// base price is drawn from the tier band; seat prices decrease toward the
// back: seats in row r cost base + (rowCount-r)*bandWidth/rowCount/2.  Each
// seat is independently available with 70% probability.  The first and
// last seat of every row are aisle seats; row 1 is the front row and the
// last row is ADA accessible.  Pure given rng.
func GenerateSection(id string, rng *rand.Rand) model.Section {
    tier := ClassifySection(id)
    cfg := tierTable[tier]

    basePrice := cfg.priceLo + rng.Intn(cfg.priceHi-cfg.priceLo)
    rowCount := layoutJitter(cfg.rows, rng)
    bandWidth := cfg.priceHi - cfg.priceLo

    rows := make([]model.Row, 0, rowCount)
    for r := 1; r <= rowCount; r++ {
        seatCount := layoutJitter(cfg.seatsPerRow, rng)
        price := basePrice + ((rowCount-r)*bandWidth)/(rowCount*2)
        seats := make([]model.Seat, 0, seatCount)
        for s := 1; s <= seatCount; s++ {
            typ := model.SeatStandard
            if s == 1 || s == seatCount {
                typ = model.SeatAisle
            }
            seats = append(seats, model.Seat{
                ID:        strconv.Itoa(s),
                Available: rng.Float64() > 0.3,
                Price:     price,
                Type:      typ,
            })
        }
        rows = append(rows, model.Row{
            ID:            rowLabel(r),
            Seats:         seats,
            ADAAccessible: r == rowCount,
            FrontRow:      r == 1,
        })
    }

    return model.Section{
        ID:        id,
        Name:      "Section " + strings.TrimPrefix(id, "C"),
        Tier:      tier,
        Rows:      rows,
        BasePrice: basePrice,
    }
}
