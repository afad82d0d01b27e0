package game

import (
    "math/rand"
    "sort"

    "github.com/iliyamo/onsale-practice/internal/model"
)

// bestDealChance is the independent probability that a listing carries the
// bestDeal badge.
const bestDealChance = 0.1

// BuildListings collapses row/seat data into purchasable listings: for
// every row the first contiguous run of exactly qty available seats yields
// one listing priced at the floored mean of the run.  Rows without such a
// run yield nothing.  The result is sorted ascending by price (stable, so
// ties keep encounter order), the cheapest listing is flagged lowestPrice
// and each listing independently has a 10% chance of the bestDeal badge.
// The full sequence is recomputed whenever the quantity or the catalog
// changes; there is no incremental update.
func BuildListings(sections []model.Section, qty int, rng *rand.Rand) []model.Listing {
    var listings []model.Listing
    for _, section := range sections {
        for _, row := range section.Rows {
            if l, ok := rowListing(section, row, qty, rng); ok {
                listings = append(listings, l)
            }
        }
    }

    sort.SliceStable(listings, func(i, j int) bool {
        return listings[i].Price < listings[j].Price
    })
    if len(listings) > 0 {
        listings[0].Perks.LowestPrice = true
    }
    return listings
}

// rowListing scans a row left to right for the first run of qty contiguous
// available seats.  Later qualifying runs in the same row are ignored.
func rowListing(section model.Section, row model.Row, qty int, rng *rand.Rand) (model.Listing, bool) {
    run := 0
    for i, seat := range row.Seats {
        if !seat.Available {
            run = 0
            continue
        }
        run++
        if run < qty {
            continue
        }

        block := row.Seats[i-qty+1 : i+1]
        total := 0
        aisle := false
        for _, s := range block {
            total += s.Price
            if s.Type == model.SeatAisle {
                aisle = true
            }
        }

        return model.Listing{
            SectionID:   section.ID,
            SectionName: section.Name,
            Row:         row.ID,
            Quantity:    qty,
            StartSeat:   block[0].ID,
            Price:       total / qty,
            Rating:      8 + rng.Intn(3),
            Tier:        section.Tier,
            Perks: model.ListingPerks{
                Aisle:    aisle,
                FrontRow: row.FrontRow,
                BestDeal: rng.Float64() < bestDealChance,
            },
        }, true
    }
    return model.Listing{}, false
}

// histogramBuckets is the fixed resolution of the price histogram shown
// next to the price filter.
const histogramBuckets = 30

// PriceHistogram buckets listing prices into histogramBuckets equal-width
// bins and returns the counts with the observed min and max price.  An
// empty listing sequence yields a nil slice and zero bounds rather than an
// error; the caller renders a placeholder.
func PriceHistogram(listings []model.Listing) (counts []int, min, max int) {
    if len(listings) == 0 {
        return nil, 0, 0
    }
    min, max = listings[0].Price, listings[0].Price
    for _, l := range listings[1:] {
        if l.Price < min {
            min = l.Price
        }
        if l.Price > max {
            max = l.Price
        }
    }

    counts = make([]int, histogramBuckets)
    if max == min {
        counts[0] = len(listings)
        return counts, min, max
    }
    width := float64(max-min) / float64(histogramBuckets)
    for _, l := range listings {
        b := int(float64(l.Price-min) / width)
        if b >= histogramBuckets {
            b = histogramBuckets - 1
        }
        counts[b]++
    }
    return counts, min, max
}
