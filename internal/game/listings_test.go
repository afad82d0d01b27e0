package game

import (
    "sort"
    "strconv"
    "testing"

    "github.com/iliyamo/onsale-practice/internal/model"
)

// makeRow builds a row from an availability mask, all seats at the same
// price.
func makeRow(t *testing.T, id string, price int, mask []bool) model.Row {
    t.Helper()
    seats := make([]model.Seat, len(mask))
    for i, avail := range mask {
        typ := model.SeatStandard
        if i == 0 || i == len(mask)-1 {
            typ = model.SeatAisle
        }
        seats[i] = model.Seat{ID: strconv.Itoa(i + 1), Available: avail, Price: price, Type: typ}
    }
    return model.Row{ID: id, Seats: seats}
}

func makeSection(t *testing.T, id string, rows ...model.Row) model.Section {
    t.Helper()
    return model.Section{ID: id, Name: "Section " + id, Tier: model.Tier100, Rows: rows, BasePrice: 100}
}

func TestBuildListingsOnePerQualifyingRow(t *testing.T) {
    sec := makeSection(t, "101",
        // Two separate runs of 2; only the first becomes a listing.
        makeRow(t, "A", 100, []bool{true, true, false, true, true}),
        // Run shorter than quantity: no listing.
        makeRow(t, "B", 90, []bool{true, false, true, false, true}),
        // Exact run at the end of the row.
        makeRow(t, "C", 80, []bool{false, false, false, true, true}),
    )

    listings := BuildListings([]model.Section{sec}, 2, testRand(1))
    if len(listings) != 2 {
        t.Fatalf("got %d listings, want 2", len(listings))
    }

    byRow := make(map[string]model.Listing, len(listings))
    for _, l := range listings {
        byRow[l.Row] = l
    }
    if a, ok := byRow["A"]; !ok || a.StartSeat != "1" {
        t.Fatalf("row A listing = %+v, want start seat 1", byRow["A"])
    }
    if c, ok := byRow["C"]; !ok || c.StartSeat != "4" {
        t.Fatalf("row C listing = %+v, want start seat 4", byRow["C"])
    }
    if _, ok := byRow["B"]; ok {
        t.Fatal("row B has no contiguous pair yet produced a listing")
    }
}

func TestBuildListingsPriceIsFlooredMean(t *testing.T) {
    row := makeRow(t, "A", 0, []bool{true, true, true})
    row.Seats[0].Price = 100
    row.Seats[1].Price = 101
    row.Seats[2].Price = 101
    sec := makeSection(t, "101", row)

    listings := BuildListings([]model.Section{sec}, 3, testRand(1))
    if len(listings) != 1 {
        t.Fatalf("got %d listings, want 1", len(listings))
    }
    // (100+101+101)/3 = 100.67 floors to 100.
    if listings[0].Price != 100 {
        t.Fatalf("price = %d, want floored mean 100", listings[0].Price)
    }
}

func TestBuildListingsSortedWithUniqueLowestPrice(t *testing.T) {
    rng := testRand(9)
    var sections []model.Section
    for i := 0; i < 12; i++ {
        sections = append(sections, GenerateSection(strconv.Itoa(100+i), rng))
    }

    listings := BuildListings(sections, 2, rng)
    if len(listings) == 0 {
        t.Fatal("no listings generated")
    }
    if !sort.SliceIsSorted(listings, func(i, j int) bool {
        return listings[i].Price < listings[j].Price
    }) {
        t.Fatal("listings are not price-ascending")
    }

    lowest := 0
    for _, l := range listings {
        if l.Perks.LowestPrice {
            lowest++
        }
        if l.Rating < 8 || l.Rating > 10 {
            t.Fatalf("rating %d outside 8..10", l.Rating)
        }
        if l.Quantity != 2 {
            t.Fatalf("quantity %d, want 2", l.Quantity)
        }
    }
    if lowest != 1 {
        t.Fatalf("%d listings flagged lowestPrice, want exactly 1", lowest)
    }
    if !listings[0].Perks.LowestPrice {
        t.Fatal("cheapest listing is not the one flagged")
    }
}

func TestBuildListingsAislePerk(t *testing.T) {
    sec := makeSection(t, "101",
        // Block includes seat 1 (aisle).
        makeRow(t, "A", 100, []bool{true, true, false, false, false}),
        // Interior block only.
        makeRow(t, "B", 100, []bool{false, true, true, false, false}),
    )
    listings := BuildListings([]model.Section{sec}, 2, testRand(1))
    if len(listings) != 2 {
        t.Fatalf("got %d listings, want 2", len(listings))
    }
    for _, l := range listings {
        switch l.Row {
        case "A":
            if !l.Perks.Aisle {
                t.Error("row A block touches the aisle but lacks the perk")
            }
        case "B":
            if l.Perks.Aisle {
                t.Error("row B interior block carries the aisle perk")
            }
        }
    }
}

func TestBuildListingsCountShrinksWithQuantity(t *testing.T) {
    rng := testRand(17)
    var sections []model.Section
    for i := 0; i < 20; i++ {
        sections = append(sections, GenerateSection(strconv.Itoa(300+i), rng))
    }

    prev := len(BuildListings(sections, 1, testRand(1)))
    for qty := 2; qty <= 6; qty++ {
        n := len(BuildListings(sections, qty, testRand(1)))
        if n > prev {
            t.Fatalf("quantity %d yields %d listings, more than %d at quantity %d", qty, n, prev, qty-1)
        }
        prev = n
    }
}

func TestBuildListingsEmptyInput(t *testing.T) {
    if got := BuildListings(nil, 2, testRand(1)); len(got) != 0 {
        t.Fatalf("empty input produced %d listings", len(got))
    }
}

func TestPriceHistogram(t *testing.T) {
    counts, min, max := PriceHistogram(nil)
    if counts != nil || min != 0 || max != 0 {
        t.Fatalf("empty histogram = (%v,%d,%d)", counts, min, max)
    }

    flat := []model.Listing{{Price: 50}, {Price: 50}, {Price: 50}}
    counts, min, max = PriceHistogram(flat)
    if min != 50 || max != 50 {
        t.Fatalf("flat bounds = (%d,%d)", min, max)
    }
    if counts[0] != 3 {
        t.Fatalf("flat prices not collapsed into bucket 0: %v", counts)
    }

    spread := []model.Listing{{Price: 100}, {Price: 400}, {Price: 700}, {Price: 700}}
    counts, min, max = PriceHistogram(spread)
    if min != 100 || max != 700 {
        t.Fatalf("spread bounds = (%d,%d)", min, max)
    }
    if len(counts) != histogramBuckets {
        t.Fatalf("bucket count %d, want %d", len(counts), histogramBuckets)
    }
    total := 0
    for _, c := range counts {
        total += c
    }
    if total != len(spread) {
        t.Fatalf("histogram counted %d listings, want %d", total, len(spread))
    }
    if counts[histogramBuckets-1] != 2 {
        t.Fatalf("max-price listings not in the last bucket: %v", counts)
    }
}
