package model

// ListingPerks are the badge flags rendered on a listing card.
//
// Fields:
//  Aisle       – at least one seat in the block is an aisle seat.
//  FrontRow    – the block sits in row 1 of its section.
//  BestDeal    – random 10% marketing flag assigned at build time.
//  LowestPrice – exactly one listing (the cheapest) carries this.
type ListingPerks struct {
    Aisle       bool `json:"aisle"`
    FrontRow    bool `json:"front_row"`
    BestDeal    bool `json:"best_deal"`
    LowestPrice bool `json:"lowest_price"`
}

// Listing is a sellable unit: the first contiguous block of exactly the
// requested ticket quantity within one row.  At most one listing exists per
// (section, row) pair for a given quantity.  Listings are derived data -
// they are rebuilt in bulk whenever the quantity or the catalog changes and
// are removed, never mutated, by the competitor simulator.
//
// Fields:
//  SectionID   – owning section identifier.
//  SectionName – display name of the owning section.
//  Row         – owning row label.
//  Quantity    – number of seats in the block.
//  StartSeat   – seat ID where the qualifying run begins.
//  Price       – floored mean of the block's seat prices.
//  Rating      – synthetic satisfaction score in [8,10].
//  Tier        – owning section's venue tier.
//  Perks       – badge flags.
type Listing struct {
    SectionID   string       `json:"section_id"`
    SectionName string       `json:"section_name"`
    Row         string       `json:"row"`
    Quantity    int          `json:"quantity"`
    StartSeat   string       `json:"start_seat"`
    Price       int          `json:"price"`
    Rating      int          `json:"rating"`
    Tier        string       `json:"tier"`
    Perks       ListingPerks `json:"perks"`
}

// Key returns the catalog key identifying this listing: section and row.
func (l Listing) Key() string {
    return l.SectionID + "-" + l.Row
}
