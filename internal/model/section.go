package model

// SeatType tags a seat's position within its row.  The first and last seat
// of every row are aisle seats; everything between is standard.
const (
    SeatStandard = "standard"
    SeatAisle    = "aisle"
)

// Venue tier names.  The tier is derived purely from the shape of a section
// identifier; it decides the price band and nominal layout of the section.
const (
    TierFloor   = "floor"
    TierClub    = "club"
    Tier100     = "100"
    Tier200     = "200"
    Tier300     = "300"
    Tier400     = "400"
)

// Seat is one synthesized seat.  Seats are generated once at section
// creation and never mutated afterwards; erosion happens on listings, not
// on raw seats.
//
// Fields:
//  ID        – seat number within the row, as a string ("1", "2", ...).
//  Available – whether the seat counts toward contiguous listing runs.
//  Price     – integer dollar price for this seat.
//  Type      – SeatStandard or SeatAisle.
type Seat struct {
    ID        string `json:"id"`
    Available bool   `json:"available"`
    Price     int    `json:"price"`
    Type      string `json:"type"`
}

// Row belongs to exactly one section and holds an ordered run of seats.
//
// Fields:
//  ID            – row label ("A".."Z", then "AA1", "AA2", ...).
//  Seats         – ordered seats, seat 1 first.
//  ADAAccessible – the last row of each section is flagged accessible.
//  FrontRow      – row 1 of each section.
type Row struct {
    ID            string `json:"id"`
    Seats         []Seat `json:"seats"`
    ADAAccessible bool   `json:"ada_accessible"`
    FrontRow      bool   `json:"front_row"`
}

// Section is a purchasable block of the venue.  Sections are synthesized
// per refresh and are immutable except for removal from the available set.
//
// Fields:
//  ID        – section identifier, unique within the venue.
//  Name      – display name ("Section 112"); club sections drop the C prefix.
//  Tier      – venue tier derived from the identifier's shape.
//  Rows      – ordered rows, row 1 (front) first.
//  BasePrice – tier-band price the per-seat prices build on.
type Section struct {
    ID        string `json:"id"`
    Name      string `json:"name"`
    Tier      string `json:"tier"`
    Rows      []Row  `json:"rows"`
    BasePrice int    `json:"base_price"`
}
