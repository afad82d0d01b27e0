// Package queue defines message payloads exchanged over the message broker.
package queue

// PurchaseConfirmedEvent is published when a practice checkout completes.
// It carries enough for downstream consumers (leaderboards, analytics) to
// work without querying the primary database.
type PurchaseConfirmedEvent struct {
    PlayerID       string `json:"player_id"`
    Difficulty     string `json:"difficulty"`
    Section        string `json:"section"`
    Row            string `json:"row"`
    Price          int    `json:"price"`
    Quantity       int    `json:"quantity"`
    Rating         int    `json:"rating"`
    HasAisle       bool   `json:"has_aisle"`
    DurationMillis int64  `json:"duration_ms"`
    ConfirmedAt    string `json:"confirmed_at"`
}
