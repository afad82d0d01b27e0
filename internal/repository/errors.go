package repository

import "errors"

// Sentinel errors shared by the repositories.  Callers compare with
// errors.Is and translate to the appropriate HTTP status.
var (
    // ErrNoHandoff means no checkout handoff record exists for the player.
    ErrNoHandoff = errors.New("no checkout handoff record")
    // ErrNoSuccess means no completed-checkout record is waiting.
    ErrNoSuccess = errors.New("no checkout success record")
)
