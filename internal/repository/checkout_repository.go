package repository

import (
    "context"
    "encoding/json"
    "fmt"
    "log"
    "time"

    "github.com/iliyamo/onsale-practice/internal/model"
)

// Storage keys for the cross-page checkout handoff.  The handoff record is
// written when the player proceeds from a listing to the separate checkout
// flow; the success record is written by that flow on completion so the
// simulator can show the summary.
const (
    handoffKey = "practice:checkout:%s"
    successKey = "practice:success:%s"

    // handoffTTL bounds how long an unconsumed handoff survives; an
    // abandoned checkout must not resurface days later.
    handoffTTL = 15 * time.Minute
    successTTL = time.Hour
)

// CheckoutRepo stores the transient records exchanged with the checkout
// flow.
type CheckoutRepo struct {
    kv KV
}

// NewCheckoutRepo returns a CheckoutRepo over the given KV store.
func NewCheckoutRepo(kv KV) *CheckoutRepo {
    return &CheckoutRepo{kv: kv}
}

// PutHandoff writes the handoff record the checkout page reads.
func (r *CheckoutRepo) PutHandoff(ctx context.Context, playerID string, h model.CheckoutHandoff) error {
    raw, err := json.Marshal(h)
    if err != nil {
        return err
    }
    return r.kv.Set(ctx, fmt.Sprintf(handoffKey, playerID), raw, handoffTTL)
}

// TakeHandoff reads and consumes the handoff record.  Returns ErrNoHandoff
// when none exists; a malformed record is dropped and reported the same
// way.
func (r *CheckoutRepo) TakeHandoff(ctx context.Context, playerID string) (model.CheckoutHandoff, error) {
    key := fmt.Sprintf(handoffKey, playerID)
    raw, ok, err := r.kv.Get(ctx, key)
    if err != nil {
        return model.CheckoutHandoff{}, err
    }
    if !ok {
        return model.CheckoutHandoff{}, ErrNoHandoff
    }
    _ = r.kv.Del(ctx, key)

    var h model.CheckoutHandoff
    if err := json.Unmarshal(raw, &h); err != nil {
        log.Printf("checkout: malformed handoff for %s dropped: %v", playerID, err)
        return model.CheckoutHandoff{}, ErrNoHandoff
    }
    return h, nil
}

// PutSuccess records a completed checkout for the simulator to pick up on
// return.
func (r *CheckoutRepo) PutSuccess(ctx context.Context, playerID string, rec model.PurchaseRecord) error {
    raw, err := json.Marshal(rec)
    if err != nil {
        return err
    }
    return r.kv.Set(ctx, fmt.Sprintf(successKey, playerID), raw, successTTL)
}

// TakeSuccess reads and consumes the success record, if any.
func (r *CheckoutRepo) TakeSuccess(ctx context.Context, playerID string) (model.PurchaseRecord, error) {
    key := fmt.Sprintf(successKey, playerID)
    raw, ok, err := r.kv.Get(ctx, key)
    if err != nil {
        return model.PurchaseRecord{}, err
    }
    if !ok {
        return model.PurchaseRecord{}, ErrNoSuccess
    }
    _ = r.kv.Del(ctx, key)

    var rec model.PurchaseRecord
    if err := json.Unmarshal(raw, &rec); err != nil {
        log.Printf("checkout: malformed success record for %s dropped: %v", playerID, err)
        return model.PurchaseRecord{}, ErrNoSuccess
    }
    return rec, nil
}
