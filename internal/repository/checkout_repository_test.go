package repository

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/iliyamo/onsale-practice/internal/model"
)

func TestCheckoutHandoffIsReadOnce(t *testing.T) {
    repo := NewCheckoutRepo(NewMemoryKV())
    ctx := context.Background()

    if _, err := repo.TakeHandoff(ctx, "p1"); !errors.Is(err, ErrNoHandoff) {
        t.Fatalf("empty take = %v, want ErrNoHandoff", err)
    }

    in := model.CheckoutHandoff{
        StartedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
        Section:   "Section 112",
        Row:       "C",
        Price:     420,
        Quantity:  2,
        Rating:    9,
        HasAisle:  true,
    }
    if err := repo.PutHandoff(ctx, "p1", in); err != nil {
        t.Fatalf("PutHandoff: %v", err)
    }

    got, err := repo.TakeHandoff(ctx, "p1")
    if err != nil {
        t.Fatalf("TakeHandoff: %v", err)
    }
    if !got.StartedAt.Equal(in.StartedAt) || got.Section != in.Section || got.Row != in.Row ||
        got.Price != in.Price || got.Quantity != in.Quantity || got.Rating != in.Rating || !got.HasAisle {
        t.Fatalf("handoff = %+v, want %+v", got, in)
    }

    // Consumed on read.
    if _, err := repo.TakeHandoff(ctx, "p1"); !errors.Is(err, ErrNoHandoff) {
        t.Fatalf("second take = %v, want ErrNoHandoff", err)
    }
}

func TestCheckoutHandoffMalformedRecordDropped(t *testing.T) {
    kv := NewMemoryKV()
    repo := NewCheckoutRepo(kv)
    ctx := context.Background()

    if err := kv.Set(ctx, "practice:checkout:p1", []byte("garbage"), 0); err != nil {
        t.Fatalf("Set: %v", err)
    }
    if _, err := repo.TakeHandoff(ctx, "p1"); !errors.Is(err, ErrNoHandoff) {
        t.Fatalf("malformed take = %v, want ErrNoHandoff", err)
    }
    // The broken record was also consumed.
    if _, ok, _ := kv.Get(ctx, "practice:checkout:p1"); ok {
        t.Fatal("malformed handoff left in the store")
    }
}

func TestCheckoutSuccessRoundTrip(t *testing.T) {
    repo := NewCheckoutRepo(NewMemoryKV())
    ctx := context.Background()

    if _, err := repo.TakeSuccess(ctx, "p1"); !errors.Is(err, ErrNoSuccess) {
        t.Fatalf("empty take = %v, want ErrNoSuccess", err)
    }

    rec := model.PurchaseRecord{
        Timestamp:      time.Date(2026, 8, 1, 10, 5, 0, 0, time.UTC),
        DurationMillis: 8200,
        Difficulty:     "hard",
        Section:        "Section 105",
        Row:            "B",
        Price:          510,
        Quantity:       2,
    }
    if err := repo.PutSuccess(ctx, "p1", rec); err != nil {
        t.Fatalf("PutSuccess: %v", err)
    }
    got, err := repo.TakeSuccess(ctx, "p1")
    if err != nil {
        t.Fatalf("TakeSuccess: %v", err)
    }
    if !got.Timestamp.Equal(rec.Timestamp) || got.Section != rec.Section || got.Price != rec.Price {
        t.Fatalf("success record = %+v", got)
    }
    if _, err := repo.TakeSuccess(ctx, "p1"); !errors.Is(err, ErrNoSuccess) {
        t.Fatalf("second take = %v, want ErrNoSuccess", err)
    }
}
